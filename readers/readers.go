// Package readers loads polygon soups from Wavefront OBJ and OFF files.
package readers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/expmap/halfedge"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrUnknownFormat = errors.New("readers: unknown mesh file format")

// ReadMeshFile reads path as OBJ or OFF depending on its extension.
func ReadMeshFile(path string) (halfedge.Soup, error) {
	var read func(io.Reader) (halfedge.Soup, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		read = ReadOBJ
	case ".off":
		read = ReadOFF
	default:
		return halfedge.Soup{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return halfedge.Soup{}, err
	}
	defer f.Close()
	soup, err := read(bufio.NewReader(f))
	if err != nil {
		return halfedge.Soup{}, fmt.Errorf("%s: %w", path, err)
	}
	return soup, nil
}

// ReadOBJ reads the v and f records of an OBJ stream. Face indices may be
// 1-based or negative (relative to the vertices read so far), and may carry
// texture and normal references, which are dropped.
func ReadOBJ(r io.Reader) (halfedge.Soup, error) {
	var soup halfedge.Soup
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(stripComment(sc.Text()))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			p, err := parseVec(fields[1:])
			if err != nil {
				return halfedge.Soup{}, fmt.Errorf("line %d: %w", line, err)
			}
			soup.Positions = append(soup.Positions, p)
		case "f":
			if len(fields) < 4 {
				return halfedge.Soup{}, fmt.Errorf("line %d: face has %d vertices", line, len(fields)-1)
			}
			face := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				ref, _, _ := strings.Cut(tok, "/")
				i, err := strconv.Atoi(ref)
				if err != nil || i == 0 {
					return halfedge.Soup{}, fmt.Errorf("line %d: bad vertex reference %q", line, tok)
				}
				if i < 0 {
					i += len(soup.Positions)
				} else {
					i--
				}
				if i < 0 || i >= len(soup.Positions) {
					return halfedge.Soup{}, fmt.Errorf("line %d: vertex reference %q out of range", line, tok)
				}
				face = append(face, i)
			}
			soup.Faces = append(soup.Faces, face)
		}
	}
	if err := sc.Err(); err != nil {
		return halfedge.Soup{}, err
	}
	return soup, nil
}

// ReadOFF reads an OFF stream: the OFF keyword, a vertex/face/edge count
// line, the vertex coordinates and the faces as a degree followed by
// 0-based indices.
func ReadOFF(r io.Reader) (halfedge.Soup, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() ([]string, error) {
		for sc.Scan() {
			line++
			if f := strings.Fields(stripComment(sc.Text())); len(f) > 0 {
				return f, nil
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}

	fields, err := next()
	if err != nil {
		return halfedge.Soup{}, err
	}
	if fields[0] != "OFF" {
		return halfedge.Soup{}, fmt.Errorf("line %d: missing OFF header", line)
	}
	// The counts may share the header line.
	counts := fields[1:]
	if len(counts) == 0 {
		if counts, err = next(); err != nil {
			return halfedge.Soup{}, err
		}
	}
	if len(counts) < 2 {
		return halfedge.Soup{}, fmt.Errorf("line %d: missing element counts", line)
	}
	nv, err1 := strconv.Atoi(counts[0])
	nf, err2 := strconv.Atoi(counts[1])
	if err := errors.Join(err1, err2); err != nil || nv < 0 || nf < 0 {
		return halfedge.Soup{}, fmt.Errorf("line %d: bad element counts %v", line, counts)
	}

	soup := halfedge.Soup{
		Positions: make([]r3.Vec, 0, nv),
		Faces:     make([][]int, 0, nf),
	}
	for range nv {
		if fields, err = next(); err != nil {
			return halfedge.Soup{}, err
		}
		p, err := parseVec(fields)
		if err != nil {
			return halfedge.Soup{}, fmt.Errorf("line %d: %w", line, err)
		}
		soup.Positions = append(soup.Positions, p)
	}
	for range nf {
		if fields, err = next(); err != nil {
			return halfedge.Soup{}, err
		}
		deg, err := strconv.Atoi(fields[0])
		if err != nil || deg < 3 || len(fields) < deg+1 {
			return halfedge.Soup{}, fmt.Errorf("line %d: bad face record", line)
		}
		face := make([]int, deg)
		for j := range face {
			i, err := strconv.Atoi(fields[j+1])
			if err != nil || i < 0 || i >= nv {
				return halfedge.Soup{}, fmt.Errorf("line %d: bad vertex index %q", line, fields[j+1])
			}
			face[j] = i
		}
		soup.Faces = append(soup.Faces, face)
	}
	return soup, nil
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

func parseVec(fields []string) (r3.Vec, error) {
	if len(fields) < 3 {
		return r3.Vec{}, fmt.Errorf("vertex has %d coordinates", len(fields))
	}
	var xyz [3]float64
	for i := range xyz {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("bad coordinate %q", fields[i])
		}
		xyz[i] = x
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
