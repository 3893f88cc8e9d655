// Package halfedge builds half-edge connectivity from polygon soups.
//
// All elements live in arenas owned by Mesh and refer to each other by
// index. A halfedge h runs from its Vertex (the tail) to
// Halfedges[h.Next].Vertex. Boundary edges are closed off by boundary-loop
// faces stored in Mesh.Boundaries; halfedges on those loops have OnBoundary
// set and their Face field indexes Boundaries instead of Faces.
package halfedge

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrInvalidFace             = errors.New("halfedge: invalid face")
	ErrIsolatedVertex          = errors.New("halfedge: isolated vertex")
	ErrIsolatedFace            = errors.New("halfedge: isolated face")
	ErrNonManifoldVertex       = errors.New("halfedge: non-manifold vertex")
	ErrNonManifoldEdge         = errors.New("halfedge: non-manifold edge")
	ErrInconsistentOrientation = errors.New("halfedge: inconsistent face orientation")
)

type Vertex struct {
	Halfedge int // an outgoing halfedge, -1 when isolated
	Index    int
}

type Edge struct {
	Halfedge int
	Index    int
}

// Face is either a real polygon or a boundary loop.
type Face struct {
	Halfedge     int
	Index        int
	BoundaryLoop bool
}

// Corner is the corner opposite its halfedge, at Halfedges[Halfedge.Prev].Vertex.
type Corner struct {
	Halfedge int
	Index    int
}

type Halfedge struct {
	Vertex     int // tail
	Edge       int
	Face       int // into Faces, or into Boundaries when OnBoundary
	Corner     int // -1 when OnBoundary
	Twin       int
	Next       int
	Prev       int
	OnBoundary bool
	Index      int
}

// Soup is a polygon soup: vertex positions and per-face vertex index lists
// of arbitrary degree.
type Soup struct {
	Positions []r3.Vec
	Faces     [][]int
}

// TriangleSoup splits a flattened triangle index list into faces.
func TriangleSoup(positions []r3.Vec, indices []int) (Soup, error) {
	if len(indices)%3 != 0 {
		return Soup{}, fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidFace, len(indices))
	}
	faces := make([][]int, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		faces = append(faces, []int{indices[i], indices[i+1], indices[i+2]})
	}
	return Soup{Positions: positions, Faces: faces}, nil
}

// Mesh owns every element arena.
type Mesh struct {
	Vertices   []Vertex
	Edges      []Edge
	Faces      []Face
	Corners    []Corner
	Halfedges  []Halfedge
	Boundaries []Face
}

// IndexElements returns the identity assignment of n elements onto [0,n).
func IndexElements(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// EulerCharacteristic is |V| - |E| + |F|, boundary loops excluded.
func (m *Mesh) EulerCharacteristic() int {
	return len(m.Vertices) - len(m.Edges) + len(m.Faces)
}

// Head returns the vertex halfedge h points to.
func (m *Mesh) Head(h int) int {
	return m.Halfedges[m.Halfedges[h].Next].Vertex
}

// Degree counts the outgoing halfedges of v, boundary ones included.
func (m *Mesh) Degree(v int) int {
	n := 0
	for range m.VertexHalfedges(v, true) {
		n++
	}
	return n
}

func (m *Mesh) IsIsolated(v int) bool {
	return m.Vertices[v].Halfedge < 0
}

func (m *Mesh) VertexOnBoundary(v int) bool {
	for h := range m.VertexHalfedges(v, true) {
		if m.Halfedges[h].OnBoundary {
			return true
		}
	}
	return false
}

func (m *Mesh) EdgeOnBoundary(e int) bool {
	h := m.Edges[e].Halfedge
	return m.Halfedges[h].OnBoundary || m.Halfedges[m.Halfedges[h].Twin].OnBoundary
}

// FaceDegree counts the sides of face f.
func (m *Mesh) FaceDegree(f int) int {
	n := 0
	for range m.FaceHalfedges(f, true) {
		n++
	}
	return n
}

func (m *Mesh) CornerVertex(c int) int {
	return m.Halfedges[m.Halfedges[m.Corners[c].Halfedge].Prev].Vertex
}

func (m *Mesh) CornerFace(c int) int {
	return m.Halfedges[m.Corners[c].Halfedge].Face
}

func (m *Mesh) CornerNext(c int) int {
	return m.Halfedges[m.Halfedges[m.Corners[c].Halfedge].Next].Corner
}

func (m *Mesh) CornerPrev(c int) int {
	return m.Halfedges[m.Halfedges[m.Corners[c].Halfedge].Prev].Corner
}

// String returns a summary of the element counts.
func (m *Mesh) String() string {
	var sb strings.Builder
	sb.WriteString("=== Halfedge Mesh Summary ===\n")
	sb.WriteString(fmt.Sprintf("  Vertices: %d\n", len(m.Vertices)))
	sb.WriteString(fmt.Sprintf("  Edges: %d\n", len(m.Edges)))
	sb.WriteString(fmt.Sprintf("  Faces: %d\n", len(m.Faces)))
	sb.WriteString(fmt.Sprintf("  Corners: %d\n", len(m.Corners)))
	sb.WriteString(fmt.Sprintf("  Halfedges: %d\n", len(m.Halfedges)))
	sb.WriteString(fmt.Sprintf("  Boundary loops: %d\n", len(m.Boundaries)))
	sb.WriteString(fmt.Sprintf("  Euler characteristic: %d\n", m.EulerCharacteristic()))
	if len(m.Vertices) > 0 {
		minDeg, maxDeg := len(m.Halfedges), 0
		for v := range m.Vertices {
			d := m.Degree(v)
			minDeg, maxDeg = min(minDeg, d), max(maxDeg, d)
		}
		sb.WriteString(fmt.Sprintf("  Vertex degree range: [%d, %d]\n", minDeg, maxDeg))
	}
	sb.WriteString("=============================\n")
	return sb.String()
}
