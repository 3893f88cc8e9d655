// Package shapes generates small outward-oriented polygon soups used as test
// and demo meshes.
package shapes

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/expmap/halfedge"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrNotTriangles = errors.New("shapes: soup has non-triangular faces")

func triangles(pos []r3.Vec, idx []int) halfedge.Soup {
	soup, err := halfedge.TriangleSoup(pos, idx)
	if err != nil {
		panic(err)
	}
	return soup
}

func unitize(pos []r3.Vec) []r3.Vec {
	for i, p := range pos {
		pos[i] = r3.Unit(p)
	}
	return pos
}

// Icosahedron returns the regular icosahedron inscribed in the unit sphere.
// Vertex i is antipodal to vertex i^3.
func Icosahedron() halfedge.Soup {
	t := (1 + math.Sqrt(5)) / 2
	pos := unitize([]r3.Vec{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	})
	return triangles(pos, []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	})
}

func Tetrahedron() halfedge.Soup {
	pos := unitize([]r3.Vec{
		{X: 1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1},
	})
	return triangles(pos, []int{2, 1, 0, 0, 3, 2, 1, 3, 0, 2, 3, 1})
}

func Octahedron() halfedge.Soup {
	pos := []r3.Vec{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	return triangles(pos, []int{
		0, 2, 4, 0, 4, 3, 0, 3, 5, 0, 5, 2,
		1, 2, 5, 1, 5, 3, 1, 3, 4, 1, 4, 2,
	})
}

// Grid triangulates the unit square in the z=0 plane with nx by ny cells,
// two triangles per cell, facing +z. Vertex (i, j) has index j*(nx+1)+i.
func Grid(nx, ny int) (halfedge.Soup, error) {
	if nx < 1 || ny < 1 {
		return halfedge.Soup{}, fmt.Errorf("shapes: grid needs at least one cell per side, got %d×%d", nx, ny)
	}
	pos := make([]r3.Vec, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			pos = append(pos, r3.Vec{X: float64(i) / float64(nx), Y: float64(j) / float64(ny)})
		}
	}
	id := func(i, j int) int { return j*(nx+1) + i }
	idx := make([]int, 0, 6*nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			a, b, c, d := id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)
			idx = append(idx, a, b, c, a, c, d)
		}
	}
	return triangles(pos, idx), nil
}

// Subdivide splits every triangle into four at its edge midpoints. Midpoints
// are shared between neighbouring faces.
func Subdivide(soup halfedge.Soup) (halfedge.Soup, error) {
	pos := make([]r3.Vec, len(soup.Positions), len(soup.Positions)+3*len(soup.Faces)/2)
	copy(pos, soup.Positions)

	mid := make(map[[2]int]int)
	midpoint := func(a, b int) int {
		key := [2]int{min(a, b), max(a, b)}
		if v, ok := mid[key]; ok {
			return v
		}
		v := len(pos)
		pos = append(pos, r3.Scale(0.5, r3.Add(pos[a], pos[b])))
		mid[key] = v
		return v
	}

	faces := make([][]int, 0, 4*len(soup.Faces))
	for fi, f := range soup.Faces {
		if len(f) != 3 {
			return halfedge.Soup{}, fmt.Errorf("%w: face %d has %d vertices", ErrNotTriangles, fi, len(f))
		}
		a, b, c := f[0], f[1], f[2]
		ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
		faces = append(faces,
			[]int{a, ab, ca},
			[]int{ab, b, bc},
			[]int{ca, bc, c},
			[]int{ab, bc, ca},
		)
	}
	return halfedge.Soup{Positions: pos, Faces: faces}, nil
}

// Icosphere subdivides the icosahedron n times, projecting onto the unit
// sphere after each pass.
func Icosphere(n int) halfedge.Soup {
	soup := Icosahedron()
	for range n {
		next, err := Subdivide(soup)
		if err != nil {
			panic(err)
		}
		next.Positions = unitize(next.Positions)
		soup = next
	}
	return soup
}
