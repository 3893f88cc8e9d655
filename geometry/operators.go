package geometry

import (
	"fmt"

	"github.com/notargets/expmap/linalg"
)

// laplaceShift keeps the Laplacian strictly positive definite.
const laplaceShift = 1e-8

func (g *Geometry) checkIndex(index []int) error {
	nv := len(g.Mesh.Vertices)
	if len(index) != nv {
		return fmt.Errorf("%w: %d entries for %d vertices", ErrBadIndex, len(index), nv)
	}
	seen := make([]bool, nv)
	for v, i := range index {
		if i < 0 || i >= nv || seen[i] {
			return fmt.Errorf("%w: vertex %d maps to %d", ErrBadIndex, v, i)
		}
		seen[i] = true
	}
	return nil
}

// LaplaceMatrix builds the positive semi-definite cotangent Laplacian, shifted
// by a small multiple of the identity. Row and column of vertex v are
// index[v].
func (g *Geometry) LaplaceMatrix(index []int) (*linalg.SparseMatrix, error) {
	if err := g.checkIndex(index); err != nil {
		return nil, err
	}
	m := g.Mesh
	nv := len(m.Vertices)
	t := linalg.NewTriplet(nv, nv)
	for v := range m.Vertices {
		i := index[v]
		sum := laplaceShift
		for h := range m.VertexHalfedges(v, true) {
			j := index[m.Head(h)]
			w := 0.5 * (g.Cotan(h) + g.Cotan(m.Halfedges[h].Twin))
			sum += w
			t.AddEntry(-w, i, j)
		}
		t.AddEntry(sum, i, i)
	}
	return linalg.FromTriplet(t), nil
}

// MassMatrix is the diagonal matrix of barycentric dual areas.
func (g *Geometry) MassMatrix(index []int) (*linalg.SparseMatrix, error) {
	if err := g.checkIndex(index); err != nil {
		return nil, err
	}
	nv := len(g.Mesh.Vertices)
	t := linalg.NewTriplet(nv, nv)
	for v := range g.Mesh.Vertices {
		t.AddEntry(g.BarycentricDualArea(v), index[v], index[v])
	}
	return linalg.FromTriplet(t), nil
}
