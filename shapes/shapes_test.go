package shapes

import (
	"testing"

	"github.com/notargets/expmap/halfedge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPlatonicSolids(t *testing.T) {
	for name, tc := range map[string]struct {
		soup       halfedge.Soup
		nv, ne, nf int
	}{
		"tetrahedron": {Tetrahedron(), 4, 6, 4},
		"octahedron":  {Octahedron(), 6, 12, 8},
		"icosahedron": {Icosahedron(), 12, 30, 20},
	} {
		m, err := halfedge.Build(tc.soup)
		require.NoError(t, err, name)
		assert.Len(t, m.Vertices, tc.nv, name)
		assert.Len(t, m.Edges, tc.ne, name)
		assert.Len(t, m.Faces, tc.nf, name)
		assert.Empty(t, m.Boundaries, name)
		assert.Equal(t, 2, m.EulerCharacteristic(), name)
		for _, p := range tc.soup.Positions {
			assert.InDelta(t, 1, r3.Norm(p), 1e-12, name)
		}
	}
}

func TestIcosahedronAntipodes(t *testing.T) {
	pos := Icosahedron().Positions
	for i, p := range pos {
		assert.InDelta(t, 0, r3.Norm(r3.Add(p, pos[i^3])), 1e-12, "vertex %d", i)
	}
}

func TestGrid(t *testing.T) {
	soup, err := Grid(3, 2)
	require.NoError(t, err)
	assert.Len(t, soup.Positions, 12)
	assert.Len(t, soup.Faces, 12)
	assert.Equal(t, r3.Vec{X: 1, Y: 1}, soup.Positions[11])
	assert.Equal(t, r3.Vec{X: 1.0 / 3}, soup.Positions[1])

	m, err := halfedge.Build(soup)
	require.NoError(t, err)
	assert.Len(t, m.Boundaries, 1)
	assert.Equal(t, 1, m.EulerCharacteristic())

	_, err = Grid(0, 4)
	assert.Error(t, err)
}

func TestIcosphere(t *testing.T) {
	for n, want := range []int{12, 42, 162} {
		soup := Icosphere(n)
		assert.Len(t, soup.Positions, want)
		assert.Len(t, soup.Faces, 20<<(2*n))
		m, err := halfedge.Build(soup)
		require.NoError(t, err)
		assert.Equal(t, 2, m.EulerCharacteristic())
		for _, p := range soup.Positions {
			assert.InDelta(t, 1, r3.Norm(p), 1e-12)
		}
	}
}

func TestSubdivideRejectsPolygons(t *testing.T) {
	_, err := Subdivide(halfedge.Soup{
		Positions: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Faces:     [][]int{{0, 1, 2, 3}},
	})
	assert.ErrorIs(t, err, ErrNotTriangles)
}
