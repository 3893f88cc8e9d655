package halfedge

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func icosahedron() Soup {
	t := (1 + math.Sqrt(5)) / 2
	pos := []r3.Vec{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	idx := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	soup, err := TriangleSoup(pos, idx)
	if err != nil {
		panic(err)
	}
	return soup
}

// square returns a unit square split into four triangles around a center
// vertex, so it has one interior vertex and one boundary loop.
func square() Soup {
	return Soup{
		Positions: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}, {X: 0.5, Y: 0.5}},
		Faces:     [][]int{{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}},
	}
}

func TestBuildIcosahedron(t *testing.T) {
	m, err := Build(icosahedron())
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 12)
	assert.Len(t, m.Edges, 30)
	assert.Len(t, m.Faces, 20)
	assert.Len(t, m.Corners, 60)
	assert.Len(t, m.Halfedges, 60)
	assert.Empty(t, m.Boundaries)
	assert.Equal(t, 2, m.EulerCharacteristic())
	require.NoError(t, m.Verify())

	for v := range m.Vertices {
		assert.Equal(t, 5, m.Degree(v))
		assert.False(t, m.VertexOnBoundary(v))
	}
	for f := range m.Faces {
		assert.Equal(t, 3, m.FaceDegree(f))
	}
}

func TestBuildWithBoundary(t *testing.T) {
	m, err := Build(square())
	require.NoError(t, err)
	require.NoError(t, m.Verify())

	assert.Len(t, m.Edges, 8)
	assert.Len(t, m.Boundaries, 1)
	assert.Len(t, m.Corners, 12)
	assert.Len(t, m.Halfedges, 16)
	assert.Equal(t, 1, m.EulerCharacteristic())

	loop := slices.Collect(m.BoundaryVertices(0, true))
	assert.Len(t, loop, 4)
	assert.NotContains(t, loop, 4)

	assert.False(t, m.VertexOnBoundary(4))
	for v := 0; v < 4; v++ {
		assert.True(t, m.VertexOnBoundary(v))
		assert.Equal(t, 3, m.Degree(v))
	}
	nb := 0
	for e := range m.Edges {
		if m.EdgeOnBoundary(e) {
			nb++
		}
	}
	assert.Equal(t, 4, nb)
}

func TestPolygonFaces(t *testing.T) {
	// A cube made of quads.
	soup := Soup{
		Positions: make([]r3.Vec, 8),
		Faces: [][]int{
			{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4},
			{1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
		},
	}
	m, err := Build(soup)
	require.NoError(t, err)
	require.NoError(t, m.Verify())
	assert.Equal(t, 2, m.EulerCharacteristic())
	assert.Len(t, m.Edges, 12)
	for f := range m.Faces {
		assert.Equal(t, 4, m.FaceDegree(f))
		assert.Len(t, slices.Collect(m.FaceFaces(f, true)), 4)
	}
}

func TestAdjacency(t *testing.T) {
	m, err := Build(square())
	require.NoError(t, err)

	ccw := slices.Collect(m.VertexVertices(4, true))
	cw := slices.Collect(m.VertexVertices(4, false))
	require.Len(t, ccw, 4)
	require.Len(t, cw, 4)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, ccw)
	// Both orders start at the same halfedge and then run opposite ways.
	assert.Equal(t, ccw[0], cw[0])
	assert.Equal(t, ccw[1], cw[3])
	assert.Equal(t, ccw[3], cw[1])

	assert.Len(t, slices.Collect(m.VertexFaces(4, true)), 4)
	assert.Len(t, slices.Collect(m.VertexFaces(0, true)), 2)
	assert.Len(t, slices.Collect(m.VertexCorners(0, true)), 2)
	assert.Len(t, slices.Collect(m.VertexEdges(0, true)), 3)

	for c := range m.VertexCorners(4, true) {
		assert.Equal(t, 4, m.CornerVertex(c))
	}
	for f := range m.Faces {
		verts := slices.Collect(m.FaceVertices(f, true))
		corners := slices.Collect(m.FaceCorners(f, true))
		require.Len(t, corners, len(verts))
		for i, c := range corners {
			assert.Equal(t, verts[i], m.CornerVertex(c))
			assert.Equal(t, f, m.CornerFace(c))
			assert.Equal(t, c, m.CornerPrev(m.CornerNext(c)))
		}
		// Every square face has one boundary edge, so two real neighbours.
		assert.Len(t, slices.Collect(m.FaceFaces(f, true)), 2)
		assert.Len(t, slices.Collect(m.FaceEdges(f, false)), 3)
	}

	// Sequences are restartable and stop early on request.
	seq := m.VertexHalfedges(4, true)
	assert.Equal(t, slices.Collect(seq), slices.Collect(seq))
	n := 0
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestHeadTwin(t *testing.T) {
	m, err := Build(icosahedron())
	require.NoError(t, err)
	for h, he := range m.Halfedges {
		assert.Equal(t, m.Head(h), m.Halfedges[he.Twin].Vertex)
		assert.Equal(t, he.Vertex, m.Head(he.Twin))
	}
}

func TestBuildFailures(t *testing.T) {
	pos := make([]r3.Vec, 7)
	cases := []struct {
		name  string
		soup  Soup
		error error
	}{
		{"short face", Soup{Positions: pos, Faces: [][]int{{0, 1}}}, ErrInvalidFace},
		{"out of range", Soup{Positions: pos[:3], Faces: [][]int{{0, 1, 3}}}, ErrInvalidFace},
		{"repeated vertex", Soup{Positions: pos[:3], Faces: [][]int{{0, 1, 1}}}, ErrInvalidFace},
		{"isolated vertex", Soup{Positions: pos[:5], Faces: [][]int{{0, 1, 2}, {0, 2, 3}}}, ErrIsolatedVertex},
		{"isolated face", Soup{Positions: pos[:3], Faces: [][]int{{0, 1, 2}}}, ErrIsolatedFace},
		{"non-manifold edge", Soup{Positions: pos[:5], Faces: [][]int{{0, 1, 2}, {1, 0, 3}, {0, 1, 4}}}, ErrNonManifoldEdge},
		{"flipped face", Soup{Positions: pos[:4], Faces: [][]int{{0, 1, 2}, {0, 1, 3}}}, ErrInconsistentOrientation},
		{"bowtie vertex", Soup{Positions: pos, Faces: [][]int{{0, 1, 2}, {0, 2, 3}, {0, 4, 5}, {0, 5, 6}}}, ErrNonManifoldVertex},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.soup)
			assert.ErrorIs(t, err, tc.error)

			var m Mesh
			assert.False(t, m.Build(tc.soup))
			assert.Empty(t, m.Halfedges)
			assert.Empty(t, m.Vertices)
		})
	}

	var m Mesh
	assert.True(t, m.Build(icosahedron()))
	assert.Len(t, m.Faces, 20)
}

func TestTriangleSoup(t *testing.T) {
	_, err := TriangleSoup(nil, []int{0, 1})
	assert.ErrorIs(t, err, ErrInvalidFace)

	soup, err := TriangleSoup(make([]r3.Vec, 4), []int{0, 1, 2, 0, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}}, soup.Faces)
}

func TestVerifyDetectsCorruption(t *testing.T) {
	m, err := Build(icosahedron())
	require.NoError(t, err)
	m.Halfedges[3].Next = m.Halfedges[3].Prev
	assert.Error(t, m.Verify())
}

func TestString(t *testing.T) {
	m, err := Build(icosahedron())
	require.NoError(t, err)
	s := m.String()
	assert.Contains(t, s, "Vertices: 12")
	assert.Contains(t, s, "Euler characteristic: 2")
	assert.Contains(t, s, "Vertex degree range: [5, 5]")
	assert.Equal(t, []int{0, 1, 2}, IndexElements(3))
}

// torus triangulates an n×n grid with both sides glued.
func torus(n int) Soup {
	const R, r = 2.0, 0.5
	var s Soup
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			u, v := 2*math.Pi*float64(i)/float64(n), 2*math.Pi*float64(j)/float64(n)
			s.Positions = append(s.Positions, r3.Vec{
				X: (R + r*math.Cos(v)) * math.Cos(u),
				Y: (R + r*math.Cos(v)) * math.Sin(u),
				Z: r * math.Sin(v),
			})
		}
	}
	id := func(i, j int) int { return (j%n)*n + i%n }
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a, b, c, d := id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)
			s.Faces = append(s.Faces, []int{a, b, c}, []int{a, c, d})
		}
	}
	return s
}

func TestGenerators(t *testing.T) {
	m, err := Build(icosahedron())
	require.NoError(t, err)
	assert.Empty(t, m.Generators())

	m, err = Build(square())
	require.NoError(t, err)
	assert.Nil(t, m.Generators())

	m, err = Build(torus(4))
	require.NoError(t, err)
	assert.Equal(t, 0, m.EulerCharacteristic())
	gens := m.Generators()
	require.Len(t, gens, 2)
	for _, gen := range gens {
		require.NotEmpty(t, gen)
		// A dual loop enters and leaves every face it touches.
		touched := make(map[int]int)
		edges := make(map[int]bool)
		for _, h := range gen {
			he := m.Halfedges[h]
			assert.False(t, edges[he.Edge], "edge %d crossed twice", he.Edge)
			edges[he.Edge] = true
			touched[he.Face]++
			touched[m.Halfedges[he.Twin].Face]++
		}
		for f, n := range touched {
			assert.Equal(t, 0, n%2, "face %d", f)
		}
	}
	assert.NotEqual(t, m.Halfedges[gens[0][0]].Edge, m.Halfedges[gens[1][0]].Edge)
}
