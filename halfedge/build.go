package halfedge

import "fmt"

// Build constructs a mesh from soup. It fails on isolated vertices, isolated
// faces, non-manifold vertices or edges, and faces whose orientation
// disagrees with a neighbour.
func Build(soup Soup) (*Mesh, error) {
	m := &Mesh{}
	if err := m.build(soup); err != nil {
		return nil, err
	}
	return m, nil
}

// Build rebuilds m from soup and reports success. A failed build leaves m
// empty.
func (m *Mesh) Build(soup Soup) bool {
	return m.build(soup) == nil
}

func (m *Mesh) build(soup Soup) (err error) {
	defer func() {
		if err != nil {
			*m = Mesh{}
		}
	}()
	*m = Mesh{}

	nv := len(soup.Positions)
	for fi, face := range soup.Faces {
		if err := checkFace(fi, face, nv); err != nil {
			return err
		}
	}

	m.Vertices = make([]Vertex, nv)
	for i := range m.Vertices {
		m.Vertices[i] = Vertex{Halfedge: -1, Index: i}
	}

	type edgeKey struct{ lo, hi int }
	existing := make(map[edgeKey]int)
	edgeCount := make(map[edgeKey]int)

	// Face halfedges, twins and edges
	for fi, face := range soup.Faces {
		base, deg := len(m.Halfedges), len(face)
		m.Faces = append(m.Faces, Face{Halfedge: base, Index: fi})
		for j := 0; j < deg; j++ {
			m.Halfedges = append(m.Halfedges, Halfedge{Twin: -1, Corner: -1, Index: base + j})
		}
		for j := 0; j < deg; j++ {
			i, k := face[j], face[(j+1)%deg]
			h := base + j
			he := &m.Halfedges[h]
			he.Next = base + (j+1)%deg
			he.Prev = base + (j+deg-1)%deg
			he.Vertex = i
			he.Face = fi
			m.Vertices[i].Halfedge = h

			key := edgeKey{min(i, k), max(i, k)}
			if t, ok := existing[key]; ok {
				edgeCount[key]++
				if edgeCount[key] > 2 {
					return fmt.Errorf("%w: edge (%d,%d) is shared by more than two faces", ErrNonManifoldEdge, key.lo, key.hi)
				}
				if m.Halfedges[t].Vertex == i {
					return fmt.Errorf("%w: faces %d and %d traverse edge (%d,%d) in the same direction",
						ErrInconsistentOrientation, m.Halfedges[t].Face, fi, i, k)
				}
				he.Twin = t
				he.Edge = m.Halfedges[t].Edge
				m.Halfedges[t].Twin = h
				continue
			}
			e := len(m.Edges)
			m.Edges = append(m.Edges, Edge{Halfedge: h, Index: e})
			he.Edge = e
			existing[key] = h
			edgeCount[key] = 1
		}
	}

	// Boundary loops close off every halfedge still missing a twin
	nInterior := len(m.Halfedges)
	hasTwin := make([]bool, nInterior)
	for h := range hasTwin {
		hasTwin[h] = m.Halfedges[h].Twin >= 0
	}
	for h := 0; h < nInterior; h++ {
		if hasTwin[h] {
			continue
		}
		b := len(m.Boundaries)
		var cycle []int
		he := h
		for {
			next := m.Halfedges[he].Next
			for steps := 0; hasTwin[next]; steps++ {
				if steps > nInterior {
					return fmt.Errorf("%w: boundary walk does not close at vertex %d", ErrNonManifoldVertex, m.Halfedges[next].Vertex)
				}
				next = m.Halfedges[m.Halfedges[next].Twin].Next
			}
			bh := len(m.Halfedges)
			m.Halfedges = append(m.Halfedges, Halfedge{
				Vertex:     m.Halfedges[next].Vertex,
				Edge:       m.Halfedges[he].Edge,
				Face:       b,
				Corner:     -1,
				Twin:       he,
				OnBoundary: true,
				Index:      bh,
			})
			m.Halfedges[he].Twin = bh
			cycle = append(cycle, bh)
			he = next
			if he == h {
				break
			}
			if len(cycle) > nInterior {
				return fmt.Errorf("%w: boundary loop through halfedge %d does not close", ErrNonManifoldVertex, h)
			}
		}
		n := len(cycle)
		for j, bh := range cycle {
			m.Halfedges[bh].Next = cycle[(j+n-1)%n]
			m.Halfedges[bh].Prev = cycle[(j+1)%n]
			hasTwin[m.Halfedges[bh].Twin] = true
		}
		m.Boundaries = append(m.Boundaries, Face{Halfedge: cycle[0], Index: b, BoundaryLoop: true})
	}

	for h := 0; h < nInterior; h++ {
		c := len(m.Corners)
		m.Corners = append(m.Corners, Corner{Halfedge: h, Index: c})
		m.Halfedges[h].Corner = c
	}

	if v := m.isolatedVertex(); v >= 0 {
		return fmt.Errorf("%w: vertex %d", ErrIsolatedVertex, v)
	}
	if f := m.isolatedFace(); f >= 0 {
		return fmt.Errorf("%w: face %d", ErrIsolatedFace, f)
	}
	if v := m.nonManifoldVertex(); v >= 0 {
		return fmt.Errorf("%w: vertex %d", ErrNonManifoldVertex, v)
	}
	return nil
}

func checkFace(fi int, face []int, nv int) error {
	if len(face) < 3 {
		return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidFace, fi, len(face))
	}
	for j, v := range face {
		if v < 0 || v >= nv {
			return fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidFace, fi, v, nv)
		}
		for _, w := range face[:j] {
			if w == v {
				return fmt.Errorf("%w: face %d repeats vertex %d", ErrInvalidFace, fi, v)
			}
		}
	}
	return nil
}

func (m *Mesh) isolatedVertex() int {
	for v := range m.Vertices {
		if m.IsIsolated(v) {
			return v
		}
	}
	return -1
}

// isolatedFace finds a face all of whose edges lie on the boundary.
func (m *Mesh) isolatedFace() int {
	for f := range m.Faces {
		isolated := true
		for h := range m.FaceHalfedges(f, true) {
			if !m.Halfedges[m.Halfedges[h].Twin].OnBoundary {
				isolated = false
				break
			}
		}
		if isolated {
			return f
		}
	}
	return -1
}

// nonManifoldVertex finds a vertex whose single halfedge fan misses some of
// the faces and boundary loops that reference it.
func (m *Mesh) nonManifoldVertex() int {
	incident := make([]int, len(m.Vertices))
	for f := range m.Faces {
		for v := range m.FaceVertices(f, true) {
			incident[v]++
		}
	}
	for b := range m.Boundaries {
		for v := range m.BoundaryVertices(b, true) {
			incident[v]++
		}
	}
	for v, n := range incident {
		if n != m.Degree(v) {
			return v
		}
	}
	return -1
}
