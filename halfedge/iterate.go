package halfedge

import "iter"

// The adjacency queries below return finite sequences rooted at the pivot
// element's own halfedge. Each sequence stops when the walk returns to that
// halfedge and can be ranged over any number of times. Walks are capped at
// the halfedge count so a half-built mesh cannot loop forever.

// VertexHalfedges yields the outgoing halfedges of v.
func (m *Mesh) VertexHalfedges(v int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		start := m.Vertices[v].Halfedge
		if start < 0 {
			return
		}
		h := start
		for n := 0; n < len(m.Halfedges); n++ {
			if !yield(h) {
				return
			}
			if ccw {
				h = m.Halfedges[m.Halfedges[h].Twin].Next
			} else {
				h = m.Halfedges[m.Halfedges[h].Prev].Twin
			}
			if h == start {
				return
			}
		}
	}
}

// VertexVertices yields the neighbours of v.
func (m *Mesh) VertexVertices(v int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for h := range m.VertexHalfedges(v, ccw) {
			if !yield(m.Halfedges[m.Halfedges[h].Twin].Vertex) {
				return
			}
		}
	}
}

func (m *Mesh) VertexEdges(v int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for h := range m.VertexHalfedges(v, ccw) {
			if !yield(m.Halfedges[h].Edge) {
				return
			}
		}
	}
}

// VertexFaces yields the real faces around v, skipping boundary loops.
func (m *Mesh) VertexFaces(v int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for h := range m.VertexHalfedges(v, ccw) {
			if m.Halfedges[h].OnBoundary {
				continue
			}
			if !yield(m.Halfedges[h].Face) {
				return
			}
		}
	}
}

// VertexCorners yields the corners of v, one per real incident face.
func (m *Mesh) VertexCorners(v int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for h := range m.VertexHalfedges(v, ccw) {
			if m.Halfedges[h].OnBoundary {
				continue
			}
			if !yield(m.Halfedges[m.Halfedges[h].Next].Corner) {
				return
			}
		}
	}
}

func (m *Mesh) loop(start int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		h := start
		for n := 0; n < len(m.Halfedges); n++ {
			if !yield(h) {
				return
			}
			if ccw {
				h = m.Halfedges[h].Next
			} else {
				h = m.Halfedges[h].Prev
			}
			if h == start {
				return
			}
		}
	}
}

// FaceHalfedges yields the halfedges of face f in cycle order.
func (m *Mesh) FaceHalfedges(f int, ccw bool) iter.Seq[int] {
	return m.loop(m.Faces[f].Halfedge, ccw)
}

func (m *Mesh) FaceVertices(f int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for h := range m.FaceHalfedges(f, ccw) {
			if !yield(m.Halfedges[h].Vertex) {
				return
			}
		}
	}
}

func (m *Mesh) FaceEdges(f int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for h := range m.FaceHalfedges(f, ccw) {
			if !yield(m.Halfedges[h].Edge) {
				return
			}
		}
	}
}

// FaceFaces yields the real faces sharing an edge with f.
func (m *Mesh) FaceFaces(f int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for h := range m.FaceHalfedges(f, ccw) {
			twin := m.Halfedges[m.Halfedges[h].Twin]
			if twin.OnBoundary {
				continue
			}
			if !yield(twin.Face) {
				return
			}
		}
	}
}

// FaceCorners yields the corners of f in the same order as FaceVertices.
func (m *Mesh) FaceCorners(f int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for h := range m.FaceHalfedges(f, ccw) {
			if !yield(m.Halfedges[m.Halfedges[h].Next].Corner) {
				return
			}
		}
	}
}

// BoundaryHalfedges yields the halfedges of boundary loop b.
func (m *Mesh) BoundaryHalfedges(b int, ccw bool) iter.Seq[int] {
	return m.loop(m.Boundaries[b].Halfedge, ccw)
}

func (m *Mesh) BoundaryVertices(b int, ccw bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for h := range m.BoundaryHalfedges(b, ccw) {
			if !yield(m.Halfedges[h].Vertex) {
				return
			}
		}
	}
}
