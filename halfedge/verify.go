package halfedge

import "fmt"

// Verify checks the connectivity invariants of a built mesh and returns the
// first violation found.
func (m *Mesh) Verify() error {
	nh := len(m.Halfedges)
	inRange := func(i, n int) bool { return i >= 0 && i < n }

	for h, he := range m.Halfedges {
		if he.Index != h {
			return fmt.Errorf("halfedge %d carries index %d", h, he.Index)
		}
		if !inRange(he.Twin, nh) || !inRange(he.Next, nh) || !inRange(he.Prev, nh) {
			return fmt.Errorf("halfedge %d has a dangling link", h)
		}
		if m.Halfedges[he.Twin].Twin != h || he.Twin == h {
			return fmt.Errorf("halfedge %d is not its twin's twin", h)
		}
		if m.Halfedges[he.Next].Prev != h || m.Halfedges[he.Prev].Next != h {
			return fmt.Errorf("halfedge %d next/prev links disagree", h)
		}
		if m.Halfedges[he.Twin].Edge != he.Edge {
			return fmt.Errorf("halfedge %d and its twin own different edges", h)
		}
		if m.Halfedges[he.Twin].Vertex != m.Head(h) {
			return fmt.Errorf("halfedge %d twin does not start at its head", h)
		}
		if he.OnBoundary {
			if !inRange(he.Face, len(m.Boundaries)) || he.Corner != -1 {
				return fmt.Errorf("boundary halfedge %d has bad face or corner", h)
			}
			if m.Halfedges[he.Twin].OnBoundary {
				return fmt.Errorf("edge %d has two boundary halfedges", he.Edge)
			}
		} else if !inRange(he.Face, len(m.Faces)) || !inRange(he.Corner, len(m.Corners)) {
			return fmt.Errorf("halfedge %d has bad face or corner", h)
		}
	}

	for e, ed := range m.Edges {
		if !inRange(ed.Halfedge, nh) || m.Halfedges[ed.Halfedge].Edge != e {
			return fmt.Errorf("edge %d does not own its halfedge", e)
		}
	}
	for v, vx := range m.Vertices {
		if !inRange(vx.Halfedge, nh) || m.Halfedges[vx.Halfedge].Vertex != v {
			return fmt.Errorf("vertex %d does not own its halfedge", v)
		}
	}
	for c, cr := range m.Corners {
		if !inRange(cr.Halfedge, nh) || m.Halfedges[cr.Halfedge].Corner != c {
			return fmt.Errorf("corner %d does not own its halfedge", c)
		}
	}

	checkLoops := func(kind string, faces []Face, boundary bool) error {
		for f, fc := range faces {
			if fc.BoundaryLoop != boundary || !inRange(fc.Halfedge, nh) {
				return fmt.Errorf("%s %d has a bad halfedge", kind, f)
			}
			n := 0
			for h := range m.loop(fc.Halfedge, true) {
				he := m.Halfedges[h]
				if he.Face != f || he.OnBoundary != boundary {
					return fmt.Errorf("%s %d cycle leaves the face at halfedge %d", kind, f, h)
				}
				n++
			}
			if m.Halfedges[m.walk(fc.Halfedge, n)].Index != fc.Halfedge {
				return fmt.Errorf("%s %d cycle does not close after %d steps", kind, f, n)
			}
		}
		return nil
	}
	if err := checkLoops("face", m.Faces, false); err != nil {
		return err
	}
	return checkLoops("boundary loop", m.Boundaries, true)
}

// walk follows Next n times from h.
func (m *Mesh) walk(h, n int) int {
	for ; n > 0; n-- {
		h = m.Halfedges[h].Next
	}
	return h
}
