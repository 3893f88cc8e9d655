// Package geometry evaluates discrete differential quantities on a halfedge
// mesh with vertex positions: lengths, areas, angles, normals, curvatures and
// the cotangent Laplace and mass matrices.
//
// Every method is a pure read of the mesh and positions, so one Geometry can
// be queried from several goroutines at once.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/expmap/halfedge"
	"github.com/notargets/expmap/linalg"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrPositionCount = errors.New("geometry: position count does not match vertex count")
	ErrBadIndex      = errors.New("geometry: vertex index is not a bijection")
)

type Geometry struct {
	Mesh      *halfedge.Mesh
	positions []r3.Vec
	center    r3.Vec
	radius    float64
}

// New binds positions to mesh. With normalize set the positions are
// recentered on their mean and scaled so the farthest vertex lies at radius
// one; Center and Scale report what was removed.
func New(mesh *halfedge.Mesh, positions []r3.Vec, normalize bool) (*Geometry, error) {
	if len(positions) != len(mesh.Vertices) {
		return nil, fmt.Errorf("%w: %d positions for %d vertices", ErrPositionCount, len(positions), len(mesh.Vertices))
	}
	g := &Geometry{
		Mesh:      mesh,
		positions: make([]r3.Vec, len(positions)),
		radius:    1,
	}
	copy(g.positions, positions)
	if normalize && len(positions) > 0 {
		g.normalize()
	}
	return g, nil
}

func (g *Geometry) normalize() {
	var c r3.Vec
	for _, p := range g.positions {
		c = r3.Add(c, p)
	}
	c = r3.Scale(1/float64(len(g.positions)), c)

	var radius float64
	for i, p := range g.positions {
		g.positions[i] = r3.Sub(p, c)
		radius = math.Max(radius, r3.Norm(g.positions[i]))
	}
	if radius == 0 {
		radius = 1
	}
	for i, p := range g.positions {
		g.positions[i] = r3.Scale(1/radius, p)
	}
	g.center, g.radius = c, radius
}

// Position returns the position of vertex v.
func (g *Geometry) Position(v int) r3.Vec { return g.positions[v] }

// Positions returns a copy of every vertex position.
func (g *Geometry) Positions() []r3.Vec {
	out := make([]r3.Vec, len(g.positions))
	copy(out, g.positions)
	return out
}

// Center is the mean removed by normalization, zero otherwise.
func (g *Geometry) Center() r3.Vec { return g.center }

// Scale is the radius divided out by normalization, one otherwise.
func (g *Geometry) Scale() float64 { return g.radius }

// BoundingRadius is the largest distance of a vertex from the origin.
func (g *Geometry) BoundingRadius() float64 {
	var r float64
	for _, p := range g.positions {
		r = math.Max(r, r3.Norm(p))
	}
	return r
}

// Vector returns head minus tail of halfedge h.
func (g *Geometry) Vector(h int) r3.Vec {
	m := g.Mesh
	return r3.Sub(g.positions[m.Head(h)], g.positions[m.Halfedges[h].Vertex])
}

func (g *Geometry) Length(e int) float64 {
	return r3.Norm(g.Vector(g.Mesh.Edges[e].Halfedge))
}

func (g *Geometry) Midpoint(e int) r3.Vec {
	h := g.Mesh.Edges[e].Halfedge
	a := g.positions[g.Mesh.Halfedges[h].Vertex]
	b := g.positions[g.Mesh.Head(h)]
	return r3.Scale(0.5, r3.Add(a, b))
}

func (g *Geometry) MeanEdgeLength() float64 {
	if len(g.Mesh.Edges) == 0 {
		return 0
	}
	var sum float64
	for e := range g.Mesh.Edges {
		sum += g.Length(e)
	}
	return sum / float64(len(g.Mesh.Edges))
}

// faceSpan returns the two edge vectors leaving the tail of the face's root
// halfedge.
func (g *Geometry) faceSpan(f int) (u, v r3.Vec) {
	h := g.Mesh.Faces[f].Halfedge
	u = g.Vector(h)
	v = r3.Scale(-1, g.Vector(g.Mesh.Halfedges[h].Prev))
	return u, v
}

// Area of face f, zero for boundary loops.
func (g *Geometry) Area(f int) float64 {
	if g.Mesh.Faces[f].BoundaryLoop {
		return 0
	}
	u, v := g.faceSpan(f)
	return 0.5 * r3.Norm(r3.Cross(u, v))
}

func (g *Geometry) TotalArea() float64 {
	var sum float64
	for f := range g.Mesh.Faces {
		sum += g.Area(f)
	}
	return sum
}

// FaceNormal is the unit normal of f, zero for a degenerate face.
func (g *Geometry) FaceNormal(f int) r3.Vec {
	if g.Mesh.Faces[f].BoundaryLoop {
		return r3.Vec{}
	}
	u, v := g.faceSpan(f)
	return linalg.Unit(r3.Cross(u, v))
}

func (g *Geometry) Centroid(f int) r3.Vec {
	var c r3.Vec
	n := 0
	for v := range g.Mesh.FaceVertices(f, true) {
		c = r3.Add(c, g.positions[v])
		n++
	}
	return r3.Scale(1/float64(n), c)
}

// Circumcenter of a triangular face. Degenerate faces return the centroid.
func (g *Geometry) Circumcenter(f int) r3.Vec {
	m := g.Mesh
	h := m.Faces[f].Halfedge
	a := g.positions[m.Halfedges[h].Vertex]
	b := g.positions[m.Halfedges[m.Halfedges[h].Next].Vertex]
	c := g.positions[m.Halfedges[m.Halfedges[h].Prev].Vertex]

	ac := r3.Sub(c, a)
	ab := r3.Sub(b, a)
	w := r3.Cross(ab, ac)
	w2 := r3.Norm2(w)
	if w2 == 0 {
		return g.Centroid(f)
	}
	u := r3.Scale(r3.Norm2(ac), r3.Cross(w, ab))
	v := r3.Scale(r3.Norm2(ab), r3.Cross(ac, w))
	return r3.Add(a, r3.Scale(1/(2*w2), r3.Add(u, v)))
}

// OrthonormalBases returns an orthonormal basis of the plane of f, with e1
// along the root halfedge.
func (g *Geometry) OrthonormalBases(f int) (e1, e2 r3.Vec) {
	e1 = linalg.Unit(g.Vector(g.Mesh.Faces[f].Halfedge))
	e2 = r3.Cross(g.FaceNormal(f), e1)
	return e1, e2
}

// Angle is the interior angle at corner c.
func (g *Geometry) Angle(c int) float64 {
	m := g.Mesh
	h := m.Corners[c].Halfedge
	u := linalg.Unit(g.Vector(m.Halfedges[h].Prev))
	v := linalg.Unit(r3.Scale(-1, g.Vector(m.Halfedges[h].Next)))
	return math.Acos(math.Max(-1, math.Min(1, r3.Dot(u, v))))
}

// Cotan is the cotangent of the angle opposite h, zero on the boundary or for
// a degenerate corner.
func (g *Geometry) Cotan(h int) float64 {
	m := g.Mesh
	if m.Halfedges[h].OnBoundary {
		return 0
	}
	u := g.Vector(m.Halfedges[h].Prev)
	v := r3.Scale(-1, g.Vector(m.Halfedges[h].Next))
	cross := r3.Norm(r3.Cross(u, v))
	if cross == 0 {
		return 0
	}
	return r3.Dot(u, v) / cross
}

// DihedralAngle is the signed angle between the normals of the faces on
// either side of h, zero when either side is a boundary loop.
func (g *Geometry) DihedralAngle(h int) float64 {
	m := g.Mesh
	he := m.Halfedges[h]
	if he.OnBoundary || m.Halfedges[he.Twin].OnBoundary {
		return 0
	}
	n1 := g.FaceNormal(he.Face)
	n2 := g.FaceNormal(m.Halfedges[he.Twin].Face)
	w := linalg.Unit(g.Vector(h))
	return math.Atan2(r3.Dot(r3.Cross(n1, n2), w), r3.Dot(n1, n2))
}

// BarycentricDualArea is one third of the area of the faces around v.
func (g *Geometry) BarycentricDualArea(v int) float64 {
	var area float64
	for f := range g.Mesh.VertexFaces(v, true) {
		area += g.Area(f)
	}
	return area / 3
}

// CircumcentricDualArea is the Voronoi area of v.
func (g *Geometry) CircumcentricDualArea(v int) float64 {
	m := g.Mesh
	var area float64
	for h := range m.VertexHalfedges(v, true) {
		prev := m.Halfedges[h].Prev
		area += r3.Norm2(g.Vector(prev))*g.Cotan(prev) + r3.Norm2(g.Vector(h))*g.Cotan(h)
	}
	return area / 8
}
