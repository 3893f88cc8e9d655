// Package expmap parameterizes the neighbourhood of a mesh vertex with a
// discrete exponential map. Each vertex within a geodesic radius of the
// source is placed in the source's tangent plane at its heat-method distance,
// in the direction its displacement makes with the tangent frame. The
// resulting chart yields UV coordinates for pasting a flat image onto the
// surface.
package expmap

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/notargets/expmap/geometry"
	"github.com/notargets/expmap/heat"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"
)

// ExpMapScale converts geodesic distance on the normalized mesh into chart
// units.
const ExpMapScale = 1.0

// OutsideUV marks both coordinates of a vertex that is not in the chart.
const OutsideUV = -1

var (
	ErrVertexOutOfRange = errors.New("expmap: source vertex out of range")
	ErrBadStopDist      = errors.New("expmap: stop distance must be positive")
	ErrBadScale         = errors.New("expmap: scale must be finite and positive")
)

type Params struct {
	Vertex   int
	StopDist float64
}

// Point is one charted vertex: its geodesic polar coordinates around the
// source and its rotated offset in the chart plane.
type Point struct {
	Vertex int
	Radius float64
	Angle  float64
	Offset mgl64.Vec2
}

type Chart struct {
	Source      int
	StopDist    float64
	Normal      r3.Vec
	Tan1, Tan2  r3.Vec
	Points      []Point // ascending vertex order
	NumVertices int
	rotation    float64
}

// Compute charts every vertex whose distance from p.Vertex is at most
// p.StopDist.
func Compute(g *geometry.Geometry, s *heat.Solver, p Params) (*Chart, error) {
	nv := len(g.Mesh.Vertices)
	if p.Vertex < 0 || p.Vertex >= nv {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrVertexOutOfRange, p.Vertex, nv)
	}
	if !(p.StopDist > 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadStopDist, p.StopDist)
	}
	start := time.Now()

	dist, err := s.Distance(p.Vertex)
	if err != nil {
		return nil, err
	}

	c := &Chart{
		Source:      p.Vertex,
		StopDist:    p.StopDist,
		Normal:      g.VertexNormal(p.Vertex, geometry.AreaWeighted),
		NumVertices: nv,
	}
	c.Tan1, c.Tan2 = TangentFrame(c.Normal)

	origin := g.Position(p.Vertex)
	for v, r := range dist {
		if r > p.StopDist {
			continue
		}
		d := r3.Sub(g.Position(v), origin)
		c.Points = append(c.Points, Point{
			Vertex: v,
			Radius: r,
			Angle:  math.Atan2(r3.Dot(d, c.Tan2), r3.Dot(d, c.Tan1)),
		})
	}
	c.SetRotation(0)

	log.WithFields(logrus.Fields{
		"source":   p.Vertex,
		"stopDist": p.StopDist,
		"points":   len(c.Points),
		"elapsed":  time.Since(start),
	}).Debug("exponential map charted")
	return c, nil
}

// SetRotation rotates the chart to angle radians counterclockwise from its
// unrotated layout. Offsets are rebuilt from the polar coordinates each time.
func (c *Chart) SetRotation(angle float64) {
	c.rotation = angle
	rot := mgl64.Rotate2D(angle)
	for i, p := range c.Points {
		r := ExpMapScale * p.Radius
		base := mgl64.Vec2{r * math.Cos(p.Angle), r * math.Sin(p.Angle)}
		c.Points[i].Offset = rot.Mul2x1(base)
	}
}

func (c *Chart) Rotation() float64 { return c.rotation }

// Offsets returns the chart offset of every point, in point order.
func (c *Chart) Offsets() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Offset
	}
	return out
}

// UVs returns interleaved (u, v) pairs for all NumVertices vertices. A
// charted vertex maps to 0.5 + translate + offset/scale; the rest are
// OutsideUV.
func (c *Chart) UVs(translate mgl64.Vec2, scale float64) ([]float32, error) {
	if !(scale > 0) || math.IsInf(scale, 1) {
		return nil, fmt.Errorf("%w: %v", ErrBadScale, scale)
	}
	uv := make([]float32, 2*c.NumVertices)
	for i := range uv {
		uv[i] = OutsideUV
	}
	center := mgl64.Vec2{0.5, 0.5}.Add(translate)
	for _, p := range c.Points {
		q := center.Add(p.Offset.Mul(1 / scale))
		uv[2*p.Vertex] = float32(q.X())
		uv[2*p.Vertex+1] = float32(q.Y())
	}
	return uv, nil
}
