package expmap

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/notargets/expmap/geometry"
	"github.com/notargets/expmap/halfedge"
	"github.com/notargets/expmap/heat"
	"github.com/sirupsen/logrus"
)

var ErrNoChart = errors.New("expmap: no chart has been computed")

// Decal owns a mesh, its geometry and heat solver, and the chart placed on
// it most recently. The solver's factorizations are shared by every
// placement. A Decal must not be used from more than one goroutine at once.
type Decal struct {
	Mesh     *halfedge.Mesh
	Geometry *geometry.Geometry
	Solver   *heat.Solver

	chart     *Chart
	translate mgl64.Vec2
	scale     float64
	uvs       []float32
}

func NewDecal(soup halfedge.Soup, normalize bool) (*Decal, error) {
	mesh, err := halfedge.Build(soup)
	if err != nil {
		return nil, err
	}
	g, err := geometry.New(mesh, soup.Positions, normalize)
	if err != nil {
		return nil, err
	}
	s, err := heat.NewSolver(g)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"vertices": len(mesh.Vertices),
		"faces":    len(mesh.Faces),
	}).Debug("decal surface ready")
	return &Decal{Mesh: mesh, Geometry: g, Solver: s, scale: 1}, nil
}

// CalculateUV charts the surface around vertex and rebuilds the UV buffer.
// The current rotation carries over to the new chart. On error the previous
// chart is kept.
func (d *Decal) CalculateUV(vertex int, translate mgl64.Vec2, scale, stopDist float64) error {
	c, err := Compute(d.Geometry, d.Solver, Params{Vertex: vertex, StopDist: stopDist})
	if err != nil {
		return err
	}
	if d.chart != nil {
		c.SetRotation(d.chart.Rotation())
	}
	uvs, err := c.UVs(translate, scale)
	if err != nil {
		return err
	}
	d.chart, d.translate, d.scale, d.uvs = c, translate, scale, uvs
	return nil
}

// SetRotation rotates the current chart and rebuilds the UV buffer.
func (d *Decal) SetRotation(angle float64) error {
	if d.chart == nil {
		return ErrNoChart
	}
	d.chart.SetRotation(angle)
	uvs, err := d.chart.UVs(d.translate, d.scale)
	if err != nil {
		return err
	}
	d.uvs = uvs
	return nil
}

// UVs returns a copy of the current UV buffer, nil before the first chart.
func (d *Decal) UVs() []float32 {
	if d.uvs == nil {
		return nil
	}
	return append([]float32(nil), d.uvs...)
}

func (d *Decal) Chart() *Chart { return d.chart }
