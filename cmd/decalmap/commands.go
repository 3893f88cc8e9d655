package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/notargets/expmap/expmap"
	"github.com/notargets/expmap/geometry"
	"github.com/notargets/expmap/halfedge"
	"github.com/notargets/expmap/heat"
	"github.com/notargets/expmap/readers"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func (a *app) load(path string) (*geometry.Geometry, error) {
	start := time.Now()
	soup, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, err
	}
	mesh, err := halfedge.Build(soup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g, err := geometry.New(mesh, soup.Positions, a.cfg.Normalize)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"file":     path,
		"vertices": len(mesh.Vertices),
		"faces":    len(mesh.Faces),
		"elapsed":  time.Since(start),
	}).Debug("mesh loaded")
	return g, nil
}

func (a *app) solver(g *geometry.Geometry) (*heat.Solver, error) {
	h := g.MeanEdgeLength()
	return heat.NewSolverWithTime(g, a.cfg.TimeScale*h*h)
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info MESH",
		Short: "Print element counts and global geometric quantities",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			m := g.Mesh
			return write(a.out, a.cfg.Format, []meshInfo{{
				Vertices:         len(m.Vertices),
				Edges:            len(m.Edges),
				Faces:            len(m.Faces),
				BoundaryLoops:    len(m.Boundaries),
				Euler:            m.EulerCharacteristic(),
				TotalArea:        g.TotalArea(),
				MeanEdgeLength:   g.MeanEdgeLength(),
				TotalAngleDefect: g.TotalAngleDefect(),
				BoundingRadius:   g.BoundingRadius(),
			}})
		},
	}
}

func (a *app) distanceCmd() *cobra.Command {
	var sources []int
	cmd := &cobra.Command{
		Use:   "distance MESH",
		Short: "Print the heat-method geodesic distance from the source vertices",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			s, err := a.solver(g)
			if err != nil {
				return err
			}
			d, err := s.Distance(sources...)
			if err != nil {
				return err
			}
			rows := make([]vertexDistance, len(d))
			for v, x := range d {
				rows[v] = vertexDistance{Vertex: v, Distance: x}
			}
			return write(a.out, a.cfg.Format, rows)
		},
	}
	cmd.Flags().IntSliceVarP(&sources, "source", "s", []int{0}, "source vertex indices")
	return cmd
}

func (a *app) normalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normals MESH",
		Short: "Print vertex normals using the configured weighting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			method, err := geometry.ParseNormalMethod(a.cfg.NormalMethod)
			if err != nil {
				return err
			}
			normals, err := g.VertexNormals(ctxOf(cmd), method)
			if err != nil {
				return err
			}
			rows := make([]vertexNormal, len(normals))
			for v, n := range normals {
				rows[v] = vertexNormal{Vertex: v, X: n.X, Y: n.Y, Z: n.Z}
			}
			return write(a.out, a.cfg.Format, rows)
		},
	}
}

func (a *app) uvCmd() *cobra.Command {
	var vertex int
	cmd := &cobra.Command{
		Use:   "uv MESH",
		Short: "Chart a decal around a vertex and print per-vertex UVs",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			s, err := a.solver(g)
			if err != nil {
				return err
			}
			c, err := expmap.Compute(g, s, expmap.Params{Vertex: vertex, StopDist: a.cfg.StopDist})
			if err != nil {
				return err
			}
			c.SetRotation(a.cfg.Rotation)
			uv, err := c.UVs(mgl64.Vec2{a.cfg.TranslateU, a.cfg.TranslateV}, a.cfg.Scale)
			if err != nil {
				return err
			}
			rows := make([]vertexUV, c.NumVertices)
			for v := range rows {
				rows[v] = vertexUV{Vertex: v, U: float64(uv[2*v]), V: float64(uv[2*v+1])}
			}
			for _, p := range c.Points {
				rows[p.Vertex].Inside = true
			}
			return write(a.out, a.cfg.Format, rows)
		},
	}
	cmd.Flags().IntVar(&vertex, "vertex", 0, "source vertex of the decal")
	return cmd
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
