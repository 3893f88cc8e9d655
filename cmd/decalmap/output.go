package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

type record interface {
	header() []string
	row() []string
}

func ftoa(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }

type meshInfo struct {
	Vertices         int     `json:"vertices" yaml:"vertices"`
	Edges            int     `json:"edges" yaml:"edges"`
	Faces            int     `json:"faces" yaml:"faces"`
	BoundaryLoops    int     `json:"boundary_loops" yaml:"boundary_loops"`
	Euler            int     `json:"euler_characteristic" yaml:"euler_characteristic"`
	TotalArea        float64 `json:"total_area" yaml:"total_area"`
	MeanEdgeLength   float64 `json:"mean_edge_length" yaml:"mean_edge_length"`
	TotalAngleDefect float64 `json:"total_angle_defect" yaml:"total_angle_defect"`
	BoundingRadius   float64 `json:"bounding_radius" yaml:"bounding_radius"`
}

func (meshInfo) header() []string {
	return []string{"vertices", "edges", "faces", "boundary_loops", "euler_characteristic",
		"total_area", "mean_edge_length", "total_angle_defect", "bounding_radius"}
}

func (m meshInfo) row() []string {
	return []string{strconv.Itoa(m.Vertices), strconv.Itoa(m.Edges), strconv.Itoa(m.Faces),
		strconv.Itoa(m.BoundaryLoops), strconv.Itoa(m.Euler), ftoa(m.TotalArea),
		ftoa(m.MeanEdgeLength), ftoa(m.TotalAngleDefect), ftoa(m.BoundingRadius)}
}

type vertexDistance struct {
	Vertex   int     `json:"vertex" yaml:"vertex"`
	Distance float64 `json:"distance" yaml:"distance"`
}

func (vertexDistance) header() []string { return []string{"vertex", "distance"} }

func (d vertexDistance) row() []string {
	return []string{strconv.Itoa(d.Vertex), ftoa(d.Distance)}
}

type vertexNormal struct {
	Vertex int     `json:"vertex" yaml:"vertex"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Z      float64 `json:"z" yaml:"z"`
}

func (vertexNormal) header() []string { return []string{"vertex", "x", "y", "z"} }

func (n vertexNormal) row() []string {
	return []string{strconv.Itoa(n.Vertex), ftoa(n.X), ftoa(n.Y), ftoa(n.Z)}
}

type vertexUV struct {
	Vertex int     `json:"vertex" yaml:"vertex"`
	U      float64 `json:"u" yaml:"u"`
	V      float64 `json:"v" yaml:"v"`
	Inside bool    `json:"inside" yaml:"inside"`
}

func (vertexUV) header() []string { return []string{"vertex", "u", "v", "inside"} }

func (p vertexUV) row() []string {
	return []string{strconv.Itoa(p.Vertex), ftoa(p.U), ftoa(p.V), strconv.FormatBool(p.Inside)}
}

func write[T record](w io.Writer, format string, rows []T) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "csv":
		cw := csv.NewWriter(w)
		var zero T
		if err := cw.Write(zero.header()); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write(r.row()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("unknown output format %q", format)
}
