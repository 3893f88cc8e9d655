package geometry

import "math"

// AngleDefect is 2π minus the angles at v, π minus them on the boundary.
func (g *Geometry) AngleDefect(v int) float64 {
	defect := 2 * math.Pi
	if g.Mesh.VertexOnBoundary(v) {
		defect = math.Pi
	}
	for c := range g.Mesh.VertexCorners(v, true) {
		defect -= g.Angle(c)
	}
	return defect
}

// ScalarGaussCurvature is the integrated Gaussian curvature at v.
func (g *Geometry) ScalarGaussCurvature(v int) float64 {
	return g.AngleDefect(v)
}

// ScalarMeanCurvature integrates κ1+κ2 over the dual cell of v. On the unit
// sphere the total over all vertices approaches 8π.
func (g *Geometry) ScalarMeanCurvature(v int) float64 {
	var sum float64
	for h := range g.Mesh.VertexHalfedges(v, true) {
		sum += 0.5 * g.Length(g.Mesh.Halfedges[h].Edge) * g.DihedralAngle(h)
	}
	return sum
}

// TotalAngleDefect sums the angle defect over every vertex. On a closed
// surface it equals 2π times the Euler characteristic.
func (g *Geometry) TotalAngleDefect() float64 {
	var sum float64
	for v := range g.Mesh.Vertices {
		sum += g.AngleDefect(v)
	}
	return sum
}

// PrincipalCurvatures returns the pointwise principal curvatures at v with
// k1 <= k2.
func (g *Geometry) PrincipalCurvatures(v int) (k1, k2 float64) {
	a := g.CircumcentricDualArea(v)
	if a == 0 {
		return 0, 0
	}
	h := 0.5 * g.ScalarMeanCurvature(v) / a
	k := g.AngleDefect(v) / a
	disc := math.Sqrt(math.Max(h*h-k, 0))
	return h - disc, h + disc
}
