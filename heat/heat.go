// Package heat computes approximate geodesic distance on a triangle mesh with
// the heat method: diffuse heat from the sources for a short time, normalize
// its negative gradient into a unit vector field, and recover the distance
// whose gradient best matches that field.
package heat

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/notargets/expmap/geometry"
	"github.com/notargets/expmap/halfedge"
	"github.com/notargets/expmap/linalg"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrBadTime   = errors.New("heat: diffusion time must be finite and positive")
	ErrNoSources = errors.New("heat: no source vertices")
)

// gradTol is the gradient magnitude below which a face contributes no
// direction.
const gradTol = 1e-12

// Solver holds the Laplace and flow operators for one Geometry. Both are
// factored on the first Compute and reused after that.
type Solver struct {
	geom *geometry.Geometry
	t    float64
	A    *linalg.SparseMatrix // cotangent Laplacian
	F    *linalg.SparseMatrix // M + t·A
}

// NewSolver uses the squared mean edge length as diffusion time.
func NewSolver(g *geometry.Geometry) (*Solver, error) {
	h := g.MeanEdgeLength()
	return NewSolverWithTime(g, h*h)
}

func NewSolverWithTime(g *geometry.Geometry, t float64) (*Solver, error) {
	if !(t > 0) || math.IsInf(t, 1) {
		return nil, fmt.Errorf("%w: %v", ErrBadTime, t)
	}
	start := time.Now()
	index := halfedge.IndexElements(len(g.Mesh.Vertices))
	A, err := g.LaplaceMatrix(index)
	if err != nil {
		return nil, err
	}
	M, err := g.MassMatrix(index)
	if err != nil {
		return nil, err
	}
	s := &Solver{
		geom: g,
		t:    t,
		A:    A,
		F:    M.Plus(A.TimesReal(t)),
	}
	log.WithFields(logrus.Fields{
		"vertices": len(g.Mesh.Vertices),
		"faces":    len(g.Mesh.Faces),
		"time":     t,
		"elapsed":  time.Since(start),
	}).Debug("heat solver assembled")
	return s, nil
}

// Time is the diffusion time.
func (s *Solver) Time() float64 { return s.t }

// Compute returns the distance from the heat sources in delta, a |V|×1
// column that is nonzero at the sources. The smallest distance is shifted
// to zero.
func (s *Solver) Compute(delta *linalg.DenseMatrix) (*linalg.DenseMatrix, error) {
	nv := len(s.geom.Mesh.Vertices)
	if delta.NRows() != nv || delta.NCols() != 1 {
		return nil, fmt.Errorf("%w: delta is %d×%d, want %d×1", linalg.ErrDimensionMismatch, delta.NRows(), delta.NCols(), nv)
	}
	start := time.Now()

	u, err := s.F.Chol().SolvePositiveDefinite(delta)
	if err != nil {
		return nil, fmt.Errorf("heat: diffusion: %w", err)
	}
	X := s.VectorField(u.Column(0))
	div := s.Divergence(X)
	for i := range div {
		div[i] = -div[i]
	}
	phi, err := s.A.Chol().SolvePositiveDefinite(linalg.FromColumn(div))
	if err != nil {
		return nil, fmt.Errorf("heat: poisson: %w", err)
	}

	dist := phi.Column(0)
	floats.AddConst(-dist[floats.MinIdx(dist)], dist)
	log.WithFields(logrus.Fields{
		"vertices": nv,
		"elapsed":  time.Since(start),
	}).Debug("heat distance computed")
	return linalg.FromColumn(dist), nil
}

// Distance is Compute with a unit source at each listed vertex.
func (s *Solver) Distance(sources ...int) ([]float64, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	nv := len(s.geom.Mesh.Vertices)
	delta := linalg.Zeros(nv, 1)
	for _, v := range sources {
		if v < 0 || v >= nv {
			return nil, fmt.Errorf("heat: source vertex %d out of range [0,%d)", v, nv)
		}
		delta.Set(v, 0, 1)
	}
	phi, err := s.Compute(delta)
	if err != nil {
		return nil, err
	}
	return phi.Column(0), nil
}

// VectorField returns, per face, the unit vector pointing down the gradient
// of u. Faces where u is flat get the zero vector.
func (s *Solver) VectorField(u []float64) []r3.Vec {
	g, m := s.geom, s.geom.Mesh
	X := make([]r3.Vec, len(m.Faces))
	for f := range m.Faces {
		area := g.Area(f)
		if area == 0 {
			continue
		}
		n := g.FaceNormal(f)
		var grad r3.Vec
		for h := range m.FaceHalfedges(f, true) {
			ui := u[m.Halfedges[m.Halfedges[h].Prev].Vertex]
			grad = r3.Add(grad, r3.Scale(ui, r3.Cross(n, g.Vector(h))))
		}
		grad = r3.Scale(1/(2*area), grad)
		if r3.Norm(grad) < gradTol {
			continue
		}
		X[f] = r3.Scale(-1, linalg.Unit(grad))
	}
	return X
}

// Divergence integrates the face field X over the dual cell of each vertex.
func (s *Solver) Divergence(X []r3.Vec) []float64 {
	g, m := s.geom, s.geom.Mesh
	div := make([]float64, len(m.Vertices))
	for v := range m.Vertices {
		var sum float64
		for h := range m.VertexHalfedges(v, true) {
			he := m.Halfedges[h]
			if he.OnBoundary {
				continue
			}
			x := X[he.Face]
			prev := he.Prev
			e1 := g.Vector(h)
			e2 := g.Vector(m.Halfedges[prev].Twin)
			sum += g.Cotan(h)*r3.Dot(e1, x) + g.Cotan(prev)*r3.Dot(e2, x)
		}
		div[v] = 0.5 * sum
	}
	return div
}
