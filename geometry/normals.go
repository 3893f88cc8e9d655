package geometry

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/notargets/expmap/linalg"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// NormalMethod selects how face data is blended into a vertex normal.
type NormalMethod int

const (
	EquallyWeighted NormalMethod = iota
	AreaWeighted
	AngleWeighted
	GaussCurvature
	MeanCurvature
	SphereInscribed
)

var normalMethodNames = [...]string{
	EquallyWeighted: "equally-weighted",
	AreaWeighted:    "area-weighted",
	AngleWeighted:   "angle-weighted",
	GaussCurvature:  "gauss-curvature",
	MeanCurvature:   "mean-curvature",
	SphereInscribed: "sphere-inscribed",
}

func (m NormalMethod) String() string {
	if m < 0 || int(m) >= len(normalMethodNames) {
		return fmt.Sprintf("NormalMethod(%d)", int(m))
	}
	return normalMethodNames[m]
}

// ParseNormalMethod accepts the String form of a method, case insensitive.
func ParseNormalMethod(name string) (NormalMethod, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, s := range normalMethodNames {
		if s == name {
			return NormalMethod(m), nil
		}
	}
	return 0, fmt.Errorf("geometry: unknown normal method %q", name)
}

// VertexNormal is the unit normal at v under method. A vertex whose weights
// cancel gets the zero vector.
func (g *Geometry) VertexNormal(v int, method NormalMethod) r3.Vec {
	m := g.Mesh
	var n r3.Vec
	switch method {
	case EquallyWeighted:
		for f := range m.VertexFaces(v, true) {
			n = r3.Add(n, g.FaceNormal(f))
		}
	case AreaWeighted:
		for f := range m.VertexFaces(v, true) {
			n = r3.Add(n, r3.Scale(g.Area(f), g.FaceNormal(f)))
		}
	case AngleWeighted:
		for c := range m.VertexCorners(v, true) {
			n = r3.Add(n, r3.Scale(g.Angle(c), g.FaceNormal(m.CornerFace(c))))
		}
	case GaussCurvature:
		for h := range m.VertexHalfedges(v, true) {
			length := r3.Norm(g.Vector(h))
			if length == 0 {
				continue
			}
			w := 0.5 * g.DihedralAngle(h) / length
			n = r3.Sub(n, r3.Scale(w, g.Vector(h)))
		}
	case MeanCurvature:
		for h := range m.VertexHalfedges(v, true) {
			w := 0.5 * (g.Cotan(h) + g.Cotan(m.Halfedges[h].Twin))
			n = r3.Sub(n, r3.Scale(w, g.Vector(h)))
		}
	case SphereInscribed:
		for c := range m.VertexCorners(v, true) {
			h := m.Corners[c].Halfedge
			a := g.Vector(m.Halfedges[h].Prev)
			b := r3.Scale(-1, g.Vector(m.Halfedges[h].Next))
			d := r3.Norm2(a) * r3.Norm2(b)
			if d == 0 {
				continue
			}
			n = r3.Add(n, r3.Scale(1/d, r3.Cross(a, b)))
		}
	}
	return linalg.Unit(n)
}

// VertexNormals evaluates VertexNormal for every vertex, spread over
// GOMAXPROCS goroutines.
func (g *Geometry) VertexNormals(ctx context.Context, method NormalMethod) ([]r3.Vec, error) {
	nv := len(g.Mesh.Vertices)
	out := make([]r3.Vec, nv)
	workers := runtime.GOMAXPROCS(0)
	chunk := (nv + workers - 1) / max(workers, 1)
	if chunk == 0 {
		return out, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < nv; lo += chunk {
		hi := min(lo+chunk, nv)
		eg.Go(func() error {
			for v := lo; v < hi; v++ {
				if (v-lo)%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[v] = g.VertexNormal(v, method)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
