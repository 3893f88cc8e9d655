package expmap

import (
	"math"

	"github.com/notargets/expmap/linalg"
	"gonum.org/v1/gonum/spatial/r3"
)

// TangentFrame returns an orthonormal pair spanning the plane perpendicular
// to n, so that (tan1, tan2, n) is right handed. The frame is built from the
// coordinate axis least aligned with n, which makes it a pure function of n.
// A zero n gets the xy frame.
func TangentFrame(n r3.Vec) (tan1, tan2 r3.Vec) {
	n = linalg.Unit(n)
	if n == (r3.Vec{}) {
		return r3.Vec{X: 1}, r3.Vec{Y: 1}
	}
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	var axis r3.Vec
	switch {
	case ax <= ay && ax <= az:
		axis = r3.Vec{X: 1}
	case ay <= az:
		axis = r3.Vec{Y: 1}
	default:
		axis = r3.Vec{Z: 1}
	}
	tan1 = linalg.Unit(r3.Cross(axis, n))
	tan2 = r3.Cross(n, tan1)
	return tan1, tan2
}

// TangentFrames applies TangentFrame to every normal.
func TangentFrames(normals []r3.Vec) (tan1, tan2 []r3.Vec) {
	tan1 = make([]r3.Vec, len(normals))
	tan2 = make([]r3.Vec, len(normals))
	for i, n := range normals {
		tan1[i], tan2[i] = TangentFrame(n)
	}
	return tan1, tan2
}
