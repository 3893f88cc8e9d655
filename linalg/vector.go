package linalg

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Unit returns v scaled to unit length. A zero length vector is returned
// unchanged instead of becoming NaN.
func Unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// IsValid reports whether every component of v is finite.
func IsValid(v r3.Vec) bool {
	for _, x := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
