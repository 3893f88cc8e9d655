package linalg

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NormKind selects the entrywise norm computed by Norm.
type NormKind uint8

const (
	NormInf NormKind = iota // max |a_ij|
	NormL1                  // sum |a_ij|
	NormL2                  // sqrt(sum a_ij^2), Frobenius for matrices
)

func (k NormKind) String() string {
	switch k {
	case NormInf:
		return "Linf"
	case NormL1:
		return "L1"
	case NormL2:
		return "L2"
	}
	return fmt.Sprintf("NormKind(%d)", uint8(k))
}

func (k NormKind) order() float64 {
	switch k {
	case NormL1:
		return 1
	case NormL2:
		return 2
	}
	return math.Inf(1)
}

// DenseMatrix is a value-like dense m×n matrix backed by a gonum mat.Dense.
// Column vectors are DenseMatrix values with one column.
type DenseMatrix struct {
	m *mat.Dense
}

// NewDense wraps the row-major data in an r×c matrix. data may be nil.
func NewDense(r, c int, data []float64) *DenseMatrix {
	return &DenseMatrix{m: mat.NewDense(r, c, data)}
}

// FromMat copies any gonum matrix into a DenseMatrix.
func FromMat(a mat.Matrix) *DenseMatrix {
	return &DenseMatrix{m: mat.DenseCopyOf(a)}
}

// FromColumn builds an n×1 column vector holding a copy of x.
func FromColumn(x []float64) *DenseMatrix {
	return NewDense(len(x), 1, append([]float64(nil), x...))
}

func Zeros(m, n int) *DenseMatrix {
	return NewDense(m, n, nil)
}

// Identity returns an m×n matrix with ones on the main diagonal.
func Identity(m, n int) *DenseMatrix {
	d := Zeros(m, n)
	for i := 0; i < min(m, n); i++ {
		d.m.Set(i, i, 1)
	}
	return d
}

func Ones(m, n int) *DenseMatrix {
	return Constant(1, m, n)
}

func Constant(x float64, m, n int) *DenseMatrix {
	data := make([]float64, m*n)
	for i := range data {
		data[i] = x
	}
	return NewDense(m, n, data)
}

// Random returns an m×n matrix of uniform [0,1) entries drawn from rnd.
// A nil rnd uses the package level source.
func Random(m, n int, rnd *rand.Rand) *DenseMatrix {
	data := make([]float64, m*n)
	for i := range data {
		if rnd != nil {
			data[i] = rnd.Float64()
		} else {
			data[i] = rand.Float64()
		}
	}
	return NewDense(m, n, data)
}

// Raw exposes the underlying gonum matrix.
func (d *DenseMatrix) Raw() *mat.Dense { return d.m }

func (d *DenseMatrix) NRows() int {
	r, _ := d.m.Dims()
	return r
}

func (d *DenseMatrix) NCols() int {
	_, c := d.m.Dims()
	return c
}

func (d *DenseMatrix) Get(i, j int) float64 { return d.m.At(i, j) }

func (d *DenseMatrix) Set(i, j int, x float64) { d.m.Set(i, j, x) }

// Column copies column j into a new slice.
func (d *DenseMatrix) Column(j int) []float64 {
	return mat.Col(nil, j, d.m)
}

func (d *DenseMatrix) Transpose() *DenseMatrix {
	return FromMat(d.m.T())
}

// values returns the entries in row-major order without gaps.
func (d *DenseMatrix) values() []float64 {
	raw := d.m.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}
	out := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		out = append(out, d.m.RawRowView(i)...)
	}
	return out
}

// Norm returns the entrywise norm selected by kind.
func (d *DenseMatrix) Norm(kind NormKind) float64 {
	return floats.Norm(d.values(), kind.order())
}

// Rank counts singular values above max(m,n)·σmax·ε.
func (d *DenseMatrix) Rank() int {
	var svd mat.SVD
	if !svd.Factorize(d.m, mat.SVDNone) {
		return 0
	}
	sv := svd.Values(nil)
	if len(sv) == 0 || sv[0] == 0 {
		return 0
	}
	r, c := d.m.Dims()
	tol := float64(max(r, c)) * sv[0] * 2.220446049250313e-16
	rank := 0
	for _, s := range sv {
		if s > tol {
			rank++
		}
	}
	return rank
}

func (d *DenseMatrix) Sum() float64 {
	return floats.Sum(d.values())
}

// SubMatrix copies rows [r0,r1) and columns [c0,c1).
func (d *DenseMatrix) SubMatrix(r0, r1, c0, c1 int) *DenseMatrix {
	return FromMat(d.m.Slice(r0, r1, c0, c1))
}

func (d *DenseMatrix) IncrementBy(b *DenseMatrix) { d.m.Add(d.m, b.m) }

func (d *DenseMatrix) DecrementBy(b *DenseMatrix) { d.m.Sub(d.m, b.m) }

func (d *DenseMatrix) ScaleBy(s float64) { d.m.Scale(s, d.m) }

func (d *DenseMatrix) Plus(b *DenseMatrix) *DenseMatrix {
	var out mat.Dense
	out.Add(d.m, b.m)
	return &DenseMatrix{m: &out}
}

func (d *DenseMatrix) Minus(b *DenseMatrix) *DenseMatrix {
	var out mat.Dense
	out.Sub(d.m, b.m)
	return &DenseMatrix{m: &out}
}

func (d *DenseMatrix) TimesReal(s float64) *DenseMatrix {
	var out mat.Dense
	out.Scale(s, d.m)
	return &DenseMatrix{m: &out}
}

func (d *DenseMatrix) TimesDense(b *DenseMatrix) *DenseMatrix {
	var out mat.Dense
	out.Mul(d.m, b.m)
	return &DenseMatrix{m: &out}
}

func (d *DenseMatrix) Negated() *DenseMatrix {
	return d.TimesReal(-1)
}

// Hcat places b to the right of d.
func (d *DenseMatrix) Hcat(b *DenseMatrix) *DenseMatrix {
	var out mat.Dense
	out.Augment(d.m, b.m)
	return &DenseMatrix{m: &out}
}

// Vcat places b below d.
func (d *DenseMatrix) Vcat(b *DenseMatrix) *DenseMatrix {
	var out mat.Dense
	out.Stack(d.m, b.m)
	return &DenseMatrix{m: &out}
}

func (d *DenseMatrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(d.m, mat.Squeeze()))
}
