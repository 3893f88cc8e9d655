package linalg

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SparseMatrix is an m×n matrix in compressed sparse row form.
//
// Factorizations taken with Chol, LU and QR are cached on the matrix and
// remain valid until the matrix is mutated in place (IncrementBy,
// DecrementBy, ScaleBy). A mutation bumps the version; stale handles then
// fail with ErrStaleFactorization and the next Chol/LU/QR call hands out a
// fresh one. A matrix must not be mutated while another goroutine solves
// against it.
type SparseMatrix struct {
	csr     *sparse.CSR
	version uint64

	chol *Cholesky
	lu   *LU
	qr   *QR
}

// FromTriplet compresses the accumulated entries of t. Within a row,
// entries keep the order in which their (i,j) pair was first added.
func FromTriplet(t *Triplet) *SparseMatrix {
	return &SparseMatrix{csr: t.coo.ToCSR()}
}

// SparseIdentity returns an m×n matrix with ones on the main diagonal.
func SparseIdentity(m, n int) *SparseMatrix {
	t := NewTriplet(m, n)
	for i := 0; i < min(m, n); i++ {
		t.AddEntry(1, i, i)
	}
	return FromTriplet(t)
}

// Diag builds a square diagonal matrix from the column vector d.
func Diag(d *DenseMatrix) *SparseMatrix {
	n := d.NRows()
	t := NewTriplet(n, n)
	for i := 0; i < n; i++ {
		t.AddEntry(d.Get(i, 0), i, i)
	}
	return FromTriplet(t)
}

// Raw returns a copy of the underlying CSR.
func (s *SparseMatrix) Raw() *sparse.CSR {
	var c sparse.CSR
	c.Clone(s.csr)
	return &c
}

func (s *SparseMatrix) NRows() int {
	r, _ := s.csr.Dims()
	return r
}

func (s *SparseMatrix) NCols() int {
	_, c := s.csr.Dims()
	return c
}

func (s *SparseMatrix) NNZ() int { return s.csr.NNZ() }

// At returns entry (i,j).
func (s *SparseMatrix) At(i, j int) float64 { return s.csr.At(i, j) }

// Version counts in place mutations of s.
func (s *SparseMatrix) Version() uint64 { return s.version }

// each visits stored entries in row-major order.
func (s *SparseMatrix) each(fn func(i, j int, v float64)) {
	s.csr.DoNonZero(fn)
}

func (s *SparseMatrix) Transpose() *SparseMatrix {
	return &SparseMatrix{csr: s.csr.T().(*sparse.CSC).ToCSR()}
}

// InvertDiagonal returns the diagonal matrix of reciprocal diagonal entries.
// Zero diagonal entries stay zero.
func (s *SparseMatrix) InvertDiagonal() *SparseMatrix {
	r, c := s.csr.Dims()
	t := NewTriplet(r, c)
	s.each(func(i, j int, v float64) {
		if i == j && v != 0 {
			t.AddEntry(1/v, i, i)
		}
	})
	return FromTriplet(t)
}

func (s *SparseMatrix) values() []float64 {
	out := make([]float64, 0, s.NNZ())
	s.each(func(_, _ int, v float64) { out = append(out, v) })
	return out
}

// Norm returns the entrywise norm selected by kind.
func (s *SparseMatrix) Norm(kind NormKind) float64 {
	return floats.Norm(s.values(), kind.order())
}

func (s *SparseMatrix) FrobeniusNorm() float64 { return s.Norm(NormL2) }

// SubMatrix copies rows [r0,r1) and columns [c0,c1).
func (s *SparseMatrix) SubMatrix(r0, r1, c0, c1 int) *SparseMatrix {
	t := NewTriplet(r1-r0, c1-c0)
	s.each(func(i, j int, v float64) {
		if i >= r0 && i < r1 && j >= c0 && j < c1 {
			t.AddEntry(v, i-r0, j-c0)
		}
	})
	return FromTriplet(t)
}

func (s *SparseMatrix) ToDense() *DenseMatrix { return &DenseMatrix{m: s.csr.ToDense()} }

// IsSymmetric reports whether s is square and |a_ij - a_ji| <= tol·max(1,|a_ij|).
func (s *SparseMatrix) IsSymmetric(tol float64) bool {
	r, c := s.csr.Dims()
	if r != c {
		return false
	}
	ok := true
	s.each(func(i, j int, v float64) {
		if !ok || i == j {
			return
		}
		if math.Abs(v-s.csr.At(j, i)) > tol*math.Max(1, math.Abs(v)) {
			ok = false
		}
	})
	return ok
}

// mutate replaces the storage and invalidates cached factorizations.
func (s *SparseMatrix) mutate(next *SparseMatrix) {
	s.csr = next.csr
	s.version++
	s.chol, s.lu, s.qr = nil, nil, nil
}

func (s *SparseMatrix) IncrementBy(b *SparseMatrix) { s.mutate(s.Plus(b)) }

func (s *SparseMatrix) DecrementBy(b *SparseMatrix) { s.mutate(s.Minus(b)) }

func (s *SparseMatrix) ScaleBy(x float64) { s.mutate(s.TimesReal(x)) }

// Plus returns s+b. Mismatched shapes panic with mat.ErrShape.
func (s *SparseMatrix) Plus(b *SparseMatrix) *SparseMatrix {
	var out sparse.CSR
	out.Add(s.csr, b.csr)
	return &SparseMatrix{csr: &out}
}

func (s *SparseMatrix) Minus(b *SparseMatrix) *SparseMatrix {
	var out sparse.CSR
	out.Sub(s.csr, b.csr)
	return &SparseMatrix{csr: &out}
}

func (s *SparseMatrix) TimesReal(x float64) *SparseMatrix {
	out := s.Raw()
	floats.Scale(x, out.RawMatrix().Data)
	return &SparseMatrix{csr: out}
}

// TimesDense returns s·x.
func (s *SparseMatrix) TimesDense(x *DenseMatrix) *DenseMatrix {
	r, c := s.csr.Dims()
	if c != x.NRows() {
		panic(mat.ErrShape)
	}
	out := Zeros(r, x.NCols())
	col := make([]float64, r)
	for k := 0; k < x.NCols(); k++ {
		clear(col)
		s.csr.MulVecTo(col, false, x.Column(k))
		out.m.SetCol(k, col)
	}
	return out
}

// TimesSparse returns s·b.
func (s *SparseMatrix) TimesSparse(b *SparseMatrix) *SparseMatrix {
	var out sparse.CSR
	out.Mul(s.csr, b.csr)
	return &SparseMatrix{csr: &out}
}

// Chol returns the cached Cholesky handle of s, creating one if none is
// valid for the current version. The decomposition is computed on the first
// solve.
func (s *SparseMatrix) Chol() *Cholesky {
	if s.chol == nil || s.chol.version != s.version {
		s.chol = &Cholesky{src: s, version: s.version}
	}
	return s.chol
}

// LU returns the cached LU handle of s.
func (s *SparseMatrix) LU() *LU {
	if s.lu == nil || s.lu.version != s.version {
		s.lu = &LU{src: s, version: s.version}
	}
	return s.lu
}

// QR returns the cached QR handle of s.
func (s *SparseMatrix) QR() *QR {
	if s.qr == nil || s.qr.version != s.version {
		s.qr = &QR{src: s, version: s.version}
	}
	return s.qr
}

func (s *SparseMatrix) String() string {
	r, c := s.csr.Dims()
	return fmt.Sprintf("SparseMatrix %d×%d nnz=%d", r, c, s.NNZ())
}
