package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const symmetryTol = 1e-12

// Cholesky solves symmetric positive definite systems A·x = b.
type Cholesky struct {
	src     *SparseMatrix
	version uint64
	fac     *band
	err     error
}

// SolvePositiveDefinite solves A·x = b for every column of b. The first call
// factors A; later calls reuse the factor.
func (c *Cholesky) SolvePositiveDefinite(b *DenseMatrix) (*DenseMatrix, error) {
	if c.version != c.src.version {
		return nil, ErrStaleFactorization
	}
	if c.fac == nil && c.err == nil {
		c.fac, c.err = factorBand(c.src)
	}
	if c.err != nil {
		return nil, c.err
	}
	if b.NRows() != c.fac.n {
		return nil, fmt.Errorf("%w: rhs has %d rows, system has %d", ErrDimensionMismatch, b.NRows(), c.fac.n)
	}
	return c.fac.solve(b)
}

// Factored reports whether the decomposition has been computed.
func (c *Cholesky) Factored() bool { return c.fac != nil }

// LU solves general square systems using partial pivoting.
type LU struct {
	src     *SparseMatrix
	version uint64
	lu      *mat.LU
	err     error
}

// SolveSquare solves A·x = b. The first call factors A.
func (f *LU) SolveSquare(b *DenseMatrix) (*DenseMatrix, error) {
	if f.version != f.src.version {
		return nil, ErrStaleFactorization
	}
	if f.lu == nil && f.err == nil {
		f.lu, f.err = factorLU(f.src)
	}
	if f.err != nil {
		return nil, f.err
	}
	if b.NRows() != f.src.NRows() {
		return nil, fmt.Errorf("%w: rhs has %d rows, system has %d", ErrDimensionMismatch, b.NRows(), f.src.NRows())
	}
	var x mat.Dense
	if err := f.lu.SolveTo(&x, false, b.m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return &DenseMatrix{m: &x}, nil
}

func (f *LU) Factored() bool { return f.lu != nil }

func factorLU(s *SparseMatrix) (*mat.LU, error) {
	r, c := s.csr.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %d×%d", ErrNotSquare, r, c)
	}
	var lu mat.LU
	lu.Factorize(s.ToDense().m)
	if cond := lu.Cond(); math.IsInf(cond, 1) || math.IsNaN(cond) {
		return nil, ErrSingular
	}
	return &lu, nil
}

// QR solves rectangular systems in the least squares sense. Underdetermined
// systems get the minimum norm solution.
type QR struct {
	src     *SparseMatrix
	version uint64
	qr      *mat.QR
	trans   bool // qr holds the factorization of Aᵀ
}

// Solve returns x minimizing |A·x - b|. The first call factors A.
func (f *QR) Solve(b *DenseMatrix) (*DenseMatrix, error) {
	if f.version != f.src.version {
		return nil, ErrStaleFactorization
	}
	r, c := f.src.csr.Dims()
	if b.NRows() != r {
		return nil, fmt.Errorf("%w: rhs has %d rows, system has %d", ErrDimensionMismatch, b.NRows(), r)
	}
	if f.qr == nil {
		a := f.src.ToDense().m
		f.qr = &mat.QR{}
		if r >= c {
			f.qr.Factorize(a)
		} else {
			f.qr.Factorize(a.T())
			f.trans = true
		}
	}
	var x mat.Dense
	if err := f.qr.SolveTo(&x, f.trans, b.m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return &DenseMatrix{m: &x}, nil
}

func (f *QR) Factored() bool { return f.qr != nil }
