package linalg

import "errors"

var (
	// ErrNotSquare is returned by factorizations that need a square matrix.
	ErrNotSquare = errors.New("linalg: matrix is not square")
	// ErrNotSymmetric is returned by Cholesky for a non-symmetric matrix.
	ErrNotSymmetric = errors.New("linalg: matrix is not symmetric")
	// ErrNotPositiveDefinite is returned by Cholesky when a pivot is not positive.
	ErrNotPositiveDefinite = errors.New("linalg: matrix is not positive definite")
	// ErrSingular is returned by LU for a singular matrix.
	ErrSingular = errors.New("linalg: matrix is singular")
	// ErrDimensionMismatch is returned when a right hand side does not match the system.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")
	// ErrStaleFactorization is returned when the source matrix was mutated
	// after the factorization handle was taken.
	ErrStaleFactorization = errors.New("linalg: source matrix changed since factorization")
)
