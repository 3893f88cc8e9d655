package linalg

import "github.com/james-bowman/sparse"

// Triplet accumulates (value, row, col) entries of an m×n sparse matrix in
// coordinate form. Repeated (i,j) pairs are summed when the triplet is
// compressed or read.
type Triplet struct {
	coo *sparse.COO
}

func NewTriplet(m, n int) *Triplet {
	return &Triplet{coo: sparse.NewCOO(m, n, nil, nil, nil)}
}

func (t *Triplet) Dims() (int, int) { return t.coo.Dims() }

// AddEntry adds x to entry (i,j). Out of range indices panic.
func (t *Triplet) AddEntry(x float64, i, j int) { t.coo.Set(i, j, x) }

// Len is the number of distinct (i,j) pairs.
func (t *Triplet) Len() int { return t.coo.ToCSR().NNZ() }

// At returns the accumulated value at (i,j).
func (t *Triplet) At(i, j int) float64 { return t.coo.At(i, j) }
