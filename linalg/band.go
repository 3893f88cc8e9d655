package linalg

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// band is the banded Cholesky factor of P·A·Pᵀ, where P is the reverse
// Cuthill–McKee ordering of the graph of A.
type band struct {
	n    int
	k    int   // half bandwidth of the reordered matrix
	perm []int // perm[new] = old
	ch   mat.BandCholesky
}

func factorBand(s *SparseMatrix) (*band, error) {
	n, c := s.csr.Dims()
	if n != c {
		return nil, fmt.Errorf("%w: %d×%d", ErrNotSquare, n, c)
	}
	if !s.IsSymmetric(symmetryTol) {
		return nil, ErrNotSymmetric
	}

	adj := make([][]int, n)
	s.each(func(i, j int, v float64) {
		if i != j && v != 0 {
			adj[i] = append(adj[i], j)
		}
	})
	perm := reverseCuthillMcKee(adj)
	inv := make([]int, n)
	for nw, old := range perm {
		inv[old] = nw
	}

	k := 0
	s.each(func(i, j int, _ float64) {
		k = max(k, inv[j]-inv[i])
	})
	sb := mat.NewSymBandDense(n, k, nil)
	s.each(func(i, j int, v float64) {
		if ni, nj := inv[i], inv[j]; nj >= ni {
			sb.SetSymBand(ni, nj, v)
		}
	})

	b := &band{n: n, k: k, perm: perm}
	if !b.ch.Factorize(sb) {
		return nil, ErrNotPositiveDefinite
	}
	return b, nil
}

// solve returns x with A·x = rhs for every column of rhs.
func (b *band) solve(rhs *DenseMatrix) (*DenseMatrix, error) {
	nc := rhs.NCols()
	pb := mat.NewDense(b.n, nc, nil)
	for i, old := range b.perm {
		for j := 0; j < nc; j++ {
			pb.Set(i, j, rhs.m.At(old, j))
		}
	}
	var px mat.Dense
	if err := b.ch.SolveTo(&px, pb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	out := Zeros(b.n, nc)
	for i, old := range b.perm {
		for j := 0; j < nc; j++ {
			out.m.Set(old, j, px.At(i, j))
		}
	}
	return out, nil
}

// reverseCuthillMcKee orders the graph adj to shrink the matrix bandwidth.
// Each component starts from its lowest degree vertex; ties break on index.
func reverseCuthillMcKee(adj [][]int) []int {
	n := len(adj)
	visited := make([]bool, n)
	order := make([]int, 0, n)
	byDegree := func(a, b int) int {
		if c := cmp.Compare(len(adj[a]), len(adj[b])); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	}
	for len(order) < n {
		start := -1
		for i := 0; i < n; i++ {
			if !visited[i] && (start < 0 || len(adj[i]) < len(adj[start])) {
				start = i
			}
		}
		visited[start] = true
		order = append(order, start)
		for q := len(order) - 1; q < len(order); q++ {
			var next []int
			for _, w := range adj[order[q]] {
				if !visited[w] {
					visited[w] = true
					next = append(next, w)
				}
			}
			slices.SortFunc(next, byDegree)
			order = append(order, next...)
		}
	}
	slices.Reverse(order)
	return order
}
