// SPDX-License-Identifier: MIT

package vecfamily

import (
	"iter"

	"github.com/katalvlaran/ptope/calc"
)

// PackedGram is the Lorentzian Gram matrix of a vector set, stored as its
// packed lower triangle: entry (i, j) with j ≤ i lives at i(i+1)/2 + j.
type PackedGram[T calc.Float] struct {
	n    int
	data []T
}

// NewPackedGram computes every pairwise Lorentzian product of s.
func NewPackedGram[T calc.Float](s *Set[T]) *PackedGram[T] {
	n := s.Len()
	g := &PackedGram[T]{n: n, data: make([]T, n*(n+1)/2)}
	for i := 0; i < n; i++ {
		vi := s.At(i)
		base := i * (i + 1) / 2
		for j := 0; j <= i; j++ {
			g.data[base+j] = calc.MinkInnerProd(vi, s.At(j))
		}
	}

	return g
}

// Len returns the order of the matrix.
func (g *PackedGram[T]) Len() int { return g.n }

// At returns entry (i, j). The matrix is symmetric, so the order of i and j
// does not matter. At panics on an out-of-range index.
func (g *PackedGram[T]) At(i, j int) T {
	if j > i {
		i, j = j, i
	}
	if i >= g.n || j < 0 {
		panic(ErrOutOfRange)
	}

	return g.data[i*(i+1)/2+j]
}

// All yields the lower triangle row by row as ((i, j), value) with j ≤ i.
func (g *PackedGram[T]) All() iter.Seq2[[2]int, T] {
	return func(yield func([2]int, T) bool) {
		k := 0
		for i := 0; i < g.n; i++ {
			for j := 0; j <= i; j++ {
				if !yield([2]int{i, j}, g.data[k]) {
					return
				}
				k++
			}
		}
	}
}
