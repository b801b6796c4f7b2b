// SPDX-License-Identifier: MIT

package vecfamily

import (
	"fmt"
	"iter"
	"slices"

	"github.com/katalvlaran/ptope/calc"
)

// Set holds distinct dim-length vectors in insertion order. Two vectors are
// the same when every coordinate is exactly equal.
type Set[T calc.Float] struct {
	fam    *Family[T]
	sorted []int // indices into fam, in lexicographic order
}

// NewSet creates an empty set of dim-length vectors.
func NewSet[T calc.Float](dim int) *Set[T] {
	return &Set[T]{fam: New[T](dim)}
}

// SetOf builds a set from vs, dropping repeats.
func SetOf[T calc.Float](dim int, vs ...[]T) (*Set[T], error) {
	s := NewSet[T](dim)
	for _, v := range vs {
		if _, err := s.Add(v); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func compareVec[T calc.Float](a, b []T) int {
	for k := range a {
		switch {
		case a[k] < b[k]:
			return -1
		case a[k] > b[k]:
			return 1
		}
	}

	return 0
}

func (s *Set[T]) search(v []T) (int, bool) {
	return slices.BinarySearchFunc(s.sorted, v, func(idx int, target []T) int {
		return compareVec(s.fam.View(idx), target)
	})
}

// Add inserts a copy of v and reports whether it was new.
func (s *Set[T]) Add(v []T) (bool, error) {
	if len(v) != s.fam.Dimension() {
		return false, fmt.Errorf("Set.Add: length %d, want %d: %w", len(v), s.fam.Dimension(), ErrDimensionMismatch)
	}
	pos, found := s.search(v)
	if found {
		return false, nil
	}
	if err := s.fam.AddVector(v); err != nil {
		return false, err
	}
	s.sorted = slices.Insert(s.sorted, pos, s.fam.Size()-1)

	return true, nil
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v []T) bool {
	if len(v) != s.fam.Dimension() {
		return false
	}
	_, found := s.search(v)

	return found
}

// At returns vector i in insertion order without copying. Callers must not
// modify it. At panics on an out-of-range index.
func (s *Set[T]) At(i int) []T { return s.fam.View(i) }

// Len returns the number of vectors.
func (s *Set[T]) Len() int { return s.fam.Size() }

// Dimension returns the length of every vector.
func (s *Set[T]) Dimension() int { return s.fam.Dimension() }

// Clear removes every vector and keeps the dimension.
func (s *Set[T]) Clear() {
	s.fam = New[T](s.fam.Dimension())
	s.sorted = s.sorted[:0]
}

// All yields (index, vector) in insertion order.
func (s *Set[T]) All() iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		for i := 0; i < s.fam.Size(); i++ {
			if !yield(i, s.fam.View(i)) {
				return
			}
		}
	}
}

// Family returns the vectors as a family, in insertion order. The family
// shares storage with the set; callers must not modify it.
func (s *Set[T]) Family() *Family[T] { return s.fam }
