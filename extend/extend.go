// SPDX-License-Identifier: MIT

// Package extend enumerates the children of a candidate: inner-product
// vectors drawn from an angle set, the extensions they produce, and the
// rebased copies of a candidate over every choice of leading vectors.
//
// All generators are lazy iter.Seq values; breaking out of a range loop
// stops the enumeration.
package extend

import (
	"iter"

	"github.com/katalvlaran/ptope/filter"
	"github.com/katalvlaran/ptope/polytope"
	"github.com/katalvlaran/ptope/vecfamily"
)

// InnerProductVectors yields every vector of length size whose entries are
// drawn from products. It counts in mixed radix over products in reverse
// order, with the first entry changing fastest, so len(products)^size
// vectors are produced. Each yielded slice is fresh and may be retained.
func InnerProductVectors(products []float64, size int) iter.Seq[[]float64] {
	return func(yield func([]float64) bool) {
		if size < 0 || (size > 0 && len(products) == 0) {
			return
		}
		last := len(products) - 1
		digits := make([]int, size)
		for {
			v := make([]float64, size)
			for i, d := range digits {
				v[i] = products[last-d]
			}
			if !yield(v) {
				return
			}
			i := 0
			for ; i < size; i++ {
				digits[i]++
				if digits[i] <= last {
					break
				}
				digits[i] = 0
			}
			if i == size {
				return
			}
		}
	}
}

// Extensions yields every valid candidate obtained by extending p with an
// inner-product vector over products. Extensions that fail for geometric
// reasons are skipped, as are all extensions of an invalid p.
func Extensions(p *polytope.Candidate, products []float64) iter.Seq[*polytope.Candidate] {
	return func(yield func(*polytope.Candidate) bool) {
		if p == nil || !p.Valid() {
			return
		}
		for ip := range InnerProductVectors(products, p.RealDimension()) {
			child, err := p.ExtendByInnerProducts(ip)
			if err != nil || !child.Valid() {
				continue
			}
			if !yield(child) {
				return
			}
		}
	}
}

// ExtensionVectors collects the distinct new vectors of Extensions(p, products)
// in generation order.
func ExtensionVectors(p *polytope.Candidate, products []float64) *vecfamily.Set[float64] {
	var set *vecfamily.Set[float64]
	for child := range Extensions(p, products) {
		last := child.Size() - 1
		v, err := child.Vector(last)
		if err != nil {
			continue
		}
		if set == nil {
			set = vecfamily.NewSet[float64](len(v))
		}
		_, _ = set.Add(v)
	}
	if set == nil {
		set = vecfamily.NewSet[float64](0)
	}

	return set
}

// Pairs yields p extended by two vectors at once: every unordered pair of
// extension vectors of p whose mutual product passes check. Pairs whose
// product fails check are pruned before either extension is built. The
// products of the pair with vectors outside the basis of p are not checked.
// A nil check means filter.NewAngleCheck(nil).
func Pairs(p *polytope.Candidate, products []float64, check *filter.AngleCheck) iter.Seq[*polytope.Candidate] {
	return func(yield func(*polytope.Candidate) bool) {
		if p == nil || !p.Valid() {
			return
		}
		set := ExtensionVectors(p, products)
		compat := filter.NewCompatibility(set, check)
		for i := 0; i < set.Len(); i++ {
			var first *polytope.Candidate
			for j := compat.NextCompatibleTo(i, i); j != i; j = compat.NextCompatibleTo(i, j) {
				if first == nil {
					var err error
					if first, err = p.ExtendByVector(set.At(i)); err != nil {
						break
					}
				}
				child, err := first.ExtendByVector(set.At(j))
				if err != nil {
					continue
				}
				if !yield(child) {
					return
				}
			}
		}
	}
}

// Combinations yields the size-element subsets of [0, n) in lexicographic
// order. The yielded slice is reused between iterations; clone it to keep it.
func Combinations(size, n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if size < 0 || size > n {
			return
		}
		idx := make([]int, size)
		for i := range idx {
			idx[i] = i
		}
		for {
			if !yield(idx) {
				return
			}
			i := size - 1
			for i >= 0 && idx[i] == n-size+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < size; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

// Rebases yields one copy of p per choice of RealDimension() leading vectors
// out of Size(), each rebased with RebaseVectors. The first copy keeps the
// original order. Choices that cannot be rebased are skipped.
func Rebases(p *polytope.Candidate) iter.Seq[*polytope.Candidate] {
	return func(yield func(*polytope.Candidate) bool) {
		if p == nil || !p.Valid() {
			return
		}
		for idx := range Combinations(p.RealDimension(), p.Size()) {
			out := p.Clone()
			if err := out.RebaseVectors(idx); err != nil {
				continue
			}
			if !yield(out) {
				return
			}
		}
	}
}
