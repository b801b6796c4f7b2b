// SPDX-License-Identifier: MIT

package polytope

import (
	"fmt"
	"slices"
)

// RebaseVectors moves the vectors at indices to the front, so that the next
// extension prescribes inner products against them. It mutates p and installs
// a fresh LQ cache.
//
// Implementation:
//   - Stage 1: sort a copy of indices.
//   - Stage 2: for each i, swap vector i with vector indices[i] (Gram rows and columns too).
//   - Stage 3: rebuild the basis.
//
// Errors:
//   - ErrInvalidCandidate, ErrDimensionMismatch (len != RealDimension()),
//     ErrOutOfRange, and duplicate indices (ErrOutOfRange).
func (p *Candidate) RebaseVectors(indices []int) error {
	if !p.valid {
		return polytopeErrorf(opRebase, ErrInvalidCandidate)
	}
	if len(indices) != p.RealDimension() {
		return polytopeErrorf(opRebase,
			fmt.Errorf("%d indices for dimension %d: %w", len(indices), p.RealDimension(), ErrDimensionMismatch))
	}
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	size := p.Size()
	for i, idx := range sorted {
		if idx < 0 || idx >= size || (i > 0 && sorted[i-1] == idx) {
			return polytopeErrorf(opRebase, fmt.Errorf("index %d: %w", idx, ErrOutOfRange))
		}
	}
	for i, idx := range sorted {
		if err := p.swap(i, idx); err != nil {
			return polytopeErrorf(opRebase, err)
		}
	}
	if err := p.rebuildBasis(); err != nil {
		return polytopeErrorf(opRebase, err)
	}

	return nil
}

// SwapRebase returns a copy of p with vectors a and b exchanged and the basis
// rebuilt. p is not modified.
func (p *Candidate) SwapRebase(a, b int) (*Candidate, error) {
	if !p.valid {
		return nil, polytopeErrorf(opSwap, ErrInvalidCandidate)
	}
	out := p.Clone()
	if err := out.swap(a, b); err != nil {
		return nil, polytopeErrorf(opSwap, err)
	}
	if err := out.rebuildBasis(); err != nil {
		return nil, polytopeErrorf(opSwap, err)
	}

	return out, nil
}

func (p *Candidate) swap(a, b int) error {
	if err := p.vectors.Swap(a, b); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}

	return p.gram.SwapRowsCols(a, b)
}

// rebuildBasis derives basisT from the leading vectors. In Lorentzian space
// the time column is negated so that basisT·x gives the inner products
// ⟨vᵢ, x⟩ directly.
func (p *Candidate) rebuildBasis() error {
	d := p.RealDimension()
	basisT, err := p.vectors.BasisTransposed(d)
	if err != nil {
		return err
	}
	if p.hyperbolic {
		if err = basisT.Apply(func(_, j int, v float64) float64 {
			if j == d {
				return -v
			}
			return v
		}); err != nil {
			return err
		}
	}
	p.basisT = basisT
	p.lq = &lqCache{}

	return nil
}
