// SPDX-License-Identifier: MIT

package polytope

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/ptope/calc"
	"github.com/katalvlaran/ptope/matrix"
	"github.com/katalvlaran/ptope/solver"
)

// ExtendByInnerProducts adds one vector whose inner products with the first
// RealDimension() vectors are ip. The result is a new candidate; p is not
// modified. When no such unit vector exists the result is invalid, not an error.
//
// Errors:
//   - ErrInvalidCandidate when p is invalid.
//   - ErrDimensionMismatch when len(ip) != RealDimension().
func (p *Candidate) ExtendByInnerProducts(ip []float64) (*Candidate, error) {
	if !p.valid {
		return nil, polytopeErrorf(opExtendIP, ErrInvalidCandidate)
	}
	if len(ip) != p.RealDimension() {
		return nil, polytopeErrorf(opExtendIP,
			fmt.Errorf("%d inner products for dimension %d: %w", len(ip), p.RealDimension(), ErrDimensionMismatch))
	}
	v, ok, err := p.vectorFromInnerProducts(ip)
	if err != nil {
		return nil, polytopeErrorf(opExtendIP, err)
	}
	if !ok {
		return invalid(), nil
	}

	return p.ExtendByVector(v)
}

// vectorFromInnerProducts finds the unit vector for ip. ok is false when the
// configuration has no realisation.
func (p *Candidate) vectorFromInnerProducts(ip []float64) (v []float64, ok bool, err error) {
	if !p.hyperbolic {
		return p.euclideanVector(ip)
	}

	return p.hyperbolicVector(ip)
}

// euclideanVector solves basisT·x = ip exactly. The unit vector needs a time
// coordinate √(‖x‖²−1), which only exists when ‖x‖² exceeds 1.
func (p *Candidate) euclideanVector(ip []float64) ([]float64, bool, error) {
	x, err := matrix.Solve(p.basisT, ip)
	if errors.Is(err, matrix.ErrSingular) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	e := calc.EuclSqNorm(x)
	if e-1 < Tolerance {
		return nil, false, nil
	}

	return append(x, math.Sqrt(e-1)), true, nil
}

// hyperbolicVector solves the underdetermined system basisT·x = ip and picks
// x = x₀ + λn on the unit hyperboloid ⟨x,x⟩ = 1.
//
// Implementation:
//   - Stage 1: x₀ = minimum-norm solution, n = nullspace (cached LQ).
//   - Stage 2: ⟨x₀+λn, x₀+λn⟩ = 1 is the quadratic aa·λ² + 2ax·λ + (xx−1) = 0.
//   - Stage 3: a root is usable only if the new vector has non-positive inner
//     product (within Tolerance) with every vector outside the basis.
//     The larger root is tried first. A discriminant within Tolerance of
//     zero is a tangency and yields the double root.
func (p *Candidate) hyperbolicVector(ip []float64) ([]float64, bool, error) {
	info, err := p.lq.get(p.basisT)
	if errors.Is(err, solver.ErrRankDeficient) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	x, err := info.Solve(ip)
	if err != nil {
		return nil, false, err
	}
	n := info.Nullspace()

	xx := calc.MinkSqNorm(x)
	if math.Abs(xx-1) < Tolerance {
		// Euclidean unit solution: the new vector would not be hyperbolic.
		return nil, false, nil
	}
	ax := calc.MinkInnerProd(n, x)
	aa := calc.MinkSqNorm(n)
	disc := ax*ax + aa*(1-xx)
	if disc < -Tolerance || math.Abs(aa) < Tolerance {
		return nil, false, nil
	}
	// a discriminant within Tolerance of zero is a tangency: one double root
	root := 0.0
	if disc >= Tolerance {
		root = math.Sqrt(disc)
	}
	lp := (-ax + root) / aa
	lm := (-ax - root) / aa

	plus, minus := true, true
	var xv, av float64
	for i, size := len(ip), p.vectors.Size(); i < size && (plus || minus); i++ {
		w := p.vectors.View(i)
		xv = calc.MinkInnerProd(x, w)
		av = calc.MinkInnerProd(n, w)
		if xv+lp*av > Tolerance {
			plus = false
		}
		if xv+lm*av > Tolerance {
			minus = false
		}
	}
	var l float64
	switch {
	case plus:
		l = lp
	case minus:
		l = lm
	default:
		return nil, false, nil
	}
	for i := range x {
		x[i] += l * n[i]
	}

	return x, true, nil
}

// ExtendByVector appends v and grows the Gram matrix with its Lorentzian
// inner products. A Euclidean candidate expects a vector with one extra
// (time) coordinate and becomes hyperbolic; a hyperbolic candidate expects a
// vector of its own length and shares its basis with the result.
//
// Errors:
//   - ErrInvalidCandidate, ErrDimensionMismatch.
func (p *Candidate) ExtendByVector(v []float64) (*Candidate, error) {
	if !p.valid {
		return nil, polytopeErrorf(opExtendVec, ErrInvalidCandidate)
	}
	out := &Candidate{hyperbolic: true, valid: true}
	var err error
	if p.hyperbolic {
		if out.vectors, err = p.vectors.CopyAndAddVector(v); err != nil {
			return nil, polytopeErrorf(opExtendVec, fmt.Errorf("%w: %w", ErrDimensionMismatch, err))
		}
		out.basisT, out.lq = p.basisT, p.lq
	} else {
		if out.vectors, err = p.vectors.CopyAndAddFirstHyperbolicVector(v); err != nil {
			return nil, polytopeErrorf(opExtendVec, fmt.Errorf("%w: %w", ErrDimensionMismatch, err))
		}
		// Existing vectors have zero time coordinate, so no sign flip is needed.
		if out.basisT, err = out.vectors.BasisTransposed(out.vectors.Dimension() - 1); err != nil {
			return nil, polytopeErrorf(opExtendVec, err)
		}
		out.lq = &lqCache{}
	}

	last := out.vectors.Size() - 1
	border := make([]float64, last)
	for i := 0; i < last; i++ {
		border[i] = calc.MinkInnerProd(v, out.vectors.View(i))
	}
	if out.gram, err = p.gram.Bordered(border, calc.MinkSqNorm(v)); err != nil {
		return nil, polytopeErrorf(opExtendVec, err)
	}

	return out, nil
}
