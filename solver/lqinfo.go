// SPDX-License-Identifier: MIT

package solver

import (
	"math"

	"github.com/katalvlaran/ptope/matrix"
)

// RankTolerance is the magnitude at or below which a diagonal entry of L
// is treated as zero.
const RankTolerance = 1e-10

// LQInfo caches the pieces of an LQ factorization A = L·Q of an r×(r+1)
// matrix needed to solve A·x = b.
//
//   - qtli = Q₁ᵀ·L₁⁻¹, shape (r+1)×r, where Q₁ is the first r rows of Q and
//     L₁ the leading r×r lower triangle of L.
//   - nullspace is row r of Q, a unit vector spanning ker(A).
type LQInfo struct {
	rows      int
	qtli      []float64 // row-major (rows+1)×rows
	nullspace []float64
}

// ComputeLQInfo factors a and builds the solve cache.
//
// Implementation:
//   - Stage 1: validate the r×(r+1) shape.
//   - Stage 2: A = L·Q via matrix.LQ; reject |L_ii| ≤ RankTolerance.
//   - Stage 3: invert L₁ column by column with forward substitution.
//   - Stage 4: qtli = Q₁ᵀ·L₁⁻¹; copy the nullspace row.
//
// Errors:
//   - ErrBadShape, ErrRankDeficient, and wrapped matrix errors.
func ComputeLQInfo(a *matrix.Dense) (*LQInfo, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, solverErrorf(opCompute, err)
	}
	r, c := a.Shape()
	if c != r+1 {
		return nil, solverErrorf(opCompute, ErrBadShape)
	}
	l, q, err := matrix.LQ(a)
	if err != nil {
		return nil, solverErrorf(opCompute, err)
	}

	// Stage 2: pull L₁ out and check its diagonal.
	lw := make([]float64, r*r)
	var i, j, k int
	for i = 0; i < r; i++ {
		row := l.RawRowView(i)
		copy(lw[i*r:i*r+i+1], row[:i+1])
		if math.Abs(lw[i*r+i]) <= RankTolerance {
			return nil, solverErrorf(opCompute, ErrRankDeficient)
		}
	}

	// Stage 3: L₁⁻¹, lower triangular.
	linv := make([]float64, r*r)
	var sum float64
	for j = 0; j < r; j++ {
		linv[j*r+j] = 1 / lw[j*r+j]
		for i = j + 1; i < r; i++ {
			sum = 0
			for k = j; k < i; k++ {
				sum -= lw[i*r+k] * linv[k*r+j]
			}
			linv[i*r+j] = sum / lw[i*r+i]
		}
	}

	// Stage 4: qtli[i][j] = Σ_k Q[k][i] · L₁⁻¹[k][j].
	info := &LQInfo{
		rows:      r,
		qtli:      make([]float64, c*r),
		nullspace: make([]float64, c),
	}
	for k = 0; k < r; k++ {
		qrow := q.RawRowView(k)
		for i = 0; i < c; i++ {
			if qrow[i] == 0 {
				continue
			}
			for j = 0; j <= k; j++ {
				info.qtli[i*r+j] += qrow[i] * linv[k*r+j]
			}
		}
	}
	copy(info.nullspace, q.RawRowView(r))

	return info, nil
}

// Rows returns r, the number of equations.
func (l *LQInfo) Rows() int { return l.rows }

// Solve returns the minimum-norm solution x₀ = qtli·b.
func (l *LQInfo) Solve(b []float64) ([]float64, error) {
	if len(b) != l.rows {
		return nil, solverErrorf(opSolve, ErrDimensionMismatch)
	}
	c := l.rows + 1
	x := make([]float64, c)
	var i, j int
	var acc float64
	for i = 0; i < c; i++ {
		acc = 0
		for j = 0; j < l.rows; j++ {
			acc += l.qtli[i*l.rows+j] * b[j]
		}
		x[i] = acc
	}

	return x, nil
}

// Nullspace returns a copy of the unit vector spanning ker(A).
func (l *LQInfo) Nullspace() []float64 {
	out := make([]float64, len(l.nullspace))
	copy(out, l.nullspace)

	return out
}
