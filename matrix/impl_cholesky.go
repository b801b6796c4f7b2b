// SPDX-License-Identifier: MIT

// Package matrix - Cholesky factorization and positive-definiteness probes.
//
// Purpose:
//   - Factor a symmetric positive definite G as G = Rᵀ R with R upper triangular.
//   - Answer "is this principal submatrix positive definite?" without building it,
//     which is the inner test of the compactness walk.
//
// Notes:
//   - A pivot at or below PDTolerance is treated as "not positive definite".
//   - Only the upper triangle of the input is read.

package matrix

import "math"

// PDTolerance is the smallest Cholesky pivot accepted as strictly positive.
const PDTolerance = 1e-10

// Cholesky returns the upper-triangular R with m = Rᵀ R.
//
// Implementation:
//   - Stage 1: ValidateSquare.
//   - Stage 2: row-by-row: R[i,i] = sqrt(m[i,i] - Σ_{k<i} R[k,i]²), then the rest of row i.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNotPositiveDefinite (pivot ≤ PDTolerance).
//
// Complexity:
//   - Time O(n^3/3), Space O(n^2).
func Cholesky(m *Dense) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	n := m.r
	r := newDenseZeroOK(n, n)
	var (
		i, j, k int
		pivot   float64
		sum     float64
	)
	for i = 0; i < n; i++ {
		pivot = m.data[i*n+i]
		for k = 0; k < i; k++ {
			pivot -= r.data[k*n+i] * r.data[k*n+i]
		}
		if pivot <= PDTolerance {
			return nil, matrixErrorf(opCholesky, ErrNotPositiveDefinite)
		}
		pivot = math.Sqrt(pivot)
		r.data[i*n+i] = pivot
		for j = i + 1; j < n; j++ {
			sum = m.data[i*n+j]
			for k = 0; k < i; k++ {
				sum -= r.data[k*n+i] * r.data[k*n+j]
			}
			r.data[i*n+j] = sum / pivot
		}
	}

	return r, nil
}

// IsPositiveDefinite reports whether a Cholesky factorization of m succeeds.
// Non-square or nil input reports false.
func IsPositiveDefinite(m *Dense) bool {
	if ValidateSquare(m) != nil {
		return false
	}
	idx := make([]int, m.r)
	for i := range idx {
		idx[i] = i
	}

	return PositiveDefiniteAt(m, idx, nil)
}

// PositiveDefiniteAt reports whether the principal submatrix of m on idx is
// positive definite. scratch is reused when it holds at least len(idx)² values;
// pass nil to let the call allocate.
//
// Contract:
//   - m is square and every idx entry is in range; violations report false.
func PositiveDefiniteAt(m *Dense, idx []int, scratch []float64) bool {
	if m == nil || m.r != m.c {
		return false
	}
	n, stride := len(idx), m.c
	for _, v := range idx {
		if v < 0 || v >= m.r {
			return false
		}
	}
	if cap(scratch) < n*n {
		scratch = make([]float64, n*n)
	}
	r := scratch[:n*n]

	var (
		i, j, k int
		pivot   float64
		sum     float64
	)
	for i = 0; i < n; i++ {
		pivot = m.data[idx[i]*stride+idx[i]]
		for k = 0; k < i; k++ {
			pivot -= r[k*n+i] * r[k*n+i]
		}
		if pivot <= PDTolerance {
			return false
		}
		pivot = math.Sqrt(pivot)
		r[i*n+i] = pivot
		for j = i + 1; j < n; j++ {
			sum = m.data[idx[i]*stride+idx[j]]
			for k = 0; k < i; k++ {
				sum -= r[k*n+i] * r[k*n+j]
			}
			r[i*n+j] = sum / pivot
		}
	}

	return true
}
