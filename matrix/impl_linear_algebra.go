// SPDX-License-Identifier: MIT
// Package matrix provides the dense kernels used by the polytope machinery:
// transpose, products, pivoted solves, determinants, Householder QR/LQ and
// Jacobi eigenvalues. All functions perform strict fail-fast validation and
// return clear errors on dimension mismatches.
//
// Purpose:
//   - Declare canonical linear-algebra kernels used across the module.
//   - Define operation tags and shared constants for determinism and error reporting.
//
// Notes:
//   - Kernels operate on the flat row-major buffer of *Dense directly.
//   - All kernels use the central validators and wrap failures via matrixErrorf.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for forward/backward substitution and similar.
const ZeroSum = 0.0

// SingularTolerance is the pivot magnitude at or below which Solve reports ErrSingular.
const SingularTolerance = 1e-12

// EigenTolerance and eigenSweeps are the defaults used by EigenValues.
const (
	EigenTolerance = 1e-12
	eigenSweeps    = 64
)

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opEigen     = "Eigen"
	opSolve     = "Solve"
	opDet       = "Det"
	opQR        = "QR"
	opLQ        = "LQ"
	opCholesky  = "Cholesky"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
//
// Implementation:
//   - Stage 1: Wrap using fmt.Errorf("%s: %w", tag, err) to enable errors.Is/As.
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
//   - Keep `tag` to the canonical constants to simplify log/search pipelines.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Transpose returns a new c×r matrix with out[j,i] = m[i,j].
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	out := newDenseZeroOK(m.c, m.r)
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			out.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return out, nil
}

// Mul computes the matrix product a*b.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: i→k→j loop order so the inner loop walks both b and out row-wise.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*k*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	out := newDenseZeroOK(a.r, b.c)
	var i, j, k int
	var aik float64
	for i = 0; i < a.r; i++ {
		for k = 0; k < a.c; k++ {
			aik = a.data[i*a.c+k]
			if aik == 0 {
				continue
			}
			for j = 0; j < b.c; j++ {
				out.data[i*b.c+j] += aik * b.data[k*b.c+j]
			}
		}
	}

	return out, nil
}

// MatVec computes y = m*x.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)
	var i, j, base int
	var acc float64
	for i = 0; i < m.r; i++ {
		acc = ZeroSum
		base = i * m.c
		for j = 0; j < m.c; j++ {
			acc += m.data[base+j] * x[j]
		}
		y[i] = acc
	}

	return y, nil
}

// Solve returns x with a*x = b for square a using Gaussian elimination with
// partial pivoting. Neither a nor b is modified.
//
// Implementation:
//   - Stage 1: copy a and b into a working buffer.
//   - Stage 2: for each column pick the largest |pivot| (first on ties), swap, eliminate.
//   - Stage 3: back substitution.
//
// Errors:
//   - ErrNonSquare, ErrDimensionMismatch, ErrSingular (|pivot| ≤ SingularTolerance).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Solve(a *Dense, b []float64) ([]float64, error) {
	if err := ValidateSquare(a); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	n := a.r
	if err := ValidateVecLen(b, n); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	w := make([]float64, n*n)
	copy(w, a.data)
	x := make([]float64, n)
	copy(x, b)

	var (
		i, j, k, p int
		best, f    float64
	)
	for k = 0; k < n; k++ {
		// Stage 2.1: pivot search.
		p, best = k, math.Abs(w[k*n+k])
		for i = k + 1; i < n; i++ {
			if v := math.Abs(w[i*n+k]); v > best {
				p, best = i, v
			}
		}
		if best <= SingularTolerance {
			return nil, matrixErrorf(opSolve, ErrSingular)
		}
		if p != k {
			for j = 0; j < n; j++ {
				w[k*n+j], w[p*n+j] = w[p*n+j], w[k*n+j]
			}
			x[k], x[p] = x[p], x[k]
		}
		// Stage 2.2: eliminate below the pivot.
		for i = k + 1; i < n; i++ {
			f = w[i*n+k] / w[k*n+k]
			if f == 0 {
				continue
			}
			for j = k; j < n; j++ {
				w[i*n+j] -= f * w[k*n+j]
			}
			x[i] -= f * x[k]
		}
	}
	// Stage 3: back substitution.
	for i = n - 1; i >= 0; i-- {
		f = x[i]
		for j = i + 1; j < n; j++ {
			f -= w[i*n+j] * x[j]
		}
		x[i] = f / w[i*n+i]
	}

	return x, nil
}

// Det returns the determinant of a square matrix via LU with partial pivoting.
// A column without a nonzero pivot yields exactly 0 (no error).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Det(m *Dense) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opDet, err)
	}
	n := m.r
	w := make([]float64, n*n)
	copy(w, m.data)

	det := 1.0
	var (
		i, j, k, p int
		best, f    float64
	)
	for k = 0; k < n; k++ {
		p, best = k, math.Abs(w[k*n+k])
		for i = k + 1; i < n; i++ {
			if v := math.Abs(w[i*n+k]); v > best {
				p, best = i, v
			}
		}
		if best == 0 {
			return 0, nil
		}
		if p != k {
			for j = 0; j < n; j++ {
				w[k*n+j], w[p*n+j] = w[p*n+j], w[k*n+j]
			}
			det = -det
		}
		det *= w[k*n+k]
		for i = k + 1; i < n; i++ {
			f = w[i*n+k] / w[k*n+k]
			for j = k + 1; j < n; j++ {
				w[i*n+j] -= f * w[k*n+j]
			}
		}
	}

	return det, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via Jacobi rotations.
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Repeatedly pick (p,q) with the largest |A[p,q]| in i→j order and apply a Jacobi rotation.
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix, unsorted).
//   - *Dense: Q whose columns are eigenvectors.
//
// Errors:
//   - ErrNonSquare, ErrAsymmetry, ErrMatrixEigenFailed (max off-diagonal ≥ tol after maxIter).
//
// Determinism:
//   - Fixed i→j pivot search and fixed update order produce stable results.
//
// Complexity:
//   - Time O(maxIter * n), plus O(n^2) per pivot search; Space O(n^2).
func Eigen(m *Dense, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := m.r
	a := m.Clone()
	q := newDenseZeroOK(n, n)
	var i, j int
	for i = 0; i < n; i++ {
		q.data[i*n+i] = 1.0
	}

	var (
		iter               int
		p, r               int     // current pivot indices
		maxOff, off        float64 // current max |A[p,r]|
		app, arr, apr      float64
		aip, air, qip, qir float64
		newIP, newIR       float64
		theta, t, c, s     float64
	)
	for iter = 0; iter < maxIter; iter++ {
		// J.1: pivot search.
		maxOff = NormZero
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(a.data[i*n+j])
				if off > maxOff {
					maxOff, p, r = off, i, j
				}
			}
		}
		// J.2: convergence.
		if maxOff < tol {
			break
		}
		// J.3: rotation parameters.
		app, arr, apr = a.data[p*n+p], a.data[r*n+r], a.data[p*n+r]
		theta = (arr - app) / (2 * apr)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.4: apply rotation to A.
		for i = 0; i < n; i++ {
			if i == p || i == r {
				continue
			}
			aip, air = a.data[i*n+p], a.data[i*n+r]
			newIP = c*aip - s*air
			newIR = s*aip + c*air
			a.data[i*n+p], a.data[p*n+i] = newIP, newIP
			a.data[i*n+r], a.data[r*n+i] = newIR, newIR
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apr + s*s*arr
		a.data[r*n+r] = s*s*app + 2*c*s*apr + c*c*arr
		a.data[p*n+r], a.data[r*n+p] = 0, 0

		// J.5: accumulate into Q.
		for i = 0; i < n; i++ {
			qip, qir = q.data[i*n+p], q.data[i*n+r]
			q.data[i*n+p] = c*qip - s*qir
			q.data[i*n+r] = s*qip + c*qir
		}
	}

	maxOff = NormZero
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if off = math.Abs(a.data[i*n+j]); off > maxOff {
				maxOff = off
			}
		}
	}
	if maxOff >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, q, nil
}

// EigenValues returns the eigenvalues of a symmetric matrix in ascending order,
// using Eigen with EigenTolerance and a rotation budget scaled to n².
func EigenValues(m *Dense) ([]float64, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opEigen, err)
	}
	n := m.r
	eigs, _, err := Eigen(m, EigenTolerance, eigenSweeps*n*n+1)
	if err != nil {
		return nil, err
	}
	sort.Float64s(eigs)

	return eigs, nil
}

// QR computes a Householder factorization of an m×n matrix (m ≥ n) such that
// Qacc * A = R, i.e. A = Qaccᵀ * R.
// Implementation:
//   - Stage 1: Validate m (not nil, rows ≥ cols); clone A; init Qacc to identity.
//   - Stage 2: For k=0..n-1, build a column reflector H_k and apply it to A (forming R)
//     and to Qacc (accumulating H_k···H_0).
//
// Returns:
//   - *Dense: Qacc (m×m, orthogonal). Rows n..m-1 span the orthogonal complement of
//     the column space of A.
//   - *Dense: R (m×n, upper trapezoidal).
//
// Errors:
//   - ErrNilMatrix, ErrBadShape (rows < cols).
//
// Determinism:
//   - Fixed k→{i,j} visitation; no sign canonicalization inside.
//
// Complexity:
//   - Time O(m^2 n), Space O(m^2).
func QR(m *Dense) (*Dense, *Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	rows, cols := m.r, m.c
	if rows < cols {
		return nil, nil, matrixErrorf(opQR, ErrBadShape)
	}
	a := m.Clone()
	qacc := newDenseZeroOK(rows, rows)
	var i, j, k int
	for i = 0; i < rows; i++ {
		qacc.data[i*rows+i] = 1.0
	}

	v := make([]float64, rows)
	var norm, beta, alpha, tau, sum, aij float64
	for k = 0; k < cols; k++ {
		// 4.1: norm of A[k:m][k]
		norm = NormZero
		for i = k; i < rows; i++ {
			aij = a.data[i*cols+k]
			norm += aij * aij
		}
		norm = math.Sqrt(norm)
		if norm == NormZero {
			continue
		}
		// 4.2: alpha = -sign(A[k,k]) * norm
		alpha = -math.Copysign(norm, a.data[k*cols+k])

		// 4.3: Householder vector
		for i = 0; i < k; i++ {
			v[i] = 0
		}
		for i = k; i < rows; i++ {
			v[i] = a.data[i*cols+k]
		}
		v[k] -= alpha

		// 4.4: β = vᵀv, τ = 2/β
		beta = NormZero
		for i = k; i < rows; i++ {
			beta += v[i] * v[i]
		}
		if beta == NormZero {
			continue
		}
		tau = 2.0 / beta

		// 4.5: reflect A
		for j = k; j < cols; j++ {
			sum = ZeroSum
			for i = k; i < rows; i++ {
				sum += v[i] * a.data[i*cols+j]
			}
			for i = k; i < rows; i++ {
				a.data[i*cols+j] -= tau * v[i] * sum
			}
		}
		// 4.6: reflect Qacc
		for j = 0; j < rows; j++ {
			sum = ZeroSum
			for i = k; i < rows; i++ {
				sum += v[i] * qacc.data[i*rows+j]
			}
			for i = k; i < rows; i++ {
				qacc.data[i*rows+j] -= tau * v[i] * sum
			}
		}
	}

	return qacc, a, nil
}

// LQ factors an r×c matrix (r ≤ c) as A = L * Q with L r×c lower trapezoidal
// and Q c×c orthogonal.
// Implementation:
//   - Stage 1: QR of Aᵀ gives Qacc * Aᵀ = R.
//   - Stage 2: transpose back: A = Rᵀ * Qacc, so L = Rᵀ and Q = Qacc.
//
// Behavior highlights:
//   - Rows r..c-1 of Q span ker(A); for a full-rank d×(d+1) input the last row of Q
//     is the (unit) nullspace direction.
//
// Errors:
//   - ErrNilMatrix, ErrBadShape (r > c).
func LQ(m *Dense) (*Dense, *Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, nil, matrixErrorf(opLQ, err)
	}
	if m.r > m.c {
		return nil, nil, matrixErrorf(opLQ, ErrBadShape)
	}
	at, err := Transpose(m)
	if err != nil {
		return nil, nil, matrixErrorf(opLQ, err)
	}
	q, r, err := QR(at)
	if err != nil {
		return nil, nil, matrixErrorf(opLQ, err)
	}
	l, err := Transpose(r)
	if err != nil {
		return nil, nil, matrixErrorf(opLQ, err)
	}

	return l, q, nil
}
