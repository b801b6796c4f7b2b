// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the linear-algebra kernels.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/ptope/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// a3Gram is the Gram matrix of the A3 Coxeter diagram.
func a3Gram() *matrix.Dense {
	return matrix.MustFromRows([][]float64{
		{1, -0.5, 0},
		{-0.5, 1, -0.5},
		{0, -0.5, 1},
	})
}

// TestTranspose_Rectangular verifies shape and element placement.
func TestTranspose_Rectangular(t *testing.T) {
	t.Parallel()

	m := matrix.MustFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	tr, err := matrix.Transpose(m)
	require.NoError(t, err)
	want := matrix.MustFromRows([][]float64{{1, 4}, {2, 5}, {3, 6}})
	assert.True(t, tr.Equal(want, 0))

	_, err = matrix.Transpose(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMul_AndMatVec verifies products and dimension checks.
func TestMul_AndMatVec(t *testing.T) {
	t.Parallel()

	a := matrix.MustFromRows([][]float64{{1, 2}, {3, 4}})
	b := matrix.MustFromRows([][]float64{{0, 1}, {1, 0}})
	p, err := matrix.Mul(a, b)
	require.NoError(t, err)
	assert.True(t, p.Equal(matrix.MustFromRows([][]float64{{2, 1}, {4, 3}}), 0))

	y, err := matrix.MatVec(a, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 7}, y)

	_, err = matrix.MatVec(a, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(a, matrix.MustFromRows([][]float64{{1, 2, 3}}))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestSolve_PartialPivoting needs a row swap on the very first column.
func TestSolve_PartialPivoting(t *testing.T) {
	t.Parallel()

	a := matrix.MustFromRows([][]float64{
		{0, 1, 2},
		{1, 0, 1},
		{2, 1, 0},
	})
	want := []float64{1, -2, 3}
	b, err := matrix.MatVec(a, want)
	require.NoError(t, err)

	x, err := matrix.Solve(a, b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, x, eps)

	// inputs untouched
	v, _ := a.At(0, 0)
	assert.Equal(t, 0.0, v)
}

// TestSolve_Singular reports ErrSingular on rank-deficient input.
func TestSolve_Singular(t *testing.T) {
	t.Parallel()

	a := matrix.MustFromRows([][]float64{{1, 2}, {2, 4}})
	_, err := matrix.Solve(a, []float64{1, 1})
	assert.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.Solve(matrix.MustFromRows([][]float64{{1, 2}}), []float64{1})
	assert.ErrorIs(t, err, matrix.ErrNonSquare)
}

// TestDet_KnownValues checks a pivoting case, a singular case and A3.
func TestDet_KnownValues(t *testing.T) {
	t.Parallel()

	d, err := matrix.Det(matrix.MustFromRows([][]float64{{0, 1}, {1, 0}}))
	require.NoError(t, err)
	assert.InDelta(t, -1.0, d, eps)

	d, err = matrix.Det(matrix.MustFromRows([][]float64{{1, 2}, {2, 4}}))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d, eps)

	// det(A_n Gram) = (n+1)/2^n
	d, err = matrix.Det(a3Gram())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, eps)
}

// TestEigenValues_A3 compares against the closed form 1 - cos(kπ/4).
func TestEigenValues_A3(t *testing.T) {
	t.Parallel()

	got, err := matrix.EigenValues(a3Gram())
	require.NoError(t, err)
	want := []float64{1 - math.Sqrt2/2, 1, 1 + math.Sqrt2/2}
	assert.InDeltaSlice(t, want, got, 1e-9)
}

// TestEigen_Reconstruction verifies A·q = λ·q for every returned pair.
func TestEigen_Reconstruction(t *testing.T) {
	t.Parallel()

	a := matrix.MustFromRows([][]float64{
		{4, 1, 0.5},
		{1, 3, -1},
		{0.5, -1, 2},
	})
	vals, vecs, err := matrix.Eigen(a, 1e-12, 500)
	require.NoError(t, err)
	for k, lambda := range vals {
		q, err := vecs.Col(k)
		require.NoError(t, err)
		aq, err := matrix.MatVec(a, q)
		require.NoError(t, err)
		for i := range q {
			assert.InDelta(t, lambda*q[i], aq[i], 1e-9)
		}
	}

	_, _, err = matrix.Eigen(matrix.MustFromRows([][]float64{{1, 2}, {0, 1}}), 1e-12, 10)
	assert.ErrorIs(t, err, matrix.ErrAsymmetry)
}

// TestQR_Reconstruction verifies Qaccᵀ·R = A, orthogonality, and the zero tail of R.
func TestQR_Reconstruction(t *testing.T) {
	t.Parallel()

	a := matrix.MustFromRows([][]float64{
		{1, 2},
		{3, 4},
		{5, 7},
	})
	q, r, err := matrix.QR(a)
	require.NoError(t, err)

	qt, err := matrix.Transpose(q)
	require.NoError(t, err)
	back, err := matrix.Mul(qt, r)
	require.NoError(t, err)
	assert.True(t, back.Equal(a, 1e-12), back.String())

	qqt, err := matrix.Mul(q, qt)
	require.NoError(t, err)
	id, _ := matrix.Identity(3)
	assert.True(t, qqt.Equal(id, 1e-12))

	v, _ := r.At(1, 0)
	assert.InDelta(t, 0, v, 1e-12)
	v, _ = r.At(2, 1)
	assert.InDelta(t, 0, v, 1e-12)

	_, _, err = matrix.QR(matrix.MustFromRows([][]float64{{1, 2, 3}}))
	assert.ErrorIs(t, err, matrix.ErrBadShape)
}

// TestLQ_Nullspace checks A = L·Q and that the last row of Q spans ker(A).
func TestLQ_Nullspace(t *testing.T) {
	t.Parallel()

	a := matrix.MustFromRows([][]float64{
		{1, 0, 1},
		{0, 1, 1},
	})
	l, q, err := matrix.LQ(a)
	require.NoError(t, err)

	back, err := matrix.Mul(l, q)
	require.NoError(t, err)
	assert.True(t, back.Equal(a, 1e-12), back.String())

	// L is lower trapezoidal
	v, _ := l.At(0, 1)
	assert.InDelta(t, 0, v, 1e-12)
	v, _ = l.At(1, 2)
	assert.InDelta(t, 0, v, 1e-12)

	n, err := q.Row(2)
	require.NoError(t, err)
	an, err := matrix.MatVec(a, n)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0}, an, 1e-12)
	assert.InDelta(t, 1.0, n[0]*n[0]+n[1]*n[1]+n[2]*n[2], 1e-12)
}
