// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for Dense storage and accessors.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/ptope/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDense_ZeroFilled verifies fresh matrices are zero and report their shape.
func TestNewDense_ZeroFilled(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	r, c := m.Shape()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	m.Do(func(i, j int, v float64) bool {
		assert.Zero(t, v, "element [%d,%d]", i, j)
		return true
	})

	_, err = matrix.NewDense(0, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestNewFromRows_Validation covers ragged input and non-finite values.
func TestNewFromRows_Validation(t *testing.T) {
	t.Parallel()

	_, err := matrix.NewFromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, matrix.ErrRaggedRows)

	_, err = matrix.NewFromRows([][]float64{{1, math.NaN()}})
	assert.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.NewFromRows(nil)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	m, err := matrix.NewFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

// TestDense_AtSetBounds verifies accessors return errors instead of panicking.
func TestDense_AtSetBounds(t *testing.T) {
	t.Parallel()

	m := matrix.MustFromRows([][]float64{{1, 2}, {3, 4}})
	_, err := m.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	require.NoError(t, m.Set(0, 1, 9))
	row, err := m.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 9}, row)
	col, err := m.Col(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 4}, col)
}

// TestDense_CloneIsDeep verifies a clone does not alias the original buffer.
func TestDense_CloneIsDeep(t *testing.T) {
	t.Parallel()

	m := matrix.MustFromRows([][]float64{{1, 2}, {3, 4}})
	cp := m.Clone()
	require.NoError(t, cp.Set(0, 0, 7))
	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v)
	assert.False(t, m.Equal(cp, 1e-12))
}

// TestDense_Induced extracts a principal submatrix in the requested order.
func TestDense_Induced(t *testing.T) {
	t.Parallel()

	m := matrix.MustFromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	sub, err := m.Induced([]int{2, 0}, []int{2, 0})
	require.NoError(t, err)
	want := matrix.MustFromRows([][]float64{{9, 7}, {3, 1}})
	assert.True(t, sub.Equal(want, 0), sub.String())

	_, err = m.Induced([]int{3}, []int{0})
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)

	empty, err := m.Induced(nil, []int{0})
	require.NoError(t, err)
	r, c := empty.Shape()
	assert.Equal(t, 0, r)
	assert.Equal(t, 1, c)
}

// TestDense_SwapRowsCols checks the symmetric transposition on a Gram-like matrix.
func TestDense_SwapRowsCols(t *testing.T) {
	t.Parallel()

	m := matrix.MustFromRows([][]float64{
		{1, -0.5, 0},
		{-0.5, 1, -0.7},
		{0, -0.7, 1},
	})
	require.NoError(t, m.SwapRowsCols(0, 2))
	want := matrix.MustFromRows([][]float64{
		{1, -0.7, 0},
		{-0.7, 1, -0.5},
		{0, -0.5, 1},
	})
	assert.True(t, m.Equal(want, 0), m.String())

	assert.ErrorIs(t, m.SwapRowsCols(0, 3), matrix.ErrOutOfRange)
	rect := matrix.MustFromRows([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, rect.SwapRowsCols(0, 0), matrix.ErrNonSquare)
}

// TestDense_Bordered grows a symmetric matrix by one row and column.
func TestDense_Bordered(t *testing.T) {
	t.Parallel()

	m := matrix.MustFromRows([][]float64{{1, -0.5}, {-0.5, 1}})
	b, err := m.Bordered([]float64{0, -0.7}, 1)
	require.NoError(t, err)
	want := matrix.MustFromRows([][]float64{
		{1, -0.5, 0},
		{-0.5, 1, -0.7},
		{0, -0.7, 1},
	})
	assert.True(t, b.Equal(want, 0), b.String())
	assert.Equal(t, 2, m.Rows())

	_, err = m.Bordered([]float64{1}, 1)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = m.Bordered([]float64{1, 1}, math.NaN())
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestDense_Apply verifies element-wise updates and NaN rejection.
func TestDense_Apply(t *testing.T) {
	t.Parallel()

	m := matrix.MustFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, m.Apply(func(_, _ int, v float64) float64 { return -v }))
	v, _ := m.At(1, 1)
	assert.Equal(t, -4.0, v)

	err := m.Apply(func(_, _ int, _ float64) float64 { return math.NaN() })
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestDense_String renders one bracketed row per line.
func TestDense_String(t *testing.T) {
	t.Parallel()

	m := matrix.MustFromRows([][]float64{{1, -0.5}, {-0.5, 1}})
	assert.Equal(t, "[1, -0.5]\n[-0.5, 1]\n", m.String())
}
