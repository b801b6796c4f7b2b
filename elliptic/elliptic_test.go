// SPDX-License-Identifier: MIT
package elliptic_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/ptope/elliptic"
	"github.com/katalvlaran/ptope/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-12

func count(size int) int {
	n := 0
	for range elliptic.Generate(size) {
		n++
	}
	return n
}

// TestGenerate_Counts verifies the number of connected elliptic diagrams per size.
func TestGenerate_Counts(t *testing.T) {
	for size, want := range map[int]int{1: 1, 2: 5, 3: 3, 4: 5, 5: 3, 6: 4, 7: 4, 8: 4, 9: 3} {
		assert.Equal(t, want, count(size), "size %d", size)
	}
}

// TestGenerate_PositiveDefinite verifies every generated seed is elliptic.
func TestGenerate_PositiveDefinite(t *testing.T) {
	for size := 1; size <= 8; size++ {
		for m := range elliptic.Generate(size) {
			require.Equal(t, size, m.Rows())
			assert.True(t, matrix.IsPositiveDefinite(m), "size %d:\n%s", size, m)
		}
	}
}

func TestGenerate_OrderAndStop(t *testing.T) {
	var got []*matrix.Dense
	for m := range elliptic.Generate(2) {
		got = append(got, m)
	}
	require.Len(t, got, 5)
	want := []float64{-0.5, -math.Sqrt2 / 2, -math.Cos(math.Pi / 10), -math.Cos(math.Pi / 8), -math.Cos(math.Pi / 5)}
	for i, m := range got {
		v, err := m.At(0, 1)
		require.NoError(t, err)
		assert.InDelta(t, want[i], v, eps, "seed %d", i)
	}

	n := 0
	for range elliptic.Generate(4) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestTypeD(t *testing.T) {
	d4, err := elliptic.TypeD(4)
	require.NoError(t, err)
	want := matrix.MustFromRows([][]float64{
		{1, 0, -0.5, 0},
		{0, 1, -0.5, 0},
		{-0.5, -0.5, 1, -0.5},
		{0, 0, -0.5, 1},
	})
	assert.True(t, d4.Equal(want, eps), "%s", d4)
}

func TestTypeFAndH(t *testing.T) {
	f4, err := elliptic.TypeF(4)
	require.NoError(t, err)
	v, _ := f4.At(1, 2)
	assert.InDelta(t, -math.Sqrt2/2, v, eps)

	h3, err := elliptic.TypeH(3)
	require.NoError(t, err)
	v, _ = h3.At(0, 1)
	assert.InDelta(t, -(1+math.Sqrt(5))/4, v, eps)
	v, _ = h3.At(1, 2)
	assert.InDelta(t, -0.5, v, eps)
}

func TestTypeE8Determinant(t *testing.T) {
	e8, err := elliptic.TypeE(8)
	require.NoError(t, err)
	det, err := matrix.Det(e8)
	require.NoError(t, err)
	// det of the Cartan matrix is 1, scaled by 2^-8
	assert.InDelta(t, 1.0/256, det, 1e-12)
}

func TestUnsupportedSize(t *testing.T) {
	for name, f := range map[string]func(int) (*matrix.Dense, error){
		"A": elliptic.TypeA, "B": elliptic.TypeB, "D": elliptic.TypeD,
		"E": elliptic.TypeE, "F": elliptic.TypeF, "H": elliptic.TypeH,
	} {
		_, err := f(0)
		assert.ErrorIs(t, err, elliptic.ErrUnsupportedSize, name)
	}
	_, err := elliptic.TypeE(9)
	assert.ErrorIs(t, err, elliptic.ErrUnsupportedSize)
	_, err = elliptic.TypeG(1)
	assert.ErrorIs(t, err, elliptic.ErrUnsupportedSize)
}
