// SPDX-License-Identifier: MIT
package angles_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ptope/angles"
)

// TestNew_SortedProducts verifies ordering, deduplication and alignment.
func TestNew_SortedProducts(t *testing.T) {
	t.Parallel()

	s, err := angles.New(3, 2, 8, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []int{8, 4, 3, 2}, s.Multiples())

	p := s.Products()
	assert.InDelta(t, -math.Cos(math.Pi/8), p[0], 1e-15)
	assert.InDelta(t, -math.Sqrt2/2, p[1], 1e-15)
	assert.InDelta(t, -0.5, p[2], 1e-15)
	assert.Equal(t, 0.0, p[3])
	assert.IsIncreasing(t, p)
}

// TestNew_Errors covers empty sets and too-small multiples.
func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := angles.New()
	assert.ErrorIs(t, err, angles.ErrEmpty)
	_, err = angles.New(2, 1)
	assert.ErrorIs(t, err, angles.ErrInvalidMultiple)
	assert.Panics(t, func() { angles.MustNew(0) })
}

// TestSet_Lookup checks tolerant membership and the reverse mapping.
func TestSet_Lookup(t *testing.T) {
	t.Parallel()

	s := angles.Default()
	assert.True(t, s.Contains(-0.5+1e-12))
	assert.True(t, s.Contains(0))
	assert.False(t, s.Contains(-0.6))
	assert.False(t, s.Contains(0.5))

	m, ok := s.MultipleOf(-math.Cos(math.Pi / 5))
	require.True(t, ok)
	assert.Equal(t, 5, m)
	_, ok = s.MultipleOf(-0.9)
	assert.False(t, ok)
}

// TestDoubleLess checks the tolerance band.
func TestDoubleLess(t *testing.T) {
	t.Parallel()

	assert.True(t, angles.DoubleLess(0, 1e-9))
	assert.False(t, angles.DoubleLess(0, 1e-11))
	assert.False(t, angles.DoubleLess(1, 0))
}

// TestLoad reads YAML and falls back to the default set.
func TestLoad(t *testing.T) {
	t.Parallel()

	s, err := angles.Load(strings.NewReader("angles: [2, 3, 6]\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{6, 3, 2}, s.Multiples())

	s, err = angles.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, angles.Default().Multiples(), s.Multiples())

	_, err = angles.Load(strings.NewReader("angles: [1]\n"))
	assert.ErrorIs(t, err, angles.ErrInvalidMultiple)

	_, err = angles.Load(strings.NewReader("angles: {oops"))
	assert.Error(t, err)
}
