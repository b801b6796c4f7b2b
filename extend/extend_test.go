// SPDX-License-Identifier: MIT
package extend_test

import (
	"math"
	"slices"
	"testing"

	"github.com/katalvlaran/ptope/angles"
	"github.com/katalvlaran/ptope/calc"
	"github.com/katalvlaran/ptope/extend"
	"github.com/katalvlaran/ptope/filter"
	"github.com/katalvlaran/ptope/polytope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func a3(t *testing.T) *polytope.Candidate {
	t.Helper()
	p, err := polytope.FromRows([][]float64{
		{1, -0.5, 0},
		{-0.5, 1, -0.5},
		{0, -0.5, 1},
	})
	require.NoError(t, err)

	return p
}

// TestInnerProductVectors_Order verifies descending products with the first index fastest.
func TestInnerProductVectors_Order(t *testing.T) {
	var got [][]float64
	for v := range extend.InnerProductVectors([]float64{-0.5, 0}, 2) {
		got = append(got, v)
	}
	assert.Equal(t, [][]float64{{0, 0}, {-0.5, 0}, {0, -0.5}, {-0.5, -0.5}}, got)
}

func TestInnerProductVectors_Counts(t *testing.T) {
	products := angles.Default().Products()
	n := 0
	for range extend.InnerProductVectors(products, 3) {
		n++
	}
	assert.Equal(t, 125, n)

	n = 0
	for v := range extend.InnerProductVectors(products, 0) {
		assert.Empty(t, v)
		n++
	}
	assert.Equal(t, 1, n)

	for range extend.InnerProductVectors(nil, 2) {
		t.Fatal("no products yields nothing")
	}
}

func TestInnerProductVectors_FreshSlices(t *testing.T) {
	var got [][]float64
	for v := range extend.InnerProductVectors([]float64{1, 2}, 1) {
		got = append(got, v)
	}
	require.Len(t, got, 2)
	got[0][0] = 42
	assert.Equal(t, 1.0, got[1][0])
}

// TestExtensions_A3 verifies the number of valid one-vector extensions of A3.
func TestExtensions_A3(t *testing.T) {
	cases := []struct {
		set  *angles.Set
		want int
	}{
		{angles.MustNew(2, 3), 3},
		{angles.Default(), 115},
	}
	for _, tc := range cases {
		n := 0
		for child := range extend.Extensions(a3(t), tc.set.Products()) {
			require.True(t, child.Valid())
			require.Equal(t, 4, child.Size())
			n++
		}
		assert.Equal(t, tc.want, n, "multiples %v", tc.set.Multiples())
	}
}

func TestExtensions_InvalidParent(t *testing.T) {
	for range extend.Extensions(nil, angles.Default().Products()) {
		t.Fatal("nil parent yields nothing")
	}
}

// TestPairs_A3 verifies that two-vector extensions are built exactly for
// the compatible pairs of extension vectors.
func TestPairs_A3(t *testing.T) {
	set := angles.Default()
	check := filter.NewAngleCheck(set)
	vs := extend.ExtensionVectors(a3(t), set.Products())
	require.Equal(t, 115, vs.Len())

	want := 0
	for i := 0; i < vs.Len(); i++ {
		for j := i + 1; j < vs.Len(); j++ {
			if check.CheckValue(calc.MinkInnerProd(vs.At(i), vs.At(j))) {
				want++
			}
		}
	}
	require.Positive(t, want)

	n := 0
	for child := range extend.Pairs(a3(t), set.Products(), check) {
		require.True(t, child.Valid())
		require.True(t, child.Hyperbolic())
		require.Equal(t, 5, child.Size())
		v, err := child.GramAt(3, 4)
		require.NoError(t, err)
		assert.True(t, check.CheckValue(v), "pair product %v", v)
		n++
	}
	assert.Equal(t, want, n)
}

func TestPairs_InvalidParent(t *testing.T) {
	for range extend.Pairs(nil, angles.Default().Products(), nil) {
		t.Fatal("nil parent yields nothing")
	}
	assert.Zero(t, extend.ExtensionVectors(nil, angles.Default().Products()).Len())
}

func TestCombinations(t *testing.T) {
	var got [][]int
	for c := range extend.Combinations(2, 4) {
		got = append(got, slices.Clone(c))
	}
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)

	n := 0
	for range extend.Combinations(0, 3) {
		n++
	}
	assert.Equal(t, 1, n)
	for range extend.Combinations(4, 3) {
		t.Fatal("size above n yields nothing")
	}
}

// TestRebases_B2 verifies one rebase per choice of two leading vectors.
func TestRebases_B2(t *testing.T) {
	b2, err := polytope.FromRows([][]float64{
		{1, -math.Sqrt2 / 2},
		{-math.Sqrt2 / 2, 1},
	})
	require.NoError(t, err)
	p, err := b2.ExtendByInnerProducts([]float64{-0.5, -0.5})
	require.NoError(t, err)
	require.True(t, p.Valid())
	require.True(t, p.Hyperbolic())

	var got []*polytope.Candidate
	for r := range extend.Rebases(p) {
		got = append(got, r)
	}
	require.Len(t, got, 3)
	assert.True(t, got[0].Gram().Equal(p.Gram(), tol))
	for i := 0; i < p.Size(); i++ {
		want, err := p.Vector(i)
		require.NoError(t, err)
		have, err := got[0].Vector(i)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want, have, tol)
	}
	for _, r := range got {
		// the Gram matrix is a permutation of the original
		assert.InDelta(t, sum(p), sum(r), tol)
		for child := range extend.Extensions(r, angles.MustNew(2, 3).Products()) {
			require.True(t, child.Valid())
		}
	}
	assert.False(t, got[1].Gram().Equal(p.Gram(), tol))
}

func sum(p *polytope.Candidate) float64 {
	s := 0.0
	p.Gram().Do(func(_, _ int, v float64) bool {
		s += v
		return true
	})
	return s
}
