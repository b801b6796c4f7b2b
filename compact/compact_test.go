// SPDX-License-Identifier: MIT
package compact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/ptope/calc"
	"github.com/katalvlaran/ptope/compact"
	"github.com/katalvlaran/ptope/elliptic"
	"github.com/katalvlaran/ptope/filter"
	"github.com/katalvlaran/ptope/polytope"
)

func mc(m int) float64 { return calc.MinCosAngle(m) }

func seed(t *testing.T, rows [][]float64) *polytope.Candidate {
	t.Helper()
	p, err := polytope.FromRows(rows)
	require.NoError(t, err)

	return p
}

func extend(t *testing.T, p *polytope.Candidate, ip ...float64) *polytope.Candidate {
	t.Helper()
	out, err := p.ExtendByInnerProducts(ip)
	require.NoError(t, err)
	require.True(t, out.Valid(), "extension by %v must be valid", ip)

	return out
}

func swapRebase(t *testing.T, p *polytope.Candidate, a, b int) *polytope.Candidate {
	t.Helper()
	out, err := p.SwapRebase(a, b)
	require.NoError(t, err)

	return out
}

func check(t *testing.T, p *polytope.Candidate) bool {
	t.Helper()
	ok, err := compact.IsCompact(p)
	require.NoError(t, err)

	return ok
}

func h3() [][]float64 {
	return [][]float64{
		{1, -0.5, 0},
		{-0.5, 1, mc(5)},
		{0, mc(5), 1},
	}
}

func b4() [][]float64 {
	return [][]float64{
		{1, mc(4), 0, 0},
		{mc(4), 1, -0.5, 0},
		{0, -0.5, 1, -0.5},
		{0, 0, -0.5, 1},
	}
}

// TestCheck_Esselmann verifies the 4-dimensional Esselmann polytope is compact.
func TestCheck_Esselmann(t *testing.T) {
	t.Parallel()

	p := seed(t, [][]float64{
		{1, -0.5, 0, 0},
		{-0.5, 1, mc(4), 0},
		{0, mc(4), 1, -0.5},
		{0, 0, -0.5, 1},
	})
	p = extend(t, p, 0, 0, 0, mc(8))
	p = extend(t, p, mc(8), 0, 0, 0)
	assert.True(t, check(t, p))
}

// TestCheck_LannerSimplex verifies a compact simplex and its vertex/edge counts.
func TestCheck_LannerSimplex(t *testing.T) {
	t.Parallel()

	p := extend(t, seed(t, h3()), 0, 0, -0.5)

	var vertices, edges int
	c, err := compact.NewChecker(
		compact.WithOnVertex(func([]int) { vertices++ }),
		compact.WithOnEdge(func(e []int, origin int) {
			edges++
			assert.Len(t, e, 2)
			assert.NotContains(t, e, origin)
		}),
	)
	require.NoError(t, err)
	ok, err := c.Check(p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, vertices)
	assert.Equal(t, 9, edges)

	_, _, failed := c.LastEdge()
	assert.False(t, failed)
}

// TestCheck_NonCompactSimplex reports the edge with a single vertex.
func TestCheck_NonCompactSimplex(t *testing.T) {
	t.Parallel()

	p := extend(t, seed(t, h3()), -0.5, -0.5, -0.5)

	core, logs := observer.New(zap.DebugLevel)
	c, err := compact.NewChecker(compact.WithLogger(zap.New(core)))
	require.NoError(t, err)
	ok, err := c.Check(p)
	require.NoError(t, err)
	assert.False(t, ok)

	members, origin, failed := c.LastEdge()
	require.True(t, failed)
	assert.Len(t, members, 2)
	assert.NotContains(t, members, origin)
	assert.Equal(t, 1, logs.FilterMessage("compact: edge has a single vertex").Len())
}

// TestCheck_Tumarkin verifies the rebased extension is compact while its parent is not.
func TestCheck_Tumarkin(t *testing.T) {
	t.Parallel()

	r := extend(t, seed(t, b4()), 0, mc(8), 0, 0)
	r = extend(t, r, 0, 0, 0, mc(8))
	assert.False(t, check(t, r))

	require.NoError(t, r.RebaseVectors([]int{1, 2, 3, 4}))
	s := extend(t, r, 0, 0, mc(4), 0)
	assert.True(t, check(t, s))
}

// TestResume_MatchesCheck verifies Resume(s) after Check(r) agrees with Check(s).
func TestResume_MatchesCheck(t *testing.T) {
	t.Parallel()

	r := extend(t, seed(t, b4()), 0, mc(8), 0, 0)
	r = extend(t, r, 0, 0, 0, mc(8))
	require.NoError(t, r.RebaseVectors([]int{1, 2, 3, 4}))
	s := extend(t, r, 0, 0, mc(4), 0)

	c, err := compact.NewChecker()
	require.NoError(t, err)
	ok, err := c.Check(r)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = c.Resume(s)
	require.NoError(t, err)
	assert.True(t, ok)
	_, _, failed := c.LastEdge()
	assert.False(t, failed)

	// without a failed state Resume is a full Check
	ok, err = c.Resume(s)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestClone_IndependentResume verifies clones of a failed walk resume
// independently of each other and of the original.
func TestClone_IndependentResume(t *testing.T) {
	t.Parallel()

	r := extend(t, seed(t, b4()), 0, mc(8), 0, 0)
	r = extend(t, r, 0, 0, 0, mc(8))
	require.NoError(t, r.RebaseVectors([]int{1, 2, 3, 4}))
	s := extend(t, r, 0, 0, mc(4), 0)

	base, err := compact.NewChecker()
	require.NoError(t, err)
	ok, err := base.Check(r)
	require.NoError(t, err)
	require.False(t, ok)
	members, origin, failed := base.LastEdge()
	require.True(t, failed)

	ok, err = base.Clone().Resume(r)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = base.Clone().Resume(s)
	require.NoError(t, err)
	assert.True(t, ok)

	m2, o2, still := base.LastEdge()
	assert.True(t, still, "resuming a clone leaves the original failed")
	assert.Equal(t, members, m2)
	assert.Equal(t, origin, o2)

	ok, err = base.Resume(s)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestCheck_Odd4 walks a chain of non-compact A4 extensions and swap rebases.
func TestCheck_Odd4(t *testing.T) {
	t.Parallel()

	p := seed(t, [][]float64{
		{1, -0.5, 0, 0},
		{-0.5, 1, -0.5, 0},
		{0, -0.5, 1, -0.5},
		{0, 0, -0.5, 1},
	})
	p = extend(t, p, mc(5), -0.5, 0, 0)
	assert.False(t, check(t, p))
	p = extend(t, p, 0, -0.5, mc(5), -0.5)
	assert.False(t, check(t, p))

	q := extend(t, swapRebase(t, p, 3, 5), 0, -0.5, 0, 0)
	assert.False(t, check(t, q))
	assert.False(t, check(t, swapRebase(t, q, 2, 4)))
	assert.False(t, check(t, swapRebase(t, q, 0, 5)))
}

// TestCheck_Unfolded verifies a compact polytope built through a rebase.
func TestCheck_Unfolded(t *testing.T) {
	t.Parallel()

	p := extend(t, seed(t, b4()), 0, mc(8), 0, 0)
	p = extend(t, p, 0, 0, 0, mc(8))
	require.NoError(t, p.RebaseVectors([]int{1, 2, 4, 5}))
	p = extend(t, p, mc(4), 0, 0, 0)
	p = extend(t, p, 0, -0.5, 0, mc(8))
	assert.True(t, check(t, p))
}

// TestCheck_FourDimensional follows the unfolded B4 polytope step by step:
// every intermediate candidate has an ideal vertex, the last one is compact
// and has no parabolic subdiagram through its newest facet.
func TestCheck_FourDimensional(t *testing.T) {
	t.Parallel()

	q := extend(t, seed(t, b4()), 0, mc(8), 0, 0)
	require.False(t, check(t, q))
	r := extend(t, q, 0, 0, 0, mc(8))
	require.False(t, check(t, r))

	cp := r.Clone()
	require.NoError(t, cp.RebaseVectors([]int{1, 2, 4, 5}))
	c1 := extend(t, cp, mc(4), 0, 0, 0)
	require.False(t, check(t, c1))
	c2 := extend(t, c1, 0, -0.5, 0, mc(8))
	assert.False(t, filter.HasParabolicCandidate(c2))
	assert.True(t, check(t, c2))
}

// TestCheck_Biggest verifies the E8-based compact polytope in dimension 8,
// before and after rebasing onto another elliptic vertex.
func TestCheck_Biggest(t *testing.T) {
	t.Parallel()

	e8, err := elliptic.TypeE(8)
	require.NoError(t, err)
	p, err := polytope.New(e8)
	require.NoError(t, err)

	q := extend(t, p, mc(5), 0, 0, 0, 0, 0, 0, 0)
	r := extend(t, q, 0, 0, 0, 0, 0, 0, 0, mc(5))
	require.NoError(t, r.RebaseVectors([]int{0, 1, 2, 4, 5, 6, 7, 8}))
	s := extend(t, r, 0, 0, 0, 0, -0.5, 0, 0, 0)
	assert.True(t, check(t, s))

	require.NoError(t, s.RebaseVectors([]int{0, 1, 2, 8, 3, 4, 5, 6}))
	assert.True(t, check(t, s))
}

// TestCheck_NineDimensional covers a tangent extension: after the swap
// rebase the discriminant of the unit-norm quadratic is rounding noise and
// the double root must be accepted.
func TestCheck_NineDimensional(t *testing.T) {
	t.Parallel()

	a9, err := elliptic.TypeA(9)
	require.NoError(t, err)
	p, err := polytope.New(a9)
	require.NoError(t, err)

	q := extend(t, p, mc(5), 0, 0, 0, 0, 0, 0, 0, 0)
	r := extend(t, q, 0, 0, mc(5), 0, -0.5, 0, mc(5), mc(5), 0)
	s := extend(t, r, 0, 0, 0, -0.5, mc(5), 0, 0, 0, -0.5)
	assert.False(t, check(t, s))
	assert.False(t, check(t, swapRebase(t, s, 0, 10)))

	u := extend(t, swapRebase(t, r, 0, 10), -0.5, 0, 0, -0.5, mc(5), 0, 0, 0, -0.5)
	assert.False(t, check(t, u))
}

// TestCheck_MaxVertices aborts once the cap is exceeded and refuses to resume.
func TestCheck_MaxVertices(t *testing.T) {
	t.Parallel()

	p := extend(t, seed(t, h3()), 0, 0, -0.5)
	c, err := compact.NewChecker(compact.WithMaxVertices(2))
	require.NoError(t, err)

	ok, err := c.Check(p)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = c.Resume(p)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestCheck_Errors covers invalid inputs and options.
func TestCheck_Errors(t *testing.T) {
	t.Parallel()

	_, err := compact.NewChecker(compact.WithMaxVertices(-1))
	assert.ErrorIs(t, err, compact.ErrOptionViolation)

	_, err = compact.IsCompact(nil)
	assert.ErrorIs(t, err, compact.ErrNilCandidate)

	euclidean := seed(t, h3())
	_, err = compact.IsCompact(euclidean)
	assert.ErrorIs(t, err, compact.ErrNotHyperbolic)

	bad, err := euclidean.ExtendByInnerProducts([]float64{0, 0, 0})
	require.NoError(t, err)
	_, err = compact.IsCompact(bad)
	assert.ErrorIs(t, err, compact.ErrNotHyperbolic)
}
