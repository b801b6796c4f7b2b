// SPDX-License-Identifier: MIT

// Package equiv decides when two Gram matrices describe the same polytope up
// to a relabelling of its facets, i.e. a simultaneous permutation of rows and
// columns.
//
// Hash is invariant under such permutations and is used to bucket matrices;
// Equal settles each bucket exactly. UniqueSet combines both behind a mutex
// so parallel search workers can share one set of results. HashSet keeps
// only the hashes, compactly enough to persist between runs.
package equiv

import (
	"cmp"
	"encoding/binary"
	"math"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/katalvlaran/ptope/matrix"
)

const (
	// Tolerance is the entrywise tolerance of Equal.
	Tolerance = 1e-10

	// hashScale fixes the resolution of the column statistics folded into Hash.
	hashScale = 1e5
)

type colStat struct{ sum, sq int64 }

func columnStats(m *matrix.Dense) []colStat {
	n := m.Cols()
	sums := make([]float64, n)
	sqs := make([]float64, n)
	m.Do(func(_, j int, v float64) bool {
		sums[j] += v
		sqs[j] += v * v
		return true
	})
	stats := make([]colStat, n)
	for j := range stats {
		stats[j] = colStat{
			sum: int64(math.Round(sums[j] * hashScale)),
			sq:  int64(math.Round(sqs[j] * hashScale)),
		}
	}
	slices.SortFunc(stats, func(a, b colStat) int {
		if a.sum != b.sum {
			return cmp.Compare(a.sum, b.sum)
		}
		return cmp.Compare(a.sq, b.sq)
	})

	return stats
}

// Hash returns a permutation-invariant hash of a square matrix built from
// the sorted per-column sums and sums of squares, rounded to 1e-5.
// A nil matrix hashes to 0.
func Hash(m *matrix.Dense) uint64 {
	if m == nil {
		return 0
	}
	d := xxhash.New()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(m.Cols()))
	_, _ = d.Write(buf[:8])
	for _, s := range columnStats(m) {
		binary.LittleEndian.PutUint64(buf[:8], uint64(s.sum))
		binary.LittleEndian.PutUint64(buf[8:], uint64(s.sq))
		_, _ = d.Write(buf[:])
	}

	return d.Sum64()
}

// Equal reports whether b is a simultaneous row and column permutation of a
// within Tolerance. Candidate images are pruned by column sums before the
// backtracking search.
func Equal(a, b *matrix.Dense) bool {
	if a == nil || b == nil {
		return a == b
	}
	n := a.Rows()
	if n != a.Cols() || b.Rows() != n || b.Cols() != n {
		return false
	}
	sa, sb := colSums(a), colSums(b)
	sumTol := Tolerance * float64(n)
	candidates := make([][]int, n)
	for i := range candidates {
		for j := range n {
			if math.Abs(sa[i]-sb[j]) <= sumTol {
				candidates[i] = append(candidates[i], j)
			}
		}
		if len(candidates[i]) == 0 {
			return false
		}
	}
	s := permSearch{a: a, b: b, candidates: candidates, perm: make([]int, n), used: make([]bool, n)}

	return s.assign(0)
}

func colSums(m *matrix.Dense) []float64 {
	sums := make([]float64, m.Cols())
	m.Do(func(_, j int, v float64) bool {
		sums[j] += v
		return true
	})

	return sums
}

type permSearch struct {
	a, b       *matrix.Dense
	candidates [][]int
	perm       []int
	used       []bool
}

func (s *permSearch) assign(i int) bool {
	if i == len(s.perm) {
		return true
	}
	rowA := s.a.RawRowView(i)
	for _, j := range s.candidates[i] {
		if s.used[j] || !s.consistent(rowA, i, j) {
			continue
		}
		s.perm[i], s.used[j] = j, true
		if s.assign(i + 1) {
			return true
		}
		s.used[j] = false
	}

	return false
}

// consistent checks row i of a against row j of b on the indices assigned so far.
func (s *permSearch) consistent(rowA []float64, i, j int) bool {
	rowB := s.b.RawRowView(j)
	if math.Abs(rowA[i]-rowB[j]) > Tolerance {
		return false
	}
	for k := 0; k < i; k++ {
		if math.Abs(rowA[k]-rowB[s.perm[k]]) > Tolerance {
			return false
		}
	}

	return true
}

// UniqueSet collects matrices up to equivalence. It is safe for concurrent use.
type UniqueSet struct {
	mu      sync.Mutex
	buckets map[uint64][]*matrix.Dense
	size    int
}

// NewUniqueSet returns an empty set.
func NewUniqueSet() *UniqueSet {
	return &UniqueSet{buckets: make(map[uint64][]*matrix.Dense)}
}

// Insert adds m unless an equivalent matrix is already present and reports
// whether it was added. m is cloned.
func (u *UniqueSet) Insert(m *matrix.Dense) bool {
	if m == nil {
		return false
	}
	h := Hash(m)

	u.mu.Lock()
	defer u.mu.Unlock()
	for _, other := range u.buckets[h] {
		if Equal(m, other) {
			return false
		}
	}
	u.buckets[h] = append(u.buckets[h], m.Clone())
	u.size++

	return true
}

// Contains reports whether an equivalent of m is present.
func (u *UniqueSet) Contains(m *matrix.Dense) bool {
	if m == nil {
		return false
	}
	h := Hash(m)

	u.mu.Lock()
	defer u.mu.Unlock()
	for _, other := range u.buckets[h] {
		if Equal(m, other) {
			return true
		}
	}

	return false
}

// Len returns the number of distinct matrices.
func (u *UniqueSet) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.size
}

// Hashes returns the number of distinct hash values seen.
func (u *UniqueSet) Hashes() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()

	return uint64(len(u.buckets))
}
