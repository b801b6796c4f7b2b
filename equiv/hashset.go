// SPDX-License-Identifier: MIT

package equiv

import (
	"fmt"
	"io"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/katalvlaran/ptope/matrix"
)

// HashSet is a set of Hash values backed by a compressed bitmap. It answers
// "possibly seen" without the matrices themselves: two matrices with the same
// hash are treated as the same. It is safe for concurrent use.
type HashSet struct {
	mu   sync.RWMutex
	bits *roaring64.Bitmap
}

// NewHashSet returns a set holding hashes.
func NewHashSet(hashes ...uint64) *HashSet {
	s := &HashSet{bits: roaring64.New()}
	s.bits.AddMany(hashes)

	return s
}

// Add inserts h and reports whether it was new.
func (s *HashSet) Add(h uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bits.CheckedAdd(h)
}

// AddMatrix inserts Hash(m). A nil m is ignored.
func (s *HashSet) AddMatrix(m *matrix.Dense) bool {
	if m == nil {
		return false
	}

	return s.Add(Hash(m))
}

// Contains reports whether h is present.
func (s *HashSet) Contains(h uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bits.Contains(h)
}

// ContainsMatrix reports whether Hash(m) is present.
func (s *HashSet) ContainsMatrix(m *matrix.Dense) bool {
	return m != nil && s.Contains(Hash(m))
}

// Len returns the number of hashes.
func (s *HashSet) Len() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bits.GetCardinality()
}

// Union adds every hash of other to s.
func (s *HashSet) Union(other *HashSet) {
	if other == nil || other == s {
		return
	}
	other.mu.RLock()
	theirs := other.bits.Clone()
	other.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bits.Or(theirs)
}

// Hashes returns the hashes in ascending order.
func (s *HashSet) Hashes() []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bits.ToArray()
}

// WriteTo writes the set in the portable roaring format.
func (s *HashSet) WriteTo(w io.Writer) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.bits.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("equiv: write hash set: %w", err)
	}

	return n, nil
}

// ReadFrom replaces the contents of s with a set written by WriteTo.
func (s *HashSet) ReadFrom(r io.Reader) (int64, error) {
	bits := roaring64.New()
	n, err := bits.ReadFrom(r)
	if err != nil {
		return n, fmt.Errorf("equiv: read hash set: %w", err)
	}

	s.mu.Lock()
	s.bits = bits
	s.mu.Unlock()

	return n, nil
}
