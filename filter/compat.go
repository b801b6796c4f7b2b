// SPDX-License-Identifier: MIT

package filter

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/ptope/vecfamily"
)

// Compatibility records which pairs of a vector set may both be facet
// normals of one polytope: their Lorentzian product passes AngleCheck.
// A vector is never compatible with itself.
type Compatibility struct {
	n    int
	bits *bitset.BitSet // n×n, row-major
}

// NewCompatibility evaluates every pair of s against check; a nil check
// means NewAngleCheck(nil).
func NewCompatibility(s *vecfamily.Set[float64], check *AngleCheck) *Compatibility {
	if check == nil {
		check = NewAngleCheck(nil)
	}
	gram := vecfamily.NewPackedGram(s)
	n := gram.Len()
	c := &Compatibility{n: n, bits: bitset.New(uint(n * n))}
	for ij, v := range gram.All() {
		i, j := ij[0], ij[1]
		if i == j || !check.CheckValue(v) {
			continue
		}
		c.bits.Set(uint(i*n + j))
		c.bits.Set(uint(j*n + i))
	}

	return c
}

// Len returns the number of vectors covered.
func (c *Compatibility) Len() int { return c.n }

// AreCompatible reports whether vectors i and j are compatible. Out-of-range
// indices report false.
func (c *Compatibility) AreCompatible(i, j int) bool {
	if i < 0 || j < 0 || i >= c.n || j >= c.n {
		return false
	}

	return c.bits.Test(uint(i*c.n + j))
}

// NextCompatibleTo returns the smallest index after prev that is compatible
// with v, or v itself when there is none.
func (c *Compatibility) NextCompatibleTo(v, prev int) int {
	if v < 0 || v >= c.n {
		return v
	}
	if prev < -1 {
		prev = -1
	}
	// search stays inside row v
	next, ok := c.bits.NextSet(uint(v*c.n + prev + 1))
	if !ok || next >= uint((v+1)*c.n) {
		return v
	}

	return int(next) - v*c.n
}

// Count returns the number of compatible unordered pairs.
func (c *Compatibility) Count() int { return int(c.bits.Count() / 2) }
