// SPDX-License-Identifier: MIT

package filter

import (
	"github.com/katalvlaran/ptope/angles"
	"github.com/katalvlaran/ptope/matrix"
	"github.com/katalvlaran/ptope/polytope"
)

// DottedBound is the inner product below which (within angles.Tolerance) an
// entry denotes ultraparallel facets rather than an angle.
const DottedBound = -1.0

// AngleCheck accepts a Gram matrix when every off-diagonal entry of its last
// column is either dotted (< −1) or one of the allowed inner products.
type AngleCheck struct {
	set *angles.Set
}

// NewAngleCheck returns a check against set; a nil set means angles.Default().
func NewAngleCheck(set *angles.Set) *AngleCheck {
	if set == nil {
		set = angles.Default()
	}

	return &AngleCheck{set: set}
}

// CheckValue classifies a single inner product.
func (a *AngleCheck) CheckValue(v float64) bool {
	switch {
	case v < DottedBound+angles.Tolerance:
		return true
	case v > angles.Tolerance:
		return false
	default:
		return a.set.Contains(v)
	}
}

// Check applies CheckValue to the last column of m above the diagonal.
func (a *AngleCheck) Check(m *matrix.Dense) bool {
	if m == nil || m.Rows() != m.Cols() {
		return false
	}
	last := m.Cols() - 1
	for i := 0; i < last; i++ {
		v, err := m.At(i, last)
		if err != nil || !a.CheckValue(v) {
			return false
		}
	}

	return true
}

// CheckCandidate is Check on p's Gram matrix.
func (a *AngleCheck) CheckCandidate(p *polytope.Candidate) bool {
	if p == nil || !p.Valid() {
		return false
	}

	return a.Check(p.Gram())
}
