// SPDX-License-Identifier: MIT

package filter

import (
	"math"

	"github.com/katalvlaran/ptope/matrix"
	"github.com/katalvlaran/ptope/polytope"
)

// ParabolicTolerance bounds |det| and the negative eigenvalues of a parabolic matrix.
const ParabolicTolerance = 1e-10

// IsParabolic reports whether m is positive semidefinite and singular:
// |det m| ≤ ParabolicTolerance and no eigenvalue below −ParabolicTolerance.
// Malformed input reports false.
func IsParabolic(m *matrix.Dense) bool {
	det, err := matrix.Det(m)
	if err != nil || math.Abs(det) > ParabolicTolerance {
		return false
	}
	eigs, err := matrix.EigenValues(m)
	if err != nil {
		return false
	}

	// ascending order: the first eigenvalue decides
	return len(eigs) == 0 || eigs[0] >= -ParabolicTolerance
}

// HasParabolic reports whether some principal submatrix of m of order dim
// that contains the last index is parabolic. The other dim−1 indices range
// over increasing subsets of [0, n−1).
func HasParabolic(m *matrix.Dense, dim int) bool {
	if m == nil || dim <= 0 || m.Rows() != m.Cols() || dim > m.Rows() {
		return false
	}
	idx := make([]int, dim)
	idx[dim-1] = m.Rows() - 1

	return hasParabolicFrom(m, idx, 0)
}

func hasParabolicFrom(m *matrix.Dense, idx []int, pos int) bool {
	if pos == len(idx)-1 {
		sub, err := m.Induced(idx, idx)
		return err == nil && IsParabolic(sub)
	}
	lo := 0
	if pos > 0 {
		lo = idx[pos-1] + 1
	}
	for k, hi := lo, m.Rows()-1; k < hi; k++ {
		idx[pos] = k
		if hasParabolicFrom(m, idx, pos+1) {
			return true
		}
	}

	return false
}

// HasParabolicCandidate is HasParabolic on p's Gram matrix with dim = RealDimension().
func HasParabolicCandidate(p *polytope.Candidate) bool {
	if p == nil || !p.Valid() {
		return false
	}

	return HasParabolic(p.Gram(), p.RealDimension())
}
