// SPDX-License-Identifier: MIT

package filter

import (
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/ptope/matrix"
	"github.com/katalvlaran/ptope/polytope"
)

// DuplicateTolerance is the entrywise tolerance for equal Gram columns.
const DuplicateTolerance = 1e-14

// HasDuplicateColumn reports whether the last column of m equals an earlier
// column within DuplicateTolerance, i.e. the newest vector repeats one.
func HasDuplicateColumn(m *matrix.Dense) bool {
	if m == nil || m.Rows() != m.Cols() {
		return false
	}
	n := m.Cols()
	last, _ := m.Col(n - 1)
	for j := 0; j < n-1; j++ {
		col, _ := m.Col(j)
		equal := true
		for i := range col {
			if math.Abs(col[i]-last[i]) > DuplicateTolerance {
				equal = false
				break
			}
		}
		if equal {
			return true
		}
	}

	return false
}

// IsBlockDiagonal reports whether the diagram of m (an edge wherever
// m[i][j] != 0) has at least two connected components.
func IsBlockDiagonal(m *matrix.Dense) bool {
	if m == nil || m.Rows() != m.Cols() || m.Rows() < 2 {
		return false
	}
	n := m.Rows()
	visited := bitset.New(uint(n))
	queue := make([]int, 0, n)
	visited.Set(0)
	queue = append(queue, 0)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		row := m.RawRowView(i)
		for j := 0; j < n; j++ {
			if j == i || row[j] == 0 || visited.Test(uint(j)) {
				continue
			}
			visited.Set(uint(j))
			queue = append(queue, j)
		}
	}

	return visited.Count() < uint(n)
}

// DottedCount returns the number of pairs i<j with m[i][j] < −1 − ParabolicTolerance.
func DottedCount(m *matrix.Dense) int {
	if m == nil || m.Rows() != m.Cols() {
		return 0
	}
	count := 0
	for i := 0; i < m.Rows(); i++ {
		row := m.RawRowView(i)
		for j := i + 1; j < m.Cols(); j++ {
			if row[j] < DottedBound-ParabolicTolerance {
				count++
			}
		}
	}

	return count
}

// DuplicateColumn is HasDuplicateColumn on p's Gram matrix.
func DuplicateColumn(p *polytope.Candidate) bool {
	return p != nil && p.Valid() && HasDuplicateColumn(p.Gram())
}

// BlockDiagonal is IsBlockDiagonal on p's Gram matrix.
func BlockDiagonal(p *polytope.Candidate) bool {
	return p != nil && p.Valid() && IsBlockDiagonal(p.Gram())
}

// NumberDotted returns a predicate that holds when p has exactly n dotted edges.
func NumberDotted(n int) Predicate {
	return func(p *polytope.Candidate) bool {
		return p != nil && p.Valid() && DottedCount(p.Gram()) == n
	}
}
