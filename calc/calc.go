// SPDX-License-Identifier: MIT

package calc

import (
	"errors"
	"fmt"
	"math"
)

// ErrLengthMismatch is the panic payload for vectors of different length.
var ErrLengthMismatch = errors.New("calc: vector length mismatch")

// Float is the element constraint for vector storage.
type Float interface {
	~float32 | ~float64
}

// RightAngle is the multiple for a dihedral angle of π/2.
const RightAngle = 2

func mustSameLen(a, b int) {
	if a != b {
		panic(fmt.Errorf("%w: %d != %d", ErrLengthMismatch, a, b))
	}
}

// EuclInnerProd returns the Euclidean inner product of a and b.
// Accumulation is 2-way unrolled: s1 collects even indices, s2 odd ones,
// a trailing element goes to s1 and the result is s1+s2.
func EuclInnerProd[T Float](a, b []T) T {
	mustSameLen(len(a), len(b))

	return euclPrefix(a, b, len(a))
}

// EuclSqNorm returns the squared Euclidean length of a.
func EuclSqNorm[T Float](a []T) T {
	return euclPrefix(a, a, len(a))
}

// MinkInnerProd returns the Lorentzian inner product of a and b: the
// Euclidean product of the first n-1 coordinates minus a[n-1]*b[n-1].
func MinkInnerProd[T Float](a, b []T) T {
	mustSameLen(len(a), len(b))
	n := len(a)
	if n == 0 {
		return 0
	}

	return euclPrefix(a, b, n-1) - a[n-1]*b[n-1]
}

// MinkSqNorm returns the Lorentzian squared norm of a.
func MinkSqNorm[T Float](a []T) T {
	n := len(a)
	if n == 0 {
		return 0
	}

	return euclPrefix(a, a, n-1) - a[n-1]*a[n-1]
}

// euclPrefix is the shared unrolled loop over the first n coordinates.
func euclPrefix[T Float](a, b []T, n int) T {
	var (
		s1, s2 T
		i      int
	)
	for i = 0; i+1 < n; i += 2 {
		s1 += a[i] * b[i]
		s2 += a[i+1] * b[i+1]
	}
	if i < n {
		s1 += a[i] * b[i]
	}

	return s1 + s2
}

// MinCosAngle returns -cos(π/mult), the inner product of two unit normals
// meeting at dihedral angle π/mult. A right angle maps to exactly 0.
func MinCosAngle(mult int) float64 {
	if mult == RightAngle {
		return 0
	}

	return -math.Cos(math.Pi / float64(mult))
}
