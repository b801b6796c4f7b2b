// SPDX-License-Identifier: MIT

package polytope

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates an inner-product or vector argument of the wrong length.
	ErrDimensionMismatch = errors.New("polytope: dimension mismatch")

	// ErrInvalidCandidate indicates an operation on a candidate whose Valid() is false.
	ErrInvalidCandidate = errors.New("polytope: invalid candidate")

	// ErrOutOfRange indicates a vector index outside [0, Size).
	ErrOutOfRange = errors.New("polytope: index out of range")

	// ErrNotElliptic indicates a seed Gram matrix that is not symmetric positive definite.
	ErrNotElliptic = errors.New("polytope: seed is not positive definite")

	// ErrCorrupt indicates persisted bytes that cannot be decoded.
	ErrCorrupt = errors.New("polytope: corrupt encoding")
)

const (
	opNew       = "New"
	opExtendIP  = "ExtendByInnerProducts"
	opExtendVec = "ExtendByVector"
	opRebase    = "RebaseVectors"
	opSwap      = "SwapRebase"
	opSignature = "Signature"
	opUnmarshal = "UnmarshalBinary"
	opSave      = "Save"
	opLoad      = "Load"
)

func polytopeErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
