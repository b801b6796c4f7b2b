// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrRankDeficient indicates the system matrix has a (near-)zero diagonal
	// entry in its L factor, so no unique minimum-norm solution exists.
	ErrRankDeficient = errors.New("solver: rank deficient system")

	// ErrBadShape indicates the system matrix is not r×(r+1).
	ErrBadShape = errors.New("solver: expected an r×(r+1) matrix")

	// ErrDimensionMismatch indicates a right-hand side of the wrong length.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")
)

const (
	opCompute   = "ComputeLQInfo"
	opSolve     = "LQInfo.Solve"
	opNullspace = "Nullspace"
)

func solverErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
