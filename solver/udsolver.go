// SPDX-License-Identifier: MIT

package solver

import "github.com/katalvlaran/ptope/matrix"

// UDSolver solves one underdetermined system per call without caching.
type UDSolver struct{}

// Solve returns the minimum-norm solution of a·x = b and the nullspace direction.
func (UDSolver) Solve(a *matrix.Dense, b []float64) (x, n []float64, err error) {
	info, err := ComputeLQInfo(a)
	if err != nil {
		return nil, nil, err
	}
	if x, err = info.Solve(b); err != nil {
		return nil, nil, err
	}

	return x, info.Nullspace(), nil
}

// Nullspace returns a unit vector spanning ker(a) for an r×(r+1) matrix,
// taken as the last row of the accumulated Householder reflector of aᵀ.
func Nullspace(a *matrix.Dense) ([]float64, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, solverErrorf(opNullspace, err)
	}
	r, c := a.Shape()
	if c != r+1 {
		return nil, solverErrorf(opNullspace, ErrBadShape)
	}
	at, err := matrix.Transpose(a)
	if err != nil {
		return nil, solverErrorf(opNullspace, err)
	}
	q, _, err := matrix.QR(at)
	if err != nil {
		return nil, solverErrorf(opNullspace, err)
	}

	return q.Row(r)
}
