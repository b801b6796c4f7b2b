// SPDX-License-Identifier: MIT

// Package matrix offers the small dense linear-algebra toolkit the polytope
// search runs on.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked accessors,
//     principal-submatrix extraction (Induced) and symmetric row/column swaps.
//   - Cholesky and PositiveDefiniteAt for positive-definiteness tests on Gram
//     matrices and their principal minors.
//   - Solve (partial pivoting), Det and EigenValues (Jacobi) for the
//     extension and parabolic-subdiagram filters.
//   - Householder QR and LQ, used to build the minimum-norm solver and the
//     Lorentzian nullspace of an underdetermined basis.
//
// Matrices in this domain are tiny (rarely beyond 12×12), so every kernel is
// a straightforward O(n³) loop with a fixed visitation order and no hidden
// concurrency: identical inputs always give bit-identical outputs.
package matrix
