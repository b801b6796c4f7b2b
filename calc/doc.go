// SPDX-License-Identifier: MIT

// Package calc provides the scalar kernels every geometric computation in
// ptope is built on: Euclidean and Minkowski (Lorentzian) inner products over
// fixed-stride vectors, and the inner product matching a dihedral angle π/m.
//
// What
//
//   - EuclInnerProd / EuclSqNorm: standard dot product with a fixed 2-way
//     unrolled accumulation order (even indices, odd indices, then s1+s2).
//   - MinkInnerProd / MinkSqNorm: the bilinear form of signature (n-1,1);
//     Euclidean over the first n-1 coordinates minus the product of the last
//     ("time") coordinates.
//   - MinCosAngle: -cos(π/m), with m == 2 mapped to exactly 0.
//
// Determinism
//
//	The accumulation order is part of the contract. Gram matrices built by
//	different code paths compare equal under tight tolerances only because
//	every inner product in the module goes through these kernels.
//
// Contract
//
//	Mismatched vector lengths are programming errors and panic with
//	ErrLengthMismatch. Empty vectors yield 0.
package calc
