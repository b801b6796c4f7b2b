// SPDX-License-Identifier: MIT

// Package polytope models a candidate hyperbolic Coxeter polytope: a Gram
// matrix of pairwise inner products together with an explicit realisation of
// its facet normals as vectors in Euclidean or Lorentzian space.
//
// A Candidate moves through three states:
//
//   - Euclidean: built from a positive definite (elliptic) seed. Vectors are
//     the columns of the Cholesky factor of the seed.
//   - Hyperbolic: after the first extension that needs a time coordinate.
//     Vectors carry d+1 coordinates and inner products use the signature
//     (d,1) Lorentzian form.
//   - Invalid: an extension had no geometric solution. Invalid candidates
//     carry no data and cannot be extended further.
//
// Geometric failure is never an error: it yields an invalid candidate.
// Errors are reserved for contract violations such as a wrong number of
// inner products or out-of-range indices.
//
// Candidates are immutable except for RebaseVectors. Extensions share the
// parent's basis and its lazily computed LQ factorization, so read-only use
// from several goroutines is safe.
package polytope
