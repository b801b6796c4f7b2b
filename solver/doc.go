// SPDX-License-Identifier: MIT

// Package solver solves underdetermined linear systems A·x = b where A has
// one more column than rows.
//
// Such systems have a one-parameter family of solutions x₀ + λ·n, where x₀ is
// the minimum-norm particular solution and n spans ker(A). LQInfo caches the
// factorization needed to produce both for any right-hand side, so repeated
// solves against the same basis cost a single matrix-vector product.
//
// LQInfo values are immutable after ComputeLQInfo returns and may be shared
// freely between goroutines.
package solver
