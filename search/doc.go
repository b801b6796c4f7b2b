// SPDX-License-Identifier: MIT

// Package search drives the level-wise enumeration of compact hyperbolic
// Coxeter polytopes.
//
// Level 0 is the set of connected elliptic diagrams of the configured
// dimension. Every level rebases each candidate over all choices of leading
// vectors, extends it by one vector per admissible inner-product vector, and
// filters the children. Compact children are reported; the others form the
// next level until the vector budget is spent.
//
//	cfg, _ := search.LoadConfig(r)
//	b, _ := search.NewBuilder(cfg, search.WithLogger(logger))
//	res, err := b.Run(ctx)
package search
