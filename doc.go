// Package ptope enumerates compact hyperbolic Coxeter polytopes through their
// Gram matrices.
//
// A polytope is given by the outward unit normals of its facets. Their Gram
// matrix has 1 on the diagonal, −cos(π/m) for facets meeting at angle π/m,
// and a value below −1 for facets that do not meet. The search grows Gram
// matrices one facet at a time from an elliptic seed, keeps the ones that
// are realisable in hyperbolic space, and walks each candidate's vertex graph
// to decide compactness.
//
// Everything is organized in subpackages:
//
//	calc/        Euclidean and Minkowski inner products, angle cosines
//	matrix/      dense matrices: Cholesky, QR/LQ, LU solve, Det, Jacobi eigenvalues
//	solver/      underdetermined systems and cached LQ factorizations
//	vecfamily/   growable column store, unique vector sets, packed Gram matrices
//	polytope/    the Candidate: extension, rebasing and binary persistence
//	compact/     vertex-graph walk deciding compactness
//	filter/      parabolic, angle, duplicate, block-diagonal, dotted and pair checks
//	angles/      allowed dihedral angles
//	elliptic/    Gram matrices of the connected elliptic diagrams
//	extend/      lazy generators of extensions and rebases
//	equiv/       equivalence of Gram matrices up to relabelling
//	store/       SQLite archive of results
//	search/      parallel level-wise search with logging and metrics
//
// Quick example, the compact triangle with angles π/3, π/3, π/4:
//
//	a2, _ := polytope.FromRows([][]float64{{1, -0.5}, {-0.5, 1}})
//	tri, _ := a2.ExtendByInnerProducts([]float64{-0.5, calc.MinCosAngle(4)})
//	ok, _ := compact.IsCompact(tri) // true
package ptope
