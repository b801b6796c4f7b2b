// SPDX-License-Identifier: MIT

package filter

import "github.com/katalvlaran/ptope/polytope"

// Predicate is a yes/no check on a candidate.
type Predicate func(p *polytope.Candidate) bool

// All holds when every predicate holds; it stops at the first failure.
// All() with no predicates always holds.
func All(preds ...Predicate) Predicate {
	return func(p *polytope.Candidate) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// Not negates pred.
func Not(pred Predicate) Predicate {
	return func(p *polytope.Candidate) bool { return !pred(p) }
}

// Expect holds when pred(p) == want.
func Expect(pred Predicate, want bool) Predicate {
	return func(p *polytope.Candidate) bool { return pred(p) == want }
}
