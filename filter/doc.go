// SPDX-License-Identifier: MIT

// Package filter holds the cheap structural checks applied to Gram matrices
// before the expensive compactness walk: angle admissibility of the newest
// vector, duplicate vectors, disconnected diagrams, dotted-edge counts and
// parabolic subdiagrams.
//
// Every check has a matrix form and a candidate form; the candidate forms
// are Predicates and compose with All, Not and Expect.
package filter
