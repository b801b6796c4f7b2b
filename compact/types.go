// SPDX-License-Identifier: MIT

// Package compact provides tunable options and error definitions for the
// compactness walk over a polytope candidate's vertex graph.
package compact

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Sentinel errors for compactness checks.
var (
	// ErrNilCandidate is returned if a nil candidate pointer is passed.
	ErrNilCandidate = errors.New("compact: candidate is nil")

	// ErrNotHyperbolic is returned for invalid or still-Euclidean candidates.
	ErrNotHyperbolic = errors.New("compact: candidate is not a valid hyperbolic candidate")

	// ErrNoInitialVertex is returned when fewer than RealDimension() vectors
	// have a zero time coordinate.
	ErrNoInitialVertex = errors.New("compact: no initial elliptic vertex")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("compact: invalid option supplied")
)

// Option configures a Checker via functional arguments.
// If an Option is invalid (e.g. a negative vertex cap), it is recorded
// internally and surfaced as ErrOptionViolation by NewChecker.
type Option func(*Options)

// Options holds parameters and callbacks to customize the walk.
type Options struct {
	// Logger receives debug output for failing edges and a warning when the
	// vertex cap is hit.
	Logger *zap.Logger

	// OnVertex is called once per newly visited vertex with its sorted indices.
	// The slice must not be retained.
	OnVertex func(vertex []int)

	// OnEdge is called for every dequeued edge with its sorted indices and
	// the vector index of the vertex it was generated from.
	OnEdge func(edge []int, origin int)

	// MaxVertices, if > 0, aborts the walk (reporting not compact) once more
	// vertices than this have been visited.
	MaxVertices int

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with a no-op logger, no-op hooks and no vertex cap.
func DefaultOptions() Options {
	return Options{
		Logger:      zap.NewNop(),
		OnVertex:    func([]int) {},
		OnEdge:      func([]int, int) {},
		MaxVertices: 0,
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithOnVertex registers a callback for each newly visited vertex.
func WithOnVertex(fn func(vertex []int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVertex = fn
		}
	}
}

// WithOnEdge registers a callback for each dequeued edge.
func WithOnEdge(fn func(edge []int, origin int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEdge = fn
		}
	}
}

// WithMaxVertices caps the number of visited vertices.
//
//	n > 0: abort after n vertices
//	n == 0: no cap
//	n < 0: invalid option → ErrOptionViolation
func WithMaxVertices(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxVertices cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxVertices = n
	}
}
