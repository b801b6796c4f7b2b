// SPDX-License-Identifier: MIT

package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/katalvlaran/ptope/equiv"
	"github.com/katalvlaran/ptope/polytope"
	"github.com/katalvlaran/ptope/store"
)

// Option customizes a Builder. Option constructors panic on nil arguments.
type Option func(*runConfig)

type runConfig struct {
	logger     *zap.Logger
	registry   prometheus.Registerer
	store      *store.Store
	known      *equiv.HashSet
	onPolytope func(*polytope.Candidate)
}

func newRunConfig(opts ...Option) runConfig {
	rc := runConfig{
		logger:     zap.NewNop(),
		onPolytope: func(*polytope.Candidate) {},
	}
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.registry == nil {
		rc.registry = prometheus.NewRegistry()
	}

	return rc
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("search: WithLogger(nil)")
	}
	return func(rc *runConfig) { rc.logger = l }
}

// WithRegistry registers the run metrics with reg instead of a private registry.
func WithRegistry(reg prometheus.Registerer) Option {
	if reg == nil {
		panic("search: WithRegistry(nil)")
	}
	return func(rc *runConfig) { rc.registry = reg }
}

// WithStore archives every compact polytope in s.
func WithStore(s *store.Store) Option {
	if s == nil {
		panic("search: WithStore(nil)")
	}
	return func(rc *runConfig) { rc.store = s }
}

// WithOnPolytope registers a callback for every compact polytope found.
// Calls are serialized.
func WithOnPolytope(fn func(*polytope.Candidate)) Option {
	if fn == nil {
		panic("search: WithOnPolytope(nil)")
	}
	return func(rc *runConfig) { rc.onPolytope = fn }
}

// WithKnown skips compact polytopes whose equiv.Hash is in known, such as
// Result.Hashes of an earlier run or store.Hashes of an archive. Skipped
// polytopes are neither stored nor reported.
func WithKnown(known *equiv.HashSet) Option {
	if known == nil {
		panic("search: WithKnown(nil)")
	}
	return func(rc *runConfig) { rc.known = known }
}
