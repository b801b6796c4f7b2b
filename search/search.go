// SPDX-License-Identifier: MIT

package search

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/ptope/angles"
	"github.com/katalvlaran/ptope/compact"
	"github.com/katalvlaran/ptope/elliptic"
	"github.com/katalvlaran/ptope/equiv"
	"github.com/katalvlaran/ptope/extend"
	"github.com/katalvlaran/ptope/filter"
	"github.com/katalvlaran/ptope/matrix"
	"github.com/katalvlaran/ptope/polytope"
)

// Result summarizes a finished run.
type Result struct {
	// Polytopes are the compact polytopes found, pairwise inequivalent.
	Polytopes []*polytope.Candidate
	// Levels is the number of levels processed.
	Levels int
	// Examined counts valid extensions.
	Examined int64
	// Hashes holds equiv.Hash of every polytope in Polytopes. Persist it
	// and pass it to WithKnown to skip these polytopes in a later run.
	Hashes *equiv.HashSet
}

// Builder runs searches for one Config. A Builder may be run more than once;
// each Run starts from an empty result set.
type Builder struct {
	cfg      Config
	products []float64
	check    *filter.AngleCheck
	screens  []screen
	rc       runConfig
	metrics  *Metrics
}

// NewBuilder validates cfg and prepares a Builder. Its metrics are
// registered once, so two Builders cannot share a registry.
func NewBuilder(cfg Config, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	set, err := angles.New(cfg.Angles...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	rc := newRunConfig(opts...)

	// dotted products sort below every angle product
	dotted := slices.Clone(cfg.Dotted)
	slices.Sort(dotted)
	dotted = slices.Compact(dotted)

	check := filter.NewAngleCheck(set)

	return &Builder{
		cfg:      cfg,
		products: append(dotted, set.Products()...),
		check:    check,
		screens:  newScreens(check),
		rc:       rc,
		metrics:  newMetrics(rc.registry),
	}, nil
}

// Metrics returns the collectors updated by Run.
func (b *Builder) Metrics() *Metrics { return b.metrics }

// run is the shared state of one Run.
type run struct {
	b        *Builder
	unique   *equiv.UniqueSet
	hashes   *equiv.HashSet
	examined atomic.Int64

	mu    sync.Mutex
	found []*polytope.Candidate
	next  []*polytope.Candidate
}

// Run executes the search level by level until the frontier is empty.
// Cancelling ctx stops the run and returns ctx.Err().
func (b *Builder) Run(ctx context.Context) (Result, error) {
	r := &run{b: b, unique: equiv.NewUniqueSet(), hashes: equiv.NewHashSet()}
	frontier := b.seeds()
	log := b.rc.logger

	levels := 0
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		start := time.Now()
		b.metrics.frontier.Set(float64(len(frontier)))
		log.Info("search: level started", zap.Int("level", levels), zap.Int("frontier", len(frontier)))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.cfg.Workers)
		for _, parent := range frontier {
			g.Go(func() error { return r.expand(gctx, parent) })
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		frontier, r.next = r.next, nil
		levels++
		b.metrics.levelDuration.Observe(time.Since(start).Seconds())
		log.Info("search: level finished",
			zap.Int("level", levels-1), zap.Int("found", len(r.found)), zap.Int("next", len(frontier)))
	}
	b.metrics.frontier.Set(0)

	return Result{Polytopes: r.found, Levels: levels, Examined: r.examined.Load(), Hashes: r.hashes}, nil
}

// seeds returns the elliptic diagrams of the configured dimension whose
// angles are all allowed.
func (b *Builder) seeds() []*polytope.Candidate {
	var out []*polytope.Candidate
	for m := range elliptic.Generate(b.cfg.Dimension) {
		if !b.admissible(m) {
			continue
		}
		p, err := polytope.New(m)
		if err != nil {
			b.rc.logger.Warn("search: seed rejected", zap.Error(err))
			continue
		}
		out = append(out, p)
	}

	return out
}

func (b *Builder) admissible(m *matrix.Dense) bool {
	ok := true
	m.Do(func(i, j int, v float64) bool {
		if i < j && !b.check.CheckValue(v) {
			ok = false
		}
		return ok
	})

	return ok
}

// expand processes one frontier candidate. It owns its compactness checkers.
// Children of the first rebase keep the parent's vector order, so they
// resume the parent's failed walk; the other rebases are walked afresh.
func (r *run) expand(ctx context.Context, parent *polytope.Candidate) error {
	b := r.b
	checker, err := compact.NewChecker(compact.WithLogger(b.rc.logger))
	if err != nil {
		return err
	}
	var base *compact.Checker
	if parent.Hyperbolic() {
		if ok, err := checker.Check(parent); err == nil && !ok {
			base = checker.Clone()
		}
	}

	first := true
	for rebased := range extend.Rebases(parent) {
		resume := first && base != nil
		first = false
		for child := range extend.Extensions(rebased, b.products) {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.examined.Add(1)
			b.metrics.examined.Inc()
			walk := checker.Check
			if resume {
				walk = base.Clone().Resume
			}
			if err := r.consider(ctx, walk, child); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *run) consider(ctx context.Context, walk func(*polytope.Candidate) (bool, error), child *polytope.Candidate) error {
	b := r.b
	if reason := r.screen(child); reason != "" {
		b.metrics.rejected.WithLabelValues(reason).Inc()
		return nil
	}

	ok, err := walk(child)
	if err != nil {
		b.rc.logger.Debug("search: compactness check failed", zap.Error(err))
		b.metrics.rejected.WithLabelValues(ReasonCheck).Inc()
		return nil
	}
	if ok {
		return r.record(ctx, child)
	}
	if child.Size() >= b.cfg.MaxVectors {
		b.metrics.rejected.WithLabelValues(ReasonMaxVectors).Inc()
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.next) >= b.cfg.MaxFrontier {
		b.metrics.rejected.WithLabelValues(ReasonFrontierFull).Inc()
		return nil
	}
	r.next = append(r.next, child)

	return nil
}

// screen applies the cheap filters and the equivalence check in order and
// returns the first rejection reason, or "" when child survives.
func (r *run) screen(child *polytope.Candidate) string {
	for _, s := range r.b.screens {
		if !s.keep(child) {
			return s.reason
		}
	}
	if !r.unique.Insert(child.Gram()) {
		return ReasonEquivalent
	}

	return ""
}

// screen is a named filter; candidates failing keep are rejected for reason.
type screen struct {
	reason string
	keep   filter.Predicate
}

func newScreens(check *filter.AngleCheck) []screen {
	return []screen{
		{ReasonAngle, check.CheckCandidate},
		// a parabolic subdiagram is an ideal vertex no extension removes
		{ReasonParabolic, filter.Not(filter.HasParabolicCandidate)},
		{ReasonDuplicate, filter.Not(filter.DuplicateColumn)},
		{ReasonBlockDiagonal, filter.Not(filter.BlockDiagonal)},
	}
}

func (r *run) record(ctx context.Context, p *polytope.Candidate) error {
	b := r.b
	h := equiv.Hash(p.Gram())
	if b.rc.known != nil && b.rc.known.Contains(h) {
		b.metrics.rejected.WithLabelValues(ReasonKnown).Inc()
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.rc.store != nil {
		id, err := b.rc.store.Put(ctx, p)
		if err != nil {
			return err
		}
		b.rc.logger.Debug("search: polytope stored", zap.Stringer("id", id))
	}
	r.found = append(r.found, p)
	r.hashes.Add(h)
	b.metrics.found.Inc()
	b.rc.onPolytope(p)
	b.rc.logger.Info("search: compact polytope",
		zap.Int("size", p.Size()), zap.Int("dotted", filter.DottedCount(p.Gram())))

	return nil
}
