// SPDX-License-Identifier: MIT

package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons reported by ptope_candidates_rejected_total.
const (
	ReasonAngle         = "angle"
	ReasonParabolic     = "parabolic"
	ReasonDuplicate     = "duplicate_column"
	ReasonBlockDiagonal = "block_diagonal"
	ReasonEquivalent    = "equivalent"
	ReasonCheck         = "check_error"
	ReasonFrontierFull  = "frontier_full"
	ReasonMaxVectors    = "max_vectors"
	ReasonKnown         = "known"
)

// Metrics exposes the collectors of a Builder.
type Metrics struct {
	examined      prometheus.Counter
	rejected      *prometheus.CounterVec
	found         prometheus.Counter
	frontier      prometheus.Gauge
	levelDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		examined: f.NewCounter(prometheus.CounterOpts{
			Name: "ptope_candidates_examined_total",
			Help: "Valid extensions produced by the search.",
		}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ptope_candidates_rejected_total",
			Help: "Extensions discarded before or after the compactness check, by reason.",
		}, []string{"reason"}),
		found: f.NewCounter(prometheus.CounterOpts{
			Name: "ptope_polytopes_found_total",
			Help: "Compact polytopes found.",
		}),
		frontier: f.NewGauge(prometheus.GaugeOpts{
			Name: "ptope_frontier_size",
			Help: "Candidates in the level being processed.",
		}),
		levelDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ptope_level_duration_seconds",
			Help:    "Wall time per search level.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// Examined counts valid extensions.
func (m *Metrics) Examined() prometheus.Counter { return m.examined }

// Rejected returns the rejection counter for reason.
func (m *Metrics) Rejected(reason string) prometheus.Counter {
	return m.rejected.WithLabelValues(reason)
}

// Found counts compact polytopes.
func (m *Metrics) Found() prometheus.Counter { return m.found }

// Frontier is the size of the level in progress.
func (m *Metrics) Frontier() prometheus.Gauge { return m.frontier }
