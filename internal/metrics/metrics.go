// Package metrics exposes Prometheus collectors for the matching engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scoring
	ScoreComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_score_computations_total",
			Help: "Match score lookups by outcome (cache_hit, computed, stale_served, conflict)",
		},
		[]string{"outcome"},
	)

	ScoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matcher_score_duration_seconds",
			Help:    "Time spent computing a single match score",
			Buckets: prometheus.DefBuckets,
		},
	)

	StaleScores = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "matcher_stale_scores",
			Help: "Match scores awaiting recomputation",
		},
	)

	Invalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_invalidations_total",
			Help: "Change events handled by the staleness tracker",
		},
		[]string{"kind", "op"},
	)

	// Recommendations
	FeedRegenerations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_feed_regenerations_total",
			Help: "Recommendation feeds regenerated",
		},
	)

	FeedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matcher_feed_duration_seconds",
			Help:    "Time spent regenerating a recommendation feed",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Swipes and applications
	Swipes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_swipes_total",
			Help: "Swipes recorded by direction",
		},
		[]string{"direction"},
	)

	SwipesRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_swipes_rate_limited_total",
			Help: "Swipes rejected by the daily limit",
		},
	)

	AutoApplications = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_auto_applications_total",
			Help: "Applications created by auto-apply",
		},
	)

	ApplicationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_application_transitions_total",
			Help: "Application status transitions",
		},
		[]string{"from", "to"},
	)

	// Collaborators
	CollaboratorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_collaborator_errors_total",
			Help: "Failed collaborator calls by operation and kind (timeout, breaker_open, error)",
		},
		[]string{"operation", "kind"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "matcher_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
