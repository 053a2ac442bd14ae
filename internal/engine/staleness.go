package engine

import (
	"context"
	"fmt"

	"github.com/jonathan/swipe-matcher/internal/events"
	"github.com/jonathan/swipe-matcher/internal/metrics"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/rs/zerolog"
)

// scoreInvalidator is the slice of the store the tracker writes to
type scoreInvalidator interface {
	store.MatchScores
	store.Recommendations
}

// StalenessTracker marks scores stale when profiles or listings change and
// cascades deletes. It never recomputes; that happens on the next read.
type StalenessTracker struct {
	store scoreInvalidator
	log   zerolog.Logger
}

// NewStalenessTracker creates a tracker writing to st
func NewStalenessTracker(st scoreInvalidator, log zerolog.Logger) *StalenessTracker {
	return &StalenessTracker{store: st, log: log.With().Str("component", "staleness").Logger()}
}

// Start subscribes to candidate and job changes on feed until ctx is done
func (t *StalenessTracker) Start(ctx context.Context, feed events.ChangeFeed) error {
	for _, kind := range []events.Kind{events.KindCandidate, events.KindJob} {
		err := feed.Subscribe(ctx, kind, func(ev events.ChangeEvent) {
			if err := t.Handle(ctx, ev); err != nil {
				t.log.Error().Err(err).Str("kind", string(ev.Kind)).Str("id", ev.ID.String()).Msg("failed to apply change event")
			}
		})
		if err != nil {
			return fmt.Errorf("subscribe %s changes: %w", kind, err)
		}
	}
	t.log.Info().Msg("staleness tracker subscribed")
	return nil
}

// Handle applies a single change event
func (t *StalenessTracker) Handle(ctx context.Context, ev events.ChangeEvent) error {
	metrics.Invalidations.WithLabelValues(string(ev.Kind), string(ev.Op)).Inc()

	switch ev.Op {
	case events.OpUpdated:
		var n int
		var err error
		switch ev.Kind {
		case events.KindCandidate:
			n, err = t.store.MarkStaleByUser(ctx, ev.ID)
		case events.KindJob:
			n, err = t.store.MarkStaleByJob(ctx, ev.ID)
		default:
			return fmt.Errorf("unknown change kind %q", ev.Kind)
		}
		if err != nil {
			return fmt.Errorf("mark stale: %w", err)
		}
		t.log.Debug().Str("kind", string(ev.Kind)).Str("id", ev.ID.String()).Int("rows", n).Msg("marked scores stale")
		return nil

	case events.OpDeleted:
		var scores, recs int
		var err error
		switch ev.Kind {
		case events.KindCandidate:
			if scores, err = t.store.DeleteMatchScoresByUser(ctx, ev.ID); err == nil {
				recs, err = t.store.DeleteRecommendationsByUser(ctx, ev.ID)
			}
		case events.KindJob:
			if scores, err = t.store.DeleteMatchScoresByJob(ctx, ev.ID); err == nil {
				recs, err = t.store.DeleteRecommendationsByJob(ctx, ev.ID)
			}
		default:
			return fmt.Errorf("unknown change kind %q", ev.Kind)
		}
		if err != nil {
			return fmt.Errorf("cascade delete: %w", err)
		}
		t.log.Debug().Str("kind", string(ev.Kind)).Str("id", ev.ID.String()).
			Int("scores", scores).Int("recommendations", recs).Msg("cascaded delete")
		return nil
	}
	return fmt.Errorf("unknown change op %q", ev.Op)
}

// RefreshStaleGauge updates the stale score gauge
func (t *StalenessTracker) RefreshStaleGauge(ctx context.Context) error {
	n, err := t.store.CountStaleMatchScores(ctx)
	if err != nil {
		return fmt.Errorf("count stale scores: %w", err)
	}
	metrics.StaleScores.Set(float64(n))
	return nil
}
