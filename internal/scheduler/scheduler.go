// Package scheduler runs periodic maintenance with robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CounterPruner drops daily swipe buckets older than the given day
type CounterPruner interface {
	Prune(ctx context.Context, before time.Time) (int, error)
}

// StaleGauge recomputes the stale-score gauge
type StaleGauge interface {
	RefreshStaleGauge(ctx context.Context) error
}

// Specs holds the cron expressions for each job. An empty spec disables the job.
type Specs struct {
	CounterPrune string
	StaleGauge   string
}

// Scheduler wraps robfig/cron and owns the maintenance jobs.
type Scheduler struct {
	cron    *cron.Cron
	specs   Specs
	pruner  CounterPruner
	gauge   StaleGauge
	log     zerolog.Logger
	now     func() time.Time
	entries []cron.EntryID
}

// New creates a Scheduler. Either dependency may be nil, which skips its job.
func New(specs Specs, pruner CounterPruner, gauge StaleGauge, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		specs:  specs,
		pruner: pruner,
		gauge:  gauge,
		log:    log.With().Str("component", "scheduler").Logger(),
		now:    time.Now,
	}
}

// Start registers the jobs and starts the cron loop. Jobs run until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.pruner != nil && s.specs.CounterPrune != "" {
		id, err := s.cron.AddFunc(s.specs.CounterPrune, func() { s.PruneCounters(ctx) })
		if err != nil {
			return fmt.Errorf("cron.AddFunc(%q): %w", s.specs.CounterPrune, err)
		}
		s.entries = append(s.entries, id)
	}
	if s.gauge != nil && s.specs.StaleGauge != "" {
		id, err := s.cron.AddFunc(s.specs.StaleGauge, func() { s.RefreshGauge(ctx) })
		if err != nil {
			return fmt.Errorf("cron.AddFunc(%q): %w", s.specs.StaleGauge, err)
		}
		s.entries = append(s.entries, id)
	}

	s.cron.Start()
	s.log.Info().Int("jobs", len(s.entries)).Msg("cron started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for running jobs and shuts the loop down
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("cron stopped")
}

// Jobs returns how many jobs are registered
func (s *Scheduler) Jobs() int {
	return len(s.entries)
}

// PruneCounters removes swipe buckets from previous UTC days, logging failures
func (s *Scheduler) PruneCounters(ctx context.Context) int {
	removed, err := s.pruner.Prune(ctx, s.now().UTC())
	if err != nil {
		s.log.Warn().Err(err).Msg("swipe counter prune failed")
		return 0
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("pruned swipe counters")
	}
	return removed
}

// RefreshGauge updates the stale-score gauge, logging failures
func (s *Scheduler) RefreshGauge(ctx context.Context) {
	if err := s.gauge.RefreshStaleGauge(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stale gauge refresh failed")
	}
}

// ValidateSpec reports whether spec parses as a standard five-field cron expression
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}
