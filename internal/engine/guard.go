package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/metrics"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around collaborator calls
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// Guard runs collaborator calls under a timeout and a circuit breaker.
// Deadline expiry and an open breaker both surface as apperrors.TransientError.
type Guard struct {
	name    string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[any]
}

// NewGuard creates a guard. NotFound results count as successes for the breaker.
func NewGuard(timeout time.Duration, cfg BreakerConfig, log zerolog.Logger) *Guard {
	if cfg.Name == "" {
		cfg.Name = "directory"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	threshold := cfg.FailureThreshold
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperrors.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &Guard{
		name:    cfg.Name,
		timeout: timeout,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State reports the breaker state
func (g *Guard) State() string {
	return g.breaker.State().String()
}

// call executes fn through the guard
func call[T any](ctx context.Context, g *Guard, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if g == nil {
		return fn(ctx)
	}

	cctx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	res, err := g.breaker.Execute(func() (any, error) {
		return fn(cctx)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CollaboratorErrors.WithLabelValues(op, "breaker_open").Inc()
			return zero, apperrors.Transient(op, err)
		case apperrors.IsTimeout(err):
			metrics.CollaboratorErrors.WithLabelValues(op, "timeout").Inc()
			return zero, apperrors.Transient(op, err)
		case errors.Is(err, apperrors.ErrNotFound):
			return zero, err
		default:
			metrics.CollaboratorErrors.WithLabelValues(op, "error").Inc()
			return zero, err
		}
	}
	v, _ := res.(T)
	return v, nil
}

// GuardedDirectory wraps a Directory so every call runs through a Guard
type GuardedDirectory struct {
	inner store.Directory
	guard *Guard
}

var _ store.Directory = (*GuardedDirectory)(nil)

// NewGuardedDirectory wraps dir with guard
func NewGuardedDirectory(dir store.Directory, guard *Guard) *GuardedDirectory {
	return &GuardedDirectory{inner: dir, guard: guard}
}

// GetCandidateProfile fetches a candidate snapshot
func (d *GuardedDirectory) GetCandidateProfile(ctx context.Context, userID uuid.UUID) (*types.CandidateProfile, error) {
	return call(ctx, d.guard, "get_candidate_profile", func(ctx context.Context) (*types.CandidateProfile, error) {
		return d.inner.GetCandidateProfile(ctx, userID)
	})
}

// GetJobListing fetches a job snapshot
func (d *GuardedDirectory) GetJobListing(ctx context.Context, jobID uuid.UUID) (*types.JobListing, error) {
	return call(ctx, d.guard, "get_job_listing", func(ctx context.Context) (*types.JobListing, error) {
		return d.inner.GetJobListing(ctx, jobID)
	})
}

// ListActiveJobs lists active job snapshots
func (d *GuardedDirectory) ListActiveJobs(ctx context.Context) ([]*types.JobListing, error) {
	return call(ctx, d.guard, "list_active_jobs", func(ctx context.Context) ([]*types.JobListing, error) {
		return d.inner.ListActiveJobs(ctx)
	})
}

// GetUserPreferences fetches a user's preferences
func (d *GuardedDirectory) GetUserPreferences(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error) {
	return call(ctx, d.guard, "get_user_preferences", func(ctx context.Context) (*types.UserPreferences, error) {
		return d.inner.GetUserPreferences(ctx, userID)
	})
}
