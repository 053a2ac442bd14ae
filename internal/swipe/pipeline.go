package swipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/applications"
	"github.com/jonathan/swipe-matcher/internal/metrics"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/rs/zerolog"
)

// Scorer returns the current match score for a pair
type Scorer interface {
	ComputeOrFetchScore(ctx context.Context, userID, jobID uuid.UUID) (*types.MatchScore, error)
}

// Applier creates and moves applications
type Applier interface {
	Create(ctx context.Context, in applications.CreateInput) (*types.Application, error)
	Transition(ctx context.Context, appID uuid.UUID, target types.ApplicationStatus, actor types.Actor) (*types.Application, error)
}

// Directory resolves the swiped entities and per-user swipe settings
type Directory interface {
	GetCandidateProfile(ctx context.Context, userID uuid.UUID) (*types.CandidateProfile, error)
	GetJobListing(ctx context.Context, jobID uuid.UUID) (*types.JobListing, error)
	GetUserPreferences(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error)
}

// Options tunes the pipeline
type Options struct {
	// DefaultDailyLimit applies when a user has no stored limit
	DefaultDailyLimit int
}

// Pipeline records swipes
type Pipeline struct {
	dir      Directory
	counter  Counter
	swipes   store.Swipes
	scorer   Scorer
	applier  Applier
	opts     Options
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

// NewPipeline wires a pipeline from its collaborators
func NewPipeline(dir Directory, counter Counter, swipes store.Swipes, scorer Scorer, applier Applier, opts Options, log zerolog.Logger) *Pipeline {
	if opts.DefaultDailyLimit <= 0 {
		opts.DefaultDailyLimit = types.DefaultDailySwipeLimit
	}
	return &Pipeline{
		dir:      dir,
		counter:  counter,
		swipes:   swipes,
		scorer:   scorer,
		applier:  applier,
		opts:     opts,
		validate: validator.New(),
		log:      log.With().Str("component", "swipe").Logger(),
		now:      time.Now,
	}
}

// Swipe records one swipe.
//
// Both the candidate and the job must exist; a missing one fails with NotFound
// before the allowance is touched. The daily allowance is checked with an atomic
// increment; a swipe over the limit is rolled back and rejected with a
// RateLimitError before anything is written.
// Positive swipes carry the current match score. When the user has auto-apply on
// and no live application exists for the job, a pending application is created,
// the swipe is written, and the application is submitted.
func (p *Pipeline) Swipe(ctx context.Context, userID, jobID uuid.UUID, direction types.SwipeDirection, swipeCtx types.SwipeContext) (*types.SwipeResult, error) {
	if _, err := types.ParseSwipeDirection(string(direction)); err != nil {
		return nil, err
	}
	if err := p.validate.Struct(swipeCtx); err != nil {
		return nil, fmt.Errorf("invalid swipe context: %w", err)
	}
	if _, err := p.dir.GetCandidateProfile(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := p.dir.GetJobListing(ctx, jobID); err != nil {
		return nil, err
	}

	now := p.now().UTC()
	prefs := p.preferences(ctx, userID)
	limit := prefs.DailySwipeLimit
	if limit <= 0 {
		limit = p.opts.DefaultDailyLimit
	}

	count, err := p.counter.Increment(ctx, userID, now)
	if err != nil {
		return nil, apperrors.Transient("swipe counter", err)
	}
	if count > limit {
		p.rollbackCount(ctx, userID, now)
		metrics.SwipesRateLimited.Inc()
		return nil, &apperrors.RateLimitError{UserID: userID, Limit: limit, ResetAt: NextReset(now)}
	}

	sw := &types.Swipe{
		ID:        uuid.New(),
		UserID:    userID,
		JobID:     jobID,
		Direction: direction,
		SwipedAt:  now,
		Context:   swipeCtx,
	}

	if direction.IsPositive() {
		sw.MatchScore, err = p.score(ctx, userID, jobID)
		if err != nil {
			p.rollbackCount(ctx, userID, now)
			return nil, fmt.Errorf("score swipe: %w", err)
		}
	}

	var app *types.Application
	if direction.IsPositive() && prefs.AutoApply {
		app, err = p.applier.Create(ctx, applications.CreateInput{
			UserID:     userID,
			JobID:      jobID,
			SwipeID:    &sw.ID,
			Method:     types.MethodAutoSwipe,
			MatchScore: sw.MatchScore,
		})
		switch {
		case errors.Is(err, apperrors.ErrDuplicateApplication):
			app = nil
		case err != nil:
			p.rollbackCount(ctx, userID, now)
			return nil, fmt.Errorf("auto-apply: %w", err)
		default:
			sw.AutoApplied = true
		}
	}

	if err := p.swipes.SaveSwipe(ctx, sw); err != nil {
		p.rollbackCount(ctx, userID, now)
		if app != nil {
			if _, werr := p.applier.Transition(ctx, app.ID, types.StatusWithdrawn, types.ActorSystem); werr != nil {
				p.log.Warn().Err(werr).Str("application_id", app.ID.String()).Msg("withdrawing orphaned auto-application failed")
			}
		}
		return nil, fmt.Errorf("save swipe: %w", err)
	}
	metrics.Swipes.WithLabelValues(string(direction)).Inc()

	if app != nil {
		submitted, err := p.applier.Transition(ctx, app.ID, types.StatusSubmitted, types.ActorSystem)
		if err != nil {
			p.log.Warn().Err(err).Str("application_id", app.ID.String()).Msg("auto-application left pending")
		} else {
			app = submitted
		}
	}

	p.log.Debug().Str("user_id", userID.String()).Str("job_id", jobID.String()).
		Str("direction", string(direction)).Bool("auto_applied", sw.AutoApplied).Msg("swipe recorded")

	return &types.SwipeResult{
		Swipe:          sw,
		Application:    app,
		SwipesToday:    count,
		RemainingToday: limit - count,
	}, nil
}

func (p *Pipeline) preferences(ctx context.Context, userID uuid.UUID) *types.UserPreferences {
	prefs, err := p.dir.GetUserPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			p.log.Warn().Err(err).Str("user_id", userID.String()).Msg("preferences unavailable, using defaults")
		}
		d := types.DefaultPreferences(userID)
		d.DailySwipeLimit = p.opts.DefaultDailyLimit
		return d
	}
	return prefs
}

// score returns the pair's overall score. A transient failure leaves the swipe
// unscored; anything else fails it.
func (p *Pipeline) score(ctx context.Context, userID, jobID uuid.UUID) (*float64, error) {
	ms, err := p.scorer.ComputeOrFetchScore(ctx, userID, jobID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrTransient) {
			return nil, err
		}
		p.log.Warn().Err(err).Str("user_id", userID.String()).Str("job_id", jobID.String()).Msg("swipe recorded without match score")
		return nil, nil
	}
	v := ms.OverallScore
	return &v, nil
}

func (p *Pipeline) rollbackCount(ctx context.Context, userID uuid.UUID, day time.Time) {
	if err := p.counter.Decrement(ctx, userID, day); err != nil {
		p.log.Warn().Err(err).Str("user_id", userID.String()).Msg("swipe counter rollback failed")
	}
}
