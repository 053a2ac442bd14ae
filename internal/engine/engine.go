// Package engine ties the scorers, the ranker and the stores together: it serves
// cached match scores, recomputes stale ones and regenerates recommendation feeds.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/metrics"
	"github.com/jonathan/swipe-matcher/internal/ranking"
	"github.com/jonathan/swipe-matcher/internal/scoring"
	"github.com/jonathan/swipe-matcher/internal/skills"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Options configures an Engine
type Options struct {
	Weights          types.Weights
	AlgorithmVersion string
	TopK             int
	SearchRadiusKm   float64
}

// Engine computes scores and feeds. It is safe for concurrent use.
type Engine struct {
	dir     store.Directory
	store   store.Store
	weights types.Weights
	version string
	topK    int
	radius  float64
	log     zerolog.Logger
	feeds   singleflight.Group
	now     func() time.Time
}

// New creates an engine. The weight vector is validated up front.
func New(dir store.Directory, st store.Store, opts Options, log zerolog.Logger) (*Engine, error) {
	if err := scoring.ValidateWeights(opts.Weights); err != nil {
		return nil, err
	}
	if opts.AlgorithmVersion == "" {
		opts.AlgorithmVersion = "1.0"
	}
	if opts.TopK <= 0 {
		opts.TopK = ranking.DefaultTopK
	}
	if opts.SearchRadiusKm <= 0 {
		opts.SearchRadiusKm = scoring.DefaultSearchRadiusKm
	}
	return &Engine{
		dir:     dir,
		store:   st,
		weights: opts.Weights,
		version: opts.AlgorithmVersion,
		topK:    opts.TopK,
		radius:  opts.SearchRadiusKm,
		log:     log.With().Str("component", "engine").Logger(),
		now:     time.Now,
	}, nil
}

// Version returns the calculation version stamped on scores
func (e *Engine) Version() string {
	return e.version
}

// ComputeOrFetchScore returns the stored score for the pair when it is fresh and was
// computed by this version, and recomputes it otherwise. When the directory is
// transiently unavailable a previously stored score is served instead.
func (e *Engine) ComputeOrFetchScore(ctx context.Context, userID, jobID uuid.UUID) (*types.MatchScore, error) {
	cached, err := e.store.GetMatchScore(ctx, userID, jobID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("load match score: %w", err)
	}
	if cached != nil && !cached.NeedsRecompute(e.version) {
		metrics.ScoreComputations.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	expectedEpoch := int64(0)
	if cached != nil {
		expectedEpoch = cached.StaleEpoch
	}

	candidate, job, err := e.loadPair(ctx, userID, jobID)
	if err != nil {
		if cached != nil && errors.Is(err, apperrors.ErrTransient) {
			metrics.ScoreComputations.WithLabelValues("stale_served").Inc()
			e.log.Warn().Err(err).Str("user_id", userID.String()).Str("job_id", jobID.String()).Msg("serving cached score")
			return cached, nil
		}
		return nil, err
	}

	radius := e.searchRadius(ctx, userID)
	score, _, err := e.computeAndSave(ctx, candidate, job, radius, expectedEpoch)
	return score, err
}

func (e *Engine) loadPair(ctx context.Context, userID, jobID uuid.UUID) (*types.CandidateProfile, *types.JobListing, error) {
	candidate, err := e.dir.GetCandidateProfile(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load candidate: %w", err)
	}
	job, err := e.dir.GetJobListing(ctx, jobID)
	if err != nil {
		return nil, nil, fmt.Errorf("load job: %w", err)
	}
	return candidate, job, nil
}

// searchRadius returns the user's radius, falling back to the configured default
func (e *Engine) searchRadius(ctx context.Context, userID uuid.UUID) float64 {
	prefs, err := e.dir.GetUserPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			e.log.Warn().Err(err).Str("user_id", userID.String()).Msg("preferences unavailable, using default radius")
		}
		return e.radius
	}
	if prefs.SearchRadius > 0 {
		return prefs.SearchRadius
	}
	return e.radius
}

// computeAndSave scores the pair and writes it if no invalidation raced the computation.
// On a lost race the freshly computed score is still returned, flagged stale.
func (e *Engine) computeAndSave(ctx context.Context, candidate *types.CandidateProfile, job *types.JobListing, radius float64, expectedEpoch int64) (*types.MatchScore, skills.MatchResult, error) {
	start := time.Now()
	breakdown, overall, err := scoring.Score(candidate, job, e.weights, scoring.Options{SearchRadiusKm: radius})
	metrics.ScoreDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, skills.MatchResult{}, err
	}

	score := &types.MatchScore{
		UserID:              candidate.UserID,
		JobID:               job.JobID,
		Components:          breakdown.Components,
		OverallScore:        overall,
		Weights:             e.weights,
		MatchedSkillsCount:  len(breakdown.Skills.Matched),
		TotalRequiredSkills: breakdown.Skills.TotalRequired,
		CalculationVersion:  e.version,
		CandidateVersion:    candidate.Version,
		JobVersion:          job.Version,
		LastCalculatedAt:    e.now().UTC(),
	}

	saved, err := e.store.SaveMatchScore(ctx, score, expectedEpoch)
	if err != nil {
		return nil, skills.MatchResult{}, fmt.Errorf("save match score: %w", err)
	}
	if !saved {
		metrics.ScoreComputations.WithLabelValues("conflict").Inc()
		e.log.Debug().Str("user_id", candidate.UserID.String()).Str("job_id", job.JobID.String()).
			Msg("score invalidated during computation, not persisted")
		score.IsStale = true
	} else {
		metrics.ScoreComputations.WithLabelValues("computed").Inc()
	}
	return score, breakdown.Skills, nil
}

// GetRecommendations regenerates the user's feed and returns its first topK rows,
// stamping them as shown. The feed holds at most the configured TopK rows, so a
// larger topK is capped there; topK <= 0 asks for the whole feed.
//
// Concurrent calls for the same user share one regeneration, which is not cancelled
// when the caller that started it goes away. Each caller stops waiting on its own ctx.
// If the directory is transiently unavailable the last persisted feed is served.
func (e *Engine) GetRecommendations(ctx context.Context, userID uuid.UUID, topK int) ([]types.AIRecommendation, error) {
	if topK <= 0 || topK > e.topK {
		topK = e.topK
	}

	shared := context.WithoutCancel(ctx)
	ch := e.feeds.DoChan(userID.String(), func() (any, error) {
		return e.regenerate(shared, userID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	var recs []types.AIRecommendation
	err := res.Err
	switch {
	case err == nil:
		recs = res.Val.([]types.AIRecommendation)
	case errors.Is(err, apperrors.ErrTransient):
		stored, lerr := e.store.ListRecommendations(ctx, userID)
		if lerr != nil || len(stored) == 0 {
			return nil, err
		}
		e.log.Warn().Err(err).Str("user_id", userID.String()).Msg("serving persisted feed")
		recs = stored
	default:
		return nil, err
	}

	if len(recs) > topK {
		recs = recs[:topK]
	}
	out := make([]types.AIRecommendation, len(recs))
	copy(out, recs)

	now := e.now().UTC()
	shown := make([]uuid.UUID, 0, len(out))
	for i := range out {
		shown = append(shown, out[i].JobID)
		if !out[i].IsShown {
			at := now
			out[i].IsShown = true
			out[i].ShownAt = &at
		}
	}
	if err := e.store.MarkRecommendationsShown(ctx, userID, shown, now); err != nil {
		e.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to mark recommendations shown")
	}
	return out, nil
}

// regenerate scores every active, unswiped job for the user and replaces the feed
func (e *Engine) regenerate(ctx context.Context, userID uuid.UUID) ([]types.AIRecommendation, error) {
	start := time.Now()
	defer func() { metrics.FeedDuration.Observe(time.Since(start).Seconds()) }()

	candidate, err := e.dir.GetCandidateProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}
	jobs, err := e.dir.ListActiveJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	radius := e.searchRadius(ctx, userID)

	swiped, err := e.store.SwipedJobIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load swipes: %w", err)
	}
	existing, err := e.store.ListMatchScoresByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load match scores: %w", err)
	}
	byJob := make(map[uuid.UUID]*types.MatchScore, len(existing))
	for _, s := range existing {
		byJob[s.JobID] = s
	}

	candidates := make([]ranking.Candidate, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, job := range jobs {
		if job == nil || swiped[job.JobID] {
			continue
		}
		i, job := i, job
		g.Go(func() error {
			c, err := e.scoreForFeed(gctx, candidate, job, radius, byJob[job.JobID])
			if err != nil {
				return err
			}
			candidates[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recs := ranking.Rank(userID, candidates, ranking.Options{
		TopK:             e.topK,
		AlgorithmVersion: e.version,
		Swiped:           swiped,
	})
	if err := e.store.ReplaceRecommendations(ctx, userID, recs); err != nil {
		return nil, fmt.Errorf("replace recommendations: %w", err)
	}

	metrics.FeedRegenerations.Inc()
	e.log.Debug().Str("user_id", userID.String()).Int("jobs", len(jobs)).Int("recommendations", len(recs)).Msg("feed regenerated")
	return recs, nil
}

// scoreForFeed reuses a cached score when it matches the snapshots and recomputes otherwise.
// The skill breakdown is always derived from the snapshots.
func (e *Engine) scoreForFeed(ctx context.Context, candidate *types.CandidateProfile, job *types.JobListing, radius float64, cached *types.MatchScore) (ranking.Candidate, error) {
	if cached != nil && !cached.NeedsRecompute(e.version) &&
		cached.CandidateVersion == candidate.Version && cached.JobVersion == job.Version {
		metrics.ScoreComputations.WithLabelValues("cache_hit").Inc()
		return ranking.Candidate{
			Job:    job,
			Score:  cached,
			Skills: skills.Match(candidate.Skills, job.RequiredSkills),
		}, nil
	}

	expectedEpoch := int64(0)
	if cached != nil {
		expectedEpoch = cached.StaleEpoch
	}
	score, skillResult, err := e.computeAndSave(ctx, candidate, job, radius, expectedEpoch)
	if err != nil {
		return ranking.Candidate{}, err
	}
	return ranking.Candidate{Job: job, Score: score, Skills: skillResult}, nil
}
