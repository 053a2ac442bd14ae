// Package store defines the persistence and directory contracts used by the engine,
// together with an in-memory implementation for tests and offline runs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/types"
)

// Directory provides read-only snapshots of profiles, listings and preferences.
// Missing entities are reported with apperrors.NotFoundError.
type Directory interface {
	GetCandidateProfile(ctx context.Context, userID uuid.UUID) (*types.CandidateProfile, error)
	GetJobListing(ctx context.Context, jobID uuid.UUID) (*types.JobListing, error)
	ListActiveJobs(ctx context.Context) ([]*types.JobListing, error)
	GetUserPreferences(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error)
}

// MatchScores persists match scores keyed by (user, job)
type MatchScores interface {
	GetMatchScore(ctx context.Context, userID, jobID uuid.UUID) (*types.MatchScore, error)
	ListMatchScoresByUser(ctx context.Context, userID uuid.UUID) ([]*types.MatchScore, error)
	// SaveMatchScore upserts the score only if the stored row's stale epoch still equals
	// expectedEpoch (an absent row has epoch 0). It reports whether the write happened.
	SaveMatchScore(ctx context.Context, score *types.MatchScore, expectedEpoch int64) (bool, error)
	// MarkStaleByUser and MarkStaleByJob flag rows stale and bump their epoch
	MarkStaleByUser(ctx context.Context, userID uuid.UUID) (int, error)
	MarkStaleByJob(ctx context.Context, jobID uuid.UUID) (int, error)
	DeleteMatchScoresByUser(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteMatchScoresByJob(ctx context.Context, jobID uuid.UUID) (int, error)
	CountStaleMatchScores(ctx context.Context) (int, error)
}

// Recommendations persists each user's ranked feed
type Recommendations interface {
	// ReplaceRecommendations swaps the user's feed for recs in one step
	ReplaceRecommendations(ctx context.Context, userID uuid.UUID, recs []types.AIRecommendation) error
	ListRecommendations(ctx context.Context, userID uuid.UUID) ([]types.AIRecommendation, error)
	MarkRecommendationsShown(ctx context.Context, userID uuid.UUID, jobIDs []uuid.UUID, at time.Time) error
	DeleteRecommendationsByUser(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteRecommendationsByJob(ctx context.Context, jobID uuid.UUID) (int, error)
}

// Swipes is the append-only swipe log
type Swipes interface {
	SaveSwipe(ctx context.Context, swipe *types.Swipe) error
	ListSwipesByUser(ctx context.Context, userID uuid.UUID) ([]*types.Swipe, error)
	SwipedJobIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
}

// ApplicationFilter narrows ListApplications; zero fields match everything
type ApplicationFilter struct {
	UserID uuid.UUID
	JobID  uuid.UUID
	Status types.ApplicationStatus
}

// Applications persists applications and enforces one live application per (user, job)
type Applications interface {
	// CreateApplication fails with apperrors.DuplicateApplicationError when a live
	// application already exists for the pair
	CreateApplication(ctx context.Context, app *types.Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	FindLiveApplication(ctx context.Context, userID, jobID uuid.UUID) (*types.Application, error)
	// UpdateApplication writes app only if the stored status still equals expected.
	// A lost race is reported as apperrors.InvalidTransitionError.
	UpdateApplication(ctx context.Context, app *types.Application, expected types.ApplicationStatus) error
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]*types.Application, error)
}

// Store is the full persistence surface
type Store interface {
	MatchScores
	Recommendations
	Swipes
	Applications
}
