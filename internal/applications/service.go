package applications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/events"
	"github.com/jonathan/swipe-matcher/internal/metrics"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/rs/zerolog"
)

// CreateInput describes a new application
type CreateInput struct {
	UserID     uuid.UUID
	JobID      uuid.UUID
	SwipeID    *uuid.UUID
	Method     types.ApplicationMethod
	MatchScore *float64
}

// Directory confirms the applying candidate and the job exist
type Directory interface {
	GetCandidateProfile(ctx context.Context, userID uuid.UUID) (*types.CandidateProfile, error)
	GetJobListing(ctx context.Context, jobID uuid.UUID) (*types.JobListing, error)
}

// Service drives applications through the state machine.
// Transitions on one application are serialized in process and guarded by a
// status compare-and-set in storage.
type Service struct {
	store    store.Applications
	dir      Directory
	notifier events.Notifier
	locks    *keyedMutex
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a service. A nil notifier discards events.
func NewService(st store.Applications, notifier events.Notifier, log zerolog.Logger) *Service {
	if notifier == nil {
		notifier = events.NopNotifier{}
	}
	return &Service{
		store:    st,
		notifier: notifier,
		locks:    newKeyedMutex(),
		log:      log.With().Str("component", "applications").Logger(),
		now:      time.Now,
	}
}

// WithDirectory makes Create reject unknown candidates and jobs with NotFound
func (s *Service) WithDirectory(dir Directory) *Service {
	s.dir = dir
	return s
}

// Create opens a pending application. It fails with DuplicateApplication while a
// live application exists for the pair.
func (s *Service) Create(ctx context.Context, in CreateInput) (*types.Application, error) {
	if _, err := ParseMethod(string(in.Method)); err != nil {
		return nil, err
	}
	if in.UserID == uuid.Nil || in.JobID == uuid.Nil {
		return nil, fmt.Errorf("user and job are required")
	}
	if s.dir != nil {
		if _, err := s.dir.GetCandidateProfile(ctx, in.UserID); err != nil {
			return nil, err
		}
		if _, err := s.dir.GetJobListing(ctx, in.JobID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	app := &types.Application{
		ID:                 uuid.New(),
		UserID:             in.UserID,
		JobID:              in.JobID,
		SwipeID:            in.SwipeID,
		Status:             types.StatusPending,
		Method:             in.Method,
		IsAutoApplied:      in.Method == types.MethodAutoSwipe,
		MatchScore:         in.MatchScore,
		LastStatusUpdateAt: now,
		CreatedAt:          now,
		History: []types.StatusChange{
			{To: types.StatusPending, By: actorFor(in.Method), At: now},
		},
	}

	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	if app.IsAutoApplied {
		metrics.AutoApplications.Inc()
	}
	s.log.Info().Str("application_id", app.ID.String()).Str("user_id", app.UserID.String()).
		Str("job_id", app.JobID.String()).Str("method", string(app.Method)).Msg("application created")
	return app, nil
}

func actorFor(method types.ApplicationMethod) types.Actor {
	if method == types.MethodAutoSwipe {
		return types.ActorSystem
	}
	return types.ActorCandidate
}

// Get returns an application by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	return s.store.GetApplication(ctx, id)
}

// ListByUser returns the user's applications, optionally filtered by status
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, status types.ApplicationStatus) ([]*types.Application, error) {
	return s.store.ListApplications(ctx, store.ApplicationFilter{UserID: userID, Status: status})
}

// Transition moves the application to target on behalf of actor.
// Submitting an already submitted application is a no-op.
func (s *Service) Transition(ctx context.Context, appID uuid.UUID, target types.ApplicationStatus, actor types.Actor) (*types.Application, error) {
	return s.TransitionWithReason(ctx, appID, target, actor, "")
}

// TransitionWithReason is Transition with a rejection reason recorded on rejected moves
func (s *Service) TransitionWithReason(ctx context.Context, appID uuid.UUID, target types.ApplicationStatus, actor types.Actor, reason string) (*types.Application, error) {
	if _, err := ParseStatus(string(target)); err != nil {
		return nil, err
	}
	if _, err := ParseActor(string(actor)); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(appID)
	defer unlock()

	app, err := s.store.GetApplication(ctx, appID)
	if err != nil {
		return nil, err
	}

	from := app.Status
	if from == types.StatusSubmitted && target == types.StatusSubmitted {
		return app, nil
	}
	if !IsTransitionAllowed(from, target) || !CanPerform(actor, target) {
		return nil, &apperrors.InvalidTransitionError{From: string(from), To: string(target)}
	}

	now := s.now().UTC()
	next := app.Clone()
	next.Status = target
	next.LastStatusUpdateAt = now
	if target == types.StatusSubmitted && next.SubmittedAt == nil {
		submittedAt := now
		next.SubmittedAt = &submittedAt
	}
	if target == types.StatusRejected && reason != "" {
		next.RejectionReason = reason
	}
	next.History = append(next.History, types.StatusChange{From: from, To: target, By: actor, At: now})

	if err := s.store.UpdateApplication(ctx, next, from); err != nil {
		return nil, err
	}

	metrics.ApplicationTransitions.WithLabelValues(string(from), string(target)).Inc()
	s.notifier.ApplicationMoved(ctx, events.ApplicationMoved{
		ApplicationID: next.ID,
		UserID:        next.UserID,
		JobID:         next.JobID,
		From:          string(from),
		To:            string(target),
		At:            now,
	})
	s.log.Debug().Str("application_id", next.ID.String()).Str("from", string(from)).Str("to", string(target)).
		Str("actor", string(actor)).Msg("application moved")
	return next, nil
}
