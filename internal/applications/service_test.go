package applications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/events"
	"github.com/jonathan/swipe-matcher/internal/store"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu    sync.Mutex
	moves []events.ApplicationMoved
}

func (r *recordingNotifier) ApplicationMoved(_ context.Context, ev events.ApplicationMoved) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = append(r.moves, ev)
}

func newTestService(t *testing.T) (*Service, *store.Memory, *recordingNotifier) {
	t.Helper()
	st := store.NewMemory()
	n := &recordingNotifier{}
	svc := NewService(st, n, zerolog.Nop())
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, st, n
}

func createManual(t *testing.T, svc *Service) *types.Application {
	t.Helper()
	app, err := svc.Create(context.Background(), CreateInput{
		UserID: uuid.New(),
		JobID:  uuid.New(),
		Method: types.MethodManual,
	})
	require.NoError(t, err)
	return app
}

func moveAll(t *testing.T, svc *Service, id uuid.UUID, steps []types.ApplicationStatus, actor types.Actor) *types.Application {
	t.Helper()
	var app *types.Application
	var err error
	for _, s := range steps {
		app, err = svc.Transition(context.Background(), id, s, actor)
		require.NoError(t, err, "to %s", s)
	}
	return app
}

func TestService_Create(t *testing.T) {
	svc, _, _ := newTestService(t)
	app := createManual(t, svc)

	assert.NotEqual(t, uuid.Nil, app.ID)
	assert.Equal(t, types.StatusPending, app.Status)
	assert.False(t, app.IsAutoApplied)
	assert.Nil(t, app.SubmittedAt)
	require.Len(t, app.History, 1)
	assert.Equal(t, types.StatusPending, app.History[0].To)
	assert.Equal(t, types.ActorCandidate, app.History[0].By)
}

func TestService_Create_UnknownEntities(t *testing.T) {
	svc, st, _ := newTestService(t)
	dir := store.NewMemoryDirectory()
	svc.WithDirectory(dir)
	ctx := context.Background()

	user, job := uuid.New(), uuid.New()
	dir.PutCandidate(&types.CandidateProfile{UserID: user})

	_, err := svc.Create(ctx, CreateInput{UserID: user, JobID: job, Method: types.MethodManual})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), job.String())

	_, err = svc.Create(ctx, CreateInput{UserID: uuid.New(), JobID: job, Method: types.MethodExternal})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	apps, err := st.ListApplications(ctx, store.ApplicationFilter{UserID: user})
	require.NoError(t, err)
	assert.Empty(t, apps)

	dir.PutJob(&types.JobListing{JobID: job, Status: types.JobStatusActive})
	app, err := svc.Create(ctx, CreateInput{UserID: user, JobID: job, Method: types.MethodQuickApply})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, app.Status)
}

func TestService_Create_AutoSwipeMarksAutoApplied(t *testing.T) {
	svc, _, _ := newTestService(t)
	score := 82.5
	swipeID := uuid.New()
	app, err := svc.Create(context.Background(), CreateInput{
		UserID: uuid.New(), JobID: uuid.New(), SwipeID: &swipeID,
		Method: types.MethodAutoSwipe, MatchScore: &score,
	})
	require.NoError(t, err)
	assert.True(t, app.IsAutoApplied)
	assert.Equal(t, swipeID, *app.SwipeID)
	assert.Equal(t, types.ActorSystem, app.History[0].By)
}

func TestService_Create_RejectsUnknownMethod(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateInput{UserID: uuid.New(), JobID: uuid.New(), Method: "fax"})
	assert.Error(t, err)
}

func TestService_Create_DuplicateLiveApplication(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	first := createManual(t, svc)

	_, err := svc.Create(ctx, CreateInput{UserID: first.UserID, JobID: first.JobID, Method: types.MethodQuickApply})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateApplication))
	var dup *apperrors.DuplicateApplicationError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, first.ID, dup.ExistingID)

	// once withdrawn the pair is free again
	_, err = svc.Transition(ctx, first.ID, types.StatusWithdrawn, types.ActorCandidate)
	require.NoError(t, err)
	again, err := svc.Create(ctx, CreateInput{UserID: first.UserID, JobID: first.JobID, Method: types.MethodManual})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
}

func TestService_HappyPathToAccepted(t *testing.T) {
	svc, _, n := newTestService(t)
	app := createManual(t, svc)

	_, err := svc.Transition(context.Background(), app.ID, types.StatusSubmitted, types.ActorCandidate)
	require.NoError(t, err)
	moveAll(t, svc, app.ID, []types.ApplicationStatus{
		types.StatusUnderReview, types.StatusShortlisted, types.StatusInterviewing,
		types.StatusShortlisted, types.StatusInterviewing, types.StatusInterviewing,
		types.StatusOfferReceived,
	}, types.ActorEmployer)
	final, err := svc.Transition(context.Background(), app.ID, types.StatusAccepted, types.ActorCandidate)
	require.NoError(t, err)

	assert.Equal(t, types.StatusAccepted, final.Status)
	assert.Len(t, final.History, 10)
	assert.Equal(t, types.StatusOfferReceived, final.History[9].From)
	assert.Equal(t, final.History[9].At, final.LastStatusUpdateAt)
	assert.Len(t, n.moves, 9)
}

func TestService_AcceptedIsTerminal(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	app := createManual(t, svc)
	_, err := svc.Transition(ctx, app.ID, types.StatusSubmitted, types.ActorCandidate)
	require.NoError(t, err)
	moveAll(t, svc, app.ID, []types.ApplicationStatus{
		types.StatusUnderReview, types.StatusShortlisted, types.StatusInterviewing, types.StatusOfferReceived,
	}, types.ActorEmployer)
	_, err = svc.Transition(ctx, app.ID, types.StatusAccepted, types.ActorCandidate)
	require.NoError(t, err)

	for _, target := range []types.ApplicationStatus{types.StatusWithdrawn, types.StatusRejected, types.StatusInterviewing} {
		_, err := svc.Transition(ctx, app.ID, target, types.ActorSystem)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition), "to %s", target)
	}

	stored, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusAccepted, stored.Status)
}

func TestService_IllegalEdgeLeavesStateUnchanged(t *testing.T) {
	svc, _, n := newTestService(t)
	ctx := context.Background()
	app := createManual(t, svc)

	_, err := svc.Transition(ctx, app.ID, types.StatusInterviewing, types.ActorEmployer)
	var ite *apperrors.InvalidTransitionError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, "pending", ite.From)
	assert.Equal(t, "interviewing", ite.To)

	stored, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, stored.Status)
	assert.Len(t, stored.History, 1)
	assert.Empty(t, n.moves)
}

func TestService_ActorRules(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	app := createManual(t, svc)
	_, err := svc.Transition(ctx, app.ID, types.StatusSubmitted, types.ActorCandidate)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, app.ID, types.StatusRejected, types.ActorCandidate)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	_, err = svc.Transition(ctx, app.ID, types.StatusWithdrawn, types.ActorEmployer)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	_, err = svc.Transition(ctx, app.ID, types.StatusSubmitted, "recruiter")
	assert.Error(t, err)
}

func TestService_SubmitIsIdempotent(t *testing.T) {
	svc, _, n := newTestService(t)
	ctx := context.Background()
	app := createManual(t, svc)

	first, err := svc.Transition(ctx, app.ID, types.StatusSubmitted, types.ActorCandidate)
	require.NoError(t, err)
	require.NotNil(t, first.SubmittedAt)

	second, err := svc.Transition(ctx, app.ID, types.StatusSubmitted, types.ActorSystem)
	require.NoError(t, err)
	assert.Equal(t, *first.SubmittedAt, *second.SubmittedAt)
	assert.Len(t, second.History, 2)
	assert.Len(t, n.moves, 1)
}

func TestService_RejectionReason(t *testing.T) {
	svc, _, n := newTestService(t)
	ctx := context.Background()
	app := createManual(t, svc)
	_, err := svc.Transition(ctx, app.ID, types.StatusSubmitted, types.ActorCandidate)
	require.NoError(t, err)

	rejected, err := svc.TransitionWithReason(ctx, app.ID, types.StatusRejected, types.ActorEmployer, "position filled")
	require.NoError(t, err)
	assert.Equal(t, "position filled", rejected.RejectionReason)
	assert.False(t, rejected.Status.IsLive())

	last := n.moves[len(n.moves)-1]
	assert.Equal(t, "submitted", last.From)
	assert.Equal(t, "rejected", last.To)
	assert.Equal(t, app.ID, last.ApplicationID)
}

func TestService_TransitionUnknownApplication(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Transition(context.Background(), uuid.New(), types.StatusSubmitted, types.ActorCandidate)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestService_ConcurrentTransitionsSerialize(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	app := createManual(t, svc)
	_, err := svc.Transition(ctx, app.ID, types.StatusSubmitted, types.ActorCandidate)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Transition(ctx, app.ID, types.StatusUnderReview, types.ActorEmployer); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	stored, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Len(t, stored.History, 3)
}

func TestService_ListByUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	a, err := svc.Create(ctx, CreateInput{UserID: user, JobID: uuid.New(), Method: types.MethodManual})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{UserID: user, JobID: uuid.New(), Method: types.MethodExternal})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, a.ID, types.StatusSubmitted, types.ActorCandidate)
	require.NoError(t, err)

	all, err := svc.ListByUser(ctx, user, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	submitted, err := svc.ListByUser(ctx, user, types.StatusSubmitted)
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	assert.Equal(t, a.ID, submitted[0].ID)
}
