package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/types"
)

type pairKey struct {
	user uuid.UUID
	job  uuid.UUID
}

// Memory is an in-process Store guarded by a single RWMutex.
// Values are copied on the way in and out.
type Memory struct {
	mu           sync.RWMutex
	scores       map[pairKey]*types.MatchScore
	recs         map[uuid.UUID][]types.AIRecommendation
	swipes       []*types.Swipe
	applications map[uuid.UUID]*types.Application
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		scores:       make(map[pairKey]*types.MatchScore),
		recs:         make(map[uuid.UUID][]types.AIRecommendation),
		applications: make(map[uuid.UUID]*types.Application),
	}
}

// GetMatchScore returns the stored score for the pair
func (m *Memory) GetMatchScore(_ context.Context, userID, jobID uuid.UUID) (*types.MatchScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scores[pairKey{userID, jobID}]
	if !ok {
		return nil, &apperrors.NotFoundError{Entity: "match score", ID: userID.String() + "/" + jobID.String()}
	}
	cp := *s
	return &cp, nil
}

// ListMatchScoresByUser returns every score for the user
func (m *Memory) ListMatchScoresByUser(_ context.Context, userID uuid.UUID) ([]*types.MatchScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*types.MatchScore
	for k, s := range m.scores {
		if k.user == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// SaveMatchScore upserts conditionally on the stale epoch
func (m *Memory) SaveMatchScore(_ context.Context, score *types.MatchScore, expectedEpoch int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{score.UserID, score.JobID}
	current, exists := m.scores[key]
	currentEpoch := int64(0)
	if exists {
		currentEpoch = current.StaleEpoch
	}
	if currentEpoch != expectedEpoch {
		return false, nil
	}
	cp := *score
	if exists {
		cp.ID = current.ID
	} else if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	cp.StaleEpoch = currentEpoch
	cp.IsStale = false
	m.scores[key] = &cp
	score.ID = cp.ID
	score.StaleEpoch = cp.StaleEpoch
	return true, nil
}

// MarkStaleByUser flags every score of the user stale
func (m *Memory) MarkStaleByUser(_ context.Context, userID uuid.UUID) (int, error) {
	return m.markStale(func(k pairKey) bool { return k.user == userID }), nil
}

// MarkStaleByJob flags every score of the job stale
func (m *Memory) MarkStaleByJob(_ context.Context, jobID uuid.UUID) (int, error) {
	return m.markStale(func(k pairKey) bool { return k.job == jobID }), nil
}

func (m *Memory) markStale(match func(pairKey) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, s := range m.scores {
		if match(k) {
			s.IsStale = true
			s.StaleEpoch++
			n++
		}
	}
	return n
}

// DeleteMatchScoresByUser removes every score of the user
func (m *Memory) DeleteMatchScoresByUser(_ context.Context, userID uuid.UUID) (int, error) {
	return m.deleteScores(func(k pairKey) bool { return k.user == userID }), nil
}

// DeleteMatchScoresByJob removes every score of the job
func (m *Memory) DeleteMatchScoresByJob(_ context.Context, jobID uuid.UUID) (int, error) {
	return m.deleteScores(func(k pairKey) bool { return k.job == jobID }), nil
}

func (m *Memory) deleteScores(match func(pairKey) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.scores {
		if match(k) {
			delete(m.scores, k)
			n++
		}
	}
	return n
}

// CountStaleMatchScores counts rows awaiting recomputation
func (m *Memory) CountStaleMatchScores(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.scores {
		if s.IsStale {
			n++
		}
	}
	return n, nil
}

// ReplaceRecommendations swaps the user's feed
func (m *Memory) ReplaceRecommendations(_ context.Context, userID uuid.UUID, recs []types.AIRecommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(recs) == 0 {
		delete(m.recs, userID)
		return nil
	}
	m.recs[userID] = copyRecs(recs)
	return nil
}

// ListRecommendations returns the user's feed in rank order
func (m *Memory) ListRecommendations(_ context.Context, userID uuid.UUID) ([]types.AIRecommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := copyRecs(m.recs[userID])
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

// MarkRecommendationsShown stamps the listed rows as shown
func (m *Memory) MarkRecommendationsShown(_ context.Context, userID uuid.UUID, jobIDs []uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(jobIDs))
	for _, id := range jobIDs {
		want[id] = true
	}
	recs := m.recs[userID]
	for i := range recs {
		if want[recs[i].JobID] && !recs[i].IsShown {
			shownAt := at
			recs[i].IsShown = true
			recs[i].ShownAt = &shownAt
		}
	}
	return nil
}

// DeleteRecommendationsByUser drops the user's feed
func (m *Memory) DeleteRecommendationsByUser(_ context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.recs[userID])
	delete(m.recs, userID)
	return n, nil
}

// DeleteRecommendationsByJob removes the job from every feed
func (m *Memory) DeleteRecommendationsByJob(_ context.Context, jobID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for user, recs := range m.recs {
		kept := recs[:0]
		for _, r := range recs {
			if r.JobID == jobID {
				n++
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) == 0 {
			delete(m.recs, user)
		} else {
			m.recs[user] = kept
		}
	}
	return n, nil
}

// SaveSwipe appends a swipe
func (m *Memory) SaveSwipe(_ context.Context, swipe *types.Swipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *swipe
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
		swipe.ID = cp.ID
	}
	m.swipes = append(m.swipes, &cp)
	return nil
}

// ListSwipesByUser returns the user's swipes in insertion order
func (m *Memory) ListSwipesByUser(_ context.Context, userID uuid.UUID) ([]*types.Swipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*types.Swipe
	for _, s := range m.swipes {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// SwipedJobIDs returns the set of jobs the user has swiped on
func (m *Memory) SwipedJobIDs(_ context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uuid.UUID]bool)
	for _, s := range m.swipes {
		if s.UserID == userID {
			out[s.JobID] = true
		}
	}
	return out, nil
}

// CreateApplication inserts an application unless a live one exists for the pair
func (m *Memory) CreateApplication(_ context.Context, app *types.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing := m.findLive(app.UserID, app.JobID); existing != nil {
		return &apperrors.DuplicateApplicationError{UserID: app.UserID, JobID: app.JobID, ExistingID: existing.ID}
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	m.applications[app.ID] = app.Clone()
	return nil
}

// GetApplication returns an application by id
func (m *Memory) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.applications[id]
	if !ok {
		return nil, apperrors.NotFound("application", id)
	}
	return app.Clone(), nil
}

// FindLiveApplication returns the live application for the pair
func (m *Memory) FindLiveApplication(_ context.Context, userID, jobID uuid.UUID) (*types.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app := m.findLive(userID, jobID)
	if app == nil {
		return nil, &apperrors.NotFoundError{Entity: "live application", ID: userID.String() + "/" + jobID.String()}
	}
	return app.Clone(), nil
}

func (m *Memory) findLive(userID, jobID uuid.UUID) *types.Application {
	for _, a := range m.applications {
		if a.UserID == userID && a.JobID == jobID && a.Status.IsLive() {
			return a
		}
	}
	return nil
}

// UpdateApplication replaces the stored application if its status still matches expected
func (m *Memory) UpdateApplication(_ context.Context, app *types.Application, expected types.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.applications[app.ID]
	if !ok {
		return apperrors.NotFound("application", app.ID)
	}
	if current.Status != expected {
		return &apperrors.InvalidTransitionError{From: string(current.Status), To: string(app.Status)}
	}
	m.applications[app.ID] = app.Clone()
	return nil
}

// ListApplications returns matching applications, newest first
func (m *Memory) ListApplications(_ context.Context, filter ApplicationFilter) ([]*types.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*types.Application
	for _, a := range m.applications {
		if filter.UserID != uuid.Nil && a.UserID != filter.UserID {
			continue
		}
		if filter.JobID != uuid.Nil && a.JobID != filter.JobID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func copyRecs(recs []types.AIRecommendation) []types.AIRecommendation {
	if recs == nil {
		return []types.AIRecommendation{}
	}
	out := make([]types.AIRecommendation, len(recs))
	copy(out, recs)
	return out
}
