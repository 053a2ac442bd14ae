package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/types"
)

// MemoryDirectory is an in-process Directory fed by Put calls
type MemoryDirectory struct {
	mu          sync.RWMutex
	candidates  map[uuid.UUID]*types.CandidateProfile
	jobs        map[uuid.UUID]*types.JobListing
	preferences map[uuid.UUID]*types.UserPreferences
}

var _ Directory = (*MemoryDirectory)(nil)

// NewMemoryDirectory creates an empty directory
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		candidates:  make(map[uuid.UUID]*types.CandidateProfile),
		jobs:        make(map[uuid.UUID]*types.JobListing),
		preferences: make(map[uuid.UUID]*types.UserPreferences),
	}
}

// PutCandidate stores a candidate snapshot
func (d *MemoryDirectory) PutCandidate(p *types.CandidateProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *p
	d.candidates[p.UserID] = &cp
}

// PutJob stores a job snapshot
func (d *MemoryDirectory) PutJob(j *types.JobListing) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *j
	d.jobs[j.JobID] = &cp
}

// PutPreferences stores a user's preferences
func (d *MemoryDirectory) PutPreferences(p *types.UserPreferences) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *p
	d.preferences[p.UserID] = &cp
}

// DeleteCandidate removes a candidate snapshot
func (d *MemoryDirectory) DeleteCandidate(userID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.candidates, userID)
}

// DeleteJob removes a job snapshot
func (d *MemoryDirectory) DeleteJob(jobID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.jobs, jobID)
}

// GetCandidateProfile returns the candidate snapshot
func (d *MemoryDirectory) GetCandidateProfile(_ context.Context, userID uuid.UUID) (*types.CandidateProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.candidates[userID]
	if !ok {
		return nil, apperrors.NotFound("candidate", userID)
	}
	cp := *p
	return &cp, nil
}

// GetJobListing returns the job snapshot
func (d *MemoryDirectory) GetJobListing(_ context.Context, jobID uuid.UUID) (*types.JobListing, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	j, ok := d.jobs[jobID]
	if !ok {
		return nil, apperrors.NotFound("job", jobID)
	}
	cp := *j
	return &cp, nil
}

// ListActiveJobs returns active jobs ordered by id
func (d *MemoryDirectory) ListActiveJobs(_ context.Context) ([]*types.JobListing, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*types.JobListing, 0, len(d.jobs))
	for _, j := range d.jobs {
		if j.IsActive() {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].JobID.String() < out[k].JobID.String() })
	return out, nil
}

// GetUserPreferences returns the user's preferences
func (d *MemoryDirectory) GetUserPreferences(_ context.Context, userID uuid.UUID) (*types.UserPreferences, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.preferences[userID]
	if !ok {
		return nil, apperrors.NotFound("preferences", userID)
	}
	cp := *p
	return &cp, nil
}
