package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/apperrors"
	"github.com/jonathan/swipe-matcher/internal/types"
)

// UpsertCandidate stores a profile snapshot. The stored version is bumped on every
// write and returned; the caller's Version field is ignored.
func (db *DB) UpsertCandidate(ctx context.Context, p *types.CandidateProfile) (int64, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal candidate profile: %w", err)
	}
	var version int64
	err = db.pool.QueryRow(ctx,
		`INSERT INTO candidate_snapshots (user_id, profile)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET
		     profile = $2,
		     version = candidate_snapshots.version + 1,
		     updated_at = NOW()
		 RETURNING version`,
		p.UserID, doc,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert candidate profile: %w", err)
	}
	p.Version = version
	return version, nil
}

// UpsertJob stores a listing snapshot and returns its new version
func (db *DB) UpsertJob(ctx context.Context, j *types.JobListing) (int64, error) {
	doc, err := json.Marshal(j)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal job listing: %w", err)
	}
	status := j.Status
	if status == "" {
		status = types.JobStatusActive
	}
	var version int64
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_snapshots (job_id, job_status, published_at, listing)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id) DO UPDATE SET
		     job_status = $2,
		     published_at = $3,
		     listing = $4,
		     version = job_snapshots.version + 1,
		     updated_at = NOW()
		 RETURNING version`,
		j.JobID, status, j.PublishedAt, doc,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert job listing: %w", err)
	}
	j.Version = version
	return version, nil
}

// UpsertPreferences stores a user's swipe settings
func (db *DB) UpsertPreferences(ctx context.Context, p *types.UserPreferences) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, auto_apply, daily_swipe_limit, search_radius)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
		     auto_apply = $2, daily_swipe_limit = $3, search_radius = $4, updated_at = NOW()`,
		p.UserID, p.AutoApply, p.DailySwipeLimit, p.SearchRadius,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}

// DeleteCandidate removes a profile snapshot
func (db *DB) DeleteCandidate(ctx context.Context, userID uuid.UUID) (int, error) {
	return db.execCount(ctx, "delete candidate", `DELETE FROM candidate_snapshots WHERE user_id = $1`, userID)
}

// DeleteJob removes a listing snapshot
func (db *DB) DeleteJob(ctx context.Context, jobID uuid.UUID) (int, error) {
	return db.execCount(ctx, "delete job", `DELETE FROM job_snapshots WHERE job_id = $1`, jobID)
}

// GetCandidateProfile returns the current profile snapshot
func (db *DB) GetCandidateProfile(ctx context.Context, userID uuid.UUID) (*types.CandidateProfile, error) {
	var doc []byte
	var version int64
	err := db.pool.QueryRow(ctx,
		`SELECT profile, version FROM candidate_snapshots WHERE user_id = $1`, userID,
	).Scan(&doc, &version)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("candidate", userID)
		}
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}
	var p types.CandidateProfile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate profile: %w", err)
	}
	p.UserID = userID
	p.Version = version
	return &p, nil
}

// GetJobListing returns the current listing snapshot
func (db *DB) GetJobListing(ctx context.Context, jobID uuid.UUID) (*types.JobListing, error) {
	var doc []byte
	var version int64
	var status string
	err := db.pool.QueryRow(ctx,
		`SELECT listing, version, job_status FROM job_snapshots WHERE job_id = $1`, jobID,
	).Scan(&doc, &version, &status)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("job", jobID)
		}
		return nil, fmt.Errorf("failed to get job listing: %w", err)
	}
	return decodeJob(jobID, doc, version, status)
}

// ListActiveJobs returns every active listing ordered by id
func (db *DB) ListActiveJobs(ctx context.Context) ([]*types.JobListing, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT job_id, listing, version, job_status FROM job_snapshots
		 WHERE job_status = 'active' ORDER BY job_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	defer rows.Close()

	var out []*types.JobListing
	for rows.Next() {
		var id uuid.UUID
		var doc []byte
		var version int64
		var status string
		if err := rows.Scan(&id, &doc, &version, &status); err != nil {
			return nil, fmt.Errorf("failed to scan job listing: %w", err)
		}
		j, err := decodeJob(id, doc, version, status)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// GetUserPreferences returns the user's stored preferences
func (db *DB) GetUserPreferences(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error) {
	p := types.UserPreferences{UserID: userID}
	err := db.pool.QueryRow(ctx,
		`SELECT auto_apply, daily_swipe_limit, search_radius FROM user_preferences WHERE user_id = $1`, userID,
	).Scan(&p.AutoApply, &p.DailySwipeLimit, &p.SearchRadius)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("preferences", userID)
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &p, nil
}

func decodeJob(id uuid.UUID, doc []byte, version int64, status string) (*types.JobListing, error) {
	var j types.JobListing
	if err := json.Unmarshal(doc, &j); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job listing %s: %w", id, err)
	}
	j.JobID = id
	j.Version = version
	j.Status = status
	return &j, nil
}
