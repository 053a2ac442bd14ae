package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/types"
)

// SaveSwipe appends a swipe
func (db *DB) SaveSwipe(ctx context.Context, swipe *types.Swipe) error {
	if swipe.ID == uuid.Nil {
		swipe.ID = uuid.New()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO swipes (id, user_id, job_id, swipe_direction, swipe_timestamp,
		     session_id, device_type, time_spent_viewing, auto_applied, match_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		swipe.ID, swipe.UserID, swipe.JobID, string(swipe.Direction), swipe.SwipedAt,
		nullIfEmpty(swipe.Context.SessionID), nullIfEmpty(swipe.Context.DeviceType),
		swipe.Context.TimeSpentViewing, swipe.AutoApplied, swipe.MatchScore,
	)
	if err != nil {
		return fmt.Errorf("failed to save swipe: %w", err)
	}
	return nil
}

// ListSwipesByUser returns the user's swipes oldest first
func (db *DB) ListSwipesByUser(ctx context.Context, userID uuid.UUID) ([]*types.Swipe, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_id, swipe_direction, swipe_timestamp,
		        COALESCE(session_id, ''), COALESCE(device_type, ''), time_spent_viewing, auto_applied, match_score
		 FROM swipes WHERE user_id = $1 ORDER BY swipe_timestamp, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list swipes: %w", err)
	}
	defer rows.Close()

	var out []*types.Swipe
	for rows.Next() {
		var s types.Swipe
		var direction string
		if err := rows.Scan(&s.ID, &s.UserID, &s.JobID, &direction, &s.SwipedAt,
			&s.Context.SessionID, &s.Context.DeviceType, &s.Context.TimeSpentViewing, &s.AutoApplied, &s.MatchScore); err != nil {
			return nil, fmt.Errorf("failed to scan swipe: %w", err)
		}
		s.Direction = types.SwipeDirection(direction)
		out = append(out, &s)
	}
	return out, rows.Err()
}

// SwipedJobIDs returns the set of jobs the user has swiped on
func (db *DB) SwipedJobIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := db.pool.Query(ctx, `SELECT DISTINCT job_id FROM swipes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swiped jobs: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan swiped job: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// nullIfEmpty returns nil for empty strings so optional text columns stay NULL
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
