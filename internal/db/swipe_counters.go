package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SwipeCounter keeps daily swipe counts in swipe_counters. Each call is a single
// statement, so concurrent increments from any number of processes serialize on the row.
type SwipeCounter struct {
	db *DB
}

// SwipeCounter returns a counter backed by this database
func (db *DB) SwipeCounter() *SwipeCounter {
	return &SwipeCounter{db: db}
}

// utcDay truncates t to its UTC calendar day
func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Increment adds one swipe for the day and returns the new total
func (c *SwipeCounter) Increment(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	var n int
	err := c.db.pool.QueryRow(ctx,
		`INSERT INTO swipe_counters (user_id, day, count) VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, day) DO UPDATE SET count = swipe_counters.count + 1
		 RETURNING count`,
		userID, utcDay(day),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to increment swipe counter: %w", err)
	}
	return n, nil
}

// Decrement removes one swipe for the day, never going below zero
func (c *SwipeCounter) Decrement(ctx context.Context, userID uuid.UUID, day time.Time) error {
	_, err := c.db.pool.Exec(ctx,
		`UPDATE swipe_counters SET count = GREATEST(count - 1, 0) WHERE user_id = $1 AND day = $2`,
		userID, utcDay(day),
	)
	if err != nil {
		return fmt.Errorf("failed to decrement swipe counter: %w", err)
	}
	return nil
}

// Count returns the swipes recorded for the day
func (c *SwipeCounter) Count(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	var n int
	err := c.db.pool.QueryRow(ctx,
		`SELECT count FROM swipe_counters WHERE user_id = $1 AND day = $2`,
		userID, utcDay(day),
	).Scan(&n)
	if isNoRows(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read swipe counter: %w", err)
	}
	return n, nil
}

// Prune deletes counters for days before the given day
func (c *SwipeCounter) Prune(ctx context.Context, before time.Time) (int, error) {
	return c.db.execCount(ctx, "prune swipe counters", `DELETE FROM swipe_counters WHERE day < $1`, utcDay(before))
}
