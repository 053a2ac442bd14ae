// Package swipe records swipes, enforces the daily swipe allowance and
// triggers auto-apply for positive swipes.
package swipe

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Counter tracks how many swipes a user made on a UTC calendar day.
// Increment must be atomic: the returned value is the count after this call.
type Counter interface {
	Increment(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)
	Decrement(ctx context.Context, userID uuid.UUID, day time.Time) error
	Count(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)
}

// DayKey returns the yyyy-mm-dd bucket for t in UTC
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// NextReset returns the start of the UTC day following t
func NextReset(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
