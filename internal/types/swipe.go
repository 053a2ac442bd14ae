//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SwipeDirection is the gesture a user made on a job card
type SwipeDirection string

// Swipe directions
const (
	SwipeLeft  SwipeDirection = "left"  // skip
	SwipeRight SwipeDirection = "right" // interested
	SwipeSuper SwipeDirection = "super" // very interested
)

// ParseSwipeDirection converts a raw string to a SwipeDirection
func ParseSwipeDirection(s string) (SwipeDirection, error) {
	d := SwipeDirection(s)
	switch d {
	case SwipeLeft, SwipeRight, SwipeSuper:
		return d, nil
	}
	return "", fmt.Errorf("unknown swipe direction %q", s)
}

// IsPositive reports whether the swipe expresses interest
func (d SwipeDirection) IsPositive() bool {
	return d == SwipeRight || d == SwipeSuper
}

// Device types recorded with a swipe
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// SwipeContext carries optional analytics captured by the client
type SwipeContext struct {
	SessionID        string `json:"session_id,omitempty"`
	DeviceType       string `json:"device_type,omitempty" validate:"omitempty,oneof=mobile tablet desktop"`
	TimeSpentViewing int    `json:"time_spent_viewing,omitempty" validate:"gte=0"` // seconds
}

// Swipe is an append-only record of one swipe. A user may swipe the same job more than once.
type Swipe struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	JobID       uuid.UUID      `json:"job_id"`
	Direction   SwipeDirection `json:"swipe_direction"`
	SwipedAt    time.Time      `json:"swipe_timestamp"`
	Context     SwipeContext   `json:"swipe_context"`
	AutoApplied bool           `json:"auto_applied"`
	MatchScore  *float64       `json:"match_score,omitempty"`
}

// SwipeResult is returned to the caller after a swipe has been recorded
type SwipeResult struct {
	Swipe          *Swipe       `json:"swipe"`
	Application    *Application `json:"application,omitempty"`
	SwipesToday    int          `json:"swipes_today"`
	RemainingToday int          `json:"remaining_today"`
}
