//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// Defaults applied when a user has no stored preferences
const (
	DefaultDailySwipeLimit = 50
	DefaultSearchRadius    = 50.0
)

// UserPreferences holds the per-user settings the swipe pipeline and location scorer consult
type UserPreferences struct {
	UserID          uuid.UUID `json:"user_id"`
	AutoApply       bool      `json:"auto_apply"`
	DailySwipeLimit int       `json:"daily_swipe_limit"`
	SearchRadius    float64   `json:"search_radius"`
}

// DefaultPreferences returns the preferences a user gets before saving any
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:          userID,
		DailySwipeLimit: DefaultDailySwipeLimit,
		SearchRadius:    DefaultSearchRadius,
	}
}
