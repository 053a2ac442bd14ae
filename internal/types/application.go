//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is a state of the application lifecycle
type ApplicationStatus string

// Application statuses
const (
	StatusPending       ApplicationStatus = "pending"
	StatusSubmitted     ApplicationStatus = "submitted"
	StatusUnderReview   ApplicationStatus = "under_review"
	StatusShortlisted   ApplicationStatus = "shortlisted"
	StatusInterviewing  ApplicationStatus = "interviewing"
	StatusOfferReceived ApplicationStatus = "offer_received"
	StatusAccepted      ApplicationStatus = "accepted"
	StatusRejected      ApplicationStatus = "rejected"
	StatusWithdrawn     ApplicationStatus = "withdrawn"
)

// IsLive reports whether an application in this status blocks a new one for the same job
func (s ApplicationStatus) IsLive() bool {
	return s != StatusRejected && s != StatusWithdrawn
}

// ApplicationMethod records how an application was created
type ApplicationMethod string

// Application methods
const (
	MethodAutoSwipe  ApplicationMethod = "auto_swipe"
	MethodManual     ApplicationMethod = "manual"
	MethodQuickApply ApplicationMethod = "quick_apply"
	MethodExternal   ApplicationMethod = "external"
)

// Actor identifies who requested a status change
type Actor string

// Actors
const (
	ActorCandidate Actor = "candidate"
	ActorEmployer  Actor = "employer"
	ActorSystem    Actor = "system"
)

// StatusChange is one entry of an application's history log
type StatusChange struct {
	From ApplicationStatus `json:"from"`
	To   ApplicationStatus `json:"to"`
	By   Actor             `json:"by"`
	At   time.Time         `json:"at"`
}

// Application is a candidate's application to a job
type Application struct {
	ID                 uuid.UUID         `json:"id"`
	UserID             uuid.UUID         `json:"user_id"`
	JobID              uuid.UUID         `json:"job_id"`
	SwipeID            *uuid.UUID        `json:"swipe_id,omitempty"`
	Status             ApplicationStatus `json:"application_status"`
	Method             ApplicationMethod `json:"application_method"`
	IsAutoApplied      bool              `json:"is_auto_applied"`
	MatchScore         *float64          `json:"match_score,omitempty"`
	SubmittedAt        *time.Time        `json:"submitted_at,omitempty"`
	LastStatusUpdateAt time.Time         `json:"last_status_update_at"`
	RejectionReason    string            `json:"rejection_reason,omitempty"`
	History            []StatusChange    `json:"history"`
	CreatedAt          time.Time         `json:"created_at"`
}

// Clone returns a deep copy so callers never share history slices with a store
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	c := *a
	c.History = append([]StatusChange(nil), a.History...)
	if a.SwipeID != nil {
		id := *a.SwipeID
		c.SwipeID = &id
	}
	if a.MatchScore != nil {
		v := *a.MatchScore
		c.MatchScore = &v
	}
	if a.SubmittedAt != nil {
		t := *a.SubmittedAt
		c.SubmittedAt = &t
	}
	return &c
}
