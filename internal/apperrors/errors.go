// Package apperrors defines the error taxonomy shared by the matching engine, the swipe
// pipeline and the application state machine. Every typed error matches one sentinel
// through errors.Is so callers can branch on the kind without knowing the concrete type.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Sentinel kinds
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidWeights       = errors.New("invalid weights")
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrDuplicateApplication = errors.New("duplicate application")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrTransient            = errors.New("transient failure")
)

// NotFoundError indicates a missing candidate, job, application or score
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError for an entity keyed by a UUID
func NotFound(entity string, id uuid.UUID) error {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

// InvalidWeightsError indicates a weight vector that breaks the sum or sign invariant
type InvalidWeightsError struct {
	Sum     float64
	Message string
}

func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("invalid weights: %s (sum=%.8f)", e.Message, e.Sum)
}

// Is reports whether target is ErrInvalidWeights
func (e *InvalidWeightsError) Is(target error) bool { return target == ErrInvalidWeights }

// RateLimitError indicates the user used up the daily swipe allowance
type RateLimitError struct {
	UserID  uuid.UUID
	Limit   int
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("daily swipe limit of %d reached for user %s (resets at %s)",
		e.Limit, e.UserID, e.ResetAt.UTC().Format(time.RFC3339))
}

// Is reports whether target is ErrRateLimitExceeded
func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimitExceeded }

// DuplicateApplicationError indicates a live application already exists for the pair
type DuplicateApplicationError struct {
	UserID     uuid.UUID
	JobID      uuid.UUID
	ExistingID uuid.UUID
}

func (e *DuplicateApplicationError) Error() string {
	if e.ExistingID == uuid.Nil {
		return fmt.Sprintf("live application already exists for user %s and job %s", e.UserID, e.JobID)
	}
	return fmt.Sprintf("live application %s already exists for user %s and job %s", e.ExistingID, e.UserID, e.JobID)
}

// Is reports whether target is ErrDuplicateApplication
func (e *DuplicateApplicationError) Is(target error) bool { return target == ErrDuplicateApplication }

// InvalidTransitionError indicates an edge the application state machine does not allow
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s is not allowed", e.From, e.To)
}

// Is reports whether target is ErrInvalidTransition
func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// TransientError wraps a collaborator timeout or outage. The caller may retry.
type TransientError struct {
	Op    string
	Cause error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient failure in %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("transient failure in %s", e.Op)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrTransient
func (e *TransientError) Is(target error) bool { return target == ErrTransient }

// Transient wraps err as a TransientError unless it already is one
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransient) {
		return err
	}
	return &TransientError{Op: op, Cause: err}
}

// IsTimeout reports whether err came from an expired or cancelled context
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidWeights):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrDuplicateApplication), errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
