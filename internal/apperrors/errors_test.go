package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTypedErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NotFound("job", uuid.New()), ErrNotFound},
		{"invalid weights", &InvalidWeightsError{Sum: 0.9, Message: "must sum to 1.0"}, ErrInvalidWeights},
		{"rate limit", &RateLimitError{Limit: 50, ResetAt: time.Now()}, ErrRateLimitExceeded},
		{"duplicate", &DuplicateApplicationError{}, ErrDuplicateApplication},
		{"transition", &InvalidTransitionError{From: "accepted", To: "pending"}, ErrInvalidTransition},
		{"transient", Transient("get job", context.DeadlineExceeded), ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.False(t, errors.Is(wrapped, errors.New("other")))
		})
	}
}

func TestTransient_KeepsCauseAndDoesNotDoubleWrap(t *testing.T) {
	err := Transient("load profile", context.DeadlineExceeded)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	again := Transient("outer", err)
	assert.Same(t, err, again)
	assert.Nil(t, Transient("noop", nil))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.True(t, IsTimeout(context.Canceled))
	assert.False(t, IsTimeout(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("application", uuid.New())))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&InvalidWeightsError{}))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(&RateLimitError{}))
	assert.Equal(t, http.StatusConflict, HTTPStatus(&DuplicateApplicationError{}))
	assert.Equal(t, http.StatusConflict, HTTPStatus(&InvalidTransitionError{}))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(Transient("x", errors.New("down"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
