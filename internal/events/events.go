// Package events carries change notifications between the directory, the staleness
// tracker and downstream listeners. Feeds exist in memory and over Redis pub/sub.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the entity a change refers to
type Kind string

const (
	KindCandidate Kind = "candidate"
	KindJob       Kind = "job"
)

// ParseKind validates a kind string
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCandidate, KindJob:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown change kind %q", s)
}

// Op is the kind of change
type Op string

const (
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// ChangeEvent reports that a candidate profile or job listing changed
type ChangeEvent struct {
	Kind    Kind      `json:"kind"`
	ID      uuid.UUID `json:"id"`
	Op      Op        `json:"op"`
	Version int64     `json:"version,omitempty"`
}

// ChangeFeed delivers change events for one kind to a callback.
// Subscribe returns once the subscription is live; delivery stops when ctx ends.
type ChangeFeed interface {
	Subscribe(ctx context.Context, kind Kind, fn func(ChangeEvent)) error
}

// Publisher emits change events
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// ApplicationMoved is emitted whenever an application changes status
type ApplicationMoved struct {
	Type          string    `json:"type"`
	ApplicationID uuid.UUID `json:"applicationId"`
	UserID        uuid.UUID `json:"userId"`
	JobID         uuid.UUID `json:"jobId"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	At            time.Time `json:"at"`
}

// EventApplicationMoved is the channel and type tag for application moves
const EventApplicationMoved = "EVENT_APPLICATION_MOVED"

// Notifier announces application moves. Implementations never fail the caller.
type Notifier interface {
	ApplicationMoved(ctx context.Context, ev ApplicationMoved)
}

// NopNotifier discards notifications
type NopNotifier struct{}

// ApplicationMoved does nothing
func (NopNotifier) ApplicationMoved(context.Context, ApplicationMoved) {}
