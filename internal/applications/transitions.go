// Package applications implements the job application state machine.
//
// Valid status graph:
//
//	pending ──► submitted ──► under_review ──► shortlisted ◄──► interviewing ──► offer_received ──► accepted
//	                │               │               │                │  ▲              │
//	                └───────────────┴───────────────┴────────────────┴──┘ (re-entry)   └──► rejected
//
// The employer may reject from any state after pending. The candidate may withdraw
// from any non-terminal state. accepted, rejected and withdrawn are terminal.
package applications

import (
	"fmt"

	"github.com/jonathan/swipe-matcher/internal/types"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[types.ApplicationStatus][]types.ApplicationStatus{
	types.StatusPending:       {types.StatusSubmitted, types.StatusWithdrawn},
	types.StatusSubmitted:     {types.StatusUnderReview, types.StatusRejected, types.StatusWithdrawn},
	types.StatusUnderReview:   {types.StatusShortlisted, types.StatusRejected, types.StatusWithdrawn},
	types.StatusShortlisted:   {types.StatusInterviewing, types.StatusRejected, types.StatusWithdrawn},
	types.StatusInterviewing:  {types.StatusInterviewing, types.StatusShortlisted, types.StatusOfferReceived, types.StatusRejected, types.StatusWithdrawn},
	types.StatusOfferReceived: {types.StatusAccepted, types.StatusRejected, types.StatusWithdrawn},
	// accepted, rejected and withdrawn are terminal
}

// targetActors lists who may move an application into each status.
// The system actor acts on behalf of either side.
var targetActors = map[types.ApplicationStatus][]types.Actor{
	types.StatusSubmitted:     {types.ActorCandidate, types.ActorSystem},
	types.StatusUnderReview:   {types.ActorEmployer, types.ActorSystem},
	types.StatusShortlisted:   {types.ActorEmployer, types.ActorSystem},
	types.StatusInterviewing:  {types.ActorEmployer, types.ActorSystem},
	types.StatusOfferReceived: {types.ActorEmployer, types.ActorSystem},
	types.StatusAccepted:      {types.ActorCandidate, types.ActorSystem},
	types.StatusRejected:      {types.ActorEmployer, types.ActorSystem},
	types.StatusWithdrawn:     {types.ActorCandidate, types.ActorSystem},
}

// ParseStatus converts a raw string to a status, returning an error for unknown values.
func ParseStatus(s string) (types.ApplicationStatus, error) {
	st := types.ApplicationStatus(s)
	switch st {
	case types.StatusPending, types.StatusSubmitted, types.StatusUnderReview, types.StatusShortlisted,
		types.StatusInterviewing, types.StatusOfferReceived, types.StatusAccepted, types.StatusRejected,
		types.StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// ParseActor converts a raw string to an actor
func ParseActor(s string) (types.Actor, error) {
	a := types.Actor(s)
	switch a {
	case types.ActorCandidate, types.ActorEmployer, types.ActorSystem:
		return a, nil
	}
	return "", fmt.Errorf("unknown actor %q", s)
}

// ParseMethod converts a raw string to an application method
func ParseMethod(s string) (types.ApplicationMethod, error) {
	m := types.ApplicationMethod(s)
	switch m {
	case types.MethodAutoSwipe, types.MethodManual, types.MethodQuickApply, types.MethodExternal:
		return m, nil
	}
	return "", fmt.Errorf("unknown application method %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the state machine.
func IsTransitionAllowed(from, to types.ApplicationStatus) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// CanPerform reports whether actor may move an application into target.
func CanPerform(actor types.Actor, target types.ApplicationStatus) bool {
	for _, a := range targetActors[target] {
		if a == actor {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s types.ApplicationStatus) bool {
	_, ok := validTransitions[s]
	return !ok
}
