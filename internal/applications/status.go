// Package applications defines the employer-driven review pipeline for
// candidate-submitted applications.
//
// Valid status graph:
//
//	APPLIED ──► REVIEWED ──► INTERVIEW ──► ACCEPTED
//	    │            │             │
//	    └────────────┴─────────────┴──► REJECTED
//
// ACCEPTED and REJECTED are terminal states. The pipeline is monotone:
// a status never moves backwards, and any transition not listed here is
// rejected rather than applied.
package applications

import "fmt"

// Status values mirror the application_status enum in PostgreSQL.
type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusReviewed  Status = "REVIEWED"
	StatusInterview Status = "INTERVIEW"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusApplied:   {StatusReviewed, StatusRejected},
	StatusReviewed:  {StatusInterview, StatusRejected},
	StatusInterview: {StatusAccepted, StatusRejected},
	// ACCEPTED and REJECTED are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusApplied, StatusReviewed, StatusInterview, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no transition may leave s.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
