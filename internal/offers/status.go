// Package offers implements the job-offer allocation engine, the offer
// lifecycle state machine, and the capacity ledger that bounds both.
//
// Valid status graph:
//
//	SENT ──► ACCEPTED
//	  │
//	  ├────► REJECTED
//	  │
//	  └────► EXPIRED
//
// ACCEPTED, REJECTED and EXPIRED are terminal states. Only ACCEPTED offers
// consume job capacity.
package offers

import "fmt"

// Status values mirror the offer_status enum in PostgreSQL.
type Status string

const (
	StatusSent     Status = "SENT"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
	StatusExpired  Status = "EXPIRED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusSent: {StatusAccepted, StatusRejected, StatusExpired},
	// ACCEPTED, REJECTED and EXPIRED are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusSent, StatusAccepted, StatusRejected, StatusExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown offer status %q", s)
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

// ConsumesCapacity returns true when status counts against job openings.
func ConsumesCapacity(s Status) bool { return s == StatusAccepted }

// Decision is a candidate's answer to a SENT offer.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ParseDecision converts a raw request value to a Decision.
func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	switch d {
	case DecisionAccept, DecisionReject:
		return d, nil
	}
	return "", fmt.Errorf("decision must be %q or %q, got %q", DecisionAccept, DecisionReject, s)
}
