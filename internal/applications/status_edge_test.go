package applications_test

// ── Additional edge-case tests ────────────────────────────────────────────
//
// This file extends status_test.go with parsing edge cases and the
// terminal/initial-state guarantees the review pipeline relies on. The
// core state-machine matrix is already covered in status_test.go.

import (
	"testing"

	"talentbridge/offers-service/internal/applications"
)

// ParseStatus must be case-sensitive — lowercase variants must not be valid.
func TestParseStatus_CaseSensitive(t *testing.T) {
	lowercase := []string{"applied", "reviewed", "interview", "accepted", "rejected"}
	for _, s := range lowercase {
		_, err := applications.ParseStatus(s)
		if err == nil {
			t.Errorf("ParseStatus(%q) should reject lowercase value, got nil error", s)
		}
	}
}

// ParseStatus must reject whitespace-padded strings.
func TestParseStatus_WithWhitespace(t *testing.T) {
	padded := []string{" APPLIED", "APPLIED ", " APPLIED "}
	for _, s := range padded {
		_, err := applications.ParseStatus(s)
		if err == nil {
			t.Errorf("ParseStatus(%q) should reject padded value, got nil error", s)
		}
	}
}

// All five constants must round-trip through ParseStatus without error.
func TestParseStatus_AllConstantsRoundTrip(t *testing.T) {
	all := []applications.Status{
		applications.StatusApplied,
		applications.StatusReviewed,
		applications.StatusInterview,
		applications.StatusAccepted,
		applications.StatusRejected,
	}
	for _, s := range all {
		got, err := applications.ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

// IsTerminal gates the review UI and the concurrent-update guard in
// SetStatus. Only ACCEPTED and REJECTED are terminal.
func TestIsTerminal(t *testing.T) {
	terminals := []applications.Status{
		applications.StatusAccepted,
		applications.StatusRejected,
	}
	for _, s := range terminals {
		if !applications.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) must be true", s)
		}
	}
	nonTerminals := []applications.Status{
		applications.StatusApplied,
		applications.StatusReviewed,
		applications.StatusInterview,
	}
	for _, s := range nonTerminals {
		if applications.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) must be false", s)
		}
	}
}

// APPLIED is the mandatory initial state for any new application.
// Verify it is never reachable from any other state.
func TestIsTransitionAllowed_AppliedIsNeverReachable(t *testing.T) {
	sources := []applications.Status{
		applications.StatusReviewed,
		applications.StatusInterview,
		applications.StatusAccepted,
		applications.StatusRejected,
	}
	for _, from := range sources {
		if applications.IsTransitionAllowed(from, applications.StatusApplied) {
			t.Errorf(
				"IsTransitionAllowed(%s → APPLIED) must be false: APPLIED is only an initial state",
				from,
			)
		}
	}
}
