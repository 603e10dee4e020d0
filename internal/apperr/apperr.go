// Package apperr defines the error taxonomy shared by the offers and
// applications services, plus the mapping to HTTP status codes.
//
// Taxonomy:
//   - NotFound      — entity missing, or not visible to the caller
//   - Unauthorized  — caller lacks the profile/ownership the operation requires
//   - Conflict      — expected, recoverable outcome (capacity filled,
//     duplicate, terminal-state transition reattempted); never mutates state
//   - Validation    — missing or malformed input
//
// Anything else is treated as Internal and rolls back the enclosing
// transaction.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the simple cases.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("caller does not own this resource")
)

// Conflict reason codes returned to clients alongside the message.
const (
	CodeCapacityFilled      = "CAPACITY_FILLED"
	CodeAlreadyResponded    = "ALREADY_RESPONDED"
	CodeAlreadyApplied      = "ALREADY_APPLIED"
	CodeForbiddenTransition = "FORBIDDEN_TRANSITION"
)

// ConflictError is an expected, recoverable outcome. The operation that
// returned it has left all state unchanged.
type ConflictError struct {
	Code string
	Msg  string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Msg) }

// Conflictf builds a ConflictError with a formatted message.
func Conflictf(code, format string, args ...any) *ConflictError {
	return &ConflictError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf wraps ErrNotFound with context so errors.Is still matches.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// HTTPStatus maps a domain error to the HTTP status code it is reported with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return http.StatusConflict
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ConflictCode returns the reason code when err is a ConflictError, or "".
func ConflictCode(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
