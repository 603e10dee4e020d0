package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"talentbridge/offers-service/internal/apperr"
)

func TestHTTPStatus_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.ErrNotFound, http.StatusNotFound},
		{apperr.NotFoundf("job %s", "j1"), http.StatusNotFound},
		{apperr.ErrUnauthorized, http.StatusForbidden},
		{apperr.Conflictf(apperr.CodeCapacityFilled, "full"), http.StatusConflict},
		{apperr.Validationf("bad input"), http.StatusBadRequest},
		{errors.New("pool broke"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := apperr.HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

// NotFoundf wraps ErrNotFound so callers can still match with errors.Is
// after adding context.
func TestNotFoundf_ErrorsIs(t *testing.T) {
	err := apperr.NotFoundf("offer %s", "o1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Error("NotFoundf result should match ErrNotFound via errors.Is")
	}
	wrapped := fmt.Errorf("respond: %w", err)
	if !errors.Is(wrapped, apperr.ErrNotFound) {
		t.Error("wrapped NotFoundf result should still match ErrNotFound")
	}
}

func TestConflictCode(t *testing.T) {
	err := apperr.Conflictf(apperr.CodeAlreadyApplied, "dup")
	if got := apperr.ConflictCode(err); got != apperr.CodeAlreadyApplied {
		t.Errorf("ConflictCode = %q, want %q", got, apperr.CodeAlreadyApplied)
	}
	wrapped := fmt.Errorf("apply: %w", err)
	if got := apperr.ConflictCode(wrapped); got != apperr.CodeAlreadyApplied {
		t.Errorf("ConflictCode through wrap = %q, want %q", got, apperr.CodeAlreadyApplied)
	}
	if got := apperr.ConflictCode(errors.New("other")); got != "" {
		t.Errorf("ConflictCode(non-conflict) = %q, want empty", got)
	}
}

// A conflict error surfaces both the reason code and the message.
func TestConflictError_Message(t *testing.T) {
	err := apperr.Conflictf(apperr.CodeCapacityFilled, "job %s has no remaining openings", "j1")
	want := "CAPACITY_FILLED: job j1 has no remaining openings"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
