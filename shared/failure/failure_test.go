package failure_test

import (
	"errors"
	"fmt"
	"labplanner/shared/failure"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"bad request from error", failure.BadRequest(errors.New("end_date before start_date")), http.StatusBadRequest, "end_date before start_date"},
		{"bad request from string", failure.BadRequestFromString("invalid date"), http.StatusBadRequest, "invalid date"},
		{"unauthorized", failure.Unauthorized("missing token"), http.StatusUnauthorized, "missing token"},
		{"internal", failure.InternalError(errors.New("db down")), http.StatusInternalServerError, "db down"},
		{"not found", failure.NotFound("booking not found"), http.StatusNotFound, "booking not found"},
		{"conflict", failure.Conflict("capacity exceeded"), http.StatusConflict, "capacity exceeded"},
		{"forbidden", failure.Forbidden("planner only"), http.StatusForbidden, "planner only"},
		{"unavailable", failure.Unavailable("shutting down"), http.StatusServiceUnavailable, "shutting down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestNilErrorsStayNil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("failed to create booking: %w", failure.Conflict("capacity exceeded"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("plain")))
	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ForbiddenError))
}
