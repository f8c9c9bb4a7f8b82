package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labplanner/shared/constant"
	"labplanner/shared/failure"
	"labplanner/transport/http/response"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusCreated, map[string]int{"id": 101})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, constant.ContentTypeJSON, recorder.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, map[string]any{"data": map[string]any{"id": float64(101)}}, decode(t, recorder))
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "client failure keeps its message",
			err:      failure.Conflict("booking collides with existing bookings or exceeds equipment capacity"),
			wantCode: http.StatusConflict,
			wantMsg:  "booking collides with existing bookings or exceeds equipment capacity",
		},
		{
			name:     "wrapped failure",
			err:      fmt.Errorf("failed to create: %w", failure.NotFound("booking not found")),
			wantCode: http.StatusNotFound,
			wantMsg:  "booking not found",
		},
		{
			name:     "infrastructure error is masked",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, tt.wantMsg, decode(t, recorder)["error"])
		})
	}
}

func TestDefaultResponses(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithRequestLimitExceeded(recorder)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, constant.ResponseErrorRequestLimitExceeded, decode(t, recorder)["message"])

	recorder = httptest.NewRecorder()
	response.WithPreparingShutdown(recorder)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	recorder = httptest.NewRecorder()
	response.WithUnhealthy(recorder)
	assert.Equal(t, constant.ResponseErrorUnhealthy, decode(t, recorder)["message"])
}
