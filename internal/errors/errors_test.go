package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewNetworkError("provider request failed", cause)

	assert.Equal(t, "[NETWORK] provider request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewValidationError("window must be positive")
	assert.Equal(t, "[VALIDATION] window must be positive", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestIsType(t *testing.T) {
	err := NewNoDataError(stderrors.New("all symbols empty"))
	wrapped := fmt.Errorf("run report: %w", err)

	assert.True(t, IsType(wrapped, ErrTypeNoData))
	assert.False(t, IsType(wrapped, ErrTypeNetwork))
	assert.False(t, IsType(stderrors.New("plain"), ErrTypeNoData))
}

func TestWithContext(t *testing.T) {
	err := NewParsingError("bad field data", nil).
		WithContext("security", "GSOX Index").
		WithContext("line", 12)

	assert.Equal(t, "GSOX Index", err.Context["security"])
	assert.Equal(t, 12, err.Context["line"])
}

func TestErrorToProblemMapping(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "no data",
			err:        NewNoDataError(nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeNoData,
		},
		{
			name:       "validation",
			err:        NewValidationError("bad window"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "network",
			err:        NewNetworkError("provider down", nil),
			wantStatus: http.StatusBadGateway,
			wantType:   TypeProviderDown,
		},
		{
			name:       "not found",
			err:        NewNotFoundError("symbol"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown",
			err:        stderrors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := handler.ErrorToProblem(tt.err, req)
			require.NotNil(t, problem)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
		})
	}
}

func TestHandleErrorRendersProblemJSON(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	req := httptest.NewRequest(http.MethodPost, "/api/compare", nil)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, req, NewValidationError("bad window"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), TypeValidation)
}

func TestNotFoundRendersProblemJSON(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	handler.NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestProblemDetailsJSONIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(422, TypeNoData, "No Data Available", "all symbols empty", "/api/compare").
		WithExtension("trace_id", "abc-123")

	data, err := problem.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"trace_id":"abc-123"`)
	assert.Contains(t, string(data), `"status":422`)
}
