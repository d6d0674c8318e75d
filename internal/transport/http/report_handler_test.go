package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "relperf/internal/errors"
	"relperf/internal/services"
	"relperf/pkg/contracts/domain"
)

type stubRunner struct {
	result *domain.ReportResult
	err    error
}

func (s *stubRunner) Run(ctx context.Context) (*domain.ReportResult, error) {
	return s.result, s.err
}

func newReportHandler(runner *stubRunner) *ReportHandler {
	logger := discardLogger()
	return NewReportHandler(runner, logger, apperrors.NewErrorHandler(logger, false))
}

func TestRefreshHandler(t *testing.T) {
	runner := &stubRunner{result: &domain.ReportResult{
		Assets: []string{"GSOX"},
		Rows:   100,
	}}
	handler := newReportHandler(runner)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result domain.ReportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 100, result.Rows)
}

func TestRefreshHandlerRunInProgress(t *testing.T) {
	handler := newReportHandler(&stubRunner{err: services.ErrRunInProgress})

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	assert.Contains(t, rec.Body.String(), "run-in-progress")
}

func TestRefreshHandlerFailure(t *testing.T) {
	handler := newReportHandler(&stubRunner{err: errors.New("provider exploded")})

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
