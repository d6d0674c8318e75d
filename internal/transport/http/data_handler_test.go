package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "relperf/internal/errors"
	"relperf/internal/services"
	"relperf/pkg/contracts/domain"
)

type stubDataService struct {
	compareResult *domain.ComparisonResult
	compareErr    error
	panelResult   *domain.Table
	panelErr      error
	reports       []domain.ReportFile
	reportsErr    error

	lastRequest domain.ReportRequest
}

func (s *stubDataService) Compare(ctx context.Context, req domain.ReportRequest) (*domain.ComparisonResult, error) {
	s.lastRequest = req
	return s.compareResult, s.compareErr
}

func (s *stubDataService) Panel(ctx context.Context) (*domain.Table, error) {
	return s.panelResult, s.panelErr
}

func (s *stubDataService) GetReports(ctx context.Context) ([]domain.ReportFile, error) {
	return s.reports, s.reportsErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDataHandler(service *stubDataService) *DataHandler {
	logger := discardLogger()
	return NewDataHandler(service, logger, apperrors.NewErrorHandler(logger, false))
}

func TestCompareHandler(t *testing.T) {
	service := &stubDataService{
		compareResult: &domain.ComparisonResult{Asset: "GSOX"},
	}
	handler := newDataHandler(service)

	body := `{"asset":"GSOX","benchmarks":["SPX"],"return_window":63}`
	req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "GSOX", service.lastRequest.Asset)
	assert.Equal(t, []string{"SPX"}, service.lastRequest.Benchmarks)
	assert.Equal(t, 63, service.lastRequest.ReturnWindow)

	var result domain.ComparisonResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "GSOX", result.Asset)
}

func TestCompareHandlerValidation(t *testing.T) {
	handler := newDataHandler(&stubDataService{})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing asset", body: `{"benchmarks":["SPX"]}`},
		{name: "bad window", body: `{"asset":"GSOX","return_window":1}`},
		{name: "bad date", body: `{"asset":"GSOX","from":"01/02/2024"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.Routes().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
		})
	}
}

func TestCompareHandlerInvalidJSON(t *testing.T) {
	handler := newDataHandler(&stubDataService{})

	req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareHandlerServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unknown symbol", err: services.ErrSymbolNotFound, wantStatus: http.StatusNotFound},
		{name: "empty cache", err: services.ErrNoCachedData, wantStatus: http.StatusUnprocessableEntity},
		{name: "no benchmarks", err: services.ErrNoBenchmarks, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newDataHandler(&stubDataService{compareErr: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(`{"asset":"GSOX"}`))
			rec := httptest.NewRecorder()
			handler.Routes().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestGetPanelHandler(t *testing.T) {
	service := &stubDataService{
		panelResult: &domain.Table{Dates: []string{"2024-01-02"}},
	}
	handler := newDataHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/panel", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var table domain.Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	assert.Equal(t, []string{"2024-01-02"}, table.Dates)
}

func TestGetReportsHandler(t *testing.T) {
	service := &stubDataService{
		reports: []domain.ReportFile{{Name: "combined.csv", SizeBytes: 10}},
	}
	handler := newDataHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "combined.csv")
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestGetReportsHandlerEmpty(t *testing.T) {
	handler := newDataHandler(&stubDataService{reportsErr: services.ErrNoReportsFound})

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
