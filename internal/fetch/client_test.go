package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relperf/internal/config"
	apperrors "relperf/internal/errors"
)

func testProviderConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		BaseURL:        baseURL,
		Timeout:        5 * time.Second,
		RequestsPerSec: 100,
		Burst:          10,
		MaxConcurrent:  4,
		UseTotalReturn: true,
	}
}

func historyJSON(security string, rows []HistoryRow) []byte {
	b, _ := json.Marshal(HistoryResponse{Security: security, FieldData: rows})
	return b
}

func TestFetchHistories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		security := r.URL.Query().Get("security")
		require.Equal(t, "DAILY", r.URL.Query().Get("periodicity"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(historyJSON(security, []HistoryRow{
			{Date: "2024-01-02", Values: map[string]float64{FieldTotalReturn: 100}},
			{Date: "2024-01-03", Values: map[string]float64{FieldTotalReturn: 101.5}},
		}))
	}))
	defer server.Close()

	client := NewClient(testProviderConfig(server.URL), nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	out, err := client.FetchHistories(context.Background(), []string{"GSOX Index", "SPX Index"}, start, end)
	require.NoError(t, err)
	require.Len(t, out, 2)

	for _, security := range []string{"GSOX Index", "SPX Index"} {
		series := out[security]
		require.Len(t, series, 2, "security %s", security)
		assert.Equal(t, 100.0, series[0].Value)
		assert.Equal(t, 101.5, series[1].Value)
		assert.True(t, series[0].Date.Before(series[1].Date))
	}
}

func TestFetchHistoriesPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("security") == "BAD Index" {
			http.Error(w, "unknown security", http.StatusNotFound)
			return
		}
		w.Write(historyJSON(r.URL.Query().Get("security"), []HistoryRow{
			{Date: "2024-01-02", Values: map[string]float64{FieldTotalReturn: 50}},
		}))
	}))
	defer server.Close()

	client := NewClient(testProviderConfig(server.URL), nil)
	out, err := client.FetchHistories(context.Background(), []string{"GSOX Index", "BAD Index"},
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err, "one failing security must not abort the batch")
	require.Len(t, out, 2)
	assert.Len(t, out["GSOX Index"], 1)
	assert.Nil(t, out["BAD Index"])
}

func TestFetchHistoriesNoSecurities(t *testing.T) {
	client := NewClient(testProviderConfig("http://localhost:0"), nil)
	_, err := client.FetchHistories(context.Background(), nil, time.Now(), time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestFetchHistoriesContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(testProviderConfig(server.URL), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchHistories(ctx, []string{"GSOX Index"},
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
}

func TestFetchOneTotalReturnFallback(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fields := r.URL.Query().Get("fields")
		if fields == FieldPriceLast {
			// Second request: price-last only.
			w.Write(historyJSON("GSOX Index", []HistoryRow{
				{Date: "2024-01-02", Values: map[string]float64{FieldPriceLast: 42}},
			}))
			return
		}
		// First request: rows exist but carry no total-return values.
		w.Write(historyJSON("GSOX Index", []HistoryRow{
			{Date: "2024-01-02", Values: map[string]float64{}},
		}))
	}))
	defer server.Close()

	client := NewClient(testProviderConfig(server.URL), nil)
	series, err := client.fetchOne(context.Background(), "GSOX Index",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 42.0, series[0].Value)
	assert.Equal(t, int32(2), requests.Load())
}

func TestSelectFieldSeriesPreferenceOrder(t *testing.T) {
	resp := &HistoryResponse{
		Security: "GSOX Index",
		FieldData: []HistoryRow{
			{Date: "2024-01-03", Values: map[string]float64{FieldTotalReturn: 201, FieldPriceLast: 101}},
			{Date: "2024-01-02", Values: map[string]float64{FieldTotalReturn: 200, FieldPriceLast: 100}},
			{Date: "not-a-date", Values: map[string]float64{FieldTotalReturn: 999}},
		},
	}

	series := selectFieldSeries(resp, FieldPreference(true))
	require.Len(t, series, 2, "unparseable dates are dropped")
	assert.Equal(t, 200.0, series[0].Value, "rows are sorted by date")
	assert.Equal(t, 201.0, series[1].Value)

	series = selectFieldSeries(resp, FieldPreference(false))
	require.Len(t, series, 2)
	assert.Equal(t, 100.0, series[0].Value)
}

func TestHistoryBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream session expired", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testProviderConfig(server.URL), nil)
	_, err := client.History(context.Background(), HistoryRequest{
		Security: "GSOX Index",
		Fields:   []string{FieldPriceLast},
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNetwork))
}
