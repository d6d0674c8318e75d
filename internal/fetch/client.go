package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"relperf/internal/analytics"
	"relperf/internal/config"
	apperrors "relperf/internal/errors"
)

// Client talks to the market-data provider's history endpoint.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	limiter        *rate.Limiter
	maxConcurrent  int
	useTotalReturn bool
	logger         *slog.Logger
}

// NewClient creates a provider client from configuration.
func NewClient(cfg config.ProviderConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		maxConcurrent:  maxConcurrent,
		useTotalReturn: cfg.UseTotalReturn,
		logger:         logger.With(slog.String("component", "fetch_client")),
	}
}

// HistoryRequest describes one daily-history request.
type HistoryRequest struct {
	Security string
	Fields   []string
	Start    time.Time
	End      time.Time
}

// HistoryResponse mirrors the provider's wire format. Field values are keyed
// by mnemonic inside each dated row; absent fields mean no value that day.
type HistoryResponse struct {
	Security  string       `json:"security"`
	FieldData []HistoryRow `json:"fieldData"`
}

type HistoryRow struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// FetchHistories fetches daily history for every security concurrently,
// bounded by the configured concurrency and rate limits. The result maps each
// requested security to its series; securities that failed or returned no
// data map to an empty series so the caller can surface them as warnings.
func (c *Client) FetchHistories(ctx context.Context, securities []string, start, end time.Time) (map[string]analytics.Series, error) {
	if len(securities) == 0 {
		return nil, apperrors.NewValidationError("no securities requested")
	}

	c.logger.InfoContext(ctx, "fetching security histories",
		slog.Int("securities", len(securities)),
		slog.String("start", start.Format("2006-01-02")),
		slog.String("end", end.Format("2006-01-02")),
		slog.Bool("use_total_return", c.useTotalReturn),
	)

	var mu sync.Mutex
	out := make(map[string]analytics.Series, len(securities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	for _, security := range securities {
		security := security
		g.Go(func() error {
			series, err := c.fetchOne(gctx, security, start, end)
			if err != nil {
				// A single failing security does not abort the batch, except
				// for context cancellation which has to propagate.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.logger.WarnContext(gctx, "security fetch failed, skipping",
					slog.String("security", security),
					slog.String("error", err.Error()),
				)
				series = nil
			}
			mu.Lock()
			out[security] = series
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperrors.NewNetworkError("history fetch cancelled", err)
	}
	return out, nil
}

// fetchOne requests one security, applying the total-return preference with a
// per-security price-last fallback when the preferred field comes back empty.
func (c *Client) fetchOne(ctx context.Context, security string, start, end time.Time) (analytics.Series, error) {
	fields := FieldPreference(c.useTotalReturn)

	resp, err := c.History(ctx, HistoryRequest{
		Security: security,
		Fields:   fields,
		Start:    start,
		End:      end,
	})
	if err != nil {
		return nil, err
	}

	series := selectFieldSeries(resp, fields)
	if len(series) == 0 && c.useTotalReturn {
		c.logger.InfoContext(ctx, "no total-return data, falling back to price-last",
			slog.String("security", security))
		resp, err = c.History(ctx, HistoryRequest{
			Security: security,
			Fields:   []string{FieldPriceLast},
			Start:    start,
			End:      end,
		})
		if err != nil {
			return nil, err
		}
		series = selectFieldSeries(resp, []string{FieldPriceLast})
	}
	return series, nil
}

// History issues one history request and decodes the response.
func (c *Client) History(ctx context.Context, req HistoryRequest) (*HistoryResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("security", req.Security)
	q.Set("fields", strings.Join(req.Fields, ","))
	q.Set("start", req.Start.Format("20060102"))
	q.Set("end", req.End.Format("20060102"))
	q.Set("periodicity", "DAILY")

	endpoint := fmt.Sprintf("%s/refdata/history?%s", c.baseURL, q.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("request history for %s", req.Security), err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("provider returned %d for %s", httpResp.StatusCode, req.Security), nil).
			WithContext("body", string(body))
	}

	var resp HistoryResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("decode history for %s", req.Security), err)
	}
	return &resp, nil
}

// selectFieldSeries extracts one dated series from a history response using
// the first field in preference order that carries any data.
func selectFieldSeries(resp *HistoryResponse, preference []string) analytics.Series {
	for _, field := range preference {
		points := make([]analytics.Point, 0, len(resp.FieldData))
		for _, row := range resp.FieldData {
			value, ok := row.Values[field]
			if !ok {
				continue
			}
			date, err := time.Parse("2006-01-02", row.Date)
			if err != nil {
				continue
			}
			points = append(points, analytics.Point{Date: date, Value: value})
		}
		if len(points) > 0 {
			return analytics.NewSeries(points)
		}
	}
	return nil
}
