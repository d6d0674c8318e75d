// Package api contains HTTP API contract definitions.
// Version v1 represents the current stable API version.
package api

// DateRangeRequest represents a date range in requests
type DateRangeRequest struct {
	From string `json:"from" query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// CompareRequest asks for one asset's comparison tables against a benchmark
// set. Window sizes of zero fall back to the configured defaults.
type CompareRequest struct {
	Asset        string   `json:"asset" validate:"required,min=1"`
	Benchmarks   []string `json:"benchmarks" validate:"omitempty,min=1,dive,min=1"`
	ReturnWindow int      `json:"return_window,omitempty" validate:"omitempty,min=2"`
	RiskWindow   int      `json:"risk_window,omitempty" validate:"omitempty,min=2"`
	DateRangeRequest
}

// RefreshRequest triggers a full fetch-and-report run
type RefreshRequest struct {
	Force bool `json:"force" query:"force"`
}
