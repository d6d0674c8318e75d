// Package domain holds the shared data contracts passed between the report
// service, the HTTP transport and external consumers. Missing values travel
// as JSON nulls, so numeric slices use pointers.
package domain

import (
	"time"
)

// ReportRequest describes one report run: which asset to compare against
// which benchmarks, over which date range and windows. Zero-valued fields
// fall back to configuration defaults.
type ReportRequest struct {
	Asset        string   `json:"asset" validate:"required,min=1"`
	Benchmarks   []string `json:"benchmarks" validate:"omitempty,min=1,dive,min=1"`
	DateFrom     string   `json:"date_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTo       string   `json:"date_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReturnWindow int      `json:"return_window,omitempty" validate:"omitempty,min=2"`
	RiskWindow   int      `json:"risk_window,omitempty" validate:"omitempty,min=2"`
}

// SkippedSymbol records a symbol excluded from a run and why
type SkippedSymbol struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// ReportResult summarizes one completed report run
type ReportResult struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Assets      []string        `json:"assets"`
	Benchmarks  []string        `json:"benchmarks"`
	Rows        int             `json:"rows"`
	Skipped     []SkippedSymbol `json:"skipped,omitempty"`
	Files       []ReportFile    `json:"files"`
	Duration    time.Duration   `json:"duration_ns"`
}

// TableColumn is one named value column of a serialized table. Missing
// values are nulls.
type TableColumn struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// Table is a dated grid of values, the wire form of an analysis table
type Table struct {
	Dates   []string      `json:"dates"`
	Columns []TableColumn `json:"columns"`
}

// ComparisonResult carries one asset's comparison tables over the wire
type ComparisonResult struct {
	Asset       string `json:"asset"`
	Excess      Table  `json:"excess_returns"`
	Correlation Table  `json:"correlation"`
	Beta        Table  `json:"beta"`
}

// ReportFile describes one generated output file
type ReportFile struct {
	Name      string    `json:"name"`
	Path      string    `json:"path,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified"`
}
