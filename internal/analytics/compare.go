package analytics

import (
	"fmt"
	"time"
)

// Default rolling windows in trading days (roughly 21 per month).
const (
	// DefaultReturnWindow covers about three months of trading.
	DefaultReturnWindow = 63
	// DefaultRiskWindow covers about six months of trading.
	DefaultRiskWindow = 126
)

// CompareOptions carries the rolling windows for a comparison. Windows are
// explicit per-call inputs so callers and tests can use arbitrary sizes.
type CompareOptions struct {
	// ReturnWindow is the trailing window for compounded period returns.
	ReturnWindow int
	// RiskWindow is the trailing window for correlation and beta.
	RiskWindow int
}

// DefaultCompareOptions returns the standard 63/126 trading-day windows.
func DefaultCompareOptions() CompareOptions {
	return CompareOptions{
		ReturnWindow: DefaultReturnWindow,
		RiskWindow:   DefaultRiskWindow,
	}
}

func (o CompareOptions) validate() error {
	if o.ReturnWindow < 1 {
		return fmt.Errorf("return window must be positive, got %d", o.ReturnWindow)
	}
	if o.RiskWindow < 1 {
		return fmt.Errorf("risk window must be positive, got %d", o.RiskWindow)
	}
	return nil
}

// Comparison packages the three derived tables for one asset against a set of
// benchmarks, one column per benchmark in each table.
type Comparison struct {
	Asset       string `json:"asset"`
	Excess      *Panel `json:"excess"`
	Correlation *Panel `json:"correlation"`
	Beta        *Panel `json:"beta"`
}

// ExcessColumn returns the excess-return column name for an asset/benchmark
// pair. The pair is encoded in the name so tables from multiple assets can be
// concatenated without collisions.
func ExcessColumn(asset, benchmark string) string {
	return fmt.Sprintf("%s-vs-%s", asset, benchmark)
}

// CorrelationColumn returns the correlation column name for a pair.
func CorrelationColumn(asset, benchmark string) string {
	return fmt.Sprintf("Corr(%s,%s)", asset, benchmark)
}

// BetaColumn returns the beta column name for a pair.
func BetaColumn(asset, benchmark string) string {
	return fmt.Sprintf("Beta(%s,%s)", asset, benchmark)
}

// Compare builds the excess-return, correlation and beta tables for one asset
// against each benchmark, all computed from a shared panel of daily returns.
//
// Each output table keeps a row as long as at least one benchmark column is
// defined on that date; rows where every column is missing are dropped. The
// remaining missing cells mark comparisons that are not yet computable on
// that date.
func Compare(returns *Panel, asset string, benchmarks []string, opts CompareOptions) (*Comparison, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("compare %s: %w", asset, err)
	}
	if len(benchmarks) == 0 {
		return nil, fmt.Errorf("compare %s: no benchmarks given", asset)
	}

	assetRets, ok := returns.Column(asset)
	if !ok {
		return nil, fmt.Errorf("compare %s: asset column not in panel", asset)
	}

	assetPeriod, err := RollingPeriodReturn(assetRets, opts.ReturnWindow)
	if err != nil {
		return nil, fmt.Errorf("compare %s: %w", asset, err)
	}

	dates := append([]time.Time(nil), returns.Dates...)
	excess := &Panel{Dates: dates, Columns: make([]Column, 0, len(benchmarks))}
	corr := &Panel{Dates: dates, Columns: make([]Column, 0, len(benchmarks))}
	beta := &Panel{Dates: dates, Columns: make([]Column, 0, len(benchmarks))}

	for _, benchmark := range benchmarks {
		benchRets, ok := returns.Column(benchmark)
		if !ok {
			return nil, fmt.Errorf("compare %s: benchmark %s not in panel", asset, benchmark)
		}

		benchPeriod, err := RollingPeriodReturn(benchRets, opts.ReturnWindow)
		if err != nil {
			return nil, fmt.Errorf("compare %s vs %s: %w", asset, benchmark, err)
		}
		excess.Columns = append(excess.Columns, Column{
			Name:   ExcessColumn(asset, benchmark),
			Values: subtract(assetPeriod, benchPeriod),
		})

		c, err := RollingCorrelation(assetRets, benchRets, opts.RiskWindow)
		if err != nil {
			return nil, fmt.Errorf("compare %s vs %s: %w", asset, benchmark, err)
		}
		corr.Columns = append(corr.Columns, Column{
			Name:   CorrelationColumn(asset, benchmark),
			Values: c,
		})

		b, err := RollingBeta(assetRets, benchRets, opts.RiskWindow)
		if err != nil {
			return nil, fmt.Errorf("compare %s vs %s: %w", asset, benchmark, err)
		}
		beta.Columns = append(beta.Columns, Column{
			Name:   BetaColumn(asset, benchmark),
			Values: b,
		})
	}

	return &Comparison{
		Asset:       asset,
		Excess:      dropAllMissingRows(excess),
		Correlation: dropAllMissingRows(corr),
		Beta:        dropAllMissingRows(beta),
	}, nil
}

// subtract returns a-b element-wise; a missing value on either side makes the
// result missing.
func subtract(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		if isMissing(a[i]) || isMissing(b[i]) {
			out[i] = missing()
			continue
		}
		out[i] = a[i] - b[i]
	}
	return out
}
