package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"relperf/internal/analytics"
	"relperf/internal/config"
	"relperf/internal/exporter"
	"relperf/internal/files"
	"relperf/pkg/contracts/domain"
)

// DataService answers API queries from cached series data, without touching
// the provider. A report run must have populated the cache first.
type DataService struct {
	cfg       *config.Config
	paths     *config.Paths
	cache     *exporter.SeriesCache
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewDataService creates a new data service
func NewDataService(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		cfg:       cfg,
		paths:     paths,
		cache:     exporter.NewSeriesCache(paths),
		discovery: files.NewDiscovery(paths),
		logger:    logger.With(slog.String("component", "data_service")),
	}
}

// Compare computes one asset's comparison tables from cached data. Request
// fields left at zero fall back to configuration defaults.
func (ds *DataService) Compare(ctx context.Context, req domain.ReportRequest) (*domain.ComparisonResult, error) {
	if req.Asset == "" {
		return nil, fmt.Errorf("%w: asset is required", ErrInvalidInput)
	}
	benchmarks := req.Benchmarks
	if len(benchmarks) == 0 {
		benchmarks = ds.cfg.Analytics.Benchmarks
	}
	if len(benchmarks) == 0 {
		return nil, ErrNoBenchmarks
	}

	panel, err := ds.loadPanel(ctx, append([]string{req.Asset}, benchmarks...))
	if err != nil {
		return nil, err
	}
	if _, ok := panel.Column(req.Asset); !ok {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, req.Asset)
	}

	opts := analytics.CompareOptions{
		ReturnWindow: ds.cfg.Analytics.ReturnWindow,
		RiskWindow:   ds.cfg.Analytics.RiskWindow,
	}
	if req.ReturnWindow > 0 {
		opts.ReturnWindow = req.ReturnWindow
	}
	if req.RiskWindow > 0 {
		opts.RiskWindow = req.RiskWindow
	}

	panel = clipDates(panel, req.DateFrom, req.DateTo)
	returns := analytics.Returns(panel)

	comparison, err := analytics.Compare(returns, req.Asset, present(benchmarks, panel), opts)
	if err != nil {
		return nil, fmt.Errorf("compare %s: %w", req.Asset, err)
	}

	return &domain.ComparisonResult{
		Asset:       comparison.Asset,
		Excess:      tableFromPanel(comparison.Excess),
		Correlation: tableFromPanel(comparison.Correlation),
		Beta:        tableFromPanel(comparison.Beta),
	}, nil
}

// Panel returns the aligned level panel for the configured universe from
// cached data.
func (ds *DataService) Panel(ctx context.Context) (*domain.Table, error) {
	symbols := append(append([]string{}, ds.cfg.Analytics.Assets...), ds.cfg.Analytics.Benchmarks...)
	panel, err := ds.loadPanel(ctx, symbols)
	if err != nil {
		return nil, err
	}
	table := tableFromPanel(panel)
	return &table, nil
}

// GetReports lists the generated report files, newest first
func (ds *DataService) GetReports(ctx context.Context) ([]domain.ReportFile, error) {
	found, err := ds.discovery.FindReports()
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNoReportsFound
	}
	out := make([]domain.ReportFile, 0, len(found))
	for _, f := range found {
		out = append(out, domain.ReportFile{
			Name:      f.Name,
			Path:      f.Path,
			SizeBytes: f.Size,
			Modified:  f.ModTime,
		})
	}
	return out, nil
}

// loadPanel loads the given symbols from the cache and aligns them. Symbols
// with no cache entry are skipped with a warning; if nothing loads the
// caller gets ErrNoCachedData.
func (ds *DataService) loadPanel(ctx context.Context, symbols []string) (*analytics.Panel, error) {
	series := make(map[string]analytics.Series, len(symbols))
	for _, sym := range symbols {
		if _, dup := series[sym]; dup {
			continue
		}
		s, err := ds.cache.Load(sym)
		if err != nil {
			ds.logger.WarnContext(ctx, "no cached series",
				slog.String("symbol", sym),
				slog.String("error", err.Error()),
			)
			continue
		}
		series[sym] = s
	}
	if len(series) == 0 {
		return nil, ErrNoCachedData
	}

	panel, skipped, err := analytics.Align(series)
	if err != nil {
		return nil, fmt.Errorf("align cached series: %w", err)
	}
	for _, sk := range skipped {
		ds.logger.WarnContext(ctx, "symbol skipped",
			slog.String("symbol", sk.Symbol),
			slog.String("reason", sk.Reason),
		)
	}
	return panel, nil
}

// clipDates trims a panel to an inclusive date range. Empty bounds leave
// that side open; unparseable bounds are ignored.
func clipDates(p *analytics.Panel, from, to string) *analytics.Panel {
	lo, hi := 0, len(p.Dates)
	if from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			for lo < hi && p.Dates[lo].Before(t) {
				lo++
			}
		}
	}
	if to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			for hi > lo && p.Dates[hi-1].After(t) {
				hi--
			}
		}
	}
	if lo == 0 && hi == len(p.Dates) {
		return p
	}

	out := &analytics.Panel{Dates: p.Dates[lo:hi]}
	for _, col := range p.Columns {
		out.Columns = append(out.Columns, analytics.Column{
			Name:   col.Name,
			Values: col.Values[lo:hi],
		})
	}
	return out
}

// tableFromPanel converts a panel to its wire form, missing values as nulls
func tableFromPanel(p *analytics.Panel) domain.Table {
	table := domain.Table{Dates: make([]string, 0, p.Rows())}
	for _, date := range p.Dates {
		table.Dates = append(table.Dates, date.Format("2006-01-02"))
	}
	for _, col := range p.Columns {
		values := make([]*float64, len(col.Values))
		for i, v := range col.Values {
			if !math.IsNaN(v) {
				value := v
				values[i] = &value
			}
		}
		table.Columns = append(table.Columns, domain.TableColumn{Name: col.Name, Values: values})
	}
	return table
}
