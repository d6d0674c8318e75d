package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"relperf/internal/analytics"
	"relperf/internal/config"
	apperrors "relperf/internal/errors"
	"relperf/internal/exporter"
	"relperf/internal/files"
	"relperf/internal/infrastructure"
	"relperf/pkg/contracts/domain"
)

// Fetcher retrieves daily histories from the market-data provider
type Fetcher interface {
	FetchHistories(ctx context.Context, securities []string, start, end time.Time) (map[string]analytics.Series, error)
}

// ReportService runs the full pipeline: fetch histories, align them into a
// panel, derive the comparison tables and write the CSV and workbook outputs.
type ReportService struct {
	cfg      *config.Config
	paths    *config.Paths
	fetcher  Fetcher
	cache    *exporter.SeriesCache
	panels   *exporter.PanelExporter
	workbook *exporter.WorkbookWriter
	csv      *exporter.CSVWriter
	manager  *files.Manager
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger

	running atomic.Bool
}

// NewReportService creates a new report service
func NewReportService(cfg *config.Config, paths *config.Paths, fetcher Fetcher, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		cfg:      cfg,
		paths:    paths,
		fetcher:  fetcher,
		cache:    exporter.NewSeriesCache(paths),
		panels:   exporter.NewPanelExporter(paths),
		workbook: exporter.NewWorkbookWriter(paths),
		csv:      exporter.NewCSVWriter(paths),
		manager:  files.NewManager(paths),
		logger:   logger.With(slog.String("component", "report_service")),
	}
}

// WithMetrics attaches pipeline metrics instruments
func (s *ReportService) WithMetrics(m *infrastructure.PipelineMetrics) *ReportService {
	s.metrics = m
	return s
}

// Run executes one full report run. Only one run may be active at a time;
// concurrent calls fail with ErrRunInProgress.
func (s *ReportService) Run(ctx context.Context) (*domain.ReportResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	started := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)

	symbols := s.universe()
	s.logger.InfoContext(ctx, "starting report run",
		slog.Int("symbols", len(symbols)),
		slog.Any("assets", s.cfg.Analytics.Assets),
		slog.Any("benchmarks", s.cfg.Analytics.Benchmarks),
	)

	series, err := s.fetchUniverse(ctx, symbols)
	if err != nil {
		return nil, err
	}

	panel, skipped, err := analytics.Align(series)
	if err != nil {
		return nil, fmt.Errorf("align series: %w", err)
	}
	for _, sk := range skipped {
		s.logger.WarnContext(ctx, "symbol skipped",
			slog.String("symbol", sk.Symbol),
			slog.String("reason", sk.Reason),
		)
	}
	if s.metrics != nil && len(skipped) > 0 {
		s.metrics.SymbolsSkippedTotal.Add(ctx, int64(len(skipped)))
	}

	files, err := s.export(ctx, panel)
	if err != nil {
		return nil, err
	}

	duration := time.Since(started)
	if s.metrics != nil {
		s.metrics.ReportRunsTotal.Add(ctx, 1)
		s.metrics.ReportRunDuration.Record(ctx, duration.Seconds())
	}
	s.logger.InfoContext(ctx, "report run complete",
		slog.Int("rows", panel.Rows()),
		slog.Int("skipped", len(skipped)),
		slog.Duration("duration", duration),
	)

	result := &domain.ReportResult{
		GeneratedAt: started.UTC(),
		Assets:      present(s.cfg.Analytics.Assets, panel),
		Benchmarks:  present(s.cfg.Analytics.Benchmarks, panel),
		Rows:        panel.Rows(),
		Files:       files,
		Duration:    duration,
	}
	for _, sk := range skipped {
		result.Skipped = append(result.Skipped, domain.SkippedSymbol{Symbol: sk.Symbol, Reason: sk.Reason})
	}
	s.recordRunHistory(ctx, result)
	return result, nil
}

const runHistoryFile = "run_history.csv"

var runHistoryHeaders = []string{"Generated At", "Rows", "Skipped", "Files", "Duration"}

// recordRunHistory appends one summary row per run to an audit CSV in the
// reports directory. Failures are logged, never fatal.
func (s *ReportService) recordRunHistory(ctx context.Context, result *domain.ReportResult) {
	record := []string{
		result.GeneratedAt.Format(time.RFC3339),
		strconv.Itoa(result.Rows),
		strconv.Itoa(len(result.Skipped)),
		strconv.Itoa(len(result.Files)),
		result.Duration.String(),
	}

	var err error
	if s.manager.FileExists(s.paths.GetReportPath(runHistoryFile)) {
		err = s.csv.AppendToCSV(runHistoryFile, [][]string{record})
	} else {
		err = s.csv.WriteSimpleCSV(runHistoryFile, runHistoryHeaders, [][]string{record})
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record run history",
			slog.String("error", err.Error()),
		)
	}
}

// universe returns the configured assets followed by benchmarks, deduplicated
// in order.
func (s *ReportService) universe() []string {
	seen := make(map[string]bool)
	var out []string
	for _, sym := range append(append([]string{}, s.cfg.Analytics.Assets...), s.cfg.Analytics.Benchmarks...) {
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// fetchUniverse fetches every symbol's history and re-keys the result from
// provider security codes back to short symbol names. Fetched series are
// cached for the API to serve later.
func (s *ReportService) fetchUniverse(ctx context.Context, symbols []string) (map[string]analytics.Series, error) {
	start, end, err := s.cfg.Analytics.DateRange()
	if err != nil {
		return nil, apperrors.NewConfigError("resolve date range", err)
	}

	securities := make([]string, 0, len(symbols))
	bySecurity := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		security := s.cfg.Analytics.Tickers[sym]
		if security == "" {
			// No mapping configured; the symbol doubles as the security code
			security = sym
		}
		securities = append(securities, security)
		bySecurity[security] = sym
	}

	fetchStart := time.Now()
	if s.metrics != nil {
		s.metrics.FetchRequestsTotal.Add(ctx, int64(len(securities)))
	}
	fetched, err := s.fetcher.FetchHistories(ctx, securities, start, end)
	if s.metrics != nil {
		s.metrics.FetchDuration.Record(ctx, time.Since(fetchStart).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.FetchErrorsTotal.Add(ctx, 1)
		}
		return nil, fmt.Errorf("fetch histories: %w", err)
	}

	series := make(map[string]analytics.Series, len(fetched))
	for security, hist := range fetched {
		sym := bySecurity[security]
		if sym == "" {
			sym = security
		}
		series[sym] = hist
		if len(hist) > 0 {
			if err := s.cache.Save(sym, hist); err != nil {
				s.logger.WarnContext(ctx, "failed to cache series",
					slog.String("symbol", sym),
					slog.String("error", err.Error()),
				)
			}
		}
	}
	return series, nil
}

// export writes the combined CSV, the per-asset comparison CSVs and the
// review workbook, returning a description of everything written.
func (s *ReportService) export(ctx context.Context, panel *analytics.Panel) ([]domain.ReportFile, error) {
	if err := s.panels.WriteCombined(panel); err != nil {
		return nil, apperrors.NewExportError("write combined CSV", err)
	}
	files := []domain.ReportFile{describeFile(s.paths.CombinedCSV)}

	rebased := analytics.Rebase(panel)
	returns := analytics.Returns(panel)
	drawdowns := analytics.Drawdowns(rebased)

	tables := []exporter.Table{
		{Name: "Panel", Panel: panel},
		{Name: "Rebased", Panel: rebased},
	}

	opts := analytics.CompareOptions{
		ReturnWindow: s.cfg.Analytics.ReturnWindow,
		RiskWindow:   s.cfg.Analytics.RiskWindow,
	}
	benchmarks := present(s.cfg.Analytics.Benchmarks, panel)
	for _, asset := range present(s.cfg.Analytics.Assets, panel) {
		if len(benchmarks) == 0 {
			s.logger.WarnContext(ctx, "no benchmarks with data, skipping comparisons")
			break
		}
		comparison, err := analytics.Compare(returns, asset, benchmarks, opts)
		if err != nil {
			return nil, fmt.Errorf("compare %s: %w", asset, err)
		}
		if err := s.panels.WriteComparison(comparison); err != nil {
			return nil, apperrors.NewExportError(fmt.Sprintf("write comparison for %s", asset), err)
		}
		tables = append(tables,
			exporter.Table{Name: asset + " Excess", Panel: comparison.Excess},
			exporter.Table{Name: asset + " Correlation", Panel: comparison.Correlation},
			exporter.Table{Name: asset + " Beta", Panel: comparison.Beta},
		)
		files = append(files,
			describeFile(filepath.Join(s.paths.ReportsDir, asset+"_excess_returns.csv")),
			describeFile(filepath.Join(s.paths.ReportsDir, asset+"_correlation.csv")),
			describeFile(filepath.Join(s.paths.ReportsDir, asset+"_beta.csv")),
		)
	}

	tables = append(tables, exporter.Table{Name: "Drawdown", Panel: drawdowns})

	if err := s.workbook.Write(tables); err != nil {
		return nil, apperrors.NewExportError("write workbook", err)
	}
	files = append(files, describeFile(s.paths.WorkbookXLS))
	return files, nil
}

// describeFile stats a freshly written output. Size and mtime stay zero when
// the stat fails; the path is still reported.
func describeFile(path string) domain.ReportFile {
	file := domain.ReportFile{
		Name: filepath.Base(path),
		Path: path,
	}
	if info, err := os.Stat(path); err == nil {
		file.SizeBytes = info.Size()
		file.Modified = info.ModTime()
	}
	return file
}

// present filters symbols down to those that survived alignment
func present(symbols []string, panel *analytics.Panel) []string {
	var out []string
	for _, sym := range symbols {
		if _, ok := panel.Column(sym); ok {
			out = append(out, sym)
		}
	}
	return out
}
