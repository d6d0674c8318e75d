package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"relperf/internal/config"
	"relperf/internal/exporter"
	"relperf/internal/fetch"
	"relperf/internal/infrastructure"
)

func main() {
	symbols := flag.String("symbols", "", "comma-separated symbols to fetch (defaults to all configured assets and benchmarks)")
	startDate := flag.String("start", "", "start date YYYY-MM-DD (defaults to configured start_date)")
	endDate := flag.String("end", "", "end date YYYY-MM-DD (defaults to configured end_date)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall fetch timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *startDate != "" {
		cfg.Analytics.StartDate = *startDate
	}
	if *endDate != "" {
		cfg.Analytics.EndDate = *endDate
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogger()

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		logger.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	wanted := selectSymbols(cfg, *symbols)
	if len(wanted) == 0 {
		logger.Error("No symbols to fetch")
		os.Exit(1)
	}

	start, end, err := cfg.Analytics.DateRange()
	if err != nil {
		logger.Error("Invalid date range", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = infrastructure.EnsureTraceID(ctx)

	// The provider is queried by security code; results are cached under
	// the short symbol so downstream consumers never see provider codes.
	securities := make([]string, 0, len(wanted))
	bySecurity := make(map[string]string, len(wanted))
	for _, symbol := range wanted {
		security, ok := cfg.Analytics.Tickers[symbol]
		if !ok {
			security = symbol
		}
		securities = append(securities, security)
		bySecurity[security] = symbol
	}

	client := fetch.NewClient(cfg.Provider, logger)
	histories, err := client.FetchHistories(ctx, securities, start, end)
	if err != nil {
		logger.Error("Fetch failed", "error", err)
		os.Exit(1)
	}

	cache := exporter.NewSeriesCache(paths)
	saved := 0
	for security, series := range histories {
		symbol := bySecurity[security]
		if len(series) == 0 {
			logger.WarnContext(ctx, "no history returned", "symbol", symbol, "security", security)
			continue
		}
		if err := cache.Save(symbol, series); err != nil {
			logger.Error("Failed to cache series", "symbol", symbol, "error", err)
			os.Exit(1)
		}
		logger.InfoContext(ctx, "cached series", "symbol", symbol, "points", len(series))
		saved++
	}

	fmt.Printf("Cached %d of %d series under %s\n", saved, len(wanted), paths.CacheDir)
}

func selectSymbols(cfg *config.Config, flagValue string) []string {
	if flagValue != "" {
		parts := strings.Split(flagValue, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	seen := make(map[string]bool)
	var out []string
	for _, symbol := range append(append([]string{}, cfg.Analytics.Assets...), cfg.Analytics.Benchmarks...) {
		if !seen[symbol] {
			seen[symbol] = true
			out = append(out, symbol)
		}
	}
	return out
}
