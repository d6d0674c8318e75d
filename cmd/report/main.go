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
	"relperf/internal/fetch"
	"relperf/internal/infrastructure"
	"relperf/internal/services"
)

func main() {
	assets := flag.String("assets", "", "comma-separated asset symbols (defaults to configured assets)")
	benchmarks := flag.String("benchmarks", "", "comma-separated benchmark symbols (defaults to configured benchmarks)")
	startDate := flag.String("start", "", "start date YYYY-MM-DD (defaults to configured start_date)")
	endDate := flag.String("end", "", "end date YYYY-MM-DD (defaults to configured end_date)")
	returnWindow := flag.Int("return-window", 0, "rolling period return window in trading days")
	riskWindow := flag.Int("risk-window", 0, "rolling correlation/beta window in trading days")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	applyOverrides(cfg, *assets, *benchmarks, *startDate, *endDate, *returnWindow, *riskWindow)

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

	client := fetch.NewClient(cfg.Provider, logger)
	service := services.NewReportService(cfg, paths, client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = infrastructure.EnsureTraceID(ctx)

	result, err := service.Run(ctx)
	if err != nil {
		logger.Error("Report run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Report generated in %s\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("  Assets:     %s\n", strings.Join(result.Assets, ", "))
	fmt.Printf("  Benchmarks: %s\n", strings.Join(result.Benchmarks, ", "))
	fmt.Printf("  Rows:       %d\n", result.Rows)
	for _, skipped := range result.Skipped {
		fmt.Printf("  Skipped:    %s (%s)\n", skipped.Symbol, skipped.Reason)
	}
	for _, file := range result.Files {
		fmt.Printf("  Wrote:      %s (%d bytes)\n", file.Path, file.SizeBytes)
	}
}

// applyOverrides lets command line flags take precedence over file and
// environment configuration for a single run.
func applyOverrides(cfg *config.Config, assets, benchmarks, start, end string, returnWindow, riskWindow int) {
	if assets != "" {
		cfg.Analytics.Assets = splitList(assets)
	}
	if benchmarks != "" {
		cfg.Analytics.Benchmarks = splitList(benchmarks)
	}
	if start != "" {
		cfg.Analytics.StartDate = start
	}
	if end != "" {
		cfg.Analytics.EndDate = end
	}
	if returnWindow > 0 {
		cfg.Analytics.ReturnWindow = returnWindow
	}
	if riskWindow > 0 {
		cfg.Analytics.RiskWindow = riskWindow
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
