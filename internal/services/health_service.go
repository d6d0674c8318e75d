package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"relperf/internal/config"
	"relperf/internal/files"
	"relperf/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	paths     *config.Paths
	discovery *files.Discovery
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Checks    map[string]string      `json:"checks,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		paths:     paths,
		discovery: files.NewDiscovery(paths),
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Health reports service health: process stats plus whether the output
// directories are reachable. A missing directory degrades the status
// instead of failing it, since the first report run creates them.
func (hs *HealthService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
		},
		Checks: make(map[string]string),
	}

	for name, dir := range map[string]string{
		"data_dir":    hs.paths.DataDir,
		"reports_dir": hs.paths.ReportsDir,
		"cache_dir":   hs.paths.CacheDir,
	} {
		if _, err := os.Stat(dir); err != nil {
			status.Checks[name] = "missing"
			status.Status = "degraded"
			hs.logger.WarnContext(ctx, "health check found missing directory",
				slog.String("check", name),
				slog.String("dir", dir),
			)
			continue
		}
		status.Checks[name] = "ok"
	}

	// Surface the newest report so operators can see at a glance whether
	// runs are producing output. No report yet is normal, not degraded.
	if latest, err := hs.discovery.LatestReport(); err == nil {
		status.Checks["latest_report"] = latest.Name
	} else {
		status.Checks["latest_report"] = "none"
	}
	return status
}
