package http

import (
	"context"

	"relperf/internal/services"
	"relperf/pkg/contracts/domain"
)

// DataServiceInterface defines the data operations the handlers depend on
type DataServiceInterface interface {
	Compare(ctx context.Context, req domain.ReportRequest) (*domain.ComparisonResult, error)
	Panel(ctx context.Context) (*domain.Table, error)
	GetReports(ctx context.Context) ([]domain.ReportFile, error)
}

// ReportRunnerInterface triggers full report runs
type ReportRunnerInterface interface {
	Run(ctx context.Context) (*domain.ReportResult, error)
}

// HealthServiceInterface reports service health
type HealthServiceInterface interface {
	Health(ctx context.Context) services.HealthStatus
}
