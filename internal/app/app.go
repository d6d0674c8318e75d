package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"

	"relperf/internal/config"
	apperrors "relperf/internal/errors"
	"relperf/internal/fetch"
	"relperf/internal/files"
	"relperf/internal/infrastructure"
	customMiddleware "relperf/internal/middleware"
	"relperf/internal/services"
	handlers "relperf/internal/transport/http"
	"relperf/pkg/contracts"
)

// Application is the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	ReportService *services.ReportService
	DataService   *services.DataService
	HealthService *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders

	scheduler *cron.Cron
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("version", contracts.Version),
		slog.Int("port", cfg.Server.Port))

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	fetcher := fetch.NewClient(cfg.Provider, logger)

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		ReportService: services.NewReportService(cfg, paths, fetcher, logger).WithMetrics(metrics),
		DataService:   services.NewDataService(cfg, paths, logger),
		HealthService: services.NewHealthService(paths, logger),
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	app.setupRouter()
	app.setupServer()
	if err := app.setupScheduler(); err != nil {
		return nil, err
	}
	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))

	if a.Config.Server.RateLimitRPS > 0 {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Server.RateLimitRPS,
			a.Config.Server.RateLimitBurst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := apperrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Route("/api", func(r chi.Router) {
		dataHandler := handlers.NewDataHandler(a.DataService, a.Logger, errorHandler)
		r.Mount("/data", dataHandler.Routes())

		reportHandler := handlers.NewReportHandler(a.ReportService, a.Logger, errorHandler)
		r.Mount("/report", reportHandler.Routes())
	})

	healthHandler := handlers.NewHealthHandler(a.HealthService)
	r.Get("/health", healthHandler.GetHealth)
	r.Get("/version", healthHandler.GetVersion)

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(errorHandler.NotFound)

	a.Router = r
}

// setupServer configures the HTTP server with timeouts
func (a *Application) setupServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// setupScheduler registers the scheduled report refresh, when configured
func (a *Application) setupScheduler() error {
	schedule := a.Config.Refresh.Schedule
	if schedule == "" {
		a.Logger.Info("scheduled refresh disabled")
		return nil
	}

	a.scheduler = cron.New()
	_, err := a.scheduler.AddFunc(schedule, func() {
		ctx := infrastructure.EnsureTraceID(context.Background())
		logger := infrastructure.LoggerWithContext(ctx)
		logger.InfoContext(ctx, "scheduled refresh starting",
			slog.String("schedule", schedule))

		if _, err := a.ReportService.Run(ctx); err != nil {
			logger.ErrorContext(ctx, "scheduled refresh failed",
				slog.String("error", err.Error()))
		}
		a.pruneStaleCaches(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	a.Logger.Info("scheduled refresh enabled", slog.String("schedule", schedule))
	return nil
}

// pruneStaleCaches drops cached series files older than the configured
// retention, keeping the cache directory from growing without bound.
func (a *Application) pruneStaleCaches(ctx context.Context) {
	retention := a.Config.Refresh.CacheRetention
	if retention <= 0 {
		return
	}
	removed, err := files.NewManager(a.Paths).CleanupCache(retention)
	if err != nil {
		a.Logger.WarnContext(ctx, "cache cleanup failed",
			slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		a.Logger.InfoContext(ctx, "pruned stale series caches",
			slog.Int("removed", removed),
			slog.Duration("retention", retention))
	}
}

// Run starts the HTTP server and blocks until shutdown. The context cancels
// the server the same way SIGINT and SIGTERM do.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.Info("context cancelled, shutting down")
	}

	return a.Shutdown()
}

// Shutdown drains the server, stops the scheduler and flushes telemetry
func (a *Application) Shutdown() error {
	timeout := a.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = shutdownDeadline
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.scheduler != nil {
		cronCtx := a.scheduler.Stop()
		select {
		case <-cronCtx.Done():
		case <-ctx.Done():
			a.Logger.Warn("scheduled job still running at shutdown")
		}
	}

	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return err
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogger(); err != nil {
		return err
	}

	a.Logger.Info("shutdown complete")
	return nil
}

// shutdownDeadline is the default period allowed for graceful shutdown when
// configuration carries no value.
const shutdownDeadline = 30 * time.Second
