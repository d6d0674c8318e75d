package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "relperf/internal/errors"
	"relperf/internal/middleware"
	"relperf/internal/services"
)

// ReportHandler triggers full report runs
type ReportHandler struct {
	runner       ReportRunnerInterface
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(runner ReportRunnerInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		runner:       runner,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/refresh", h.Refresh)
	return r
}

// Refresh handles POST /api/report/refresh. The run is synchronous; clients
// get the full run summary back. A 409 means another run is already active.
func (h *ReportHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.InfoContext(r.Context(), "report refresh requested",
		slog.String("request_id", reqID),
	)

	result, err := h.runner.Run(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "report run failed",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()),
		)

		if errors.Is(err, services.ErrRunInProgress) {
			problem := apperrors.NewProblemDetails(
				http.StatusConflict,
				"/errors/report/run-in-progress",
				"Run In Progress",
				"a report run is already active",
				r.URL.Path,
			)
			problem.Render(w, r)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}
