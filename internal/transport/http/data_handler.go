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
	api "relperf/pkg/contracts/api/v1"
	"relperf/pkg/contracts/domain"
)

// DataHandler serves comparison tables, the aligned panel and report
// listings from cached data.
type DataHandler struct {
	service      DataServiceInterface
	validator    *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		validator:    middleware.NewRequestValidator(),
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/reports", h.GetReports)
	r.Get("/panel", h.GetPanel)
	r.Post("/compare", h.Compare)

	return r
}

// Compare handles POST /api/compare
func (h *DataHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req api.CompareRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		// A body we cannot decode is the client's fault, not a provider
		// parsing failure.
		h.errorHandler.HandleError(w, r,
			apperrors.NewValidationError("request body is not valid JSON").WithContext("cause", err.Error()))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "comparing asset",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("asset", req.Asset),
		slog.Int("benchmarks", len(req.Benchmarks)),
	)

	result, err := h.service.Compare(r.Context(), domain.ReportRequest{
		Asset:        req.Asset,
		Benchmarks:   req.Benchmarks,
		DateFrom:     req.From,
		DateTo:       req.To,
		ReturnWindow: req.ReturnWindow,
		RiskWindow:   req.RiskWindow,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// GetPanel handles GET /api/panel
func (h *DataHandler) GetPanel(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Panel(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, table)
}

// GetReports handles GET /api/reports
func (h *DataHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.GetReports(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// handleServiceError maps service errors onto typed application errors
// before rendering them as problem responses.
func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "data request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	)

	switch {
	case errors.Is(err, services.ErrInvalidInput):
		err = apperrors.NewValidationError(err.Error())
	case errors.Is(err, services.ErrSymbolNotFound):
		err = apperrors.NewNotFoundError(err.Error())
	case errors.Is(err, services.ErrNoReportsFound):
		err = apperrors.NewNotFoundError("reports")
	case errors.Is(err, services.ErrNoCachedData), errors.Is(err, services.ErrNoBenchmarks):
		err = apperrors.NewNoDataError(err)
	}
	h.errorHandler.HandleError(w, r, err)
}
