package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "craneview/internal/errors"
	"craneview/internal/exporter"
	"craneview/internal/normalize"
	"craneview/internal/services"
	"craneview/internal/views"
	"craneview/pkg/contracts/domain"
)

// analysisQuery carries the validated scalar query parameters of an
// analysis request.
type analysisQuery struct {
	View   string `validate:"omitempty,oneof=general corrective breakdown"`
	Format string `validate:"omitempty,oneof=csv json"`
}

// AnalysisHandler serves analysis, filter options and export requests.
type AnalysisHandler struct {
	service      AnalysisService
	store        *services.DatasetStore
	exporter     *exporter.WorkOrderExporter
	broadcaster  Broadcaster
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates the analysis handler. broadcaster may be nil
// when no websocket hub is attached.
func NewAnalysisHandler(service AnalysisService, store *services.DatasetStore, broadcaster Broadcaster, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service:      service,
		store:        store,
		exporter:     exporter.NewWorkOrderExporter("", logger),
		broadcaster:  broadcaster,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// GetAnalysis handles GET /api/analysis. The view and every filter
// criterion come from query parameters; the response is the full analysis
// result for the filtered population.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := h.runAnalysis(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastAnalysisUpdate(result.View, result.Kpis)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// GetFilters handles GET /api/filters: the distinct values per filterable
// category of the loaded dataset, for dashboard dropdowns.
func (h *AnalysisHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	ds := h.store.Get()
	if ds == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}

	render.JSON(w, r, h.service.Options(ds))
}

// Export handles GET /api/export/{format}. It runs the same analysis as
// GET /api/analysis and streams the result as a CSV population file or the
// full JSON result.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := h.validate.Struct(analysisQuery{Format: format}); err != nil {
		h.errorHandler.HandleError(w, r,
			apierrors.ErrValidation("format", fmt.Sprintf("unsupported export format: %s", format)))
		return
	}

	result, err := h.runAnalysis(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	stamp := time.Now().Format("20060102")
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="workorders_%s_%s.csv"`, result.View, stamp))
		if err := h.exporter.WriteCSV(w, result.Data); err != nil {
			h.logger.ErrorContext(r.Context(), "csv export failed",
				slog.String("error", err.Error()))
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="analysis_%s_%s.json"`, result.View, stamp))
		if err := h.exporter.WriteJSON(w, result); err != nil {
			h.logger.ErrorContext(r.Context(), "json export failed",
				slog.String("error", err.Error()))
		}
	}
}

// runAnalysis parses and validates the request, then recomputes the
// analysis over the stored dataset.
func (h *AnalysisHandler) runAnalysis(r *http.Request) (*domain.AnalysisResult, error) {
	ds := h.store.Get()
	if ds == nil {
		return nil, apierrors.ErrDatasetNotFound
	}

	q := r.URL.Query()
	viewName := q.Get("view")
	if err := h.validate.Struct(analysisQuery{View: viewName}); err != nil {
		return nil, apierrors.ErrValidation("view", fmt.Sprintf("unknown view: %s", viewName))
	}
	view, err := views.Parse(viewName)
	if err != nil {
		return nil, apierrors.ErrValidation("view", err.Error())
	}

	criteria, err := criteriaFromQuery(q)
	if err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}

	result, err := h.service.Analyze(r.Context(), ds, criteria, view)
	if err != nil {
		if errors.Is(err, normalize.ErrNoData) {
			return nil, apierrors.ErrDatasetNotFound
		}
		return nil, err
	}
	return result, nil
}
