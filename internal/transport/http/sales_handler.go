package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"scopecli/internal/dataset"
	apierrors "scopecli/internal/errors"
	"scopecli/internal/forecast"
	scopemw "scopecli/internal/middleware"
	"scopecli/internal/services"
)

// SalesHandler handles historical sales HTTP requests
type SalesHandler struct {
	service      SalesServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(service SalesServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SalesHandler {
	return &SalesHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "sales")),
		errorHandler: errorHandler,
	}
}

// Routes returns the sales router
func (h *SalesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetHistory)
	r.Get("/coverage", h.GetCoverage)
	r.Get("/comparison", h.GetComparison)

	return r
}

// GetCoverage handles GET /api/sales/coverage
func (h *SalesHandler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	coverage, err := h.service.Coverage(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, coverage)
}

// GetHistory handles GET /api/sales with category, from, to and granularity
// query parameters. from/to are optional and default to the full observed
// range; granularity defaults to daily.
func (h *SalesHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	reqID := scopemw.GetRequestID(r.Context())

	cat, ok := h.categoryParam(w, r)
	if !ok {
		return
	}
	from, ok := h.dateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := h.dateParam(w, r, "to")
	if !ok {
		return
	}
	g, err := forecast.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("granularity",
			"granularity must be one of: daily, weekly, monthly"))
		return
	}

	h.logger.InfoContext(r.Context(), "serving sales history",
		slog.String("request_id", reqID),
		slog.String("category", cat.String()),
		slog.String("granularity", string(g)),
	)

	result, err := h.service.History(r.Context(), services.HistoryRequest{
		Category:    cat,
		From:        from,
		To:          to,
		Granularity: g,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// GetComparison handles GET /api/sales/comparison with optional from/to
// query parameters.
func (h *SalesHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	reqID := scopemw.GetRequestID(r.Context())

	from, ok := h.dateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := h.dateParam(w, r, "to")
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "serving category comparison",
		slog.String("request_id", reqID),
	)

	totals, err := h.service.Comparison(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"categories": totals,
		"count":      len(totals),
	})
}

// categoryParam parses the required category query parameter.
func (h *SalesHandler) categoryParam(w http.ResponseWriter, r *http.Request) (dataset.Category, bool) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("category", "category is required"))
		return "", false
	}
	cat, err := dataset.ParseCategory(raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("category", err.Error()))
		return "", false
	}
	return cat, true
}

// dateParam parses an optional ISO date query parameter. A missing
// parameter yields the zero time.
func (h *SalesHandler) dateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(dataset.DateFormat, raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(name,
			name+" must be an ISO date (YYYY-MM-DD)"))
		return time.Time{}, false
	}
	return t, true
}

// handleServiceError maps service errors to API errors.
func (h *SalesHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "sales request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", scopemw.GetRequestID(r.Context())),
	)

	switch {
	case errors.Is(err, services.ErrCategoryUnknown):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("category", err.Error()))
	case errors.Is(err, services.ErrInvalidDateRange):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("from", "from must not be after to"))
	case errors.Is(err, services.ErrEmptyWindow):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound, "NO_SALES_IN_WINDOW", "No sales recorded in the requested window"))
	case errors.Is(err, services.ErrNoSalesData):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusServiceUnavailable, "NO_SALES_DATA", "Sales data is not loaded"))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
