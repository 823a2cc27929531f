package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"scopecli/internal/config"
	"scopecli/internal/dataset"
	apierrors "scopecli/internal/errors"
	"scopecli/internal/features"
	"scopecli/internal/forecast"
	scopemw "scopecli/internal/middleware"
	"scopecli/internal/services"
)

// ForecastRequest is the JSON body of POST /api/forecast. All fields except
// category are optional; override_dates limits the overrides to specific
// days inside the window.
type ForecastRequest struct {
	Category      string              `json:"category" validate:"required,category"`
	Start         string              `json:"start_date,omitempty" validate:"omitempty,isodate"`
	HorizonDays   int                 `json:"horizon_days,omitempty" validate:"omitempty,min=1,max=90"`
	Confidence    float64             `json:"confidence,omitempty" validate:"omitempty,gt=0,lt=1"`
	Granularity   string              `json:"granularity,omitempty" validate:"omitempty,granularity"`
	Overrides     *features.Overrides `json:"overrides,omitempty"`
	OverrideDates []string            `json:"override_dates,omitempty" validate:"omitempty,dive,isodate"`
}

// ForecastHandler handles forecast HTTP requests
type ForecastHandler struct {
	service      ForecastServiceInterface
	validator    *scopemw.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(service ForecastServiceInterface, validator *scopemw.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ForecastHandler {
	return &ForecastHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("handler", "forecast")),
		errorHandler: errorHandler,
	}
}

// Routes returns the forecast router
func (h *ForecastHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.CreateForecast)
	return r
}

// CreateForecast handles POST /api/forecast. The same endpoint serves
// plain forecasts and what-if analysis: a request with overrides is a
// what-if run and is never persisted.
func (h *ForecastHandler) CreateForecast(w http.ResponseWriter, r *http.Request) {
	reqID := scopemw.GetRequestID(r.Context())

	var req ForecastRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	svcReq, err := h.toServiceRequest(req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "computing forecast",
		slog.String("request_id", reqID),
		slog.String("category", req.Category),
		slog.Int("horizon_days", req.HorizonDays),
		slog.Bool("what_if", !req.Overrides.IsZero()),
	)

	result, err := h.service.Forecast(r.Context(), svcReq)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "forecast failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// ExportCSV handles GET /api/export/forecast.csv. The report is built in
// memory first so a failed export returns a JSON problem instead of a
// truncated file.
func (h *ForecastHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	reqID := scopemw.GetRequestID(r.Context())

	h.logger.InfoContext(r.Context(), "exporting forecast report",
		slog.String("request_id", reqID),
	)

	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), &buf); err != nil {
		h.logger.ErrorContext(r.Context(), "forecast export failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", config.ForecastReportFile))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// toServiceRequest converts the validated API request into a service
// request, parsing the date fields.
func (h *ForecastHandler) toServiceRequest(req ForecastRequest) (services.ForecastRequest, error) {
	cat, err := dataset.ParseCategory(req.Category)
	if err != nil {
		return services.ForecastRequest{}, apierrors.ErrValidation("category", err.Error())
	}

	var start time.Time
	if req.Start != "" {
		start, err = time.Parse(dataset.DateFormat, req.Start)
		if err != nil {
			return services.ForecastRequest{}, apierrors.ErrValidation("start_date",
				"start_date must be an ISO date (YYYY-MM-DD)")
		}
	}

	g, err := forecast.ParseGranularity(req.Granularity)
	if err != nil {
		return services.ForecastRequest{}, apierrors.ErrValidation("granularity",
			"granularity must be one of: daily, weekly, monthly")
	}

	var dates []time.Time
	for _, raw := range req.OverrideDates {
		d, err := time.Parse(dataset.DateFormat, raw)
		if err != nil {
			return services.ForecastRequest{}, apierrors.ErrValidation("override_dates",
				"override_dates must be ISO dates (YYYY-MM-DD)")
		}
		dates = append(dates, d)
	}

	return services.ForecastRequest{
		Category:      cat,
		Start:         start,
		Horizon:       req.HorizonDays,
		Confidence:    req.Confidence,
		Granularity:   g,
		Overrides:     req.Overrides,
		OverrideDates: dates,
	}, nil
}
