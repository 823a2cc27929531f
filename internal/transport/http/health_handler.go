package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"scopecli/internal/config"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	sales   SalesServiceInterface
	models  ModelServiceInterface
	logger  *slog.Logger
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sales SalesServiceInterface, models ModelServiceInterface, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		sales:   sales,
		models:  models,
		logger:  logger.With(slog.String("handler", "health")),
		started: time.Now(),
	}
}

// Routes returns the health router
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.HealthCheck)
	r.Get("/ready", h.ReadinessCheck)
	r.Get("/live", h.LivenessCheck)
	return r
}

// HealthCheck handles GET /api/health. It reports the loaded data coverage
// and how many category models are trained, so the dashboard can surface a
// degraded state before any chart request fails.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "healthy",
		"version": config.AppVersion,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}

	coverage, err := h.sales.Coverage(r.Context())
	if err != nil {
		resp["status"] = "degraded"
		resp["data"] = map[string]interface{}{"loaded": false, "error": err.Error()}
	} else {
		resp["data"] = map[string]interface{}{
			"loaded": true,
			"start":  coverage.Start.Format("2006-01-02"),
			"end":    coverage.End.Format("2006-01-02"),
			"days":   coverage.Days,
		}
	}

	infos, err := h.models.List(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "model inventory unavailable",
			slog.String("error", err.Error()))
		resp["status"] = "degraded"
		resp["models"] = map[string]interface{}{"trained": 0, "error": err.Error()}
	} else {
		resp["models"] = map[string]interface{}{"trained": len(infos)}
	}

	render.JSON(w, r, resp)
}

// ReadinessCheck handles GET /api/health/ready
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sales.Coverage(r.Context()); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{"ready": false, "error": err.Error()})
		return
	}
	render.JSON(w, r, map[string]interface{}{"ready": true})
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"alive": true})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"name":    config.AppName,
		"version": config.AppVersion,
	})
}
