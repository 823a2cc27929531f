package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"scopecli/internal/dataset"
	apierrors "scopecli/internal/errors"
	scopemw "scopecli/internal/middleware"
)

type categoryCtxKey struct{}

// ModelHandler handles model inventory HTTP requests
type ModelHandler struct {
	service      ModelServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewModelHandler creates a new model handler
func NewModelHandler(service ModelServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ModelHandler {
	return &ModelHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "models")),
		errorHandler: errorHandler,
	}
}

// Routes returns the models router
func (h *ModelHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListModels)

	r.Route("/{category}", func(r chi.Router) {
		r.Use(h.CategoryCtx)
		r.Get("/importance", h.GetImportance)
	})

	return r
}

// CategoryCtx middleware validates the category URL parameter and loads
// the parsed value into the request context.
func (h *ModelHandler) CategoryCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "category")
		cat, err := dataset.ParseCategory(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("category", err.Error()))
			return
		}
		ctx := context.WithValue(r.Context(), categoryCtxKey{}, cat)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ListModels handles GET /api/models
func (h *ModelHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	reqID := scopemw.GetRequestID(r.Context())

	infos, err := h.service.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list models",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"models": infos,
		"count":  len(infos),
	})
}

// GetImportance handles GET /api/models/{category}/importance
func (h *ModelHandler) GetImportance(w http.ResponseWriter, r *http.Request) {
	cat, _ := r.Context().Value(categoryCtxKey{}).(dataset.Category)

	result, err := h.service.Importance(r.Context(), cat)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get feature importance",
			slog.String("error", err.Error()),
			slog.String("category", cat.String()),
			slog.String("request_id", scopemw.GetRequestID(r.Context())),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}
