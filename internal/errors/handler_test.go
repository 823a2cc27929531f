package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopecli/internal/dataset"
	"scopecli/internal/features"
	"scopecli/internal/infrastructure"
	"scopecli/internal/model"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/forecast", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name: "data error maps to 422",
			err: dataset.NewRowError("sales.csv", 17, "unparseable date",
				fmt.Errorf("bad value")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataInvalid,
		},
		{
			name: "wrapped data error still matches",
			err: fmt.Errorf("load failed: %w",
				dataset.NewDataError("sales.csv", "missing date column", nil)),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataInvalid,
		},
		{
			name: "feature error maps to 422",
			err: &features.FeatureError{
				Date:   time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
				Reason: "date precedes external factor history",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeFeature,
		},
		{
			name: "model not found maps to 404",
			err: &model.ModelNotFoundError{
				Category: dataset.CategoryRifles,
				Path:     "models/sales_forecast_rifles.json",
			},
			wantStatus: http.StatusNotFound,
			wantType:   TypeModelNotFound,
		},
		{
			name:       "context deadline maps to 504",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api validation error maps to 400",
			err:        ErrValidation("horizon", "must be between 0 and 90"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "unknown error maps to 500",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			require.NotNil(t, problem)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/forecast", problem.Instance)
		})
	}
}

func TestErrorToProblemDataErrorExtensions(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)

	problem := h.ErrorToProblem(dataset.NewRowError("sales.csv", 5, "negative quantity", nil), req)

	assert.Equal(t, "sales.csv", problem.Extensions["file"])
	assert.Equal(t, 5, problem.Extensions["row"])
}

func TestHandleErrorWritesJSON(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, &model.ModelNotFoundError{
		Category: dataset.CategoryHandguns,
		Path:     "models/sales_forecast_handguns.json",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "handguns")
}

func TestNotFoundEndpoint(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProblemsCarryTraceID(t *testing.T) {
	h := newTestHandler()
	ctx := infrastructure.WithTraceID(context.Background(), "req-abc-123")

	t.Run("handle error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/models", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		h.HandleError(rec, req, fmt.Errorf("disk on fire"))

		assert.Contains(t, rec.Body.String(), `"trace_id":"req-abc-123"`)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		h.NotFound(rec, req)

		assert.Contains(t, rec.Body.String(), `"trace_id":"req-abc-123"`)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/models", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		h.MethodNotAllowed(rec, req)

		assert.Contains(t, rec.Body.String(), `"trace_id":"req-abc-123"`)
	})
}
