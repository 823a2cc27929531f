package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"scopecli/internal/dataset"
	apierrors "scopecli/internal/errors"
	"scopecli/internal/model"
	"scopecli/internal/services"
)

// MockModelService is a mock implementation of ModelServiceInterface
type MockModelService struct {
	mock.Mock
}

func (m *MockModelService) List(ctx context.Context) ([]services.ModelInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.ModelInfo), args.Error(1)
}

func (m *MockModelService) Importance(ctx context.Context, cat dataset.Category) (*services.ImportanceResult, error) {
	args := m.Called(cat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportanceResult), args.Error(1)
}

func newModelTestHandler(svc ModelServiceInterface) *ModelHandler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewModelHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
}

func TestModelHandler_ListModels(t *testing.T) {
	trained := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	mockService := new(MockModelService)
	mockService.On("List").Return([]services.ModelInfo{
		{
			Category:        dataset.CategoryAmmunition,
			TrainedAt:       trained,
			Rows:            1100,
			QuantityMetrics: model.Metrics{RMSE: 4.1, MAE: 3.2, R2: 0.81},
		},
		{
			Category:        dataset.CategoryHandguns,
			TrainedAt:       trained,
			Rows:            1100,
			QuantityMetrics: model.Metrics{RMSE: 1.9, MAE: 1.4, R2: 0.77},
		},
	}, nil)
	handler := newModelTestHandler(mockService)

	rec := httptest.NewRecorder()
	handler.ListModels(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
	assert.Contains(t, rec.Body.String(), `"rmse":4.1`)
	mockService.AssertExpectations(t)
}

func TestModelHandler_GetImportance(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockModelService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful importance",
			url:  "/rifles/importance",
			setupMock: func(m *MockModelService) {
				m.On("Importance", dataset.CategoryRifles).Return(&services.ImportanceResult{
					Category: dataset.CategoryRifles,
					Features: []model.FeatureWeight{
						{Name: "seasonal_factor", Weight: 0.31},
						{Name: "political_climate", Weight: 0.22},
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"seasonal_factor"`,
		},
		{
			name:           "unknown category rejected by middleware",
			url:            "/boats/importance",
			setupMock:      func(m *MockModelService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `VALIDATION_FAILED`,
		},
		{
			name: "untrained category",
			url:  "/shotguns/importance",
			setupMock: func(m *MockModelService) {
				m.On("Importance", dataset.CategoryShotguns).Return(nil,
					&model.ModelNotFoundError{Category: dataset.CategoryShotguns})
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `/errors/models/not-found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockModelService)
			tt.setupMock(mockService)
			handler := newModelTestHandler(mockService)

			// Route through the full router so CategoryCtx runs.
			rec := httptest.NewRecorder()
			handler.Routes().ServeHTTP(rec, httptest.NewRequest("GET", tt.url, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
