package http

import (
	"context"
	"errors"
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
	"scopecli/internal/forecast"
	"scopecli/internal/services"
)

// MockSalesService is a mock implementation of SalesServiceInterface
type MockSalesService struct {
	mock.Mock
}

func (m *MockSalesService) Coverage(ctx context.Context) (*services.CoverageSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CoverageSummary), args.Error(1)
}

func (m *MockSalesService) History(ctx context.Context, req services.HistoryRequest) (*services.HistoryResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.HistoryResult), args.Error(1)
}

func (m *MockSalesService) Comparison(ctx context.Context, from, to time.Time) ([]services.CategoryTotals, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.CategoryTotals), args.Error(1)
}

func newSalesTestHandler(svc SalesServiceInterface) *SalesHandler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewSalesHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
}

func TestSalesHandler_GetHistory(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockSalesService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful history",
			url:  "/?category=handguns&granularity=weekly",
			setupMock: func(m *MockSalesService) {
				m.On("History", services.HistoryRequest{
					Category:    dataset.CategoryHandguns,
					Granularity: forecast.Weekly,
				}).Return(&services.HistoryResult{
					Category:    dataset.CategoryHandguns,
					Granularity: "weekly",
					From:        day,
					To:          day.AddDate(0, 0, 6),
					Buckets:     []forecast.Bucket{{Start: day, Quantity: 42, Revenue: 21000}},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_quantity":42`,
		},
		{
			name:           "missing category",
			url:            "/",
			setupMock:      func(m *MockSalesService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `VALIDATION_FAILED`,
		},
		{
			name:           "unknown category",
			url:            "/?category=boats",
			setupMock:      func(m *MockSalesService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `VALIDATION_FAILED`,
		},
		{
			name:           "bad granularity",
			url:            "/?category=rifles&granularity=hourly",
			setupMock:      func(m *MockSalesService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `granularity`,
		},
		{
			name:           "malformed from date",
			url:            "/?category=rifles&from=03-01-2025",
			setupMock:      func(m *MockSalesService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `ISO date`,
		},
		{
			name: "empty window",
			url:  "/?category=rifles",
			setupMock: func(m *MockSalesService) {
				m.On("History", mock.Anything).Return(nil, services.ErrEmptyWindow)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `NO_SALES_IN_WINDOW`,
		},
		{
			name: "data not loaded",
			url:  "/?category=rifles",
			setupMock: func(m *MockSalesService) {
				m.On("History", mock.Anything).Return(nil, services.ErrNoSalesData)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `NO_SALES_DATA`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockSalesService)
			tt.setupMock(mockService)
			handler := newSalesTestHandler(mockService)

			req := httptest.NewRequest("GET", tt.url, nil)
			rec := httptest.NewRecorder()

			handler.GetHistory(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestSalesHandler_GetComparison(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockSalesService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful comparison",
			url:  "/comparison",
			setupMock: func(m *MockSalesService) {
				m.On("Comparison", time.Time{}, time.Time{}).Return([]services.CategoryTotals{
					{Category: dataset.CategoryAmmunition, Quantity: 900, Revenue: 45000, RevenueShare: 0.6, DailyAverage: 30},
					{Category: dataset.CategoryHandguns, Quantity: 120, Revenue: 30000, RevenueShare: 0.4, DailyAverage: 4},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":2`,
		},
		{
			name: "inverted range",
			url:  "/comparison?from=2025-06-01&to=2025-01-01",
			setupMock: func(m *MockSalesService) {
				m.On("Comparison", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidDateRange)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `VALIDATION_FAILED`,
		},
		{
			name: "internal error",
			url:  "/comparison",
			setupMock: func(m *MockSalesService) {
				m.On("Comparison", mock.Anything, mock.Anything).Return(nil, errors.New("disk error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `unexpected error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockSalesService)
			tt.setupMock(mockService)
			handler := newSalesTestHandler(mockService)

			req := httptest.NewRequest("GET", tt.url, nil)
			rec := httptest.NewRecorder()

			handler.GetComparison(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestSalesHandler_GetCoverage(t *testing.T) {
	mockService := new(MockSalesService)
	mockService.On("Coverage").Return(&services.CoverageSummary{
		Start:      time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Days:       1186,
		Categories: []string{"accessories", "ammunition", "handguns", "rifles", "shotguns"},
	}, nil)
	handler := newSalesTestHandler(mockService)

	req := httptest.NewRequest("GET", "/coverage", nil)
	rec := httptest.NewRecorder()

	handler.GetCoverage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"days":1186`)
	mockService.AssertExpectations(t)
}
