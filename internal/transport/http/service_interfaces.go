package http

import (
	"context"
	"io"
	"time"

	"scopecli/internal/dataset"
	"scopecli/internal/services"
)

// SalesServiceInterface defines the interface for historical sales operations
type SalesServiceInterface interface {
	Coverage(ctx context.Context) (*services.CoverageSummary, error)
	History(ctx context.Context, req services.HistoryRequest) (*services.HistoryResult, error)
	Comparison(ctx context.Context, from, to time.Time) ([]services.CategoryTotals, error)
}

// ForecastServiceInterface defines the interface for forecast operations
type ForecastServiceInterface interface {
	Forecast(ctx context.Context, req services.ForecastRequest) (*services.ForecastResult, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// ModelServiceInterface defines the interface for model inventory operations
type ModelServiceInterface interface {
	List(ctx context.Context) ([]services.ModelInfo, error)
	Importance(ctx context.Context, cat dataset.Category) (*services.ImportanceResult, error)
}
