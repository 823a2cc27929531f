package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scopecli/internal/dataset"
	"scopecli/internal/forecast"
)

// SalesService serves the historical sales and category comparison tabs
// from the in-memory daily series.
type SalesService struct {
	series *dataset.DailySeries
	logger *slog.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(series *dataset.DailySeries, logger *slog.Logger) *SalesService {
	return &SalesService{
		series: series,
		logger: logger,
	}
}

// HistoryRequest selects a window of historical sales for one category.
// Zero From/To default to the full observed range.
type HistoryRequest struct {
	Category    dataset.Category
	From        time.Time
	To          time.Time
	Granularity forecast.Granularity
}

// HistoryResult is an aggregated historical window.
type HistoryResult struct {
	Category    dataset.Category   `json:"category"`
	Granularity string             `json:"granularity"`
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	Buckets     []forecast.Bucket  `json:"buckets"`
}

// CategoryTotals is one row of the category comparison tab.
type CategoryTotals struct {
	Category     dataset.Category `json:"category"`
	Quantity     float64          `json:"total_quantity"`
	Revenue      float64          `json:"total_revenue"`
	RevenueShare float64          `json:"revenue_share"`
	DailyAverage float64          `json:"daily_average_quantity"`
}

// CoverageSummary describes the loaded dataset.
type CoverageSummary struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Days       int       `json:"days"`
	Categories []string  `json:"categories"`
}

// Coverage returns the observed date range of the loaded sales data.
func (s *SalesService) Coverage(ctx context.Context) (*CoverageSummary, error) {
	if s.series == nil {
		return nil, ErrNoSalesData
	}
	cats := dataset.Categories()
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.String())
	}
	return &CoverageSummary{
		Start:      s.series.Start(),
		End:        s.series.End(),
		Days:       s.series.Days(),
		Categories: names,
	}, nil
}

// History returns the aggregated sales history for one category.
func (s *SalesService) History(ctx context.Context, req HistoryRequest) (*HistoryResult, error) {
	if s.series == nil {
		return nil, ErrNoSalesData
	}
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrCategoryUnknown, req.Category)
	}

	from, to := req.From, req.To
	if from.IsZero() {
		from = s.series.Start()
	}
	if to.IsZero() {
		to = s.series.End()
	}
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}

	g := req.Granularity
	if g == "" {
		g = forecast.Daily
	}

	points := s.series.Range(req.Category, from, to)
	if len(points) == 0 {
		return nil, ErrEmptyWindow
	}

	rows := make([]forecast.Row, 0, len(points))
	for _, p := range points {
		rows = append(rows, forecast.Row{Date: p.Date, Quantity: p.Quantity, Revenue: p.Revenue})
	}

	s.logger.DebugContext(ctx, "sales history served",
		slog.String("category", req.Category.String()),
		slog.String("granularity", string(g)),
		slog.Int("days", len(points)))

	return &HistoryResult{
		Category:    req.Category,
		Granularity: string(g),
		From:        from,
		To:          to,
		Buckets:     forecast.Aggregate(rows, g),
	}, nil
}

// Comparison returns per-category totals over a window, for the category
// comparison tab. Zero From/To default to the full range.
func (s *SalesService) Comparison(ctx context.Context, from, to time.Time) ([]CategoryTotals, error) {
	if s.series == nil {
		return nil, ErrNoSalesData
	}

	if from.IsZero() {
		from = s.series.Start()
	}
	if to.IsZero() {
		to = s.series.End()
	}
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}

	totals := make([]CategoryTotals, 0, len(dataset.Categories()))
	var grandRevenue float64
	for _, cat := range dataset.Categories() {
		points := s.series.Range(cat, from, to)
		t := CategoryTotals{Category: cat}
		for _, p := range points {
			t.Quantity += p.Quantity
			t.Revenue += p.Revenue
		}
		if len(points) > 0 {
			t.DailyAverage = t.Quantity / float64(len(points))
		}
		grandRevenue += t.Revenue
		totals = append(totals, t)
	}

	if grandRevenue > 0 {
		for i := range totals {
			totals[i].RevenueShare = totals[i].Revenue / grandRevenue
		}
	}

	return totals, nil
}
