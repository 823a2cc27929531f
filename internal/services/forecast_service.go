package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"scopecli/internal/config"
	"scopecli/internal/dataset"
	"scopecli/internal/exporter"
	"scopecli/internal/features"
	"scopecli/internal/forecast"
	"scopecli/internal/model"
)

// ForecastService serves the forecast and what-if tabs. Forecasts are
// computed per request from the trained category models and never cached:
// an override request must not leak into the next one.
type ForecastService struct {
	engine   *forecast.Engine
	series   *dataset.DailySeries
	defaults config.ForecastConfig
	logger   *slog.Logger
}

// NewForecastService creates a new forecast service
func NewForecastService(engine *forecast.Engine, series *dataset.DailySeries, defaults config.ForecastConfig, logger *slog.Logger) *ForecastService {
	return &ForecastService{
		engine:   engine,
		series:   series,
		defaults: defaults,
		logger:   logger,
	}
}

// ForecastRequest is the API-facing forecast request. Start defaults to the
// day after the last observed sales date, Horizon and Confidence to the
// configured defaults.
type ForecastRequest struct {
	Category      dataset.Category
	Start         time.Time
	Horizon       int
	Confidence    float64
	Granularity   forecast.Granularity
	Overrides     *features.Overrides
	OverrideDates []time.Time
}

// ForecastResult carries the daily points plus the aggregated view the
// dashboard charts.
type ForecastResult struct {
	Category    dataset.Category  `json:"category"`
	Start       time.Time         `json:"start"`
	Horizon     int               `json:"horizon_days"`
	Confidence  float64           `json:"confidence"`
	Granularity string            `json:"granularity"`
	Points      []forecast.Point  `json:"points"`
	Buckets     []forecast.Bucket `json:"buckets"`
	WhatIf      bool              `json:"what_if"`
}

// Forecast computes a forecast window for one category.
func (s *ForecastService) Forecast(ctx context.Context, req ForecastRequest) (*ForecastResult, error) {
	if req.Start.IsZero() {
		req.Start = s.defaultStart()
	}
	if req.Horizon == 0 {
		req.Horizon = s.defaults.DefaultHorizonDays
	}
	if req.Confidence == 0 {
		req.Confidence = s.defaults.Confidence
	}
	g := req.Granularity
	if g == "" {
		g = forecast.Daily
	}

	points, err := s.engine.Forecast(ctx, forecast.Request{
		Category:      req.Category,
		Start:         req.Start,
		Horizon:       req.Horizon,
		Confidence:    req.Confidence,
		Overrides:     req.Overrides,
		OverrideDates: req.OverrideDates,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]forecast.Row, 0, len(points))
	for _, p := range points {
		rows = append(rows, forecast.Row{Date: p.Date, Quantity: p.Quantity, Revenue: p.Revenue})
	}

	return &ForecastResult{
		Category:    req.Category,
		Start:       req.Start,
		Horizon:     req.Horizon,
		Confidence:  req.Confidence,
		Granularity: string(g),
		Points:      points,
		Buckets:     forecast.Aggregate(rows, g),
		WhatIf:      !req.Overrides.IsZero(),
	}, nil
}

// ExportCSV writes the default-horizon forecast for every category as CSV.
// Categories without a trained model are skipped with a warning, so a
// partially trained installation still produces a report.
func (s *ForecastService) ExportCSV(ctx context.Context, w io.Writer) error {
	start := s.defaultStart()
	horizon := s.defaults.DefaultHorizonDays

	sheets := make([]exporter.ForecastSheet, 0, len(dataset.Categories()))
	for _, cat := range dataset.Categories() {
		points, err := s.engine.Forecast(ctx, forecast.Request{
			Category:   cat,
			Start:      start,
			Horizon:    horizon,
			Confidence: s.defaults.Confidence,
		})
		if err != nil {
			var notFound *model.ModelNotFoundError
			if errors.As(err, &notFound) {
				s.logger.WarnContext(ctx, "skipping untrained category in export",
					slog.String("category", cat.String()))
				continue
			}
			return fmt.Errorf("forecast %s: %w", cat, err)
		}
		sheets = append(sheets, exporter.ForecastSheet{Category: cat, Points: points})
	}

	if len(sheets) == 0 {
		return fmt.Errorf("no trained models available for export")
	}

	return exporter.WriteForecastCSV(w, sheets)
}

// defaultStart returns the day after the last observed sales date, or
// today when no sales data is loaded.
func (s *ForecastService) defaultStart() time.Time {
	if s.series != nil {
		return s.series.End().AddDate(0, 0, 1)
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
