package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"scopecli/internal/config"
	"scopecli/internal/dataset"
	"scopecli/internal/exporter"
	"scopecli/internal/features"
	"scopecli/internal/forecast"
	"scopecli/internal/infrastructure"
	"scopecli/internal/model"
)

func main() {
	out := flag.String("out", "", "output CSV path (defaults to data/"+config.ForecastReportFile+")")
	modelsDir := flag.String("models", "", "directory holding trained model artifacts")
	factorsPath := flag.String("factors", "", "path to external factors CSV")
	salesPath := flag.String("sales", "", "path to sales CSV, used to anchor the forecast start date")
	horizon := flag.Int("horizon", config.DefaultForecastHorizonDays, "forecast horizon in days")
	confidence := flag.Float64("confidence", config.DefaultConfidenceInterval, "confidence level for prediction bands")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	paths, err := config.GetPaths()
	if err != nil {
		logger.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *out == "" {
		*out = paths.ForecastCSV
	}
	if *modelsDir == "" {
		*modelsDir = paths.ModelsDir
	}
	if *factorsPath == "" {
		*factorsPath = paths.FactorsCSV
	}
	if *salesPath == "" {
		*salesPath = paths.SalesCSV
	}

	salesRecords, err := dataset.LoadSales(*salesPath)
	if err != nil {
		logger.Error("Failed to load sales data", "error", err)
		os.Exit(1)
	}
	series, err := dataset.BuildDailySeries(salesRecords)
	if err != nil {
		logger.Error("Failed to build daily series", "error", err)
		os.Exit(1)
	}

	factorRecords, err := dataset.LoadFactors(*factorsPath)
	if err != nil {
		logger.Error("Failed to load external factors", "error", err)
		os.Exit(1)
	}
	factorSeries, err := dataset.NewFactorSeries(factorRecords)
	if err != nil {
		logger.Error("Failed to build factor series", "error", err)
		os.Exit(1)
	}

	store := model.NewStore(*modelsDir, logger)
	engine := forecast.NewEngine(store, features.NewBuilder(factorSeries), logger)

	start := series.End().AddDate(0, 0, 1)
	logger.Info("Generating forecast report",
		"start", start.Format(dataset.DateFormat),
		"horizon_days", *horizon,
		"confidence", *confidence)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = infrastructure.EnsureTraceID(ctx)

	var sheets []exporter.ForecastSheet
	for _, cat := range dataset.Categories() {
		points, err := engine.Forecast(ctx, forecast.Request{
			Category:   cat,
			Start:      start,
			Horizon:    *horizon,
			Confidence: *confidence,
		})
		if err != nil {
			var notFound *model.ModelNotFoundError
			if errors.As(err, &notFound) {
				logger.Warn("Skipping untrained category", "category", cat.String())
				continue
			}
			logger.Error("Forecast failed", "category", cat.String(), "error", err)
			os.Exit(1)
		}
		sheets = append(sheets, exporter.ForecastSheet{Category: cat, Points: points})
	}

	if len(sheets) == 0 {
		logger.Error("No trained models found", "models_dir", *modelsDir,
			"hint", "run the trainer first")
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		logger.Error("Failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := exporter.WriteForecastFile(*out, sheets); err != nil {
		logger.Error("Failed to write forecast report", "error", err)
		os.Exit(1)
	}

	logger.Info("Forecast report written",
		"path", *out,
		"categories", len(sheets))
}
