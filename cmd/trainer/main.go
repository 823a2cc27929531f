package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scopecli/internal/config"
	"scopecli/internal/dataset"
	"scopecli/internal/features"
	"scopecli/internal/forest"
	"scopecli/internal/infrastructure"
	"scopecli/internal/model"
)

func main() {
	salesPath := flag.String("sales", "", "path to sales CSV (defaults to data/sales.csv)")
	factorsPath := flag.String("factors", "", "path to external factors CSV (defaults to data/external_factors.csv)")
	transactionsPath := flag.String("transactions", "", "raw export: transactions file (requires -items and -products)")
	itemsPath := flag.String("items", "", "raw export: transaction items file")
	productsPath := flag.String("products", "", "raw export: products file")
	modelsDir := flag.String("models", "", "output directory for model artifacts (defaults to models/)")
	category := flag.String("category", "", "train a single category instead of all")
	trees := flag.Int("trees", 0, "number of trees per forest (defaults to the configured value)")
	depth := flag.Int("depth", -1, "maximum tree depth, 0 = unlimited (defaults to the configured value)")
	seed := flag.Int64("seed", 0, "random seed for reproducible training (defaults to the configured value)")
	concurrency := flag.Int("concurrency", 0, "categories trained in parallel (defaults to the configured value)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *trees == 0 {
		*trees = cfg.Training.NumTrees
	}
	if *depth < 0 {
		*depth = cfg.Training.MaxDepth
	}
	if *seed == 0 {
		*seed = cfg.Training.Seed
	}
	if *concurrency == 0 {
		*concurrency = cfg.Training.Concurrency
	}

	paths, err := config.GetPaths()
	if err != nil {
		logger.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *salesPath == "" {
		*salesPath = paths.SalesCSV
	}
	if *factorsPath == "" {
		*factorsPath = paths.FactorsCSV
	}
	if *modelsDir == "" {
		*modelsDir = paths.ModelsDir
	}

	// Cancel training cleanly on Ctrl-C; finished artifacts stay on disk.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	start := time.Now()
	logger.Info("Loading datasets",
		"sales", *salesPath,
		"factors", *factorsPath)

	var salesRecords []dataset.SalesRecord
	if *transactionsPath != "" || *itemsPath != "" || *productsPath != "" {
		if *transactionsPath == "" || *itemsPath == "" || *productsPath == "" {
			logger.Error("Raw export mode needs -transactions, -items and -products together")
			os.Exit(1)
		}
		salesRecords, err = dataset.LoadRetailExport(*transactionsPath, *itemsPath, *productsPath)
	} else {
		salesRecords, err = dataset.LoadSales(*salesPath)
	}
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

	logger.Info("Datasets loaded",
		"sales_rows", len(salesRecords),
		"factor_rows", len(factorRecords),
		"start", series.Start().Format(dataset.DateFormat),
		"end", series.End().Format(dataset.DateFormat))

	params := forest.DefaultParams()
	params.NumTrees = *trees
	params.MaxDepth = *depth
	params.MinSamplesSplit = cfg.Training.MinSamplesSplit
	params.MinSamplesLeaf = cfg.Training.MinSamplesLeaf
	params.Seed = *seed

	store := model.NewStore(*modelsDir, logger)
	builder := features.NewBuilder(factorSeries)
	trainer := model.NewTrainer(store, params, logger)
	trainer.Concurrency = *concurrency

	var artifacts []*model.Artifact
	if *category != "" {
		cat, err := dataset.ParseCategory(*category)
		if err != nil {
			logger.Error("Unknown category", "category", *category, "error", err)
			os.Exit(1)
		}
		artifact, err := trainer.TrainCategory(ctx, series, builder, cat)
		if err != nil {
			logger.Error("Training failed", "category", *category, "error", err)
			os.Exit(1)
		}
		artifacts = []*model.Artifact{artifact}
	} else {
		artifacts, err = trainer.TrainAll(ctx, series, builder)
		if err != nil {
			logger.Error("Training failed", "error", err)
			os.Exit(1)
		}
	}

	for _, a := range artifacts {
		fmt.Printf("%-12s rows=%-5d quantity RMSE=%.2f R2=%.3f  revenue RMSE=%.2f R2=%.3f\n",
			a.Category, a.Rows,
			a.QuantityMetrics.RMSE, a.QuantityMetrics.R2,
			a.RevenueMetrics.RMSE, a.RevenueMetrics.R2)
	}

	logger.Info("Training complete",
		"models", len(artifacts),
		"output", *modelsDir,
		"duration", time.Since(start).String())
}
