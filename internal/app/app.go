package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"scopecli/internal/config"
	"scopecli/internal/dataset"
	"scopecli/internal/errors"
	"scopecli/internal/features"
	"scopecli/internal/forecast"
	"scopecli/internal/infrastructure"
	customMiddleware "scopecli/internal/middleware"
	"scopecli/internal/model"
	"scopecli/internal/services"
	handlers "scopecli/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config     *config.Config
	Router     *chi.Mux
	Server     *http.Server
	Logger     *slog.Logger
	Services   *ServiceContainer
	Metrics    *customMiddleware.HTTPMetrics
	FrontendFS fs.FS
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Sales    *services.SalesService
	Forecast *services.ForecastService
	Models   *services.ModelService
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	app := &Application{
		Config:     cfg,
		Logger:     logger,
		Metrics:    customMiddleware.NewHTTPMetrics(),
		FrontendFS: frontendFS,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices loads the datasets and builds the service graph.
// A missing models directory is not fatal: forecasts fail per category
// until the trainer has run.
func (a *Application) initializeServices() error {
	salesPath := a.Config.GetSalesFile()
	factorsPath := a.Config.GetFactorsFile()

	a.Logger.Info("Loading datasets",
		slog.String("sales", salesPath),
		slog.String("factors", factorsPath))

	salesRecords, err := dataset.LoadSales(salesPath)
	if err != nil {
		return fmt.Errorf("failed to load sales data: %w", err)
	}
	series, err := dataset.BuildDailySeries(salesRecords)
	if err != nil {
		return fmt.Errorf("failed to build daily series: %w", err)
	}

	factorRecords, err := dataset.LoadFactors(factorsPath)
	if err != nil {
		return fmt.Errorf("failed to load external factors: %w", err)
	}
	factors, err := dataset.NewFactorSeries(factorRecords)
	if err != nil {
		return fmt.Errorf("failed to build factor series: %w", err)
	}

	a.Logger.Info("Datasets loaded",
		slog.String("start", series.Start().Format(dataset.DateFormat)),
		slog.String("end", series.End().Format(dataset.DateFormat)),
		slog.Int("days", series.Days()),
		slog.Int("sales_rows", len(salesRecords)),
		slog.Int("factor_rows", len(factorRecords)))

	store := model.NewStore(a.Config.GetModelsDir(), a.Logger)
	builder := features.NewBuilder(factors)
	engine := forecast.NewEngine(store, builder, a.Logger)

	a.Services = &ServiceContainer{
		Sales:    services.NewSalesService(series, a.Logger),
		Forecast: services.NewForecastService(engine, series, a.Config.Forecast, a.Logger),
		Models:   services.NewModelService(store, a.Logger),
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(a.Metrics.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(a.getCORSConfig()))

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	a.setupAPIRoutes(r)

	// Prometheus scrape endpoint stays outside the API middleware group.
	r.Handle("/metrics", a.Metrics.Endpoint())

	a.setupStaticRoutes(r)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := errors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
	validator := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.Services.Sales, a.Services.Models, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		salesHandler := handlers.NewSalesHandler(a.Services.Sales, a.Logger, errorHandler)
		r.Mount("/sales", salesHandler.Routes())

		forecastHandler := handlers.NewForecastHandler(a.Services.Forecast, validator, a.Logger, errorHandler)
		r.Mount("/forecast", forecastHandler.Routes())
		r.Get("/export/forecast.csv", forecastHandler.ExportCSV)

		modelHandler := handlers.NewModelHandler(a.Services.Models, a.Logger, errorHandler)
		r.Mount("/models", modelHandler.Routes())

		r.NotFound(errorHandler.NotFound)
		r.MethodNotAllowed(errorHandler.MethodNotAllowed)
	})
}

// setupStaticRoutes serves the embedded dashboard frontend.
func (a *Application) setupStaticRoutes(r chi.Router) {
	if a.FrontendFS == nil {
		return
	}

	fileServer := http.FileServer(http.FS(a.FrontendFS))

	r.Route("/static", func(r chi.Router) {
		r.Use(customMiddleware.Compress(5))
		r.Handle("/*", fileServer)
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		file, err := a.FrontendFS.Open("index.html")
		if err != nil {
			http.Error(w, "dashboard not available", http.StatusServiceUnavailable)
			return
		}
		defer file.Close()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		io.Copy(w, file)
	})
}

// getCORSConfig returns CORS configuration
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	origins := []string{
		fmt.Sprintf("http://localhost:%d", a.Config.Server.Port),
		fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port),
	}
	if a.Config.Security.EnableCORS {
		origins = append(origins, a.Config.Security.AllowedOrigins...)
	}

	return customMiddleware.CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server without blocking.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	infrastructure.CloseLogFile()

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
