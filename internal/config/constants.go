package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "SCOPE Analytics"
	AppVersion = "1.2.0"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Forecast limits
	MaxForecastHorizonDays     = 90
	DefaultForecastHorizonDays = 90
	DefaultConfidenceInterval  = 0.90

	// Network Timeouts
	DefaultHTTPTimeout     = 30 * time.Second
	TrainingTimeout        = 30 * time.Minute
	ReportGenerationTimeout = 5 * time.Minute

	// File Paths (relative to executable)
	DefaultDataDir   = "data"
	DefaultModelsDir = "models"
	DefaultLogsDir   = "logs"
	DefaultWebDir    = "web"

	// Well-known file names
	DefaultSalesFile    = "sales.csv"
	DefaultFactorsFile  = "external_factors.csv"
	ForecastReportFile  = "sales_forecast_next_90_days.csv"
	ModelArtifactSuffix = ".json"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// API Endpoints (internal)
	APIBasePath        = "/api"
	HealthEndpoint     = "/api/health"
	SalesEndpoint      = "/api/sales"
	ComparisonEndpoint = "/api/sales/comparison"
	ForecastEndpoint   = "/api/forecast"
	ModelsEndpoint     = "/api/models"
	ExportEndpoint     = "/api/export/forecast.csv"
	MetricsEndpoint    = "/metrics"
)
