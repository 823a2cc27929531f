package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Training TrainingConfig `yaml:"training" envconfig:"TRAINING"`
	Forecast ForecastConfig `yaml:"forecast" envconfig:"FORECAST"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8501"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8501"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ModelsDir     string `yaml:"models_dir" envconfig:"MODELS_DIR" default:"models"`
	WebDir        string `yaml:"web_dir" envconfig:"WEB_DIR" default:"web"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
	SalesFile     string `yaml:"sales_file" envconfig:"SALES_FILE" default:"sales.csv"`
	FactorsFile   string `yaml:"factors_file" envconfig:"FACTORS_FILE" default:"external_factors.csv"`
}

// TrainingConfig contains the random forest hyperparameters
type TrainingConfig struct {
	NumTrees        int   `yaml:"num_trees" envconfig:"NUM_TREES" default:"100"`
	MaxDepth        int   `yaml:"max_depth" envconfig:"MAX_DEPTH" default:"0"`
	MinSamplesSplit int   `yaml:"min_samples_split" envconfig:"MIN_SAMPLES_SPLIT" default:"2"`
	MinSamplesLeaf  int   `yaml:"min_samples_leaf" envconfig:"MIN_SAMPLES_LEAF" default:"1"`
	Seed            int64 `yaml:"seed" envconfig:"SEED" default:"42"`
	Concurrency     int   `yaml:"concurrency" envconfig:"CONCURRENCY" default:"2"`
}

// ForecastConfig contains the forecast defaults
type ForecastConfig struct {
	DefaultHorizonDays int     `yaml:"default_horizon_days" envconfig:"DEFAULT_HORIZON_DAYS" default:"90"`
	Confidence         float64 `yaml:"confidence" envconfig:"CONFIDENCE" default:"0.90"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Environment variables take precedence over the file
	if err := envconfig.Process("SCOPE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ModelsDir == "" {
		envConfig.Paths.ModelsDir = fileConfig.Paths.ModelsDir
	}
	if envConfig.Training.NumTrees == 0 {
		envConfig.Training.NumTrees = fileConfig.Training.NumTrees
	}
	if envConfig.Training.Seed == 0 {
		envConfig.Training.Seed = fileConfig.Training.Seed
	}
	if envConfig.Forecast.DefaultHorizonDays == 0 {
		envConfig.Forecast.DefaultHorizonDays = fileConfig.Forecast.DefaultHorizonDays
	}
	if envConfig.Forecast.Confidence == 0 {
		envConfig.Forecast.Confidence = fileConfig.Forecast.Confidence
	}
	return envConfig
}

// resolvePaths fills in the executable directory from the centralized
// paths system
func (c *Config) resolvePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	c.Paths.ExecutableDir = paths.ExecutableDir
	return nil
}

// EnsureDirectories creates the data, model, web and log directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.GetDataDir(), c.GetModelsDir(), c.GetWebDir(), c.GetLogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDataDir returns the resolved data directory path
func (c *Config) GetDataDir() string {
	return c.resolve(c.Paths.DataDir)
}

// GetModelsDir returns the resolved model artifact directory path
func (c *Config) GetModelsDir() string {
	return c.resolve(c.Paths.ModelsDir)
}

// GetWebDir returns the resolved web directory path
func (c *Config) GetWebDir() string {
	return c.resolve(c.Paths.WebDir)
}

// GetLogsDir returns the resolved logs directory path
func (c *Config) GetLogsDir() string {
	return c.resolve(c.Paths.LogsDir)
}

// GetSalesFile returns the resolved sales input file path
func (c *Config) GetSalesFile() string {
	if filepath.IsAbs(c.Paths.SalesFile) {
		return c.Paths.SalesFile
	}
	return filepath.Join(c.GetDataDir(), c.Paths.SalesFile)
}

// GetFactorsFile returns the resolved external factors file path
func (c *Config) GetFactorsFile() string {
	if filepath.IsAbs(c.Paths.FactorsFile) {
		return c.Paths.FactorsFile
	}
	return filepath.Join(c.GetDataDir(), c.Paths.FactorsFile)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Paths.ExecutableDir, path)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Training.NumTrees <= 0 {
		return fmt.Errorf("training num_trees must be positive, got %d", c.Training.NumTrees)
	}

	if c.Training.Concurrency <= 0 {
		c.Training.Concurrency = 1
	}

	if c.Forecast.DefaultHorizonDays < 0 || c.Forecast.DefaultHorizonDays > MaxForecastHorizonDays {
		return fmt.Errorf("forecast default horizon must be between 0 and %d days, got %d",
			MaxForecastHorizonDays, c.Forecast.DefaultHorizonDays)
	}

	if c.Forecast.Confidence <= 0 || c.Forecast.Confidence >= 1 {
		return fmt.Errorf("forecast confidence must be in (0, 1), got %g", c.Forecast.Confidence)
	}

	// Logs are always structured JSON
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8501,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8501"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:     "data",
			ModelsDir:   "models",
			WebDir:      "web",
			LogsDir:     "logs",
			SalesFile:   "sales.csv",
			FactorsFile: "external_factors.csv",
		},
		Training: TrainingConfig{
			NumTrees:        100,
			MaxDepth:        0,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			Seed:            42,
			Concurrency:     2,
		},
		Forecast: ForecastConfig{
			DefaultHorizonDays: 90,
			Confidence:         0.90,
		},
	}
}
