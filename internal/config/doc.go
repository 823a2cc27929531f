// Package config provides centralized configuration management for the SCOPE
// analytics system. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SCOPE_* for namespacing:
//
//	SCOPE_SERVER_PORT=8501
//	SCOPE_PATHS_DATA_DIR=/var/lib/scope/data
//	SCOPE_TRAINING_NUM_TREES=100
//	SCOPE_LOGGING_LEVEL=info
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	salesPath := paths.SalesCSV
//	modelsDir := paths.ModelsDir
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
