package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8501, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 100, cfg.Training.NumTrees)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, 90, cfg.Forecast.DefaultHorizonDays)
	assert.InDelta(t, 0.90, cfg.Forecast.Confidence, 1e-9)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "no trees",
			mutate:  func(c *Config) { c.Training.NumTrees = 0 },
			wantErr: "num_trees must be positive",
		},
		{
			name:    "horizon too long",
			mutate:  func(c *Config) { c.Forecast.DefaultHorizonDays = 120 },
			wantErr: "between 0 and 90",
		},
		{
			name:    "confidence out of range",
			mutate:  func(c *Config) { c.Forecast.Confidence = 1.5 },
			wantErr: "confidence must be in (0, 1)",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestMergeConfigsEnvPrecedence(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Server.Port = 9000
	fileCfg.Training.NumTrees = 250

	envCfg := *Default()
	envCfg.Server.Port = 8501

	merged := mergeConfigs(fileCfg, envCfg)

	// Env value wins where set, file value fills the rest
	assert.Equal(t, 8501, merged.Server.Port)
	assert.Equal(t, 100, merged.Training.NumTrees)

	envCfg.Training.NumTrees = 0
	merged = mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 250, merged.Training.NumTrees)
}

func TestGetSalesFileResolution(t *testing.T) {
	cfg := Default()
	cfg.Paths.ExecutableDir = "/opt/scope"

	assert.Equal(t, "/opt/scope/data/sales.csv", cfg.GetSalesFile())

	cfg.Paths.SalesFile = "/srv/input/sales.xlsx"
	assert.Equal(t, "/srv/input/sales.xlsx", cfg.GetSalesFile())
}
