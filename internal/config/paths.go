package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: everything is
// resolved relative to the executable directory, never the current working
// directory, so the binaries behave the same from dev/ and dist/.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ModelsDir     string
	WebDir        string
	StaticDir     string
	LogsDir       string

	// Well-known input files
	SalesCSV   string
	FactorsCSV string

	// Well-known output files
	ForecastCSV string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	exeDir := filepath.Dir(exe)
	dataDir := filepath.Join(exeDir, DefaultDataDir)

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		ModelsDir:     filepath.Join(exeDir, DefaultModelsDir),
		WebDir:        filepath.Join(exeDir, DefaultWebDir),
		StaticDir:     filepath.Join(exeDir, DefaultWebDir, "static"),
		LogsDir:       filepath.Join(exeDir, DefaultLogsDir),

		SalesCSV:    filepath.Join(dataDir, DefaultSalesFile),
		FactorsCSV:  filepath.Join(dataDir, DefaultFactorsFile),
		ForecastCSV: filepath.Join(dataDir, ForecastReportFile),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ModelsDir,
		p.LogsDir,
		p.WebDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
