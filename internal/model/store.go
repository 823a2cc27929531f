package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"scopecli/internal/dataset"
)

// artifactPrefix is the fixed artifact naming convention.
const artifactPrefix = "sales_forecast_"

// Store reads and writes model artifacts in a single directory. Loads are
// cached: serving treats artifacts as read-only for the session, and
// retraining is a separate offline invocation.
type Store struct {
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[dataset.Category]*Artifact
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:    dir,
		logger: logger,
		cache:  make(map[dataset.Category]*Artifact),
	}
}

// Path returns the artifact file path for a category.
func (s *Store) Path(cat dataset.Category) string {
	return filepath.Join(s.dir, artifactPrefix+cat.String()+".json")
}

// Save persists an artifact atomically: the JSON is written to a temp file
// in the same directory and renamed over the target, so a crash mid-write
// never corrupts the served artifact.
func (s *Store) Save(a *Artifact) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid artifact: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create models directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, artifactPrefix+a.Category.String()+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(a); err != nil {
		tmp.Close()
		return fmt.Errorf("encode artifact for %s: %w", a.Category, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}

	target := s.Path(a.Category)
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("replace artifact %s: %w", target, err)
	}

	s.mu.Lock()
	s.cache[a.Category] = a
	s.mu.Unlock()

	s.logger.Info("model artifact saved",
		slog.String("category", a.Category.String()),
		slog.String("path", target),
		slog.Int("rows", a.Rows))
	return nil
}

// Load returns the artifact for a category, reading from disk on first use.
// A missing artifact is a *ModelNotFoundError.
func (s *Store) Load(cat dataset.Category) (*Artifact, error) {
	s.mu.RLock()
	if a, ok := s.cache[cat]; ok {
		s.mu.RUnlock()
		return a, nil
	}
	s.mu.RUnlock()

	path := s.Path(cat)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ModelNotFoundError{Category: cat, Path: path}
		}
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}

	s.mu.Lock()
	s.cache[cat] = &a
	s.mu.Unlock()
	return &a, nil
}

// List returns the artifacts present on disk, in category order. Categories
// without an artifact are skipped.
func (s *Store) List() ([]*Artifact, error) {
	var out []*Artifact
	for _, cat := range dataset.Categories() {
		a, err := s.Load(cat)
		if err != nil {
			var notFound *ModelNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
