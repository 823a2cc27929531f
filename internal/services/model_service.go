package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scopecli/internal/dataset"
	"scopecli/internal/model"
)

// ModelService exposes the trained artifact inventory and per-category
// feature importance for the dashboard.
type ModelService struct {
	store  *model.Store
	logger *slog.Logger
}

// NewModelService creates a new model service
func NewModelService(store *model.Store, logger *slog.Logger) *ModelService {
	return &ModelService{
		store:  store,
		logger: logger,
	}
}

// ModelInfo summarizes one trained category model.
type ModelInfo struct {
	Category        dataset.Category `json:"category"`
	TrainedAt       time.Time        `json:"trained_at"`
	TrainStart      time.Time        `json:"train_start"`
	TrainEnd        time.Time        `json:"train_end"`
	Rows            int              `json:"rows"`
	QuantityMetrics model.Metrics    `json:"quantity_metrics"`
	RevenueMetrics  model.Metrics    `json:"revenue_metrics"`
}

// ImportanceResult carries the ranked feature weights for one category.
type ImportanceResult struct {
	Category dataset.Category      `json:"category"`
	Features []model.FeatureWeight `json:"features"`
}

// List returns a summary of every trained model, ordered by category.
func (s *ModelService) List(ctx context.Context) ([]ModelInfo, error) {
	artifacts, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	infos := make([]ModelInfo, 0, len(artifacts))
	for _, a := range artifacts {
		infos = append(infos, ModelInfo{
			Category:        a.Category,
			TrainedAt:       a.TrainedAt,
			TrainStart:      a.TrainStart,
			TrainEnd:        a.TrainEnd,
			Rows:            a.Rows,
			QuantityMetrics: a.QuantityMetrics,
			RevenueMetrics:  a.RevenueMetrics,
		})
	}

	s.logger.DebugContext(ctx, "model inventory served", slog.Int("models", len(infos)))
	return infos, nil
}

// Importance returns the ranked feature importances for one category.
// A category without a trained artifact fails with *model.ModelNotFoundError.
func (s *ModelService) Importance(ctx context.Context, cat dataset.Category) (*ImportanceResult, error) {
	if !cat.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrCategoryUnknown, cat)
	}

	artifact, err := s.store.Load(cat)
	if err != nil {
		return nil, err
	}

	return &ImportanceResult{
		Category: cat,
		Features: artifact.Importance,
	}, nil
}
