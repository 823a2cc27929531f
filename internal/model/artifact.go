package model

import (
	"fmt"
	"time"

	"scopecli/internal/dataset"
	"scopecli/internal/forest"
)

// Metrics holds holdout evaluation results for one regression target.
type Metrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// FeatureWeight pairs a feature name with its importance weight.
type FeatureWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Artifact is one category's trained model pair plus training metadata.
// Artifacts are replaced wholesale on retraining, never mutated.
type Artifact struct {
	Category     dataset.Category `json:"category"`
	FeatureNames []string         `json:"feature_names"`
	Quantity     *forest.Forest   `json:"quantity"`
	Revenue      *forest.Forest   `json:"revenue"`

	QuantityMetrics Metrics `json:"quantity_metrics"`
	RevenueMetrics  Metrics `json:"revenue_metrics"`

	// Importance is the quantity forest's ranked feature importance;
	// quantity is the dashboard's primary target.
	Importance []FeatureWeight `json:"importance"`

	TrainStart time.Time `json:"train_start"`
	TrainEnd   time.Time `json:"train_end"`
	Rows       int       `json:"rows"`
	TrainedAt  time.Time `json:"trained_at"`
}

// Validate checks that a loaded artifact is servable.
func (a *Artifact) Validate() error {
	if !a.Category.IsValid() {
		return fmt.Errorf("artifact has invalid category %q", a.Category)
	}
	if a.Quantity == nil || a.Revenue == nil {
		return fmt.Errorf("artifact for %s is missing a fitted forest", a.Category)
	}
	if len(a.FeatureNames) != a.Quantity.NumFeatures {
		return fmt.Errorf("artifact for %s: %d feature names but forest expects %d",
			a.Category, len(a.FeatureNames), a.Quantity.NumFeatures)
	}
	return nil
}

// ModelNotFoundError reports a forecast request for a category that has no
// trained artifact.
type ModelNotFoundError struct {
	Category dataset.Category
	Path     string
}

// Error implements the error interface.
func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("no trained model for category %q (expected artifact at %s)", e.Category, e.Path)
}
