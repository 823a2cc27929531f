package model

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"scopecli/internal/dataset"
	"scopecli/internal/features"
	"scopecli/internal/forest"
)

// holdoutFraction is the share of rows held out for metric evaluation,
// matching the original 80/20 split.
const holdoutFraction = 0.2

// Trainer fits one model pair per category and persists the artifacts.
type Trainer struct {
	store  *Store
	params forest.Params
	logger *slog.Logger

	// Concurrency is the number of categories trained in parallel by
	// TrainAll. Categories share no state, so this only bounds CPU use.
	Concurrency int
}

// NewTrainer creates a trainer writing to the given store.
func NewTrainer(store *Store, params forest.Params, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{store: store, params: params, logger: logger, Concurrency: 2}
}

// TrainCategory fits the quantity and revenue forests for one category on
// the completed daily series, evaluates them on a deterministic holdout
// split, and persists the artifact atomically. Nothing is written when any
// step fails.
func (t *Trainer) TrainCategory(ctx context.Context, series *dataset.DailySeries, builder *features.Builder, cat dataset.Category) (*Artifact, error) {
	start := time.Now()
	points := series.ForCategory(cat)
	if len(points) == 0 {
		return nil, fmt.Errorf("no daily series for category %q", cat)
	}

	x := make([][]float64, 0, len(points))
	yQty := make([]float64, 0, len(points))
	yRev := make([]float64, 0, len(points))
	for _, p := range points {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("training cancelled: %w", ctx.Err())
		default:
		}
		vec, err := builder.Vector(p.Date, nil)
		if err != nil {
			return nil, fmt.Errorf("build features for %s: %w", cat, err)
		}
		x = append(x, vec)
		yQty = append(yQty, p.Quantity)
		yRev = append(yRev, p.Revenue)
	}

	t.logger.InfoContext(ctx, "training category models",
		slog.String("category", cat.String()),
		slog.Int("rows", len(x)),
		slog.Int("trees", t.params.NumTrees))

	qtyForest, qtyMetrics, err := t.fitAndEvaluate(x, yQty)
	if err != nil {
		return nil, fmt.Errorf("fit quantity model for %s: %w", cat, err)
	}
	revForest, revMetrics, err := t.fitAndEvaluate(x, yRev)
	if err != nil {
		return nil, fmt.Errorf("fit revenue model for %s: %w", cat, err)
	}

	artifact := &Artifact{
		Category:        cat,
		FeatureNames:    features.Names(),
		Quantity:        qtyForest,
		Revenue:         revForest,
		QuantityMetrics: qtyMetrics,
		RevenueMetrics:  revMetrics,
		Importance:      rankImportance(qtyForest),
		TrainStart:      series.Start(),
		TrainEnd:        series.End(),
		Rows:            len(x),
		TrainedAt:       time.Now().UTC(),
	}

	if err := t.store.Save(artifact); err != nil {
		return nil, err
	}

	t.logger.InfoContext(ctx, "category training complete",
		slog.String("category", cat.String()),
		slog.Float64("quantity_rmse", qtyMetrics.RMSE),
		slog.Float64("quantity_r2", qtyMetrics.R2),
		slog.Float64("revenue_rmse", revMetrics.RMSE),
		slog.String("duration", time.Since(start).String()))
	return artifact, nil
}

// TrainAll trains every category concurrently with a bounded errgroup. The
// first failure cancels the rest; artifacts already saved remain valid.
func (t *Trainer) TrainAll(ctx context.Context, series *dataset.DailySeries, builder *features.Builder) ([]*Artifact, error) {
	categories := dataset.Categories()
	artifacts := make([]*Artifact, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.Concurrency)
	for i, cat := range categories {
		g.Go(func() error {
			a, err := t.TrainCategory(gctx, series, builder, cat)
			if err != nil {
				return err
			}
			artifacts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// fitAndEvaluate evaluates a forest on a seeded 80/20 holdout split, then
// refits on the full data for the persisted model. The holdout metrics
// describe generalization; the served model uses every observation.
func (t *Trainer) fitAndEvaluate(x [][]float64, y []float64) (*forest.Forest, Metrics, error) {
	trainX, trainY, testX, testY := holdoutSplit(x, y, t.params.Seed)

	evalForest, err := forest.Fit(trainX, trainY, t.params)
	if err != nil {
		return nil, Metrics{}, err
	}
	predicted := make([]float64, len(testX))
	for i, row := range testX {
		predicted[i] = evalForest.Predict(row)
	}
	metrics := evaluate(predicted, testY)

	full, err := forest.Fit(x, y, t.params)
	if err != nil {
		return nil, Metrics{}, err
	}
	return full, metrics, nil
}

// holdoutSplit shuffles row indices with the training seed and carves off
// the trailing fraction as the test set.
func holdoutSplit(x [][]float64, y []float64, seed int64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	n := len(x)
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	testSize := int(float64(n) * holdoutFraction)
	if testSize < 1 {
		testSize = 1
	}
	cut := n - testSize

	for i, idx := range perm {
		if i < cut {
			trainX = append(trainX, x[idx])
			trainY = append(trainY, y[idx])
		} else {
			testX = append(testX, x[idx])
			testY = append(testY, y[idx])
		}
	}
	return trainX, trainY, testX, testY
}

// rankImportance converts a forest's importance vector into named weights
// sorted by descending weight.
func rankImportance(f *forest.Forest) []FeatureWeight {
	names := features.Names()
	imp := f.Importance()
	out := make([]FeatureWeight, 0, len(imp))
	for i, w := range imp {
		out = append(out, FeatureWeight{Name: names[i], Weight: w})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}
