package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"scopecli/internal/dataset"
	"scopecli/internal/features"
	"scopecli/internal/forest"
	"scopecli/internal/model"
)

const (
	// MaxHorizonDays caps the forecast window.
	MaxHorizonDays = 90
	// DefaultConfidence is the interval level used when none is given.
	DefaultConfidence = 0.90
)

// Request describes one forecast computation.
type Request struct {
	Category   dataset.Category
	Start      time.Time
	Horizon    int
	Confidence float64

	// Overrides substitutes external-factor values before prediction.
	// When OverrideDates is empty the overrides apply to every day of the
	// horizon; otherwise only to the listed dates.
	Overrides     *features.Overrides
	OverrideDates []time.Time
}

// Point is one forecast day. Bounds are the empirical quantiles of the
// per-tree predictions at the requested confidence level, clamped to zero.
type Point struct {
	Date         time.Time `json:"date"`
	Quantity     float64   `json:"predicted_quantity"`
	QuantityLow  float64   `json:"quantity_low"`
	QuantityHigh float64   `json:"quantity_high"`
	Revenue      float64   `json:"predicted_revenue"`
	RevenueLow   float64   `json:"revenue_low"`
	RevenueHigh  float64   `json:"revenue_high"`
}

// Engine builds feature rows for future dates and queries the loaded
// category models. Models and the factor series are read-only; the engine
// is safe for concurrent request handling.
type Engine struct {
	store   *model.Store
	builder *features.Builder
	logger  *slog.Logger
}

// NewEngine creates a forecast engine.
func NewEngine(store *model.Store, builder *features.Builder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, builder: builder, logger: logger}
}

// Forecast computes one point per day of the horizon, dates strictly
// consecutive from the start date. Horizon zero yields an empty result. A
// category without a trained artifact fails with *model.ModelNotFoundError.
func (e *Engine) Forecast(ctx context.Context, req Request) ([]Point, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	artifact, err := e.store.Load(req.Category)
	if err != nil {
		return nil, err
	}

	e.logger.DebugContext(ctx, "computing forecast",
		slog.String("category", req.Category.String()),
		slog.String("start", req.Start.Format(dataset.DateFormat)),
		slog.Int("horizon_days", req.Horizon),
		slog.Float64("confidence", req.Confidence),
		slog.Bool("what_if", !req.Overrides.IsZero()))

	points := make([]Point, 0, req.Horizon)
	for i := 0; i < req.Horizon; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("forecast cancelled: %w", ctx.Err())
		default:
		}

		date := req.Start.AddDate(0, 0, i)
		vec, err := e.builder.Vector(date, e.overridesFor(req, date))
		if err != nil {
			return nil, err
		}

		p := Point{Date: date}
		p.Quantity, p.QuantityLow, p.QuantityHigh = predictWithBand(artifact.Quantity, vec, req.Confidence)
		p.Revenue, p.RevenueLow, p.RevenueHigh = predictWithBand(artifact.Revenue, vec, req.Confidence)
		points = append(points, p)
	}
	return points, nil
}

// overridesFor returns the request overrides when they apply to this date.
func (e *Engine) overridesFor(req Request, date time.Time) *features.Overrides {
	if req.Overrides.IsZero() {
		return nil
	}
	if len(req.OverrideDates) == 0 {
		return req.Overrides
	}
	for _, d := range req.OverrideDates {
		if d.Equal(date) {
			return req.Overrides
		}
	}
	return nil
}

func validateRequest(req *Request) error {
	if !req.Category.IsValid() {
		return fmt.Errorf("invalid category %q", req.Category)
	}
	if req.Start.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if req.Horizon < 0 || req.Horizon > MaxHorizonDays {
		return fmt.Errorf("horizon must be between 0 and %d days, got %d", MaxHorizonDays, req.Horizon)
	}
	if req.Confidence == 0 {
		req.Confidence = DefaultConfidence
	}
	if req.Confidence <= 0 || req.Confidence >= 1 {
		return fmt.Errorf("confidence must be in (0, 1), got %g", req.Confidence)
	}
	return nil
}

// predictWithBand returns the ensemble mean and the confidence band derived
// from the per-tree prediction spread. Sales cannot go negative, so the
// band is clamped at zero.
func predictWithBand(f *forest.Forest, vec []float64, confidence float64) (mean, low, high float64) {
	mean = f.Predict(vec)
	preds := f.TreePredictions(vec)
	sort.Float64s(preds)

	alpha := (1 - confidence) / 2
	low = quantile(preds, alpha)
	high = quantile(preds, 1-alpha)
	if mean < 0 {
		mean = 0
	}
	if low < 0 {
		low = 0
	}
	if high < 0 {
		high = 0
	}
	return mean, low, high
}

// quantile computes the q-th empirical quantile of a sorted slice with
// linear interpolation between ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(pos)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
