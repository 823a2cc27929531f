package forecast

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopecli/internal/dataset"
	"scopecli/internal/features"
	"scopecli/internal/forest"
	"scopecli/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(dataset.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastForestParams() forest.Params {
	p := forest.DefaultParams()
	p.NumTrees = 15
	return p
}

// trainedEngine returns an engine backed by a store holding a model for
// the handguns category only.
func trainedEngine(t *testing.T) (*Engine, *features.Builder) {
	t.Helper()

	start := day("2024-01-01")
	var sales []dataset.SalesRecord
	for i := 0; i < 90; i++ {
		d := start.AddDate(0, 0, i)
		sales = append(sales, dataset.SalesRecord{
			Date: d, Category: dataset.CategoryHandguns,
			Quantity: float64(3 + i%5), Revenue: float64((3 + i%5) * 500),
		})
	}
	series, err := dataset.BuildDailySeries(sales)
	require.NoError(t, err)

	factors, err := dataset.NewFactorSeries([]dataset.FactorRecord{
		{Date: start, PoliticalClimate: 0.6, LegislationRisk: 0.3, SeasonalFactor: 1.0, EconomicIndicator: 0.7},
	})
	require.NoError(t, err)
	builder := features.NewBuilder(factors)

	store := model.NewStore(t.TempDir(), testLogger())
	trainer := model.NewTrainer(store, fastForestParams(), testLogger())
	_, err = trainer.TrainCategory(context.Background(), series, builder, dataset.CategoryHandguns)
	require.NoError(t, err)

	return NewEngine(store, builder, testLogger()), builder
}

func TestForecastWindow(t *testing.T) {
	engine, _ := trainedEngine(t)

	start := day("2024-04-01")
	points, err := engine.Forecast(context.Background(), Request{
		Category: dataset.CategoryHandguns,
		Start:    start,
		Horizon:  14,
	})
	require.NoError(t, err)
	require.Len(t, points, 14)

	for i, p := range points {
		assert.Equal(t, start.AddDate(0, 0, i), p.Date, "dates are consecutive from start")
		assert.GreaterOrEqual(t, p.QuantityLow, 0.0)
		assert.LessOrEqual(t, p.QuantityLow, p.QuantityHigh, "band ordering")
		assert.GreaterOrEqual(t, p.Quantity, 0.0)
		assert.GreaterOrEqual(t, p.Revenue, 0.0)
		assert.LessOrEqual(t, p.RevenueLow, p.RevenueHigh)
	}
}

func TestForecastZeroHorizon(t *testing.T) {
	engine, _ := trainedEngine(t)

	points, err := engine.Forecast(context.Background(), Request{
		Category: dataset.CategoryHandguns,
		Start:    day("2024-04-01"),
		Horizon:  0,
	})
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestForecastValidation(t *testing.T) {
	engine, _ := trainedEngine(t)
	base := Request{Category: dataset.CategoryHandguns, Start: day("2024-04-01"), Horizon: 7}

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"invalid category", func(r *Request) { r.Category = "boats" }},
		{"missing start", func(r *Request) { r.Start = time.Time{} }},
		{"horizon too long", func(r *Request) { r.Horizon = MaxHorizonDays + 1 }},
		{"negative horizon", func(r *Request) { r.Horizon = -1 }},
		{"confidence too high", func(r *Request) { r.Confidence = 1.0 }},
		{"confidence negative", func(r *Request) { r.Confidence = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := engine.Forecast(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestForecastUntrainedCategory(t *testing.T) {
	engine, _ := trainedEngine(t)

	_, err := engine.Forecast(context.Background(), Request{
		Category: dataset.CategoryShotguns,
		Start:    day("2024-04-01"),
		Horizon:  7,
	})
	require.Error(t, err)

	var notFound *model.ModelNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, dataset.CategoryShotguns, notFound.Category)
}

func TestForecastWiderConfidenceWidensBand(t *testing.T) {
	engine, _ := trainedEngine(t)
	req := Request{Category: dataset.CategoryHandguns, Start: day("2024-04-01"), Horizon: 1}

	req.Confidence = 0.5
	narrow, err := engine.Forecast(context.Background(), req)
	require.NoError(t, err)

	req.Confidence = 0.95
	wide, err := engine.Forecast(context.Background(), req)
	require.NoError(t, err)

	narrowWidth := narrow[0].QuantityHigh - narrow[0].QuantityLow
	wideWidth := wide[0].QuantityHigh - wide[0].QuantityLow
	assert.GreaterOrEqual(t, wideWidth, narrowWidth)

	// Same confidence, same mean.
	assert.Equal(t, narrow[0].Quantity, wide[0].Quantity)
}

func TestForecastOverridesApplyPerDate(t *testing.T) {
	engine, _ := trainedEngine(t)
	base := Request{Category: dataset.CategoryHandguns, Start: day("2024-04-01"), Horizon: 3}

	baseline, err := engine.Forecast(context.Background(), base)
	require.NoError(t, err)

	// Extreme seasonal override scoped to the middle date only.
	seasonal := 100.0
	scoped := base
	scoped.Overrides = &features.Overrides{SeasonalFactor: &seasonal}
	scoped.OverrideDates = []time.Time{day("2024-04-02")}

	result, err := engine.Forecast(context.Background(), scoped)
	require.NoError(t, err)

	assert.Equal(t, baseline[0].Quantity, result[0].Quantity, "unlisted date unchanged")
	assert.Equal(t, baseline[2].Quantity, result[2].Quantity, "unlisted date unchanged")

	// Without OverrideDates the override covers the whole window.
	global := base
	global.Overrides = &features.Overrides{SeasonalFactor: &seasonal}
	globalResult, err := engine.Forecast(context.Background(), global)
	require.NoError(t, err)
	assert.Equal(t, globalResult[1].Quantity, result[1].Quantity, "listed date matches global override")
}

func TestForecastCancellation(t *testing.T) {
	engine, _ := trainedEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Forecast(ctx, Request{
		Category: dataset.CategoryHandguns,
		Start:    day("2024-04-01"),
		Horizon:  30,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 1.0, quantile(sorted, 0))
	assert.Equal(t, 5.0, quantile(sorted, 1))
	assert.Equal(t, 3.0, quantile(sorted, 0.5))
	assert.InDelta(t, 1.2, quantile(sorted, 0.05), 1e-9)

	assert.Equal(t, 0.0, quantile(nil, 0.5))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.5))
}
