package services

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
	"scopecli/internal/forecast"
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

// testSeries covers 14 days for handguns and rifles; the other categories
// stay at zero through series completion.
func testSeries(t *testing.T) *dataset.DailySeries {
	t.Helper()

	start := day("2025-01-06")
	var records []dataset.SalesRecord
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i)
		records = append(records,
			dataset.SalesRecord{Date: d, Category: dataset.CategoryHandguns, Quantity: 4, Revenue: 2000},
			dataset.SalesRecord{Date: d, Category: dataset.CategoryRifles, Quantity: 2, Revenue: 3000},
		)
	}
	series, err := dataset.BuildDailySeries(records)
	require.NoError(t, err)
	return series
}

func TestSalesServiceCoverage(t *testing.T) {
	svc := NewSalesService(testSeries(t), testLogger())

	cov, err := svc.Coverage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, day("2025-01-06"), cov.Start)
	assert.Equal(t, day("2025-01-19"), cov.End)
	assert.Equal(t, 14, cov.Days)
	assert.Contains(t, cov.Categories, "handguns")
	assert.Len(t, cov.Categories, len(dataset.Categories()))
}

func TestSalesServiceCoverageNoData(t *testing.T) {
	svc := NewSalesService(nil, testLogger())

	_, err := svc.Coverage(context.Background())
	assert.ErrorIs(t, err, ErrNoSalesData)
}

func TestSalesServiceHistory(t *testing.T) {
	svc := NewSalesService(testSeries(t), testLogger())

	t.Run("defaults to full range daily", func(t *testing.T) {
		res, err := svc.History(context.Background(), HistoryRequest{Category: dataset.CategoryHandguns})
		require.NoError(t, err)

		assert.Equal(t, "daily", res.Granularity)
		assert.Equal(t, day("2025-01-06"), res.From)
		assert.Equal(t, day("2025-01-19"), res.To)
		require.Len(t, res.Buckets, 14)
		assert.Equal(t, 4.0, res.Buckets[0].Quantity)
	})

	t.Run("weekly aggregation", func(t *testing.T) {
		res, err := svc.History(context.Background(), HistoryRequest{
			Category:    dataset.CategoryHandguns,
			Granularity: forecast.Weekly,
		})
		require.NoError(t, err)

		require.Len(t, res.Buckets, 2)
		assert.Equal(t, day("2025-01-06"), res.Buckets[0].Start)
		assert.Equal(t, 28.0, res.Buckets[0].Quantity)
	})

	t.Run("window clips points", func(t *testing.T) {
		res, err := svc.History(context.Background(), HistoryRequest{
			Category: dataset.CategoryRifles,
			From:     day("2025-01-10"),
			To:       day("2025-01-12"),
		})
		require.NoError(t, err)
		assert.Len(t, res.Buckets, 3)
	})

	t.Run("zero-filled category still served", func(t *testing.T) {
		res, err := svc.History(context.Background(), HistoryRequest{Category: dataset.CategoryShotguns})
		require.NoError(t, err)
		require.Len(t, res.Buckets, 14)
		assert.Equal(t, 0.0, res.Buckets[0].Quantity)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := svc.History(context.Background(), HistoryRequest{Category: "boats"})
		assert.ErrorIs(t, err, ErrCategoryUnknown)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := svc.History(context.Background(), HistoryRequest{
			Category: dataset.CategoryHandguns,
			From:     day("2025-01-12"),
			To:       day("2025-01-10"),
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("window outside data", func(t *testing.T) {
		_, err := svc.History(context.Background(), HistoryRequest{
			Category: dataset.CategoryHandguns,
			From:     day("2026-01-01"),
			To:       day("2026-01-31"),
		})
		assert.ErrorIs(t, err, ErrEmptyWindow)
	})
}

func TestSalesServiceComparison(t *testing.T) {
	svc := NewSalesService(testSeries(t), testLogger())

	totals, err := svc.Comparison(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, totals, len(dataset.Categories()))

	byCat := make(map[dataset.Category]CategoryTotals)
	var shareSum float64
	for _, ct := range totals {
		byCat[ct.Category] = ct
		shareSum += ct.RevenueShare
	}

	assert.Equal(t, 56.0, byCat[dataset.CategoryHandguns].Quantity)
	assert.Equal(t, 28000.0, byCat[dataset.CategoryHandguns].Revenue)
	assert.Equal(t, 4.0, byCat[dataset.CategoryHandguns].DailyAverage)
	assert.Equal(t, 0.0, byCat[dataset.CategoryAccessories].Revenue)
	assert.InDelta(t, 28000.0/70000.0, byCat[dataset.CategoryHandguns].RevenueShare, 1e-9)
	assert.InDelta(t, 1.0, shareSum, 1e-9)
}

func TestSalesServiceComparisonInvertedRange(t *testing.T) {
	svc := NewSalesService(testSeries(t), testLogger())

	_, err := svc.Comparison(context.Background(), day("2025-01-12"), day("2025-01-10"))
	assert.True(t, errors.Is(err, ErrInvalidDateRange))
}
