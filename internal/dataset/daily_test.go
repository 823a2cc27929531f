package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildDailySeries(t *testing.T) {
	records := []SalesRecord{
		{Date: day("2025-03-01"), Category: CategoryHandguns, Quantity: 2, Revenue: 1000},
		{Date: day("2025-03-01"), Category: CategoryHandguns, Quantity: 1, Revenue: 600},
		{Date: day("2025-03-04"), Category: CategoryHandguns, Quantity: 5, Revenue: 2500},
		{Date: day("2025-03-02"), Category: CategoryAmmunition, Quantity: 40, Revenue: 1200},
	}

	series, err := BuildDailySeries(records)
	require.NoError(t, err)

	assert.Equal(t, day("2025-03-01"), series.Start())
	assert.Equal(t, day("2025-03-04"), series.End())
	assert.Equal(t, 4, series.Days())

	handguns := series.ForCategory(CategoryHandguns)
	require.Len(t, handguns, 4, "every calendar day is present")

	// Same-day records are summed.
	assert.Equal(t, 3.0, handguns[0].Quantity)
	assert.Equal(t, 1600.0, handguns[0].Revenue)

	// Gap days are zero-filled, not missing.
	assert.Equal(t, day("2025-03-02"), handguns[1].Date)
	assert.Zero(t, handguns[1].Quantity)
	assert.Zero(t, handguns[2].Quantity)
	assert.Equal(t, 5.0, handguns[3].Quantity)

	// Categories with no records at all still get a complete zero series.
	rifles := series.ForCategory(CategoryRifles)
	require.Len(t, rifles, 4)
	for _, p := range rifles {
		assert.Zero(t, p.Quantity)
	}
}

func TestBuildDailySeriesEmpty(t *testing.T) {
	_, err := BuildDailySeries(nil)
	assert.Error(t, err)
}

func TestDailySeriesRange(t *testing.T) {
	records := []SalesRecord{
		{Date: day("2025-03-01"), Category: CategoryRifles, Quantity: 1, Revenue: 900},
		{Date: day("2025-03-10"), Category: CategoryRifles, Quantity: 2, Revenue: 1800},
	}
	series, err := BuildDailySeries(records)
	require.NoError(t, err)

	window := series.Range(CategoryRifles, day("2025-03-03"), day("2025-03-05"))
	require.Len(t, window, 3)
	assert.Equal(t, day("2025-03-03"), window[0].Date)
	assert.Equal(t, day("2025-03-05"), window[2].Date)

	// Inclusive on both ends.
	full := series.Range(CategoryRifles, day("2025-03-01"), day("2025-03-10"))
	assert.Len(t, full, 10)

	// Outside the observed range.
	assert.Nil(t, series.Range(CategoryRifles, day("2025-04-01"), day("2025-04-10")))
	assert.Nil(t, series.Range(CategoryRifles, day("2025-03-05"), day("2025-03-03")))
}

func TestFactorSeriesAsOf(t *testing.T) {
	records := []FactorRecord{
		{Date: day("2025-03-08"), PoliticalClimate: 0.8},
		{Date: day("2025-03-01"), PoliticalClimate: 0.7},
	}
	series, err := NewFactorSeries(records)
	require.NoError(t, err)

	// Exact hit.
	rec, ok := series.AsOf(day("2025-03-01"))
	require.True(t, ok)
	assert.Equal(t, 0.7, rec.PoliticalClimate)

	// Between observations the earlier record is carried forward.
	rec, ok = series.AsOf(day("2025-03-05"))
	require.True(t, ok)
	assert.Equal(t, 0.7, rec.PoliticalClimate)

	// Past the last observation the final record holds indefinitely.
	rec, ok = series.AsOf(day("2025-12-31"))
	require.True(t, ok)
	assert.Equal(t, 0.8, rec.PoliticalClimate)

	// Before the first observation there is nothing to fill from.
	_, ok = series.AsOf(day("2025-02-28"))
	assert.False(t, ok)
}

func TestFactorSeriesDuplicateDatesKeepLast(t *testing.T) {
	records := []FactorRecord{
		{Date: day("2025-03-01"), PoliticalClimate: 0.1},
		{Date: day("2025-03-01"), PoliticalClimate: 0.9},
	}
	series, err := NewFactorSeries(records)
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())

	rec, ok := series.AsOf(day("2025-03-01"))
	require.True(t, ok)
	assert.Equal(t, 0.9, rec.PoliticalClimate)
}

func TestParseCategory(t *testing.T) {
	cat, err := ParseCategory(" Handguns ")
	require.NoError(t, err)
	assert.Equal(t, CategoryHandguns, cat)

	_, err = ParseCategory("boats")
	assert.Error(t, err)
}
