package dataset

import (
	"sort"
	"time"
)

// DailySeries is the completed per-category daily sales series: one point
// per calendar day per category over the full observed range, gaps filled
// with zeros. It is built once at load time and never mutated.
type DailySeries struct {
	start  time.Time
	end    time.Time
	points map[Category][]DailyPoint
}

// BuildDailySeries aggregates sales records by (date, category) and
// re-indexes them over the min..max date range with zero-filled gaps.
func BuildDailySeries(records []SalesRecord) (*DailySeries, error) {
	if len(records) == 0 {
		return nil, NewDataError("sales", "no sales records to aggregate", nil)
	}

	type key struct {
		date time.Time
		cat  Category
	}
	totals := make(map[key]DailyPoint)
	start, end := records[0].Date, records[0].Date
	for _, r := range records {
		k := key{date: r.Date, cat: r.Category}
		p := totals[k]
		p.Date = r.Date
		p.Quantity += r.Quantity
		p.Revenue += r.Revenue
		totals[k] = p
		if r.Date.Before(start) {
			start = r.Date
		}
		if r.Date.After(end) {
			end = r.Date
		}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	points := make(map[Category][]DailyPoint, len(Categories()))
	for _, cat := range Categories() {
		series := make([]DailyPoint, 0, days)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			p, ok := totals[key{date: d, cat: cat}]
			if !ok {
				p = DailyPoint{Date: d}
			}
			series = append(series, p)
		}
		points[cat] = series
	}

	return &DailySeries{start: start, end: end, points: points}, nil
}

// Start returns the first date of the series.
func (s *DailySeries) Start() time.Time { return s.start }

// End returns the last date of the series.
func (s *DailySeries) End() time.Time { return s.end }

// Days returns the number of calendar days covered.
func (s *DailySeries) Days() int {
	return int(s.end.Sub(s.start).Hours()/24) + 1
}

// ForCategory returns the complete daily series for one category, ordered
// by date. The returned slice must not be modified.
func (s *DailySeries) ForCategory(cat Category) []DailyPoint {
	return s.points[cat]
}

// Range returns the points for a category restricted to [from, to],
// inclusive on both ends.
func (s *DailySeries) Range(cat Category, from, to time.Time) []DailyPoint {
	series := s.points[cat]
	lo := sort.Search(len(series), func(i int) bool { return !series[i].Date.Before(from) })
	hi := sort.Search(len(series), func(i int) bool { return series[i].Date.After(to) })
	if lo >= hi {
		return nil
	}
	return series[lo:hi]
}

// FactorSeries holds the external-factor observations sorted by date and
// answers as-of lookups for the forward-fill policy.
type FactorSeries struct {
	records []FactorRecord
}

// NewFactorSeries sorts the records by date and returns the series.
// Duplicate dates keep the last observation.
func NewFactorSeries(records []FactorRecord) (*FactorSeries, error) {
	if len(records) == 0 {
		return nil, NewDataError("external_factors", "no factor records", nil)
	}
	sorted := make([]FactorRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	deduped := sorted[:0]
	for _, r := range sorted {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(r.Date) {
			deduped[n-1] = r
			continue
		}
		deduped = append(deduped, r)
	}
	return &FactorSeries{records: deduped}, nil
}

// AsOf returns the factor record effective on the given date: the exact
// observation if present, otherwise the most recent earlier one
// (forward-fill). ok is false for dates before the first observation.
func (s *FactorSeries) AsOf(date time.Time) (FactorRecord, bool) {
	idx := sort.Search(len(s.records), func(i int) bool { return s.records[i].Date.After(date) })
	if idx == 0 {
		return FactorRecord{}, false
	}
	return s.records[idx-1], true
}

// First returns the earliest observation date.
func (s *FactorSeries) First() time.Time { return s.records[0].Date }

// Last returns the latest observation date.
func (s *FactorSeries) Last() time.Time { return s.records[len(s.records)-1].Date }

// Len returns the number of distinct observation dates.
func (s *FactorSeries) Len() int { return len(s.records) }
