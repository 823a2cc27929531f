package forecast

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Granularity selects the bucket size for time-series aggregation.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity accepts the dashboard's granularity names,
// case-insensitively. An empty value defaults to daily.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Row is one dated observation fed into aggregation, either historical or
// forecast output.
type Row struct {
	Date     time.Time
	Quantity float64
	Revenue  float64
}

// Bucket is one aggregated period. Start is the first day of the period:
// the day itself for daily, Monday for weekly, the first of the month for
// monthly.
type Bucket struct {
	Start    time.Time `json:"period_start"`
	Quantity float64   `json:"total_quantity"`
	Revenue  float64   `json:"total_revenue"`
}

// Aggregate groups rows into period buckets and sums quantity and revenue
// within each. Input order is preserved per period; buckets come out in
// chronological order. Totals are invariant across granularities.
func Aggregate(rows []Row, g Granularity) []Bucket {
	byStart := make(map[time.Time]*Bucket)
	order := make([]time.Time, 0)

	for _, r := range rows {
		start := bucketStart(r.Date, g)
		b, ok := byStart[start]
		if !ok {
			b = &Bucket{Start: start}
			byStart[start] = b
			order = append(order, start)
		}
		b.Quantity += r.Quantity
		b.Revenue += r.Revenue
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })
	out := make([]Bucket, 0, len(order))
	for _, start := range order {
		out = append(out, *byStart[start])
	}
	return out
}

// bucketStart truncates a date to its period start.
func bucketStart(d time.Time, g Granularity) time.Time {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case Weekly:
		// ISO weeks start on Monday.
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}
