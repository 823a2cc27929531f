package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"scopecli/internal/dataset"
	"scopecli/internal/forecast"
)

// ForecastSheet is one category's forecast points for export.
type ForecastSheet struct {
	Category dataset.Category
	Points   []forecast.Point
}

// forecastHeaders is the long-format report layout: one row per
// (date, category) pair.
var forecastHeaders = []string{
	"date",
	"category",
	"predicted_quantity",
	"quantity_low",
	"quantity_high",
	"predicted_revenue",
	"revenue_low",
	"revenue_high",
}

// WriteForecastCSV renders the forecast sheets as CSV, rows ordered by
// category then date.
func WriteForecastCSV(w io.Writer, sheets []ForecastSheet) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(forecastHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, sheet := range sheets {
		for _, p := range sheet.Points {
			record := []string{
				p.Date.Format(dataset.DateFormat),
				sheet.Category.String(),
				formatFloat(p.Quantity),
				formatFloat(p.QuantityLow),
				formatFloat(p.QuantityHigh),
				formatFloat(p.Revenue),
				formatFloat(p.RevenueLow),
				formatFloat(p.RevenueHigh),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write %s row for %s: %w",
					sheet.Category, p.Date.Format(dataset.DateFormat), err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteForecastFile writes the forecast report to a file path, creating
// parent directories as needed.
func WriteForecastFile(path string, sheets []ForecastSheet) error {
	w := NewCSVWriter("")

	records := make([][]string, 0)
	for _, sheet := range sheets {
		for _, p := range sheet.Points {
			records = append(records, []string{
				p.Date.Format(dataset.DateFormat),
				sheet.Category.String(),
				formatFloat(p.Quantity),
				formatFloat(p.QuantityLow),
				formatFloat(p.QuantityHigh),
				formatFloat(p.Revenue),
				formatFloat(p.RevenueLow),
				formatFloat(p.RevenueHigh),
			})
		}
	}

	return w.WriteSimpleCSV(path, forecastHeaders, records)
}
