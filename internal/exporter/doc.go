// Package exporter provides CSV export functionality for the SCOPE dashboard.
//
// CSVWriter is the core file writer with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility. WriteForecastCSV renders forecast
// points for one or more categories into the long-format report the
// dashboard download and the forecast-report CLI both serve.
//
// Example usage:
//
//	sheets := []exporter.ForecastSheet{{Category: cat, Points: points}}
//	err := exporter.WriteForecastCSV(w, sheets)
package exporter
