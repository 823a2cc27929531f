package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// header maps lowercased column names to their index in the input table.
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		h[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return h
}

// find locates a column whose name contains any of the given patterns,
// preferring an exact match. Returns -1 when no column matches.
func (h header) find(patterns ...string) int {
	for _, p := range patterns {
		if i, ok := h[p]; ok {
			return i
		}
	}
	for _, p := range patterns {
		for name, i := range h {
			if strings.Contains(name, p) {
				return i
			}
		}
	}
	return -1
}

// LoadSales reads the flat daily sales table from a CSV or Excel file.
// Required columns: date, category, quantity, revenue.
func LoadSales(path string) ([]SalesRecord, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	return parseSalesRows(path, rows)
}

// LoadFactors reads the external-factor series from a CSV or Excel file.
// Required columns: date, political_climate, legislation_risk,
// seasonal_factor, economic_indicator, promotion_flag.
func LoadFactors(path string) ([]FactorRecord, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, NewDataError(path, "file has no data rows", nil)
	}

	h := newHeader(rows[0])
	dateCol := h.find("date")
	cols := map[string]int{
		"political_climate":  h.find("political"),
		"legislation_risk":   h.find("legislat", "law"),
		"seasonal_factor":    h.find("seasonal"),
		"economic_indicator": h.find("economic"),
		"promotion_flag":     h.find("promot"),
	}
	if dateCol < 0 {
		return nil, NewDataError(path, "missing required column: date", nil)
	}
	for name, idx := range cols {
		if idx < 0 {
			return nil, NewDataError(path, "missing required column: "+name, nil)
		}
	}

	records := make([]FactorRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		date, err := parseDate(cell(row, dateCol))
		if err != nil {
			return nil, NewRowError(path, rowNum, fmt.Sprintf("bad date %q", cell(row, dateCol)), err)
		}
		rec := FactorRecord{Date: date}
		if rec.PoliticalClimate, err = parseFloat(cell(row, cols["political_climate"])); err != nil {
			return nil, NewRowError(path, rowNum, "bad political_climate value", err)
		}
		if rec.LegislationRisk, err = parseFloat(cell(row, cols["legislation_risk"])); err != nil {
			return nil, NewRowError(path, rowNum, "bad legislation_risk value", err)
		}
		if rec.SeasonalFactor, err = parseFloat(cell(row, cols["seasonal_factor"])); err != nil {
			return nil, NewRowError(path, rowNum, "bad seasonal_factor value", err)
		}
		if rec.EconomicIndicator, err = parseFloat(cell(row, cols["economic_indicator"])); err != nil {
			return nil, NewRowError(path, rowNum, "bad economic_indicator value", err)
		}
		if rec.PromotionFlag, err = parseBool(cell(row, cols["promotion_flag"])); err != nil {
			return nil, NewRowError(path, rowNum, "bad promotion_flag value", err)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, NewDataError(path, "file has no data rows", nil)
	}
	return records, nil
}

// parseSalesRows converts a raw table (header row first) into sales records.
func parseSalesRows(path string, rows [][]string) ([]SalesRecord, error) {
	if len(rows) < 2 {
		return nil, NewDataError(path, "file has no data rows", nil)
	}

	h := newHeader(rows[0])
	dateCol := h.find("date", "time")
	catCol := h.find("category", "categ")
	qtyCol := h.find("quantity", "quant")
	revCol := h.find("revenue", "total", "amount")
	switch {
	case dateCol < 0:
		return nil, NewDataError(path, "missing required column: date", nil)
	case catCol < 0:
		return nil, NewDataError(path, "missing required column: category", nil)
	case qtyCol < 0:
		return nil, NewDataError(path, "missing required column: quantity", nil)
	case revCol < 0:
		return nil, NewDataError(path, "missing required column: revenue", nil)
	}

	records := make([]SalesRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		date, err := parseDate(cell(row, dateCol))
		if err != nil {
			return nil, NewRowError(path, rowNum, fmt.Sprintf("bad date %q", cell(row, dateCol)), err)
		}
		cat, err := ParseCategory(cell(row, catCol))
		if err != nil {
			return nil, NewRowError(path, rowNum, err.Error(), err)
		}
		qty, err := parseFloat(cell(row, qtyCol))
		if err != nil {
			return nil, NewRowError(path, rowNum, "bad quantity value", err)
		}
		rev, err := parseFloat(cell(row, revCol))
		if err != nil {
			return nil, NewRowError(path, rowNum, "bad revenue value", err)
		}
		rec := SalesRecord{Date: date, Category: cat, Quantity: qty, Revenue: rev}
		if !rec.IsValid() {
			return nil, NewRowError(path, rowNum, "negative quantity or revenue", nil)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, NewDataError(path, "file has no data rows", nil)
	}
	return records, nil
}

// readTable reads an entire tabular file into rows of strings, dispatching
// on extension. CSV is the primary format; .xlsx goes through excelize.
func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return readExcelTable(path)
	default:
		return readCSVTable(path)
	}
}

func readCSVTable(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewDataError(path, "cannot open file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, NewDataError(path, "malformed CSV", err)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseDate accepts the canonical layout plus common timestamp variants
// seen in retail exports.
func parseDate(s string) (time.Time, error) {
	layouts := []string{DateFormat, "2006-01-02 15:04:05", time.RFC3339, "01/02/2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, fmt.Errorf("empty boolean value")
	}
	switch strings.ToLower(s) {
	case "1", "true", "t", "yes", "y":
		return true, nil
	case "0", "false", "f", "no", "n":
		return false, nil
	}
	// Promotion flags sometimes arrive as numeric intensity; anything
	// positive counts as a promotion day.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false, fmt.Errorf("unparseable boolean %q", s)
	}
	return f > 0, nil
}
