package dataset

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// readExcelTable extracts the data table from an Excel workbook. The sheet
// holding the data is located by scanning for a header row that mentions a
// date column, since retail exports rarely keep a stable sheet name.
func readExcelTable(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, NewDataError(path, "cannot open workbook", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		if headerRow := findHeaderRow(rows); headerRow >= 0 {
			return rows[headerRow:], nil
		}
	}
	return nil, NewDataError(path, "no sheet with a recognizable header row", nil)
}

// findHeaderRow scans the first few rows for one containing a date column.
// Title rows above the header are tolerated.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		for _, c := range rows[i] {
			if strings.Contains(strings.ToLower(c), "date") {
				return i
			}
		}
	}
	return -1
}
