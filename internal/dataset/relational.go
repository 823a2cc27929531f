package dataset

import (
	"fmt"
	"time"
)

// LoadRetailExport reads the raw three-file retail export (transactions,
// transaction items, products), joins items to their transaction date and
// product category, and returns flat sales records. One record per item row;
// callers aggregate with BuildDailySeries.
func LoadRetailExport(transactionsPath, itemsPath, productsPath string) ([]SalesRecord, error) {
	txRows, err := readTable(transactionsPath)
	if err != nil {
		return nil, err
	}
	itemRows, err := readTable(itemsPath)
	if err != nil {
		return nil, err
	}
	productRows, err := readTable(productsPath)
	if err != nil {
		return nil, err
	}

	txDates, err := indexTransactionDates(transactionsPath, txRows)
	if err != nil {
		return nil, err
	}
	productCategories, err := indexProductCategories(productsPath, productRows)
	if err != nil {
		return nil, err
	}

	if len(itemRows) < 2 {
		return nil, NewDataError(itemsPath, "file has no data rows", nil)
	}
	h := newHeader(itemRows[0])
	txCol := h.find("transaction_id", "transaction")
	productCol := h.find("product_id", "product")
	qtyCol := h.find("quantity", "quant")
	totalCol := h.find("line_total", "total", "price", "amount")
	switch {
	case txCol < 0:
		return nil, NewDataError(itemsPath, "missing required column: transaction_id", nil)
	case productCol < 0:
		return nil, NewDataError(itemsPath, "missing required column: product_id", nil)
	case qtyCol < 0:
		return nil, NewDataError(itemsPath, "missing required column: quantity", nil)
	case totalCol < 0:
		return nil, NewDataError(itemsPath, "missing required column: line_total", nil)
	}

	records := make([]SalesRecord, 0, len(itemRows)-1)
	for i, row := range itemRows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		txID := cell(row, txCol)
		date, ok := txDates[txID]
		if !ok {
			return nil, NewRowError(itemsPath, rowNum, fmt.Sprintf("unknown transaction_id %q", txID), nil)
		}
		productID := cell(row, productCol)
		cat, ok := productCategories[productID]
		if !ok {
			return nil, NewRowError(itemsPath, rowNum, fmt.Sprintf("unknown product_id %q", productID), nil)
		}
		qty, err := parseFloat(cell(row, qtyCol))
		if err != nil {
			return nil, NewRowError(itemsPath, rowNum, "bad quantity value", err)
		}
		total, err := parseFloat(cell(row, totalCol))
		if err != nil {
			return nil, NewRowError(itemsPath, rowNum, "bad line_total value", err)
		}
		records = append(records, SalesRecord{Date: date, Category: cat, Quantity: qty, Revenue: total})
	}
	if len(records) == 0 {
		return nil, NewDataError(itemsPath, "file has no data rows", nil)
	}
	return records, nil
}

func indexTransactionDates(path string, rows [][]string) (map[string]time.Time, error) {
	if len(rows) < 2 {
		return nil, NewDataError(path, "file has no data rows", nil)
	}
	h := newHeader(rows[0])
	idCol := h.find("transaction_id", "id")
	dateCol := h.find("date", "time")
	if idCol < 0 {
		return nil, NewDataError(path, "missing required column: transaction_id", nil)
	}
	if dateCol < 0 {
		return nil, NewDataError(path, "missing required column: transaction_date", nil)
	}

	dates := make(map[string]time.Time, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		date, err := parseDate(cell(row, dateCol))
		if err != nil {
			return nil, NewRowError(path, i+2, fmt.Sprintf("bad date %q", cell(row, dateCol)), err)
		}
		dates[cell(row, idCol)] = date
	}
	return dates, nil
}

func indexProductCategories(path string, rows [][]string) (map[string]Category, error) {
	if len(rows) < 2 {
		return nil, NewDataError(path, "file has no data rows", nil)
	}
	h := newHeader(rows[0])
	idCol := h.find("product_id", "id")
	catCol := h.find("category", "categ")
	if idCol < 0 {
		return nil, NewDataError(path, "missing required column: product_id", nil)
	}
	if catCol < 0 {
		return nil, NewDataError(path, "missing required column: category", nil)
	}

	categories := make(map[string]Category, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		cat, err := ParseCategory(cell(row, catCol))
		if err != nil {
			return nil, NewRowError(path, i+2, err.Error(), err)
		}
		categories[cell(row, idCol)] = cat
	}
	return categories, nil
}
