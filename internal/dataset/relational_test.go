package dataset

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRetailExport(t *testing.T) (transactions, items, products string) {
	t.Helper()

	transactions = writeTempCSV(t, "transactions.csv", `transaction_id,transaction_date
T1,2025-03-01
T2,2025-03-02
`)
	items = writeTempCSV(t, "transaction_items.csv", `transaction_id,product_id,quantity,line_total
T1,P1,2,1100.00
T1,P2,50,1500
T2,P1,1,550.00
`)
	products = writeTempCSV(t, "products.csv", `product_id,category
P1,handguns
P2,ammunition
`)
	return transactions, items, products
}

func TestLoadRetailExport(t *testing.T) {
	tx, items, products := writeRetailExport(t)

	records, err := LoadRetailExport(tx, items, products)
	require.NoError(t, err)
	require.Len(t, records, 3)

	mar1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, SalesRecord{Date: mar1, Category: CategoryHandguns, Quantity: 2, Revenue: 1100}, records[0])
	assert.Equal(t, SalesRecord{Date: mar1, Category: CategoryAmmunition, Quantity: 50, Revenue: 1500}, records[1])
	assert.Equal(t, CategoryHandguns, records[2].Category)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), records[2].Date)
}

func TestLoadRetailExportJoinsFeedDailySeries(t *testing.T) {
	tx, items, products := writeRetailExport(t)

	records, err := LoadRetailExport(tx, items, products)
	require.NoError(t, err)

	series, err := BuildDailySeries(records)
	require.NoError(t, err)
	assert.Equal(t, 2, series.Days())
}

func TestLoadRetailExportErrors(t *testing.T) {
	tx, items, products := writeRetailExport(t)

	t.Run("unknown transaction id", func(t *testing.T) {
		badItems := writeTempCSV(t, "items.csv", `transaction_id,product_id,quantity,line_total
T9,P1,1,10
`)
		_, err := LoadRetailExport(tx, badItems, products)
		var de *DataError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 2, de.Row)
		assert.Contains(t, de.Reason, "T9")
	})

	t.Run("unknown product id", func(t *testing.T) {
		badItems := writeTempCSV(t, "items.csv", `transaction_id,product_id,quantity,line_total
T1,P9,1,10
`)
		_, err := LoadRetailExport(tx, badItems, products)
		var de *DataError
		require.True(t, errors.As(err, &de))
		assert.Contains(t, de.Reason, "P9")
	})

	t.Run("missing items column", func(t *testing.T) {
		badItems := writeTempCSV(t, "items.csv", `transaction_id,product_id,quantity
T1,P1,1
`)
		_, err := LoadRetailExport(tx, badItems, products)
		var de *DataError
		require.True(t, errors.As(err, &de))
		assert.Contains(t, de.Reason, "line_total")
	})

	t.Run("bad category in products", func(t *testing.T) {
		badProducts := writeTempCSV(t, "products.csv", `product_id,category
P1,boats
`)
		_, err := LoadRetailExport(tx, items, badProducts)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRetailExport("no-such-file.csv", items, products)
		assert.Error(t, err)
	})
}
