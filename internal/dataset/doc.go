// Package dataset loads retail transaction data and external-factor series
// from flat files into immutable in-memory structures.
//
// Two input layouts are supported:
//
//  1. Flat daily sales: a CSV or Excel table with date, category, quantity
//     and revenue columns.
//  2. Raw retail export: transactions, transaction_items and products files
//     that are joined and aggregated down to the flat daily layout.
//
// Loading is fail-fast: a missing file, missing column or unparseable row
// produces a *DataError naming the offending file and row. There are no
// retries and no silent defaults.
//
// After loading, BuildDailySeries re-indexes the sales over the full
// min..max date range so that every category has exactly one row per
// calendar day, with zero quantity and revenue on days without sales.
package dataset
