package services

import "errors"

// Service errors
var (
	ErrNoSalesData      = errors.New("no sales data loaded")
	ErrCategoryUnknown  = errors.New("unknown product category")
	ErrEmptyWindow      = errors.New("requested window contains no data")
	ErrInvalidDateRange = errors.New("from date is after to date")
	ErrInvalidInput     = errors.New("invalid input")
)
