package dataset

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the canonical date layout for all input files.
const DateFormat = "2006-01-02"

// Category identifies one of the fixed product classes.
type Category string

const (
	CategoryAccessories Category = "accessories"
	CategoryAmmunition  Category = "ammunition"
	CategoryHandguns    Category = "handguns"
	CategoryRifles      Category = "rifles"
	CategoryShotguns    Category = "shotguns"
)

// Categories returns the fixed category set in stable order.
func Categories() []Category {
	return []Category{
		CategoryAccessories,
		CategoryAmmunition,
		CategoryHandguns,
		CategoryRifles,
		CategoryShotguns,
	}
}

// ParseCategory normalizes and validates a category name. Singular spellings
// from older exports ("handgun", "rifle", "shotgun") are accepted.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "accessories", "accessory":
		return CategoryAccessories, nil
	case "ammunition", "ammo":
		return CategoryAmmunition, nil
	case "handguns", "handgun":
		return CategoryHandguns, nil
	case "rifles", "rifle":
		return CategoryRifles, nil
	case "shotguns", "shotgun":
		return CategoryShotguns, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the category is one of the fixed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAccessories, CategoryAmmunition, CategoryHandguns,
		CategoryRifles, CategoryShotguns:
		return true
	}
	return false
}

// SalesRecord is one observed (date, category) sales row. Records are
// immutable once loaded.
type SalesRecord struct {
	Date     time.Time `json:"date"`
	Category Category  `json:"category"`
	Quantity float64   `json:"quantity"`
	Revenue  float64   `json:"revenue"`
}

// IsValid checks basic record sanity.
func (r SalesRecord) IsValid() bool {
	return !r.Date.IsZero() && r.Category.IsValid() && r.Quantity >= 0 && r.Revenue >= 0
}

// FactorRecord is one day's external-factor observation.
type FactorRecord struct {
	Date              time.Time `json:"date"`
	PoliticalClimate  float64   `json:"political_climate"`
	LegislationRisk   float64   `json:"legislation_risk"`
	SeasonalFactor    float64   `json:"seasonal_factor"`
	EconomicIndicator float64   `json:"economic_indicator"`
	PromotionFlag     bool      `json:"promotion_flag"`
}

// DailyPoint is one day of the completed per-category series.
type DailyPoint struct {
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
	Revenue  float64   `json:"revenue"`
}

// DataError reports a missing or malformed input file. Row is 1-based and
// zero when the error is not tied to a specific row.
type DataError struct {
	File   string
	Row    int
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *DataError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("data error in %s row %d: %s", e.File, e.Row, e.Reason)
	}
	return fmt.Sprintf("data error in %s: %s", e.File, e.Reason)
}

// Unwrap returns the underlying cause, if any.
func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a file-level DataError.
func NewDataError(file, reason string, err error) *DataError {
	return &DataError{File: file, Reason: reason, Err: err}
}

// NewRowError creates a row-level DataError.
func NewRowError(file string, row int, reason string, err error) *DataError {
	return &DataError{File: file, Row: row, Reason: reason, Err: err}
}
