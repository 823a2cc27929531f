package features

// Feature indices into a Vector. The order is part of the model artifact
// contract: artifacts record the names and refuse to serve a mismatch.
const (
	IdxDayOfWeek = iota
	IdxDay
	IdxMonth
	IdxQuarter
	IdxYear
	IdxIsWeekend
	IdxIsHoliday
	IdxIsHuntingSeason
	IdxPoliticalClimate
	IdxLegislationRisk
	IdxSeasonalFactor
	IdxEconomicIndicator
	IdxPromotionFlag

	NumFeatures
)

// Vector is one encoded feature row, ordered per the Idx constants.
type Vector []float64

var featureNames = []string{
	"day_of_week",
	"day",
	"month",
	"quarter",
	"year",
	"is_weekend",
	"is_holiday",
	"is_hunting_season",
	"political_climate",
	"legislation_risk",
	"seasonal_factor",
	"economic_indicator",
	"promotion_flag",
}

// Names returns the canonical feature names in vector order.
func Names() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}
