package features

import (
	"fmt"
	"time"

	"scopecli/internal/dataset"
)

// FeatureError reports a date for which no external-factor value can be
// derived, even with the forward-fill fallback.
type FeatureError struct {
	Date   time.Time
	Reason string
}

// Error implements the error interface.
func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature error for %s: %s", e.Date.Format(dataset.DateFormat), e.Reason)
}

// Overrides carries caller-supplied substitutes for external-factor fields,
// used by what-if analysis. Nil fields keep the joined value.
type Overrides struct {
	PoliticalClimate  *float64 `json:"political_climate,omitempty"`
	LegislationRisk   *float64 `json:"legislation_risk,omitempty"`
	SeasonalFactor    *float64 `json:"seasonal_factor,omitempty"`
	EconomicIndicator *float64 `json:"economic_indicator,omitempty"`
	PromotionFlag     *bool    `json:"promotion_flag,omitempty"`
}

// IsZero reports whether no field is overridden.
func (o *Overrides) IsZero() bool {
	return o == nil || (o.PoliticalClimate == nil && o.LegislationRisk == nil &&
		o.SeasonalFactor == nil && o.EconomicIndicator == nil && o.PromotionFlag == nil)
}

// apply substitutes the overridden fields into a factor record.
func (o *Overrides) apply(rec dataset.FactorRecord) dataset.FactorRecord {
	if o == nil {
		return rec
	}
	if o.PoliticalClimate != nil {
		rec.PoliticalClimate = *o.PoliticalClimate
	}
	if o.LegislationRisk != nil {
		rec.LegislationRisk = *o.LegislationRisk
	}
	if o.SeasonalFactor != nil {
		rec.SeasonalFactor = *o.SeasonalFactor
	}
	if o.EconomicIndicator != nil {
		rec.EconomicIndicator = *o.EconomicIndicator
	}
	if o.PromotionFlag != nil {
		rec.PromotionFlag = *o.PromotionFlag
	}
	return rec
}

// Builder encodes feature vectors against a fixed factor series.
type Builder struct {
	factors *dataset.FactorSeries
}

// NewBuilder creates a feature builder over the given factor series.
func NewBuilder(factors *dataset.FactorSeries) *Builder {
	return &Builder{factors: factors}
}

// Vector encodes the feature vector for one date. Overrides, when non-nil,
// replace the joined factor values before encoding; all other derivation is
// unchanged.
func (b *Builder) Vector(date time.Time, ov *Overrides) (Vector, error) {
	rec, ok := b.factors.AsOf(date)
	if !ok {
		return nil, &FeatureError{
			Date: date,
			Reason: fmt.Sprintf("no external factors on or before this date (series starts %s)",
				b.factors.First().Format(dataset.DateFormat)),
		}
	}
	rec = ov.apply(rec)

	v := make(Vector, NumFeatures)
	v[IdxDayOfWeek] = float64(date.Weekday())
	v[IdxDay] = float64(date.Day())
	v[IdxMonth] = float64(date.Month())
	v[IdxQuarter] = float64(Quarter(date))
	v[IdxYear] = float64(date.Year())
	v[IdxIsWeekend] = boolFeature(IsWeekend(date))
	v[IdxIsHoliday] = boolFeature(IsHoliday(date))
	v[IdxIsHuntingSeason] = boolFeature(IsHuntingSeason(date))
	v[IdxPoliticalClimate] = rec.PoliticalClimate
	v[IdxLegislationRisk] = rec.LegislationRisk
	v[IdxSeasonalFactor] = rec.SeasonalFactor
	v[IdxEconomicIndicator] = rec.EconomicIndicator
	v[IdxPromotionFlag] = boolFeature(rec.PromotionFlag)
	return v, nil
}

// Matrix encodes vectors for every date in [from, to], inclusive.
func (b *Builder) Matrix(from, to time.Time, ov *Overrides) ([]Vector, error) {
	var out []Vector
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		v, err := b.Vector(d, ov)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
