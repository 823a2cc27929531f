// Package features derives the numeric feature vector for a target date
// from calendar signals and the external-factor series.
//
// Derivation is a pure function of (factor series, date, overrides): the
// same inputs always yield the same vector. External factors are joined by
// date with a forward-fill policy: a date without its own observation reuses
// the most recent earlier one. Dates before the first observation produce a
// *FeatureError, never a silent default.
package features
