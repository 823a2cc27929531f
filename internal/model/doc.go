// Package model trains and persists the per-category sales models.
//
// Each category owns exactly one current artifact, a JSON file named
// sales_forecast_<category>.json holding a quantity forest, a revenue
// forest, holdout metrics and feature importance. Retraining replaces the
// artifact atomically (write to temp, rename) so a half-written model is
// never served; a failed training leaves the prior artifact untouched.
//
// The Store loads artifacts read-only for serving and answers requests for
// an untrained category with *ModelNotFoundError.
package model
