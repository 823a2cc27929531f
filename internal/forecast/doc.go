// Package forecast produces per-day sales predictions from trained
// category models, with empirical confidence bands derived from the spread
// of the ensemble's per-tree predictions, plus the granularity aggregation
// used by the dashboard (daily, weekly, monthly group-by-sum).
//
// Forecast results are ephemeral: recomputed per request, never persisted.
package forecast
