// Package forest implements a regression random forest: an ensemble of
// CART regression trees fit on bootstrap samples with variance-reduction
// splits.
//
// The implementation is deliberately self-contained. The forecast layer
// needs the raw per-tree predictions to derive empirical confidence bands,
// seeded determinism so retraining on identical data reproduces identical
// artifacts, and JSON-serializable trees for flat-file persistence; none of
// the available Go ML packages expose all three for regression.
//
// Defaults match the original training configuration: 100 trees, unlimited
// depth, min_samples_split=2, min_samples_leaf=1, seed 42.
package forest
