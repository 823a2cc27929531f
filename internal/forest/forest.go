package forest

import (
	"fmt"
	"math/rand"
)

// Params controls forest fitting. A zero MaxDepth means unlimited depth and
// a zero MaxFeatures means every feature is considered at each split.
type Params struct {
	NumTrees        int   `json:"num_trees"`
	MaxDepth        int   `json:"max_depth"`
	MinSamplesSplit int   `json:"min_samples_split"`
	MinSamplesLeaf  int   `json:"min_samples_leaf"`
	MaxFeatures     int   `json:"max_features"`
	Seed            int64 `json:"seed"`
}

// DefaultParams returns the original training configuration.
func DefaultParams() Params {
	return Params{
		NumTrees:        100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Seed:            42,
	}
}

// Validate checks parameter sanity.
func (p Params) Validate() error {
	if p.NumTrees <= 0 {
		return fmt.Errorf("num_trees must be positive, got %d", p.NumTrees)
	}
	if p.MinSamplesSplit < 2 {
		return fmt.Errorf("min_samples_split must be at least 2, got %d", p.MinSamplesSplit)
	}
	if p.MinSamplesLeaf < 1 {
		return fmt.Errorf("min_samples_leaf must be at least 1, got %d", p.MinSamplesLeaf)
	}
	return nil
}

// Forest is a fitted regression random forest. The struct is JSON-friendly
// so artifacts can be persisted as flat files.
type Forest struct {
	Params      Params  `json:"params"`
	NumFeatures int     `json:"num_features"`
	Trees       []*Node `json:"trees"`

	// importance holds the normalized mean impurity decrease per feature,
	// accumulated at fit time.
	FeatureImportance []float64 `json:"feature_importance"`
}

// Fit trains a forest on the given matrix. Each tree is grown on a
// bootstrap sample drawn from a tree-specific seeded RNG, so fitting is
// fully deterministic for fixed inputs and params.
func Fit(x [][]float64, y []float64, params Params) (*Forest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("training data mismatch: %d rows, %d targets", len(x), len(y))
	}
	if len(x) < params.MinSamplesSplit {
		return nil, fmt.Errorf("insufficient training data: %d rows", len(x))
	}
	numFeatures := len(x[0])
	for i, row := range x {
		if len(row) != numFeatures {
			return nil, fmt.Errorf("ragged feature matrix at row %d: %d != %d", i, len(row), numFeatures)
		}
	}

	f := &Forest{
		Params:            params,
		NumFeatures:       numFeatures,
		Trees:             make([]*Node, params.NumTrees),
		FeatureImportance: make([]float64, numFeatures),
	}

	for t := 0; t < params.NumTrees; t++ {
		rng := rand.New(rand.NewSource(params.Seed + int64(t)))
		sample := bootstrapSample(len(x), rng)
		builder := &treeBuilder{
			x:           x,
			y:           y,
			params:      params,
			rng:         rng,
			numFeatures: numFeatures,
			importance:  make([]float64, numFeatures),
		}
		f.Trees[t] = builder.build(sample, 0)
		for i, imp := range builder.importance {
			f.FeatureImportance[i] += imp
		}
	}

	normalize(f.FeatureImportance)
	return f, nil
}

// Predict returns the ensemble mean for one feature row.
func (f *Forest) Predict(x []float64) float64 {
	var sum float64
	for _, tree := range f.Trees {
		sum += tree.Predict(x)
	}
	return sum / float64(len(f.Trees))
}

// TreePredictions returns every individual tree's prediction for one
// feature row. The spread of these values drives confidence bands.
func (f *Forest) TreePredictions(x []float64) []float64 {
	out := make([]float64, len(f.Trees))
	for i, tree := range f.Trees {
		out[i] = tree.Predict(x)
	}
	return out
}

// Importance returns the normalized impurity-decrease importance per
// feature. The values sum to 1 unless no split was ever made.
func (f *Forest) Importance() []float64 {
	out := make([]float64, len(f.FeatureImportance))
	copy(out, f.FeatureImportance)
	return out
}

func bootstrapSample(n int, rng *rand.Rand) []int {
	sample := make([]int, n)
	for i := range sample {
		sample[i] = rng.Intn(n)
	}
	return sample
}

func normalize(values []float64) {
	var total float64
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
