package forest

import (
	"math/rand"
	"sort"
)

// Node is one node of a regression tree. Leaves have no children and carry
// the mean target value of their training samples. Internal nodes route
// samples with x[Feature] <= Threshold to the left child.
type Node struct {
	Feature   int     `json:"f,omitempty"`
	Threshold float64 `json:"t,omitempty"`
	Value     float64 `json:"v"`
	Left      *Node   `json:"l,omitempty"`
	Right     *Node   `json:"r,omitempty"`
}

// IsLeaf reports whether the node is terminal.
func (n *Node) IsLeaf() bool {
	return n.Left == nil
}

// Predict traverses the tree for one feature row.
func (n *Node) Predict(x []float64) float64 {
	cur := n
	for !cur.IsLeaf() {
		if x[cur.Feature] <= cur.Threshold {
			cur = cur.Left
		} else {
			cur = cur.Right
		}
	}
	return cur.Value
}

// treeBuilder holds the per-tree fitting state.
type treeBuilder struct {
	x           [][]float64
	y           []float64
	params      Params
	rng         *rand.Rand
	numFeatures int
	importance  []float64 // accumulated impurity decrease per feature
}

// build grows a tree from the given sample indices.
func (b *treeBuilder) build(indices []int, depth int) *Node {
	sum, sumSq := momentsOf(b.y, indices)
	n := float64(len(indices))
	mean := sum / n
	node := &Node{Value: mean}

	if len(indices) < b.params.MinSamplesSplit {
		return node
	}
	if b.params.MaxDepth > 0 && depth >= b.params.MaxDepth {
		return node
	}
	parentSSE := sumSq - sum*sum/n
	if parentSSE <= 0 {
		return node // pure node
	}

	feature, threshold, decrease, ok := b.bestSplit(indices, parentSSE)
	if !ok {
		return node
	}

	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, idx := range indices {
		if b.x[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = b.build(left, depth+1)
	node.Right = b.build(right, depth+1)
	b.importance[feature] += decrease
	return node
}

// bestSplit scans a random feature subset for the split with the largest
// SSE reduction. Returns ok=false when no valid split exists.
func (b *treeBuilder) bestSplit(indices []int, parentSSE float64) (feature int, threshold, decrease float64, ok bool) {
	maxFeatures := b.params.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > b.numFeatures {
		maxFeatures = b.numFeatures
	}
	candidates := b.rng.Perm(b.numFeatures)[:maxFeatures]
	sort.Ints(candidates) // stable evaluation order for determinism across runs

	bestDecrease := 0.0
	minLeaf := b.params.MinSamplesLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}

	sorted := make([]int, len(indices))
	for _, f := range candidates {
		copy(sorted, indices)
		sort.SliceStable(sorted, func(i, j int) bool { return b.x[sorted[i]][f] < b.x[sorted[j]][f] })

		totalSum, totalSumSq := momentsOf(b.y, sorted)

		var leftSum, leftSumSq float64
		for i := 0; i < len(sorted)-1; i++ {
			yi := b.y[sorted[i]]
			leftSum += yi
			leftSumSq += yi * yi

			// Only split between distinct feature values.
			cur, next := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
			if cur == next {
				continue
			}
			nLeft := i + 1
			nRight := len(sorted) - nLeft
			if nLeft < minLeaf || nRight < minLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSumSq := totalSumSq - leftSumSq
			sseLeft := leftSumSq - leftSum*leftSum/float64(nLeft)
			sseRight := rightSumSq - rightSum*rightSum/float64(nRight)
			dec := parentSSE - sseLeft - sseRight
			if dec > bestDecrease {
				bestDecrease = dec
				feature = f
				threshold = cur + (next-cur)/2
				ok = true
			}
		}
	}
	return feature, threshold, bestDecrease, ok
}

func momentsOf(y []float64, indices []int) (sum, sumSq float64) {
	for _, idx := range indices {
		sum += y[idx]
		sumSq += y[idx] * y[idx]
	}
	return sum, sumSq
}
