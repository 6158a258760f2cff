package predictive

import (
	"math/rand"
	"sort"
)

// regressionTree is a variance-reduction CART tree fit on float targets.
// The random forest uses it with 0/1 targets so leaves hold the positive
// fraction; gradient boosting fits it on residuals and replaces each leaf
// with a Newton step via leafValue.
type regressionTree struct {
	maxDepth int
	minLeaf  int
	// mtry is the number of features sampled per split; 0 means all.
	mtry int
	rng  *rand.Rand
	// leafValue overrides the leaf mean when set.
	leafValue func(rows []int) float64

	root *treeNode
	// importance accumulates impurity reduction per feature during fit;
	// the caller provides and owns the slice.
	importance []float64
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func (t *regressionTree) fit(X [][]float64, targets []float64, rows []int) {
	t.root = t.build(X, targets, rows, 0)
}

func (t *regressionTree) predict(x []float64) float64 {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func (t *regressionTree) build(X [][]float64, targets []float64, rows []int, depth int) *treeNode {
	if depth >= t.maxDepth || len(rows) < 2*t.minLeaf || pure(targets, rows) {
		return t.makeLeaf(targets, rows)
	}

	feature, threshold, gain := t.bestSplit(X, targets, rows)
	if gain <= 0 {
		return t.makeLeaf(targets, rows)
	}
	t.importance[feature] += gain

	var left, right []int
	for _, r := range rows {
		if X[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) < t.minLeaf || len(right) < t.minLeaf {
		return t.makeLeaf(targets, rows)
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.build(X, targets, left, depth+1),
		right:     t.build(X, targets, right, depth+1),
	}
}

func (t *regressionTree) makeLeaf(targets []float64, rows []int) *treeNode {
	if t.leafValue != nil {
		return &treeNode{leaf: true, value: t.leafValue(rows)}
	}
	sum := 0.0
	for _, r := range rows {
		sum += targets[r]
	}
	return &treeNode{leaf: true, value: sum / float64(len(rows))}
}

// bestSplit scans candidate features with a sorted sweep and returns the
// split with the largest sum-of-squares reduction.
func (t *regressionTree) bestSplit(X [][]float64, targets []float64, rows []int) (feature int, threshold, gain float64) {
	feature = -1
	features := t.candidateFeatures(len(X[0]))

	var total, total2 float64
	for _, r := range rows {
		total += targets[r]
		total2 += targets[r] * targets[r]
	}
	n := float64(len(rows))
	parentSS := total2 - total*total/n

	order := make([]int, len(rows))
	for _, f := range features {
		copy(order, rows)
		sort.Slice(order, func(i, j int) bool { return X[order[i]][f] < X[order[j]][f] })

		var leftSum, leftSum2 float64
		for i := 0; i < len(order)-1; i++ {
			y := targets[order[i]]
			leftSum += y
			leftSum2 += y * y
			if X[order[i]][f] == X[order[i+1]][f] {
				continue
			}
			nl := float64(i + 1)
			nr := n - nl
			if int(nl) < t.minLeaf || int(nr) < t.minLeaf {
				continue
			}
			leftSS := leftSum2 - leftSum*leftSum/nl
			rightSum := total - leftSum
			rightSS := (total2 - leftSum2) - rightSum*rightSum/nr
			g := parentSS - leftSS - rightSS
			if g > gain {
				gain = g
				feature = f
				threshold = (X[order[i]][f] + X[order[i+1]][f]) / 2
			}
		}
	}
	if feature < 0 {
		return 0, 0, 0
	}
	return feature, threshold, gain
}

func (t *regressionTree) candidateFeatures(p int) []int {
	if t.mtry <= 0 || t.mtry >= p {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := t.rng.Perm(p)
	return perm[:t.mtry]
}

func pure(targets []float64, rows []int) bool {
	for _, r := range rows[1:] {
		if targets[r] != targets[rows[0]] {
			return false
		}
	}
	return true
}
