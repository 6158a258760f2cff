package predictive

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
)

const (
	forestTrees    = 50
	forestDepth    = 5
	forestMinLeaf  = 5
	boostingRounds = 60
	boostingDepth  = 3
	learningRate   = 0.1
)

// randomForest is a bagged ensemble of regression trees over 0/1 labels;
// each leaf holds its positive fraction and the ensemble averages them.
type randomForest struct {
	seed       int64
	trees      []*regressionTree
	importance []float64
}

var _ classifier = (*randomForest)(nil)

func newRandomForest(seed int64) *randomForest { return &randomForest{seed: seed} }

func (f *randomForest) Name() string { return "random_forest" }

// Fit accepts a single-class label set: the ensemble then degenerates to
// constant leaves, which is the right answer for a one-directional series.
func (f *randomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training set: %w", models.ErrModelTraining)
	}
	p := len(X[0])
	targets := make([]float64, len(y))
	for i, label := range y {
		targets[i] = float64(label)
	}

	rng := rand.New(rand.NewSource(f.seed))
	mtry := int(math.Sqrt(float64(p)))
	if mtry < 1 {
		mtry = 1
	}

	f.trees = make([]*regressionTree, 0, forestTrees)
	f.importance = make([]float64, p)
	for i := 0; i < forestTrees; i++ {
		rows := make([]int, len(X))
		for j := range rows {
			rows[j] = rng.Intn(len(X))
		}
		tree := &regressionTree{
			maxDepth:   forestDepth,
			minLeaf:    forestMinLeaf,
			mtry:       mtry,
			rng:        rng,
			importance: f.importance,
		}
		tree.fit(X, targets, rows)
		f.trees = append(f.trees, tree)
	}
	return nil
}

func (f *randomForest) PredictProba(x []float64) float64 {
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predict(x)
	}
	return clampProb(sum / float64(len(f.trees)))
}

func (f *randomForest) FeatureImportance() []float64 {
	return normalize(f.importance)
}

// checkLabels rejects degenerate label sets that gradient-based fits cannot
// handle. The random forest does not use it.
func checkLabels(y []int) error {
	if len(y) == 0 {
		return fmt.Errorf("empty label set: %w", models.ErrModelTraining)
	}
	for _, v := range y[1:] {
		if v != y[0] {
			return nil
		}
	}
	return fmt.Errorf("single-class label distribution: %w", models.ErrModelTraining)
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func normalize(xs []float64) []float64 {
	out := make([]float64, len(xs))
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	if sum == 0 {
		return out
	}
	for i, v := range xs {
		out[i] = v / sum
	}
	return out
}
