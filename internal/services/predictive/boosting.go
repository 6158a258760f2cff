package predictive

import "math"

// gradientBoosting fits shallow regression trees to logistic residuals.
// The base score is the log-odds of the positive rate and each leaf takes
// a Newton step sum(r) / sum(p(1-p)).
type gradientBoosting struct {
	base       float64
	trees      []*regressionTree
	importance []float64
}

var _ classifier = (*gradientBoosting)(nil)

func newGradientBoosting() *gradientBoosting { return &gradientBoosting{} }

func (g *gradientBoosting) Name() string { return "gradient_boosting" }

func (g *gradientBoosting) Fit(X [][]float64, y []int) error {
	if err := checkLabels(y); err != nil {
		return err
	}
	n := len(X)
	p := len(X[0])

	positive := 0.0
	for _, label := range y {
		positive += float64(label)
	}
	rate := clamp(positive/float64(n), 1e-6, 1-1e-6)
	g.base = math.Log(rate / (1 - rate))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = g.base
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	probs := make([]float64, n)
	residuals := make([]float64, n)
	g.trees = make([]*regressionTree, 0, boostingRounds)
	g.importance = make([]float64, p)
	for round := 0; round < boostingRounds; round++ {
		for i := range scores {
			probs[i] = sigmoid(scores[i])
			residuals[i] = float64(y[i]) - probs[i]
		}
		tree := &regressionTree{
			maxDepth:   boostingDepth,
			minLeaf:    forestMinLeaf,
			importance: g.importance,
			leafValue: func(leafRows []int) float64 {
				var num, den float64
				for _, r := range leafRows {
					num += residuals[r]
					den += probs[r] * (1 - probs[r])
				}
				if den == 0 {
					return 0
				}
				return num / den
			},
		}
		tree.fit(X, residuals, rows)
		g.trees = append(g.trees, tree)
		for i := range scores {
			scores[i] += learningRate * tree.predict(X[i])
		}
	}
	return nil
}

func (g *gradientBoosting) PredictProba(x []float64) float64 {
	score := g.base
	for _, tree := range g.trees {
		score += learningRate * tree.predict(x)
	}
	return sigmoid(score)
}

func (g *gradientBoosting) FeatureImportance() []float64 {
	return normalize(g.importance)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
