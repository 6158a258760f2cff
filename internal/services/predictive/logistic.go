package predictive

import "math"

const (
	logisticEpochs = 500
	logisticLR     = 0.1
	logisticL2     = 0.01
)

// logisticRegression is an L2-regularized logistic model trained with full
// batch gradient descent. Features are standardized internally so the
// tree-friendly raw feature scales do not dominate the gradient.
type logisticRegression struct {
	weights []float64
	bias    float64
	mean    []float64
	std     []float64
}

var _ classifier = (*logisticRegression)(nil)

func newLogisticRegression() *logisticRegression { return &logisticRegression{} }

func (l *logisticRegression) Name() string { return "logistic_regression" }

func (l *logisticRegression) Fit(X [][]float64, y []int) error {
	if err := checkLabels(y); err != nil {
		return err
	}
	n := len(X)
	p := len(X[0])

	l.mean = make([]float64, p)
	l.std = make([]float64, p)
	for j := 0; j < p; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += X[i][j]
		}
		l.mean[j] = sum / float64(n)
		var ss float64
		for i := 0; i < n; i++ {
			d := X[i][j] - l.mean[j]
			ss += d * d
		}
		l.std[j] = math.Sqrt(ss / float64(n))
		if l.std[j] == 0 {
			l.std[j] = 1
		}
	}

	Z := make([][]float64, n)
	for i := range X {
		Z[i] = l.standardize(X[i])
	}

	l.weights = make([]float64, p)
	l.bias = 0
	grad := make([]float64, p)
	for epoch := 0; epoch < logisticEpochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i := 0; i < n; i++ {
			z := l.bias
			for j := 0; j < p; j++ {
				z += l.weights[j] * Z[i][j]
			}
			err := sigmoid(z) - float64(y[i])
			for j := 0; j < p; j++ {
				grad[j] += err * Z[i][j]
			}
			gradBias += err
		}
		for j := 0; j < p; j++ {
			grad[j] = grad[j]/float64(n) + logisticL2*l.weights[j]
			l.weights[j] -= logisticLR * grad[j]
		}
		l.bias -= logisticLR * gradBias / float64(n)
	}
	return nil
}

func (l *logisticRegression) PredictProba(x []float64) float64 {
	z := l.bias
	for j, v := range l.standardize(x) {
		z += l.weights[j] * v
	}
	return sigmoid(z)
}

func (l *logisticRegression) FeatureImportance() []float64 {
	abs := make([]float64, len(l.weights))
	for i, w := range l.weights {
		abs[i] = math.Abs(w)
	}
	return normalize(abs)
}

func (l *logisticRegression) standardize(x []float64) []float64 {
	z := make([]float64, len(x))
	for j, v := range x {
		z[j] = (v - l.mean[j]) / l.std[j]
	}
	return z
}
