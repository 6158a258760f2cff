package predictive

import "fmt"

// classifier is the closed candidate set's shared surface.
type classifier interface {
	Fit(X [][]float64, y []int) error
	PredictProba(x []float64) float64
	Name() string
	FeatureImportance() []float64
}

// selectAndTrain fits every candidate on a chronological 80/20 split, keeps
// the one with the best holdout accuracy, then refits it on all labeled
// rows. Ties go to the earlier candidate in the fixed order.
func selectAndTrain(X [][]float64, y []int, seed int64) (classifier, error) {
	split := len(X) * 4 / 5
	trainX, trainY := X[:split], y[:split]
	testX, testY := X[split:], y[split:]

	candidates := []func() classifier{
		func() classifier { return newRandomForest(seed) },
		func() classifier { return newGradientBoosting() },
		func() classifier { return newLogisticRegression() },
	}

	var best classifier
	bestAccuracy := -1.0
	var lastErr error
	for _, make := range candidates {
		model := make()
		if err := model.Fit(trainX, trainY); err != nil {
			lastErr = fmt.Errorf("%s: %w", model.Name(), err)
			continue
		}
		acc := holdoutAccuracy(model, testX, testY)
		if acc > bestAccuracy {
			bestAccuracy = acc
			best = model
		}
	}
	if best == nil {
		return nil, lastErr
	}

	final := rebuild(best, seed)
	if err := final.Fit(X, y); err != nil {
		return nil, fmt.Errorf("%s: %w", final.Name(), err)
	}
	return final, nil
}

func rebuild(model classifier, seed int64) classifier {
	switch model.Name() {
	case "gradient_boosting":
		return newGradientBoosting()
	case "logistic_regression":
		return newLogisticRegression()
	default:
		return newRandomForest(seed)
	}
}

func holdoutAccuracy(model classifier, X [][]float64, y []int) float64 {
	if len(X) == 0 {
		return 0
	}
	correct := 0
	for i, x := range X {
		predicted := 0
		if model.PredictProba(x) > 0.5 {
			predicted = 1
		}
		if predicted == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X))
}
