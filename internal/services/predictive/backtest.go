package predictive

import "github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"

// runBacktest replays the trained model over the trailing `window` labeled
// rows. Accuracy counts every evaluated row; a trade is any non-neutral
// direction, wins require the direction to match the realized label, and
// total return compounds the signed realized return of each trade.
func runBacktest(model classifier, ds *Dataset, window int) models.BacktestResult {
	n := len(ds.X)
	start := 0
	if window > 0 && n > window {
		start = n - window
	}
	evaluated := n - start

	var result models.BacktestResult
	if evaluated == 0 {
		return result
	}

	correct := 0
	wins := 0
	probSum := 0.0
	compounded := 1.0
	for i := start; i < n; i++ {
		p := model.PredictProba(ds.X[i])
		predicted := 0
		if p > 0.5 {
			predicted = 1
		}
		if predicted == ds.Y[i] {
			correct++
		}

		direction := models.DirectionLabel(p)
		if direction == models.SentimentNeutral {
			continue
		}
		result.TotalTrades++
		probSum += p

		realized := ds.NextReturn[i]
		signed := realized
		if direction == models.SentimentBearish {
			signed = -realized
		}
		compounded *= 1 + signed
		if (direction == models.SentimentBullish && ds.Y[i] == 1) ||
			(direction == models.SentimentBearish && ds.Y[i] == 0) {
			wins++
		}
	}

	result.Accuracy = float64(correct) / float64(evaluated)
	if result.TotalTrades > 0 {
		result.WinRate = float64(wins) / float64(result.TotalTrades)
		result.AvgProbability = probSum / float64(result.TotalTrades)
		result.TotalReturn = compounded - 1
	}
	return result
}
