// Package predictive trains a next-bar direction classifier over one bar
// series: feature engineering, model selection across a closed candidate
// set, a live prediction, feature importance, and a walk-forward style
// backtest over recent history.
package predictive

import (
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	"github.com/davidhchng/Stock-Predictive-Model/internal/services/indicators"
)

// featureNames is the fixed column order of every feature vector.
var featureNames = []string{
	"price_vs_ma5",
	"price_vs_ma20",
	"price_vs_ma50",
	"volatility_ratio",
	"volume_ratio",
	"high_low_range",
	"close_open_range",
	"momentum_5d",
	"momentum_10d",
	"rsi",
	"macd",
	"macd_signal",
	"macd_histogram",
	"bb_position",
	"month",
	"quarter",
	"day_of_week",
	"return_lag_1",
	"return_lag_2",
	"return_lag_3",
	"return_lag_5",
	"volume_lag_1",
	"volume_lag_2",
	"volume_lag_3",
	"volume_lag_5",
}

// Dataset is the engineered training set. Rows are labeled bars oldest
// first; Latest is the final, unlabeled bar's feature vector used for the
// live prediction.
type Dataset struct {
	Names []string
	X     [][]float64
	Y     []int
	// NextReturn[i] is the realized return the label of row i refers to.
	NextReturn []float64
	Dates      []time.Time
	Latest     []float64
}

// buildDataset engineers one feature vector per bar that has every lookback
// attainable. Bars inside the warm-up window are dropped, the final bar
// becomes the unlabeled Latest row, and label[t] = 1 iff close[t+1] >
// close[t].
func buildDataset(series models.Series) *Dataset {
	n := len(series)
	closes := make([]float64, n)
	opens := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range series {
		closes[i] = b.Close
		opens[i] = b.Open
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
	}

	returns := indicators.DailyReturns(closes)
	ma5 := indicators.SMA(closes, 5)
	ma20 := indicators.SMA(closes, 20)
	ma50 := indicators.SMA(closes, 50)
	vol5 := indicators.RollingStd(returns, 5)
	vol20 := indicators.RollingStd(returns, 20)
	volMA20 := indicators.SMA(volumes, 20)
	rsi := indicators.RSI(closes, 14)
	macd, macdSignal := indicators.MACD(closes)
	std20 := indicators.RollingStd(closes, 20)

	ds := &Dataset{Names: featureNames}
	for t := 0; t < n; t++ {
		row, ok := featureRow(t, series[t].Date, closes, opens, highs, lows, volumes,
			returns, ma5, ma20, ma50, vol5, vol20, volMA20, rsi, macd, macdSignal, std20)
		if !ok {
			continue
		}
		if t == n-1 {
			ds.Latest = row
			continue
		}
		ds.X = append(ds.X, row)
		if closes[t+1] > closes[t] {
			ds.Y = append(ds.Y, 1)
		} else {
			ds.Y = append(ds.Y, 0)
		}
		ds.NextReturn = append(ds.NextReturn, closes[t+1]/closes[t]-1)
		ds.Dates = append(ds.Dates, series[t].Date)
	}
	return ds
}

func featureRow(t int, date time.Time,
	closes, opens, highs, lows, volumes,
	returns, ma5, ma20, ma50, vol5, vol20, volMA20, rsi, macd, macdSignal, std20 []float64,
) ([]float64, bool) {
	if t < 10 || t-5 < 1 {
		return nil, false
	}
	for _, v := range []float64{ma5[t], ma20[t], ma50[t], vol5[t], vol20[t], volMA20[t], rsi[t], std20[t]} {
		if !indicators.IsDefined(v) {
			return nil, false
		}
	}
	for _, lag := range []int{1, 2, 3, 5} {
		if !indicators.IsDefined(returns[t-lag]) {
			return nil, false
		}
	}
	// degenerate windows read as a neutral ratio
	volRatio := 1.0
	if vol20[t] != 0 {
		volRatio = vol5[t] / vol20[t]
	}
	volumeRatio := 1.0
	if volMA20[t] != 0 {
		volumeRatio = volumes[t] / volMA20[t]
	}

	bbUpper := ma20[t] + 2*std20[t]
	bbLower := ma20[t] - 2*std20[t]
	bbPos := 0.5
	if bbUpper != bbLower {
		bbPos = (closes[t] - bbLower) / (bbUpper - bbLower)
	}

	row := []float64{
		closes[t]/ma5[t] - 1,
		closes[t]/ma20[t] - 1,
		closes[t]/ma50[t] - 1,
		volRatio,
		volumeRatio,
		(highs[t] - lows[t]) / closes[t],
		(closes[t] - opens[t]) / opens[t],
		closes[t]/closes[t-5] - 1,
		closes[t]/closes[t-10] - 1,
		rsi[t],
		macd[t],
		macdSignal[t],
		macd[t] - macdSignal[t],
		bbPos,
		float64(date.Month()),
		float64((int(date.Month())-1)/3 + 1),
		float64((int(date.Weekday()) + 6) % 7),
		returns[t-1],
		returns[t-2],
		returns[t-3],
		returns[t-5],
		volumes[t-1],
		volumes[t-2],
		volumes[t-3],
		volumes[t-5],
	}
	return row, true
}
