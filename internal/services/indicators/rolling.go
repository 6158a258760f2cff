// Package indicators computes rolling technical indicators over a daily bar
// series. The rolling primitives here are shared with the predictive feature
// builder so both sides agree exactly on the indicator math.
package indicators

import "math"

// Undefined marks positions where a rolling window is not yet attainable.
// It never leaves this package; callers translate it to absent fields.
var Undefined = math.NaN()

// IsDefined reports whether v carries a computed value.
func IsDefined(v float64) bool { return !math.IsNaN(v) }

// SMA computes the simple moving average with window n. Positions with
// fewer than n trailing values are Undefined.
func SMA(xs []float64, n int) []float64 {
	out := make([]float64, len(xs))
	sum := 0.0
	for i, v := range xs {
		sum += v
		if i >= n {
			sum -= xs[i-n]
		}
		if i >= n-1 {
			out[i] = sum / float64(n)
		} else {
			out[i] = Undefined
		}
	}
	return out
}

// EMA computes the exponential moving average with span n, seeded at the
// first value, alpha = 2/(n+1).
func EMA(xs []float64, n int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / (float64(n) + 1.0)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RollingStd computes the trailing sample standard deviation with window n,
// skipping positions whose window contains Undefined values.
func RollingStd(xs []float64, n int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i < n-1 {
			out[i] = Undefined
			continue
		}
		sum, sum2 := 0.0, 0.0
		ok := true
		for j := i - n + 1; j <= i; j++ {
			if !IsDefined(xs[j]) {
				ok = false
				break
			}
			sum += xs[j]
			sum2 += xs[j] * xs[j]
		}
		if !ok {
			out[i] = Undefined
			continue
		}
		mean := sum / float64(n)
		variance := (sum2 - float64(n)*mean*mean) / float64(n-1)
		if variance < 0 {
			variance = 0
		}
		out[i] = math.Sqrt(variance)
	}
	return out
}

// DailyReturns computes r_t = C_t/C_{t-1} - 1 aligned to the close index.
// The first position is Undefined.
func DailyReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}
	out[0] = Undefined
	for i := 1; i < len(closes); i++ {
		out[i] = closes[i]/closes[i-1] - 1
	}
	return out
}

// RSI computes the Wilder-smoothed relative strength index, clamped to
// [0,100]. An all-gain window yields 100 and an all-loss window yields 0.
// Positions before `period` changes have accumulated are Undefined.
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = Undefined
	}
	if len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	v := 100 - 100/(1+rs)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// MACD computes the MACD line (EMA12 - EMA26) and its EMA9 signal line.
func MACD(closes []float64) (macd, signal []float64) {
	fast := EMA(closes, 12)
	slow := EMA(closes, 26)
	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	signal = EMA(macd, 9)
	return macd, signal
}

// Stochastic computes %K over kPeriod bars and %D as the dPeriod moving
// average of %K. A degenerate range (high == low over the window) yields
// %K = 50.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (k, d []float64) {
	k = make([]float64, len(closes))
	for i := range closes {
		if i < kPeriod-1 {
			k[i] = Undefined
			continue
		}
		hi, lo := highs[i], lows[i]
		for j := i - kPeriod + 1; j <= i; j++ {
			if highs[j] > hi {
				hi = highs[j]
			}
			if lows[j] < lo {
				lo = lows[j]
			}
		}
		if hi == lo {
			k[i] = 50
			continue
		}
		k[i] = (closes[i] - lo) / (hi - lo) * 100
	}

	d = make([]float64, len(closes))
	for i := range closes {
		if i < kPeriod-1+dPeriod-1 {
			d[i] = Undefined
			continue
		}
		sum := 0.0
		for j := i - dPeriod + 1; j <= i; j++ {
			sum += k[j]
		}
		d[i] = sum / float64(dPeriod)
	}
	return k, d
}

// OBV computes on-balance volume seeded at 0 on the first bar: volume is
// added on an up close, subtracted on a down close, and skipped on a flat
// close.
func OBV(closes, volumes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volumes[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}
