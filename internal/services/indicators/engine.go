package indicators

import (
	"fmt"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/service"
)

var _ service.IndicatorAnalyzer = (*Engine)(nil)

// Engine computes per-bar indicator snapshots and trend signals.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Compute produces one snapshot per bar, oldest first. It needs at least
// two bars; long-window fields stay nil until their lookback is attainable.
func (e *Engine) Compute(series models.Series) ([]models.IndicatorSnapshot, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if len(series) < 2 {
		return nil, fmt.Errorf("indicators: %d bars: %w", len(series), models.ErrInsufficientData)
	}

	n := len(series)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range series {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
	}

	returns := DailyReturns(closes)
	vol20 := RollingStd(returns, 20)
	ma5 := SMA(closes, 5)
	ma10 := SMA(closes, 10)
	ma20 := SMA(closes, 20)
	ma50 := SMA(closes, 50)
	ma200 := SMA(closes, 200)
	rsi := RSI(closes, 14)
	macd, macdSignal := MACD(closes)
	std20 := RollingStd(closes, 20)
	stochK, stochD := Stochastic(highs, lows, closes, 14, 3)
	obv := OBV(closes, volumes)
	volMA20 := SMA(volumes, 20)

	out := make([]models.IndicatorSnapshot, n)
	for i := range series {
		snap := models.IndicatorSnapshot{
			Date:   series[i].Date,
			Close:  closes[i],
			Volume: volumes[i],
			OBV:    obv[i],

			DailyReturn:  ptr(returns[i]),
			Volatility20: ptr(vol20[i]),
			MA5:          ptr(ma5[i]),
			MA10:         ptr(ma10[i]),
			MA20:         ptr(ma20[i]),
			MA50:         ptr(ma50[i]),
			MA200:        ptr(ma200[i]),
			RSI14:        ptr(rsi[i]),
			MACD:         ptr(macd[i]),
			MACDSignal:   ptr(macdSignal[i]),
			StochK:       ptr(stochK[i]),
			StochD:       ptr(stochD[i]),
			VolumeMA20:   ptr(volMA20[i]),
		}
		if IsDefined(ma20[i]) && IsDefined(std20[i]) {
			snap.BBUpper = ptr(ma20[i] + 2*std20[i])
			snap.BBLower = ptr(ma20[i] - 2*std20[i])
		}
		snap.PriceVsMA20 = priceVs(closes[i], ma20[i])
		snap.PriceVsMA50 = priceVs(closes[i], ma50[i])
		snap.PriceVsMA200 = priceVs(closes[i], ma200[i])
		out[i] = snap
	}
	return out, nil
}

// TrendSignals derives directional signals from one snapshot. Horizons with
// an unattainable moving average read as flat, and RSI/MACD flags stay false
// when their inputs are absent.
func (e *Engine) TrendSignals(snap models.IndicatorSnapshot) models.TrendSignals {
	var t models.TrendSignals
	t.Short = trendSign(snap.Close, snap.MA20)
	t.Medium = trendSign(snap.Close, snap.MA50)
	t.Long = trendSign(snap.Close, snap.MA200)
	t.Overall = float64(t.Short+t.Medium+t.Long) / 3.0

	if snap.RSI14 != nil {
		t.RSIOversold = *snap.RSI14 < 30
		t.RSIOverbought = *snap.RSI14 > 70
	}
	if snap.MACD != nil && snap.MACDSignal != nil {
		t.MACDBullish = *snap.MACD > *snap.MACDSignal
		t.MACDBearish = !t.MACDBullish
	}
	return t
}

func trendSign(close float64, ma *float64) int {
	if ma == nil {
		return 0
	}
	switch {
	case close > *ma:
		return 1
	case close < *ma:
		return -1
	default:
		return 0
	}
}

func priceVs(close, ma float64) *float64 {
	if !IsDefined(ma) || ma == 0 {
		return nil
	}
	return ptr((close/ma - 1) * 100)
}

func ptr(v float64) *float64 {
	if !IsDefined(v) {
		return nil
	}
	return &v
}
