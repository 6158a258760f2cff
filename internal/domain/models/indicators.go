package models

import "time"

// IndicatorSnapshot holds the technical indicator values at one bar.
// Pointer fields are nil while their lookback window is unattainable;
// absent is never encoded as zero.
type IndicatorSnapshot struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`

	DailyReturn  *float64 `json:"daily_return,omitempty"`
	Volatility20 *float64 `json:"volatility_20d,omitempty"`

	MA5   *float64 `json:"ma_5,omitempty"`
	MA10  *float64 `json:"ma_10,omitempty"`
	MA20  *float64 `json:"ma_20,omitempty"`
	MA50  *float64 `json:"ma_50,omitempty"`
	MA200 *float64 `json:"ma_200,omitempty"`

	RSI14      *float64 `json:"rsi,omitempty"`
	MACD       *float64 `json:"macd,omitempty"`
	MACDSignal *float64 `json:"macd_signal,omitempty"`
	BBUpper    *float64 `json:"bb_upper,omitempty"`
	BBLower    *float64 `json:"bb_lower,omitempty"`
	StochK     *float64 `json:"stoch_k,omitempty"`
	StochD     *float64 `json:"stoch_d,omitempty"`

	OBV        float64  `json:"obv"`
	VolumeMA20 *float64 `json:"volume_ma,omitempty"`

	PriceVsMA20  *float64 `json:"price_vs_ma20,omitempty"`
	PriceVsMA50  *float64 `json:"price_vs_ma50,omitempty"`
	PriceVsMA200 *float64 `json:"price_vs_ma200,omitempty"`
}

// TrendSignals is the directional read of one IndicatorSnapshot.
// Horizon signs are +1/-1/0; Overall is their arithmetic mean.
type TrendSignals struct {
	Short   int     `json:"ma_trend_short"`
	Medium  int     `json:"ma_trend_medium"`
	Long    int     `json:"ma_trend_long"`
	Overall float64 `json:"overall_trend"`

	RSIOversold   bool `json:"rsi_oversold"`
	RSIOverbought bool `json:"rsi_overbought"`
	MACDBullish   bool `json:"macd_bullish"`
	MACDBearish   bool `json:"macd_bearish"`
}
