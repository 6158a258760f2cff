package models

// Direction labels for predictions and report sentiment.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// Confidence buckets derived from a probability's distance from 0.5.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// PredictionResult is the next-bar directional call.
type PredictionResult struct {
	Prediction       string  `json:"prediction"`
	Probability      float64 `json:"probability"`
	Confidence       string  `json:"confidence"`
	ModelUsed        string  `json:"model_used"`
	FeaturesAnalyzed int     `json:"features_analyzed"`
}

// BacktestResult summarizes a replay of the model over labeled history.
// A trade is any non-neutral prediction; TotalReturn compounds the signed
// realized returns of taken trades.
type BacktestResult struct {
	Accuracy       float64 `json:"accuracy"`
	TotalReturn    float64 `json:"total_return"`
	WinRate        float64 `json:"win_rate"`
	TotalTrades    int     `json:"total_trades"`
	AvgProbability float64 `json:"avg_probability"`
}

// DirectionLabel maps a probability to bullish/bearish/neutral using the
// symmetric 0.55/0.45 dead zone.
func DirectionLabel(p float64) string {
	switch {
	case p > 0.55:
		return SentimentBullish
	case p < 0.45:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

// ConfidenceLabel maps |p-0.5| to a coarse reliability bucket.
func ConfidenceLabel(p float64) string {
	d := p - 0.5
	if d < 0 {
		d = -d
	}
	switch {
	case d > 0.25:
		return ConfidenceHigh
	case d > 0.10:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
