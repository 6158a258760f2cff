package models

import "time"

// DataPeriod describes the span of bars an analysis consumed.
type DataPeriod struct {
	Start     time.Time `json:"start_date"`
	End       time.Time `json:"end_date"`
	TotalBars int       `json:"total_bars"`
}

// TechnicalSection is the IndicatorEngine output within a report.
type TechnicalSection struct {
	Latest IndicatorSnapshot   `json:"current_indicators"`
	Trend  TrendSignals        `json:"trend_signals"`
	Recent []IndicatorSnapshot `json:"recent,omitempty"` // trailing window for charts
}

// SeasonalitySection is the SeasonalityEngine output within a report.
// Pattern maps are keyed by bucket id and carry only observed buckets.
type SeasonalitySection struct {
	Monthly          map[int]SeasonalPattern `json:"monthly_patterns"`
	Quarterly        map[int]SeasonalPattern `json:"quarterly_patterns"`
	Weekday          map[int]SeasonalPattern `json:"dow_patterns"`
	MonthEnd         map[int]SeasonalPattern `json:"month_end_patterns"`
	HeatmapMonthly   HeatmapMatrix           `json:"heatmap_monthly"`
	HeatmapQuarterly HeatmapMatrix           `json:"heatmap_quarterly"`
	Summary          SeasonalSummary         `json:"summary"`
}

// PredictiveSection is the PredictiveEngine output within a report.
type PredictiveSection struct {
	Prediction        PredictionResult   `json:"next_day_prediction"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	Backtest          BacktestResult     `json:"backtest_results"`
}

// AnalysisSummary is the narrative roll-up of a report.
type AnalysisSummary struct {
	OverallSentiment string   `json:"overall_sentiment"`
	ConfidenceLevel  string   `json:"confidence_level"`
	KeyInsights      []string `json:"key_insights"`
	Recommendations  []string `json:"recommendations"`
	Disclaimer       string   `json:"disclaimer"`
}

// AnalysisReport composes the three engines' typed outputs. A section is nil
// when its engine failed; SectionErrors names which sub-analysis failed and
// why, so a failure is surfaced rather than masked.
type AnalysisReport struct {
	Ticker      string     `json:"ticker"`
	GeneratedAt time.Time  `json:"analysis_date"`
	DataPeriod  DataPeriod `json:"data_period"`

	Technical   *TechnicalSection   `json:"technical_analysis,omitempty"`
	Seasonality *SeasonalitySection `json:"seasonality_analysis,omitempty"`
	Predictive  *PredictiveSection  `json:"predictive_analysis,omitempty"`

	SectionErrors map[string]string `json:"section_errors,omitempty"`

	Summary AnalysisSummary `json:"summary"`
}
