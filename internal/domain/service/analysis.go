package service

import (
	"context"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
)

// IndicatorAnalyzer computes rolling technical indicators over one series.
type IndicatorAnalyzer interface {
	Compute(series models.Series) ([]models.IndicatorSnapshot, error)
	TrendSignals(snap models.IndicatorSnapshot) models.TrendSignals
}

// SeasonalityAnalyzer computes calendar-bucketed return statistics.
type SeasonalityAnalyzer interface {
	Patterns(series models.Series, kind models.BucketKind) (map[int]models.SeasonalPattern, error)
	Heatmap(series models.Series, kind models.BucketKind) (models.HeatmapMatrix, error)
	Summary(patterns map[int]models.SeasonalPattern) models.SeasonalSummary
}

// DirectionPredictor trains a next-bar direction classifier over one series
// and reports the prediction, feature importance, and a backtest.
type DirectionPredictor interface {
	Analyze(ctx context.Context, series models.Series) (*models.PredictiveSection, error)
}
