package predictive

import (
	"context"
	"fmt"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/service"
)

var _ service.DirectionPredictor = (*Engine)(nil)

// Engine runs the full predictive pipeline: features, model selection,
// live prediction, importance and backtest. A fixed seed makes repeated
// runs over identical input reproducible.
type Engine struct {
	seed            int64
	minTrainingBars int
	backtestWindow  int
}

type Option func(*Engine)

func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

func WithMinTrainingBars(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minTrainingBars = n
		}
	}
}

func WithBacktestWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.backtestWindow = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		seed:            42,
		minTrainingBars: 100,
		backtestWindow:  252,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze trains on all labeled rows, predicts the bar after the last one,
// and backtests over recent history. It fails fast with ErrInsufficientData
// below the labeled-row minimum and with ErrModelTraining when no candidate
// fits; no default probability is ever substituted.
func (e *Engine) Analyze(ctx context.Context, series models.Series) (*models.PredictiveSection, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	ds := buildDataset(series)
	if len(ds.X) < e.minTrainingBars {
		return nil, fmt.Errorf("predictive: %d labeled bars, need %d: %w",
			len(ds.X), e.minTrainingBars, models.ErrInsufficientData)
	}
	if ds.Latest == nil {
		return nil, fmt.Errorf("predictive: latest bar has unattainable lookbacks: %w",
			models.ErrInsufficientData)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := selectAndTrain(ds.X, ds.Y, e.seed)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := model.PredictProba(ds.Latest)
	section := &models.PredictiveSection{
		Prediction: models.PredictionResult{
			Prediction:       models.DirectionLabel(p),
			Probability:      p,
			Confidence:       models.ConfidenceLabel(p),
			ModelUsed:        model.Name(),
			FeaturesAnalyzed: len(ds.Names),
		},
		FeatureImportance: importanceMap(ds.Names, model.FeatureImportance()),
		Backtest:          runBacktest(model, ds, e.backtestWindow),
	}
	return section, nil
}

func importanceMap(names []string, scores []float64) map[string]float64 {
	out := make(map[string]float64, len(names))
	for i, name := range names {
		if i < len(scores) {
			out[name] = scores[i]
		}
	}
	return out
}
