package predictive

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
)

func syntheticSeries(n int, ret func(i int) float64) models.Series {
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	series := make(models.Series, n)
	price := 100.0
	for i := 0; i < n; i++ {
		if i > 0 {
			price *= 1 + ret(i)
		}
		series[i] = models.Bar{
			Date:     start.AddDate(0, 0, i),
			Open:     price * 0.999,
			High:     price * 1.005,
			Low:      price * 0.995,
			Close:    price,
			AdjClose: price,
			Volume:   1000 + float64(i%7)*50,
		}
	}
	return series
}

func TestAnalyzeConstantUptrend(t *testing.T) {
	series := syntheticSeries(300, func(int) float64 { return 0.01 })

	e := NewEngine(WithSeed(7))
	section, err := e.Analyze(context.Background(), series)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	pred := section.Prediction
	if pred.Probability < 0.9 {
		t.Errorf("probability = %v, want near 1", pred.Probability)
	}
	if pred.Prediction != models.SentimentBullish {
		t.Errorf("prediction = %q, want bullish", pred.Prediction)
	}
	if pred.FeaturesAnalyzed != len(featureNames) {
		t.Errorf("features_analyzed = %d, want %d", pred.FeaturesAnalyzed, len(featureNames))
	}
	if section.Backtest.WinRate != 1 {
		t.Errorf("backtest win_rate = %v, want 1", section.Backtest.WinRate)
	}
	if section.Backtest.Accuracy != 1 {
		t.Errorf("backtest accuracy = %v, want 1", section.Backtest.Accuracy)
	}
	if section.Backtest.TotalReturn <= 0 {
		t.Errorf("total_return = %v, want positive", section.Backtest.TotalReturn)
	}
}

func TestAnalyzeShortSeries(t *testing.T) {
	series := syntheticSeries(60, func(i int) float64 {
		if i%2 == 0 {
			return 0.01
		}
		return -0.008
	})

	_, err := NewEngine().Analyze(context.Background(), series)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	series := syntheticSeries(400, func(i int) float64 {
		return 0.012*math.Sin(float64(i)/3) + 0.001
	})

	run := func() *models.PredictiveSection {
		section, err := NewEngine(WithSeed(42)).Analyze(context.Background(), series)
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		return section
	}
	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs with the same seed diverged")
	}
}

func TestAnalyzeProbabilityBounds(t *testing.T) {
	series := syntheticSeries(350, func(i int) float64 {
		return 0.015 * math.Sin(float64(i)*1.3)
	})

	section, err := NewEngine().Analyze(context.Background(), series)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	p := section.Prediction.Probability
	if p < 0 || p > 1 {
		t.Fatalf("probability out of range: %v", p)
	}
	if got, want := section.Prediction.Prediction, models.DirectionLabel(p); got != want {
		t.Errorf("direction %q inconsistent with probability %v", got, p)
	}
	if got, want := section.Prediction.Confidence, models.ConfidenceLabel(p); got != want {
		t.Errorf("confidence %q inconsistent with probability %v", got, p)
	}
}

func TestAnalyzeRespectsCancellation(t *testing.T) {
	series := syntheticSeries(300, func(int) float64 { return 0.01 })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEngine().Analyze(ctx, series); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFeatureImportanceNormalized(t *testing.T) {
	series := syntheticSeries(400, func(i int) float64 {
		return 0.01*math.Sin(float64(i)/5) - 0.002*float64(i%3-1)
	})

	section, err := NewEngine().Analyze(context.Background(), series)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(section.FeatureImportance) != len(featureNames) {
		t.Fatalf("importance entries = %d, want %d", len(section.FeatureImportance), len(featureNames))
	}
	sum := 0.0
	for name, v := range section.FeatureImportance {
		if v < 0 {
			t.Errorf("negative importance for %s: %v", name, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("importance sum = %v, want 1", sum)
	}
}

func TestBacktestTradeAccounting(t *testing.T) {
	ds := &Dataset{
		X:          [][]float64{{0}, {1}, {2}, {3}},
		Y:          []int{1, 0, 1, 1},
		NextReturn: []float64{0.02, -0.01, 0.03, 0.01},
	}
	model := stubModel{probs: map[float64]float64{0: 0.8, 1: 0.2, 2: 0.5, 3: 0.7}}

	got := runBacktest(model, ds, 0)
	if got.TotalTrades != 3 {
		t.Errorf("total_trades = %d, want 3", got.TotalTrades)
	}
	// row 0 bullish win, row 1 bearish win, row 2 neutral, row 3 bullish win
	if got.WinRate != 1 {
		t.Errorf("win_rate = %v, want 1", got.WinRate)
	}
	want := (1+0.02)*(1+0.01)*(1+0.01) - 1
	if math.Abs(got.TotalReturn-want) > 1e-12 {
		t.Errorf("total_return = %v, want %v", got.TotalReturn, want)
	}
	wantAvg := (0.8 + 0.2 + 0.7) / 3
	if math.Abs(got.AvgProbability-wantAvg) > 1e-12 {
		t.Errorf("avg_probability = %v, want %v", got.AvgProbability, wantAvg)
	}
	// row 2 counts for accuracy (p=0.5 predicts 0, label 1 -> miss)
	if got.Accuracy != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", got.Accuracy)
	}
}

func TestBacktestWindowTruncates(t *testing.T) {
	n := 10
	ds := &Dataset{}
	for i := 0; i < n; i++ {
		ds.X = append(ds.X, []float64{float64(i)})
		ds.Y = append(ds.Y, 1)
		ds.NextReturn = append(ds.NextReturn, 0.01)
	}
	model := constModel(0.9)
	got := runBacktest(model, ds, 4)
	if got.TotalTrades != 4 {
		t.Errorf("total_trades = %d, want 4", got.TotalTrades)
	}
}

func TestSingleClassFallsBackToForest(t *testing.T) {
	series := syntheticSeries(300, func(int) float64 { return 0.01 })
	section, err := NewEngine().Analyze(context.Background(), series)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if section.Prediction.ModelUsed != "random_forest" {
		t.Errorf("model_used = %q, want random_forest", section.Prediction.ModelUsed)
	}
}

type stubModel struct {
	probs map[float64]float64
}

func (s stubModel) Fit([][]float64, []int) error { return nil }
func (s stubModel) PredictProba(x []float64) float64 {
	return s.probs[x[0]]
}
func (s stubModel) Name() string                 { return "stub" }
func (s stubModel) FeatureImportance() []float64 { return nil }

type constModel float64

func (c constModel) Fit([][]float64, []int) error   { return nil }
func (c constModel) PredictProba([]float64) float64 { return float64(c) }
func (c constModel) Name() string                   { return "const" }
func (c constModel) FeatureImportance() []float64   { return nil }
