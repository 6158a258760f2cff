package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	"github.com/davidhchng/Stock-Predictive-Model/pkg/logger"
)

func f64(v float64) *float64 { return &v }

func testSeries(n int) models.Series {
	series := make(models.Series, 0, n)
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for len(series) < n {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			price *= 1.001
			series = append(series, models.Bar{
				Date: day, Open: price, High: price * 1.01, Low: price * 0.99,
				Close: price, AdjClose: price, Volume: 1e6,
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return series
}

type fakeStore struct {
	series models.Series
	err    error
}

func (s *fakeStore) Init(ctx context.Context) error { return nil }
func (s *fakeStore) GetBars(ctx context.Context, ticker string, from, to time.Time) (models.Series, error) {
	return s.series, s.err
}
func (s *fakeStore) GetAllBars(ctx context.Context, ticker string) (models.Series, error) {
	return s.series, s.err
}
func (s *fakeStore) LatestDate(ctx context.Context, ticker string) (time.Time, error) {
	if len(s.series) == 0 {
		return time.Time{}, models.ErrInsufficientData
	}
	return s.series[len(s.series)-1].Date, nil
}
func (s *fakeStore) StoreBatch(ctx context.Context, ticker string, bars []models.Bar) error {
	return nil
}
func (s *fakeStore) TickersWithData(ctx context.Context) ([]string, error) { return nil, nil }
func (s *fakeStore) Health(ctx context.Context) error                     { return nil }
func (s *fakeStore) Close() error                                         { return nil }

type fakeIndicators struct {
	trend models.TrendSignals
	rsi   *float64
	err   error
}

func (f *fakeIndicators) Compute(series models.Series) ([]models.IndicatorSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snaps := make([]models.IndicatorSnapshot, len(series))
	for i, b := range series {
		snaps[i] = models.IndicatorSnapshot{Date: b.Date, Close: b.Close, Volume: b.Volume}
	}
	snaps[len(snaps)-1].RSI14 = f.rsi
	return snaps, nil
}

func (f *fakeIndicators) TrendSignals(snap models.IndicatorSnapshot) models.TrendSignals {
	return f.trend
}

type fakeSeasonality struct{}

func (fakeSeasonality) Patterns(series models.Series, kind models.BucketKind) (map[int]models.SeasonalPattern, error) {
	return map[int]models.SeasonalPattern{
		1: {Bucket: 1, Label: "January", AvgReturn: 0.001, TotalDays: 20},
	}, nil
}

func (fakeSeasonality) Heatmap(series models.Series, kind models.BucketKind) (models.HeatmapMatrix, error) {
	return models.HeatmapMatrix{2023: {1: 0.001}}, nil
}

func (fakeSeasonality) Summary(patterns map[int]models.SeasonalPattern) models.SeasonalSummary {
	return models.SeasonalSummary{
		BestBucket:  models.SeasonalExtreme{Bucket: 1, Label: "January", AvgReturn: 0.001},
		WorstBucket: models.SeasonalExtreme{Bucket: 1, Label: "January", AvgReturn: 0.001},
		Strength:    "weak",
	}
}

type fakePredictor struct {
	section *models.PredictiveSection
	err     error
}

func (f *fakePredictor) Analyze(ctx context.Context, series models.Series) (*models.PredictiveSection, error) {
	return f.section, f.err
}

type countingMetrics struct {
	reports int
	errors  map[string]int
	models  map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{errors: map[string]int{}, models: map[string]int{}}
}

func (m *countingMetrics) RecordReport(ticker string)               { m.reports++ }
func (m *countingMetrics) RecordError(kind string)                  { m.errors[kind]++ }
func (m *countingMetrics) RecordLastClose(ticker string, v float64) {}
func (m *countingMetrics) RecordLatency(op string, seconds float64) {}
func (m *countingMetrics) RecordModelSelected(model string)         { m.models[model]++ }

type mapCache struct {
	data map[string][]byte
	gets int
	hits int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return fmt.Errorf("miss")
	}
	c.hits++
	return json.Unmarshal(b, dest)
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (c *mapCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	_, ok := c.data[keys[0]]
	return ok, nil
}
func (c *mapCache) Close() error { return nil }

func bullishSection(prob float64) *models.PredictiveSection {
	return &models.PredictiveSection{
		Prediction: models.PredictionResult{
			Prediction:  models.DirectionLabel(prob),
			Probability: prob,
			Confidence:  models.ConfidenceLabel(prob),
			ModelUsed:   "random_forest",
		},
		FeatureImportance: map[string]float64{"rsi": 1},
		Backtest:          models.BacktestResult{Accuracy: 0.6, TotalTrades: 10},
	}
}

func TestBuildReportComposesSections(t *testing.T) {
	metrics := newCountingMetrics()
	uc := NewAnalysisUseCase(
		&fakeStore{series: testSeries(300)},
		&fakeIndicators{trend: models.TrendSignals{Short: 1, Medium: 1, Long: 1, Overall: 1}},
		fakeSeasonality{},
		&fakePredictor{section: bullishSection(0.8)},
		metrics,
		logger.Nop(),
	)

	report, err := uc.BuildReport(context.Background(), "AAPL", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.Technical == nil || report.Seasonality == nil || report.Predictive == nil {
		t.Fatal("expected all three sections present")
	}
	if report.SectionErrors != nil {
		t.Fatalf("unexpected section errors: %v", report.SectionErrors)
	}
	if report.DataPeriod.TotalBars != 300 {
		t.Fatalf("TotalBars = %d, want 300", report.DataPeriod.TotalBars)
	}
	if report.Summary.OverallSentiment != models.SentimentBullish {
		t.Fatalf("sentiment = %s, want bullish", report.Summary.OverallSentiment)
	}
	if report.Summary.ConfidenceLevel != models.ConfidenceHigh {
		t.Fatalf("confidence = %s, want high", report.Summary.ConfidenceLevel)
	}
	if report.Summary.Disclaimer != Disclaimer {
		t.Fatal("disclaimer missing")
	}
	if metrics.reports != 1 {
		t.Fatalf("reports recorded = %d, want 1", metrics.reports)
	}
	if metrics.models["random_forest"] != 1 {
		t.Fatalf("model selections = %v", metrics.models)
	}
}

func TestBuildReportPartialOnPredictiveFailure(t *testing.T) {
	metrics := newCountingMetrics()
	uc := NewAnalysisUseCase(
		&fakeStore{series: testSeries(300)},
		&fakeIndicators{trend: models.TrendSignals{Overall: 1, Short: 1, Medium: 1, Long: 1}},
		fakeSeasonality{},
		&fakePredictor{err: fmt.Errorf("fit: %w", models.ErrModelTraining)},
		metrics,
		logger.Nop(),
	)

	report, err := uc.BuildReport(context.Background(), "AAPL", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.Predictive != nil {
		t.Fatal("predictive section should be nil after a training failure")
	}
	if msg := report.SectionErrors["predictive"]; !strings.Contains(msg, "model training failed") {
		t.Fatalf("section error = %q", msg)
	}
	if metrics.errors["model_training"] != 1 {
		t.Fatalf("errors recorded = %v", metrics.errors)
	}
	// Falls back to the technical trend at low confidence.
	if report.Summary.OverallSentiment != models.SentimentBullish {
		t.Fatalf("sentiment = %s, want bullish", report.Summary.OverallSentiment)
	}
	if report.Summary.ConfidenceLevel != models.ConfidenceLow {
		t.Fatalf("confidence = %s, want low", report.Summary.ConfidenceLevel)
	}
}

func TestBuildReportFailsWhenTechnicalFails(t *testing.T) {
	uc := NewAnalysisUseCase(
		&fakeStore{series: testSeries(300)},
		&fakeIndicators{err: fmt.Errorf("compute: %w", models.ErrInvalidSeries)},
		fakeSeasonality{},
		&fakePredictor{section: bullishSection(0.8)},
		newCountingMetrics(),
		logger.Nop(),
	)

	if _, err := uc.BuildReport(context.Background(), "AAPL", time.Time{}, time.Time{}); err == nil {
		t.Fatal("expected error when the technical section fails")
	}
}

func TestBuildReportConflictGoesNeutral(t *testing.T) {
	uc := NewAnalysisUseCase(
		&fakeStore{series: testSeries(300)},
		&fakeIndicators{trend: models.TrendSignals{Short: -1, Medium: -1, Long: -1, Overall: -1}},
		fakeSeasonality{},
		&fakePredictor{section: bullishSection(0.8)},
		newCountingMetrics(),
		logger.Nop(),
	)

	report, err := uc.BuildReport(context.Background(), "AAPL", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.Summary.OverallSentiment != models.SentimentNeutral {
		t.Fatalf("sentiment = %s, want neutral on conflict", report.Summary.OverallSentiment)
	}
	found := false
	for _, in := range report.Summary.KeyInsights {
		if strings.Contains(in, "conflicts with the technical trend") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing conflict insight, got %v", report.Summary.KeyInsights)
	}
	last := report.Summary.Recommendations[len(report.Summary.Recommendations)-1]
	if last != "Neutral outlook - hold current position" {
		t.Fatalf("recommendation = %q", last)
	}
}

func TestBuildReportUsesCache(t *testing.T) {
	c := newMapCache()
	uc := NewAnalysisUseCase(
		&fakeStore{series: testSeries(300)},
		&fakeIndicators{trend: models.TrendSignals{Overall: 1, Short: 1, Medium: 1, Long: 1}},
		fakeSeasonality{},
		&fakePredictor{section: bullishSection(0.8)},
		newCountingMetrics(),
		logger.Nop(),
		WithCache(c, time.Hour),
	)

	first, err := uc.BuildReport(context.Background(), "AAPL", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("first BuildReport: %v", err)
	}
	second, err := uc.BuildReport(context.Background(), "AAPL", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("second BuildReport: %v", err)
	}
	if c.hits != 1 {
		t.Fatalf("cache hits = %d, want 1", c.hits)
	}
	if first.Ticker != second.Ticker || first.Summary.OverallSentiment != second.Summary.OverallSentiment {
		t.Fatal("cached report diverges from computed report")
	}
}

func TestBuildReportNoBars(t *testing.T) {
	uc := NewAnalysisUseCase(
		&fakeStore{series: nil},
		&fakeIndicators{},
		fakeSeasonality{},
		&fakePredictor{},
		newCountingMetrics(),
		logger.Nop(),
	)

	_, err := uc.BuildReport(context.Background(), "ZZZZ", time.Time{}, time.Time{})
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestSummaryRSIInsights(t *testing.T) {
	tests := []struct {
		name    string
		rsi     float64
		insight string
		rec     string
	}{
		{"overbought", 78, "RSI indicates overbought conditions", "Consider taking profits"},
		{"oversold", 22, "RSI indicates oversold conditions", "Potential buying opportunity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &models.AnalysisReport{
				GeneratedAt: time.Now(),
				Technical: &models.TechnicalSection{
					Latest: models.IndicatorSnapshot{RSI14: f64(tt.rsi)},
				},
			}
			summary := buildSummary(report)
			if !containsString(summary.KeyInsights, tt.insight) {
				t.Fatalf("insights = %v, want %q", summary.KeyInsights, tt.insight)
			}
			if !containsString(summary.Recommendations, tt.rec) {
				t.Fatalf("recommendations = %v, want %q", summary.Recommendations, tt.rec)
			}
		})
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
