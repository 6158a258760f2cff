package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	domrepo "github.com/davidhchng/Stock-Predictive-Model/internal/domain/repository"
	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/service"
	"github.com/davidhchng/Stock-Predictive-Model/pkg/cache"
	"github.com/davidhchng/Stock-Predictive-Model/pkg/logger"
	"github.com/davidhchng/Stock-Predictive-Model/pkg/util"
)

// AnalysisUseCase runs the three analysis engines over one ticker's bars
// and composes the full report. Reports are memoized per ticker per last
// trading day when a cache is configured.
type AnalysisUseCase struct {
	store       domrepo.BarStore
	indicators  service.IndicatorAnalyzer
	seasonality service.SeasonalityAnalyzer
	predictor   service.DirectionPredictor
	cache       cache.Service
	metrics     domrepo.Metrics
	log         *logger.Logger

	timeout         time.Duration
	reportTTL       time.Duration
	recentSnapshots int
}

type AnalysisOption func(*AnalysisUseCase)

// WithCache enables report memoization.
func WithCache(c cache.Service, ttl time.Duration) AnalysisOption {
	return func(uc *AnalysisUseCase) {
		uc.cache = c
		if ttl > 0 {
			uc.reportTTL = ttl
		}
	}
}

// WithTimeout bounds one report computation.
func WithTimeout(d time.Duration) AnalysisOption {
	return func(uc *AnalysisUseCase) {
		if d > 0 {
			uc.timeout = d
		}
	}
}

// WithRecentSnapshots sets how many trailing snapshots the technical
// section carries for charts.
func WithRecentSnapshots(n int) AnalysisOption {
	return func(uc *AnalysisUseCase) {
		if n > 0 {
			uc.recentSnapshots = n
		}
	}
}

func NewAnalysisUseCase(
	store domrepo.BarStore,
	indicators service.IndicatorAnalyzer,
	seasonality service.SeasonalityAnalyzer,
	predictor service.DirectionPredictor,
	metrics domrepo.Metrics,
	log *logger.Logger,
	opts ...AnalysisOption,
) *AnalysisUseCase {
	uc := &AnalysisUseCase{
		store:           store,
		indicators:      indicators,
		seasonality:     seasonality,
		predictor:       predictor,
		metrics:         metrics,
		log:             log,
		timeout:         60 * time.Second,
		reportTTL:       24 * time.Hour,
		recentSnapshots: 30,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// BuildReport computes the comprehensive report for one ticker. When only
// the predictive section fails, the report is still returned with the
// failure surfaced in SectionErrors; a timeout aborts the whole report.
func (uc *AnalysisUseCase) BuildReport(ctx context.Context, ticker string, from, to time.Time) (*models.AnalysisReport, error) {
	start := time.Now()

	series, err := uc.loadSeries(ctx, ticker, from, to)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	key := uc.reportKey(ticker, series, from, to)
	if uc.cache != nil {
		var cached models.AnalysisReport
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			uc.log.Debug("analysis report cache hit", logger.String("ticker", ticker))
			return &cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	report := &models.AnalysisReport{
		Ticker:      ticker,
		GeneratedAt: time.Now(),
		DataPeriod: models.DataPeriod{
			Start:     series[0].Date,
			End:       series[len(series)-1].Date,
			TotalBars: len(series),
		},
		SectionErrors: map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.buildTechnical(series)
		ch <- item{"technical", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.buildSeasonality(series)
		ch <- item{"seasonality", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.predictor.Analyze(ctx, series)
		ch <- item{"predictive", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			report.SectionErrors[it.name] = it.err.Error()
			uc.recordError(it.err)
			uc.log.Warn("analysis section failed",
				logger.String("ticker", ticker),
				logger.String("section", it.name),
				logger.Error(it.err),
			)
			continue
		}
		switch it.name {
		case "technical":
			report.Technical = it.val.(*models.TechnicalSection)
		case "seasonality":
			report.Seasonality = it.val.(*models.SeasonalitySection)
		case "predictive":
			report.Predictive = it.val.(*models.PredictiveSection)
		}
	}

	// All-or-nothing on timeout: no partial report.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis timed out for %s: %w", ticker, err)
	}
	if report.Technical == nil {
		return nil, fmt.Errorf("technical analysis failed: %s", report.SectionErrors["technical"])
	}

	report.Summary = buildSummary(report)
	if len(report.SectionErrors) == 0 {
		report.SectionErrors = nil
	}

	if uc.metrics != nil {
		uc.metrics.RecordReport(ticker)
		uc.metrics.RecordLatency("report", time.Since(start).Seconds())
		uc.metrics.RecordLastClose(ticker, series[len(series)-1].Close)
		if report.Predictive != nil {
			uc.metrics.RecordModelSelected(report.Predictive.Prediction.ModelUsed)
		}
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, report, uc.reportTTL); err != nil {
			uc.log.Warn("analysis report cache store failed", logger.Error(err))
		}
	}

	uc.log.Info("analysis report built",
		logger.String("ticker", ticker),
		logger.Int("bars", len(series)),
		logger.Duration("duration_ms", time.Since(start)),
	)
	return report, nil
}

// Indicators computes the technical section alone.
func (uc *AnalysisUseCase) Indicators(ctx context.Context, ticker string, from, to time.Time) (*models.TechnicalSection, error) {
	series, err := uc.loadSeries(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}
	return uc.buildTechnical(series)
}

// Seasonality computes the seasonality section alone.
func (uc *AnalysisUseCase) Seasonality(ctx context.Context, ticker string) (*models.SeasonalitySection, error) {
	series, err := uc.loadSeries(ctx, ticker, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	return uc.buildSeasonality(series)
}

// Heatmap computes one year/bucket heatmap.
func (uc *AnalysisUseCase) Heatmap(ctx context.Context, ticker string, kind models.BucketKind) (models.HeatmapMatrix, error) {
	series, err := uc.loadSeries(ctx, ticker, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	return uc.seasonality.Heatmap(series, kind)
}

// Prediction runs the predictive engine alone.
func (uc *AnalysisUseCase) Prediction(ctx context.Context, ticker string) (*models.PredictiveSection, error) {
	series, err := uc.loadSeries(ctx, ticker, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	section, err := uc.predictor.Analyze(ctx, series)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.RecordModelSelected(section.Prediction.ModelUsed)
	}
	return section, nil
}

func (uc *AnalysisUseCase) buildTechnical(series models.Series) (*models.TechnicalSection, error) {
	snaps, err := uc.indicators.Compute(series)
	if err != nil {
		return nil, err
	}
	latest := snaps[len(snaps)-1]
	section := &models.TechnicalSection{
		Latest: latest,
		Trend:  uc.indicators.TrendSignals(latest),
	}
	if n := uc.recentSnapshots; n > 0 && len(snaps) > 0 {
		if n > len(snaps) {
			n = len(snaps)
		}
		section.Recent = snaps[len(snaps)-n:]
	}
	return section, nil
}

func (uc *AnalysisUseCase) buildSeasonality(series models.Series) (*models.SeasonalitySection, error) {
	monthly, err := uc.seasonality.Patterns(series, models.BucketMonth)
	if err != nil {
		return nil, err
	}
	quarterly, err := uc.seasonality.Patterns(series, models.BucketQuarter)
	if err != nil {
		return nil, err
	}
	weekday, err := uc.seasonality.Patterns(series, models.BucketWeekday)
	if err != nil {
		return nil, err
	}
	monthEnd, err := uc.seasonality.Patterns(series, models.BucketMonthEnd)
	if err != nil {
		return nil, err
	}
	heatMonthly, err := uc.seasonality.Heatmap(series, models.BucketMonth)
	if err != nil {
		return nil, err
	}
	heatQuarterly, err := uc.seasonality.Heatmap(series, models.BucketQuarter)
	if err != nil {
		return nil, err
	}

	return &models.SeasonalitySection{
		Monthly:          monthly,
		Quarterly:        quarterly,
		Weekday:          weekday,
		MonthEnd:         monthEnd,
		HeatmapMonthly:   heatMonthly,
		HeatmapQuarterly: heatQuarterly,
		Summary:          uc.seasonality.Summary(monthly),
	}, nil
}

func (uc *AnalysisUseCase) loadSeries(ctx context.Context, ticker string, from, to time.Time) (models.Series, error) {
	var (
		series models.Series
		err    error
	)
	if from.IsZero() && to.IsZero() {
		series, err = uc.store.GetAllBars(ctx, ticker)
	} else {
		series, err = uc.store.GetBars(ctx, ticker, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", ticker, err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no bars stored for %s: %w", ticker, models.ErrInsufficientData)
	}
	return series, nil
}

func (uc *AnalysisUseCase) reportKey(ticker string, series models.Series, from, to time.Time) string {
	last := util.FormatDate(series[len(series)-1].Date)
	if from.IsZero() && to.IsZero() {
		return cache.GenerateKeyWithParams("report", ticker, last)
	}
	return cache.GenerateKeyWithParams("report", ticker, last,
		util.FormatDate(from), util.FormatDate(to))
}

func (uc *AnalysisUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, models.ErrInsufficientData):
		uc.metrics.RecordError("insufficient_data")
	case errors.Is(err, models.ErrInvalidSeries):
		uc.metrics.RecordError("invalid_series")
	case errors.Is(err, models.ErrModelTraining):
		uc.metrics.RecordError("model_training")
	default:
		uc.metrics.RecordError("internal")
	}
}
