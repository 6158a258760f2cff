// Package seasonality aggregates daily returns into calendar buckets and
// reports per-bucket statistics, a sparse year/bucket heatmap, and a
// best/worst summary.
package seasonality

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/service"
)

var _ service.SeasonalityAnalyzer = (*Engine)(nil)

// Strength labels for the dispersion of bucket average returns.
const (
	StrengthWeak     = "weak"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
)

const (
	strongThreshold   = 0.005
	moderateThreshold = 0.002
)

// Engine buckets daily returns by calendar attributes. monthEndSessions is
// how many trailing sessions of each month count as the month-end window.
type Engine struct {
	monthEndSessions int
}

type Option func(*Engine)

// WithMonthEndSessions overrides the month-end window size.
func WithMonthEndSessions(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.monthEndSessions = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{monthEndSessions: 3}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// observation is one daily return attributed to the bar it closes on.
type observation struct {
	date   time.Time
	ret    float64
	volume float64
	bucket int
}

// Patterns aggregates daily returns into the buckets of one grouping.
// Buckets without observations are absent from the result.
func (e *Engine) Patterns(series models.Series, kind models.BucketKind) (map[int]models.SeasonalPattern, error) {
	obs, err := e.observations(series, kind)
	if err != nil {
		return nil, err
	}

	grouped := map[int][]observation{}
	for _, o := range obs {
		grouped[o.bucket] = append(grouped[o.bucket], o)
	}

	out := make(map[int]models.SeasonalPattern, len(grouped))
	for bucket, group := range grouped {
		returns := make([]float64, len(group))
		positive := 0
		var volSum float64
		for i, o := range group {
			returns[i] = o.ret
			if o.ret > 0 {
				positive++
			}
			volSum += o.volume
		}
		out[bucket] = models.SeasonalPattern{
			Bucket:       bucket,
			Label:        bucketLabel(kind, bucket),
			AvgReturn:    mean(returns),
			MedianReturn: median(returns),
			StdReturn:    populationStd(returns),
			PositiveDays: positive,
			TotalDays:    len(group),
			WinRate:      float64(positive) / float64(len(group)),
			AvgVolume:    volSum / float64(len(group)),
		}
	}
	return out, nil
}

// Heatmap averages daily returns per (year, bucket) cell. Cells without
// observations are absent, never zero-filled.
func (e *Engine) Heatmap(series models.Series, kind models.BucketKind) (models.HeatmapMatrix, error) {
	obs, err := e.observations(series, kind)
	if err != nil {
		return nil, err
	}

	type cell struct{ sum, n float64 }
	cells := map[int]map[int]*cell{}
	for _, o := range obs {
		year := o.date.Year()
		if cells[year] == nil {
			cells[year] = map[int]*cell{}
		}
		c := cells[year][o.bucket]
		if c == nil {
			c = &cell{}
			cells[year][o.bucket] = c
		}
		c.sum += o.ret
		c.n++
	}

	matrix := make(models.HeatmapMatrix, len(cells))
	for year, row := range cells {
		matrix[year] = make(map[int]float64, len(row))
		for bucket, c := range row {
			matrix[year][bucket] = c.sum / c.n
		}
	}
	return matrix, nil
}

// Summary ranks buckets by average return and labels the dispersion of those
// averages. An empty pattern map yields a zero summary with weak strength.
func (e *Engine) Summary(patterns map[int]models.SeasonalPattern) models.SeasonalSummary {
	summary := models.SeasonalSummary{Strength: StrengthWeak}
	if len(patterns) == 0 {
		return summary
	}

	avgs := make([]float64, 0, len(patterns))
	first := true
	for _, p := range patterns {
		avgs = append(avgs, p.AvgReturn)
		if first || p.AvgReturn > summary.BestBucket.AvgReturn {
			summary.BestBucket = models.SeasonalExtreme{Bucket: p.Bucket, Label: p.Label, AvgReturn: p.AvgReturn}
		}
		if first || p.AvgReturn < summary.WorstBucket.AvgReturn {
			summary.WorstBucket = models.SeasonalExtreme{Bucket: p.Bucket, Label: p.Label, AvgReturn: p.AvgReturn}
		}
		first = false
	}

	dispersion := populationStd(avgs)
	switch {
	case dispersion > strongThreshold:
		summary.Strength = StrengthStrong
	case dispersion > moderateThreshold:
		summary.Strength = StrengthModerate
	}
	return summary
}

// observations pairs each daily return with its bucket key. The first bar
// has no return and contributes nothing.
func (e *Engine) observations(series models.Series, kind models.BucketKind) ([]observation, error) {
	if !models.IsValidBucketKind(kind) {
		return nil, fmt.Errorf("seasonality: unknown bucket kind %q", kind)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if len(series) < 2 {
		return nil, fmt.Errorf("seasonality: %d bars: %w", len(series), models.ErrInsufficientData)
	}

	monthEnd := map[time.Time]bool{}
	if kind == models.BucketMonthEnd {
		monthEnd = e.monthEndDates(series)
	}

	obs := make([]observation, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		bar := series[i]
		obs = append(obs, observation{
			date:   bar.Date,
			ret:    bar.Close/series[i-1].Close - 1,
			volume: bar.Volume,
			bucket: bucketKey(kind, bar.Date, monthEnd),
		})
	}
	return obs, nil
}

// monthEndDates marks the last monthEndSessions trading dates of every
// calendar month present in the series.
func (e *Engine) monthEndDates(series models.Series) map[time.Time]bool {
	byMonth := map[[2]int][]time.Time{}
	for _, bar := range series {
		key := [2]int{bar.Date.Year(), int(bar.Date.Month())}
		byMonth[key] = append(byMonth[key], bar.Date)
	}

	marked := map[time.Time]bool{}
	for _, dates := range byMonth {
		start := len(dates) - e.monthEndSessions
		if start < 0 {
			start = 0
		}
		for _, d := range dates[start:] {
			marked[d] = true
		}
	}
	return marked
}

func bucketKey(kind models.BucketKind, date time.Time, monthEnd map[time.Time]bool) int {
	switch kind {
	case models.BucketMonth:
		return int(date.Month())
	case models.BucketQuarter:
		return (int(date.Month())-1)/3 + 1
	case models.BucketWeekday:
		// Monday = 0
		return (int(date.Weekday()) + 6) % 7
	default:
		if monthEnd[date] {
			return 1
		}
		return 0
	}
}

func bucketLabel(kind models.BucketKind, bucket int) string {
	switch kind {
	case models.BucketMonth:
		return time.Month(bucket).String()
	case models.BucketQuarter:
		return fmt.Sprintf("Q%d", bucket)
	case models.BucketWeekday:
		return time.Weekday((bucket + 1) % 7).String()
	default:
		if bucket == 1 {
			return "month_end"
		}
		return "regular"
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func populationStd(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, v := range xs {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
