package seasonality

import (
	"math"
	"testing"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
)

// tradingSeries builds bars on consecutive weekdays starting at start, with
// per-bar returns produced by ret(date).
func tradingSeries(start time.Time, n int, ret func(time.Time) float64) models.Series {
	series := make(models.Series, 0, n)
	price := 100.0
	date := start
	for len(series) < n {
		if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			if len(series) > 0 {
				price *= 1 + ret(date)
			}
			series = append(series, models.Bar{
				Date:     date,
				Open:     price,
				High:     price * 1.01,
				Low:      price * 0.99,
				Close:    price,
				AdjClose: price,
				Volume:   1000,
			})
		}
		date = date.AddDate(0, 0, 1)
	}
	return series
}

func TestPatternsWinRateAndTotals(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	series := tradingSeries(start, 300, func(d time.Time) float64 {
		if d.Day()%2 == 0 {
			return 0.01
		}
		return -0.01
	})

	e := NewEngine()
	patterns, err := e.Patterns(series, models.BucketMonth)
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}

	total := 0
	for bucket, p := range patterns {
		if p.TotalDays == 0 {
			t.Fatalf("bucket %d emitted with zero observations", bucket)
		}
		want := float64(p.PositiveDays) / float64(p.TotalDays)
		if p.WinRate != want {
			t.Errorf("bucket %d win_rate = %v, want %v", bucket, p.WinRate, want)
		}
		total += p.TotalDays
	}
	if total != len(series)-1 {
		t.Errorf("total observations = %d, want %d", total, len(series)-1)
	}
}

func TestWeekdayMondayWorst(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	series := tradingSeries(start, 260, func(d time.Time) float64 {
		if d.Weekday() == time.Monday {
			return -0.005
		}
		return 0
	})

	e := NewEngine()
	patterns, err := e.Patterns(series, models.BucketWeekday)
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}

	monday, ok := patterns[0]
	if !ok {
		t.Fatal("Monday bucket missing")
	}
	if math.Abs(monday.AvgReturn - -0.005) > 1e-12 {
		t.Errorf("Monday avg_return = %v, want -0.005", monday.AvgReturn)
	}
	if monday.Label != "Monday" {
		t.Errorf("Monday label = %q", monday.Label)
	}
	if monday.WinRate != 0 {
		t.Errorf("Monday win_rate = %v, want 0", monday.WinRate)
	}

	summary := e.Summary(patterns)
	if summary.WorstBucket.Bucket != 0 {
		t.Errorf("worst bucket = %d (%s), want Monday", summary.WorstBucket.Bucket, summary.WorstBucket.Label)
	}
}

func TestHeatmapSparsity(t *testing.T) {
	// eleven bars in January 2024 only
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := tradingSeries(start, 11, func(time.Time) float64 { return 0.01 })

	e := NewEngine()
	matrix, err := e.Heatmap(series, models.BucketMonth)
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}

	row, ok := matrix[2024]
	if !ok {
		t.Fatal("expected a 2024 row")
	}
	if len(matrix) != 1 {
		t.Errorf("unexpected years: %v", matrix)
	}
	if len(row) != 1 {
		t.Errorf("expected only January populated, got %v", row)
	}
	if got := row[1]; math.Abs(got-0.01) > 1e-12 {
		t.Errorf("January cell = %v, want 0.01", got)
	}
}

func TestMonthEndBuckets(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := tradingSeries(start, 130, func(time.Time) float64 { return 0.001 })

	e := NewEngine()
	patterns, err := e.Patterns(series, models.BucketMonthEnd)
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected month_end and regular buckets, got %v", patterns)
	}
	me, ok := patterns[1]
	if !ok {
		t.Fatal("month_end bucket missing")
	}
	if me.Label != "month_end" {
		t.Errorf("label = %q", me.Label)
	}
	// six full months, three sessions each, minus any first-bar overlap
	if me.TotalDays < 12 || me.TotalDays > 21 {
		t.Errorf("month_end observations = %d, outside plausible range", me.TotalDays)
	}
}

func TestSummaryStrengthLabels(t *testing.T) {
	pattern := func(bucket int, avg float64) models.SeasonalPattern {
		return models.SeasonalPattern{Bucket: bucket, Label: "b", AvgReturn: avg, TotalDays: 10}
	}

	tests := []struct {
		name string
		avgs []float64
		want string
	}{
		{"tight cluster", []float64{0.0001, 0.0002, 0.0001}, StrengthWeak},
		{"moderate spread", []float64{-0.003, 0.0, 0.003}, StrengthModerate},
		{"wide spread", []float64{-0.02, 0.0, 0.02}, StrengthStrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patterns := map[int]models.SeasonalPattern{}
			for i, avg := range tt.avgs {
				patterns[i+1] = pattern(i+1, avg)
			}
			got := NewEngine().Summary(patterns)
			if got.Strength != tt.want {
				t.Errorf("strength = %q, want %q", got.Strength, tt.want)
			}
		})
	}
}

func TestSummaryEmpty(t *testing.T) {
	got := NewEngine().Summary(nil)
	if got.Strength != StrengthWeak {
		t.Errorf("strength = %q, want weak", got.Strength)
	}
}

func TestPatternsRejectsShortSeries(t *testing.T) {
	series := models.Series{{Date: time.Now(), Open: 1, High: 1, Low: 1, Close: 1, AdjClose: 1}}
	if _, err := NewEngine().Patterns(series, models.BucketMonth); err == nil {
		t.Fatal("expected error for single-bar series")
	}
}

func TestPatternsRejectsUnknownKind(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := tradingSeries(start, 10, func(time.Time) float64 { return 0.01 })
	if _, err := NewEngine().Patterns(series, models.BucketKind("decade")); err == nil {
		t.Fatal("expected error for unknown bucket kind")
	}
}
