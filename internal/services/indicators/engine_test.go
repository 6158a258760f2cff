package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
)

func makeSeries(closes []float64) models.Series {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(models.Series, len(closes))
	for i, c := range closes {
		series[i] = models.Bar{
			Date:     start.AddDate(0, 0, i),
			Open:     c,
			High:     c * 1.01,
			Low:      c * 0.99,
			Close:    c,
			AdjClose: c,
			Volume:   1000,
		}
	}
	return series
}

func TestComputeRequiresTwoBars(t *testing.T) {
	e := NewEngine()
	_, err := e.Compute(makeSeries([]float64{100}))
	if err == nil {
		t.Fatal("expected error for single bar series")
	}
}

func TestComputeMovingAverages(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	e := NewEngine()
	snaps, err := e.Compute(makeSeries(closes))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	last := snaps[len(snaps)-1]
	if last.MA5 == nil || last.MA200 == nil {
		t.Fatal("expected MA5 and MA200 on last bar")
	}
	// mean of the last 5 of an arithmetic sequence
	wantMA5 := (closes[249] + closes[248] + closes[247] + closes[246] + closes[245]) / 5
	if math.Abs(*last.MA5-wantMA5) > 1e-9 {
		t.Errorf("MA5 = %v, want %v", *last.MA5, wantMA5)
	}
	sum := 0.0
	for i := 50; i < 250; i++ {
		sum += closes[i]
	}
	if math.Abs(*last.MA200-sum/200) > 1e-9 {
		t.Errorf("MA200 = %v, want %v", *last.MA200, sum/200)
	}

	// window not yet attainable
	if snaps[198].MA200 != nil {
		t.Error("MA200 should be absent before 200 bars")
	}
	if snaps[199].MA200 == nil {
		t.Error("MA200 should be present at the 200th bar")
	}
}

func TestRSIBounds(t *testing.T) {
	tests := []struct {
		name   string
		step   float64
		wantAt float64
	}{
		{"monotonic gains", 1, 100},
		{"monotonic losses", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closes := make([]float64, 40)
			closes[0] = 500
			for i := 1; i < len(closes); i++ {
				closes[i] = closes[i-1] + tt.step
			}
			vals := RSI(closes, 14)
			got := vals[len(vals)-1]
			if got != tt.wantAt {
				t.Errorf("RSI = %v, want %v", got, tt.wantAt)
			}
		})
	}
}

func TestRSIWithinRange(t *testing.T) {
	closes := make([]float64, 100)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%3 == 0 {
			closes[i] = closes[i-1] * 0.98
		} else {
			closes[i] = closes[i-1] * 1.01
		}
	}
	for i, v := range RSI(closes, 14) {
		if !IsDefined(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("RSI out of range at %d: %v", i, v)
		}
	}
}

func TestBollingerBracketsMA(t *testing.T) {
	closes := make([]float64, 60)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		closes[i] = closes[i-1] * (1 + 0.002*float64(i%5-2))
	}
	e := NewEngine()
	snaps, err := e.Compute(makeSeries(closes))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for _, s := range snaps {
		if s.BBUpper == nil {
			continue
		}
		if s.MA20 == nil || s.BBLower == nil {
			t.Fatal("bollinger bands present without MA20")
		}
		if *s.BBUpper < *s.MA20 || *s.MA20 < *s.BBLower {
			t.Fatalf("band ordering violated: %v %v %v", *s.BBLower, *s.MA20, *s.BBUpper)
		}
	}
}

func TestStochasticDegenerateRange(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := range closes {
		highs[i], lows[i], closes[i] = 50, 50, 50
	}
	k, _ := Stochastic(highs, lows, closes, 14, 3)
	if got := k[n-1]; got != 50 {
		t.Errorf("flat series %%K = %v, want 50", got)
	}
}

func TestOBVAccumulation(t *testing.T) {
	closes := []float64{10, 11, 10.5, 10.5, 12}
	volumes := []float64{100, 200, 300, 400, 500}
	want := []float64{0, 200, -100, -100, 400}
	got := OBV(closes, volumes)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OBV[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTrendSignals(t *testing.T) {
	e := NewEngine()
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name        string
		snap        models.IndicatorSnapshot
		wantShort   int
		wantOverall float64
		wantBullish bool
	}{
		{
			name: "above all averages",
			snap: models.IndicatorSnapshot{
				Close: 110, MA20: f(100), MA50: f(95), MA200: f(90),
				MACD: f(1.5), MACDSignal: f(1.0),
			},
			wantShort: 1, wantOverall: 1, wantBullish: true,
		},
		{
			name: "mixed horizons",
			snap: models.IndicatorSnapshot{
				Close: 100, MA20: f(101), MA50: f(99), MA200: f(98),
			},
			wantShort: -1, wantOverall: 1.0 / 3.0,
		},
		{
			name:      "missing long windows read flat",
			snap:      models.IndicatorSnapshot{Close: 100, MA20: f(90)},
			wantShort: 1, wantOverall: 1.0 / 3.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.TrendSignals(tt.snap)
			if got.Short != tt.wantShort {
				t.Errorf("Short = %d, want %d", got.Short, tt.wantShort)
			}
			if math.Abs(got.Overall-tt.wantOverall) > 1e-9 {
				t.Errorf("Overall = %v, want %v", got.Overall, tt.wantOverall)
			}
			if got.MACDBullish != tt.wantBullish {
				t.Errorf("MACDBullish = %v, want %v", got.MACDBullish, tt.wantBullish)
			}
		})
	}
}

func TestRSIFlagThresholds(t *testing.T) {
	e := NewEngine()
	f := func(v float64) *float64 { return &v }

	got := e.TrendSignals(models.IndicatorSnapshot{Close: 100, RSI14: f(75)})
	if !got.RSIOverbought || got.RSIOversold {
		t.Errorf("RSI 75: overbought=%v oversold=%v", got.RSIOverbought, got.RSIOversold)
	}
	got = e.TrendSignals(models.IndicatorSnapshot{Close: 100, RSI14: f(25)})
	if got.RSIOverbought || !got.RSIOversold {
		t.Errorf("RSI 25: overbought=%v oversold=%v", got.RSIOverbought, got.RSIOversold)
	}
	got = e.TrendSignals(models.IndicatorSnapshot{Close: 100})
	if got.RSIOverbought || got.RSIOversold {
		t.Error("missing RSI should not raise flags")
	}
}
