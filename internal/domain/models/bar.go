package models

import (
	"fmt"
	"time"
)

// Bar is one trading session's OHLCV record for a ticker.
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   float64   `json:"volume"`
}

// Series is an ordered Bar sequence for one ticker. It is treated as
// immutable for the duration of an analysis run.
type Series []Bar

// Validate enforces the series invariants: strictly increasing unique dates,
// positive prices and non-negative volume.
func (s Series) Validate() error {
	for i, b := range s {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("%w: non-positive price at %s", ErrInvalidSeries, b.Date.Format("2006-01-02"))
		}
		if b.Volume < 0 {
			return fmt.Errorf("%w: negative volume at %s", ErrInvalidSeries, b.Date.Format("2006-01-02"))
		}
		if i > 0 && !s[i-1].Date.Before(b.Date) {
			return fmt.Errorf("%w: dates not strictly increasing at %s", ErrInvalidSeries, b.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes returns the close prices in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Returns computes simple daily returns r_t = C_t/C_{t-1} - 1.
// The slice has length len(s)-1; the first bar has no defined return.
func (s Series) Returns() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		out[i-1] = s[i].Close/s[i-1].Close - 1
	}
	return out
}

// Ticker is one entry of the ticker universe.
type Ticker struct {
	Symbol string `json:"ticker"`
	Name   string `json:"name"`
}
