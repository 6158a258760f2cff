package models

import "errors"

// Analysis error kinds. Callers classify with errors.Is and wrap with
// fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrInsufficientData marks a series too short for a lookback window or
	// for the minimum training-set size.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidSeries marks a series violating the Bar invariants
	// (non-monotonic dates, non-positive prices, negative volume).
	ErrInvalidSeries = errors.New("invalid series")

	// ErrModelTraining marks a failed model fit, e.g. a single-class label
	// distribution where no classifier can be trained.
	ErrModelTraining = errors.New("model training failed")
)
