package repository

import (
	"context"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
)

// BarStore supplies ordered daily bars per ticker and accepts ingested rows.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	GetBars(ctx context.Context, ticker string, from, to time.Time) (models.Series, error)
	GetAllBars(ctx context.Context, ticker string) (models.Series, error)
	LatestDate(ctx context.Context, ticker string) (time.Time, error)
	StoreBatch(ctx context.Context, ticker string, bars []models.Bar) error
	TickersWithData(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
	Close() error
}

// TickerSource supplies the ticker universe (symbol/name pairs).
type TickerSource interface {
	List(ctx context.Context) ([]models.Ticker, error)
	Exists(ctx context.Context, symbol string) (bool, error)
	UpsertBatch(ctx context.Context, tickers []models.Ticker) error
}

// Metrics records operational counters for the analysis service.
type Metrics interface {
	RecordReport(ticker string)
	RecordError(kind string)
	RecordLastClose(ticker string, price float64)
	RecordLatency(op string, seconds float64)
	RecordModelSelected(model string)
}
