package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	domrepo "github.com/davidhchng/Stock-Predictive-Model/internal/domain/repository"
)

// StocksUseCase serves the bar and ticker-universe read paths.
type StocksUseCase struct {
	store   domrepo.BarStore
	tickers domrepo.TickerSource
}

func NewStocksUseCase(store domrepo.BarStore, tickers domrepo.TickerSource) *StocksUseCase {
	return &StocksUseCase{store: store, tickers: tickers}
}

// Bars returns ordered bars for one ticker, optionally bounded by a date
// range and trimmed to the trailing limit rows.
func (uc *StocksUseCase) Bars(ctx context.Context, ticker string, from, to time.Time, limit int) (models.Series, error) {
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
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	return series, nil
}

// Latest returns the most recent bar for one ticker.
func (uc *StocksUseCase) Latest(ctx context.Context, ticker string) (*models.Bar, error) {
	series, err := uc.store.GetAllBars(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", ticker, err)
	}
	if len(series) == 0 {
		return nil, nil
	}
	bar := series[len(series)-1]
	return &bar, nil
}

// Tickers returns one page of the ticker universe plus the total count.
func (uc *StocksUseCase) Tickers(ctx context.Context, page, perPage int) ([]models.Ticker, int64, error) {
	all, err := uc.tickers.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickers: %w", err)
	}

	total := int64(len(all))
	start := (page - 1) * perPage
	if start >= len(all) {
		return []models.Ticker{}, total, nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// Exists reports whether the ticker is part of the universe.
func (uc *StocksUseCase) Exists(ctx context.Context, ticker string) (bool, error) {
	return uc.tickers.Exists(ctx, ticker)
}

// DataStatus describes data freshness per ticker with stored bars.
type DataStatus struct {
	Ticker     string    `json:"ticker"`
	LatestDate time.Time `json:"latest_date"`
}

// Status reports the latest stored trading date for every ticker that has
// bars.
func (uc *StocksUseCase) Status(ctx context.Context) ([]DataStatus, error) {
	tickers, err := uc.store.TickersWithData(ctx)
	if err != nil {
		return nil, fmt.Errorf("tickers with data: %w", err)
	}

	statuses := make([]DataStatus, 0, len(tickers))
	for _, t := range tickers {
		latest, err := uc.store.LatestDate(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("latest date for %s: %w", t, err)
		}
		statuses = append(statuses, DataStatus{Ticker: t, LatestDate: latest})
	}
	return statuses, nil
}
