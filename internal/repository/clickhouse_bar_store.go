package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	domrepo "github.com/davidhchng/Stock-Predictive-Model/internal/domain/repository"
	pkgch "github.com/davidhchng/Stock-Predictive-Model/pkg/clickhouse"
	applogger "github.com/davidhchng/Stock-Predictive-Model/pkg/logger"
)

const (
	barsTable    = "spm.daily_bars"
	tickersTable = "spm.tickers"
)

var barSchema = []string{
	"CREATE DATABASE IF NOT EXISTS spm",
	`CREATE TABLE IF NOT EXISTS ` + barsTable + ` (
        ticker String,
        date Date,
        open Float64,
        high Float64,
        low Float64,
        close Float64,
        adj_close Float64,
        volume Float64
    ) ENGINE=ReplacingMergeTree ORDER BY (ticker, date)`,
	`CREATE TABLE IF NOT EXISTS ` + tickersTable + ` (
        ticker String,
        name String
    ) ENGINE=ReplacingMergeTree ORDER BY ticker`,
}

// CHBarStore implements BarStore backed by ClickHouse. Rows are keyed by
// (ticker, date); re-ingesting a session replaces the old row on merge.
type CHBarStore struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{client: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, barSchema)
}

func (s *CHBarStore) GetBars(ctx context.Context, ticker string, from, to time.Time) (models.Series, error) {
	const q = `
        SELECT date, open, high, low, close, adj_close, volume
        FROM ` + barsTable + `
        WHERE ticker = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `
	return s.queryBars(ctx, ticker, q, ticker, from, to)
}

func (s *CHBarStore) GetAllBars(ctx context.Context, ticker string) (models.Series, error) {
	const q = `
        SELECT date, open, high, low, close, adj_close, volume
        FROM ` + barsTable + `
        WHERE ticker = ?
        ORDER BY date ASC
    `
	return s.queryBars(ctx, ticker, q, ticker)
}

func (s *CHBarStore) queryBars(ctx context.Context, ticker, q string, args ...interface{}) (models.Series, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_bars query error",
				applogger.String("ticker", ticker),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out := make(models.Series, 0, 1024)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse get_bars ok",
			applogger.String("ticker", ticker),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHBarStore) LatestDate(ctx context.Context, ticker string) (time.Time, error) {
	const q = `SELECT max(date) FROM ` + barsTable + ` WHERE ticker = ?`
	var latest time.Time
	err := s.db.QueryRowContext(ctx, q, ticker).Scan(&latest)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && latest.IsZero()) {
		return time.Time{}, fmt.Errorf("no bars for %s: %w", ticker, models.ErrInsufficientData)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("latest date: %w", err)
	}
	return latest, nil
}

func (s *CHBarStore) StoreBatch(ctx context.Context, ticker string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	// Multi-row VALUES insert to reduce round-trips.
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, b := range bars[start:end] {
			if b.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, ticker, b.Date, b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := "INSERT INTO " + barsTable +
			" (ticker, date, open, high, low, close, adj_close, volume) VALUES " +
			strings.Join(values, ",")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_batch error",
					applogger.String("ticker", ticker),
					applogger.Int("rows", end-start),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store bars: %w", err)
		}
	}
	return nil
}

func (s *CHBarStore) TickersWithData(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT ticker FROM ` + barsTable + ` ORDER BY ticker ASC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("tickers with data: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHBarStore) Close() error {
	return nil // pool owned by pkg client
}

var _ domrepo.BarStore = (*CHBarStore)(nil)

// CHTickerSource implements TickerSource over the same ClickHouse database.
type CHTickerSource struct {
	db *sql.DB
}

func NewCHTickerSource(ch *pkgch.Client) *CHTickerSource {
	return &CHTickerSource{db: ch.DB()}
}

func (s *CHTickerSource) List(ctx context.Context) ([]models.Ticker, error) {
	const q = `SELECT ticker, name FROM ` + tickersTable + ` FINAL ORDER BY ticker ASC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	defer rows.Close()

	var out []models.Ticker
	for rows.Next() {
		var t models.Ticker
		if err := rows.Scan(&t.Symbol, &t.Name); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *CHTickerSource) Exists(ctx context.Context, symbol string) (bool, error) {
	const q = `SELECT count() FROM ` + tickersTable + ` WHERE ticker = ?`
	var n uint64
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&n); err != nil {
		return false, fmt.Errorf("ticker exists: %w", err)
	}
	return n > 0, nil
}

func (s *CHTickerSource) UpsertBatch(ctx context.Context, tickers []models.Ticker) error {
	if len(tickers) == 0 {
		return nil
	}
	values := make([]string, 0, len(tickers))
	args := make([]interface{}, 0, len(tickers)*2)
	for _, t := range tickers {
		if t.Symbol == "" {
			continue
		}
		values = append(values, "(?, ?)")
		args = append(args, t.Symbol, t.Name)
	}
	if len(values) == 0 {
		return nil
	}
	q := "INSERT INTO " + tickersTable + " (ticker, name) VALUES " + strings.Join(values, ",")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("upsert tickers: %w", err)
	}
	return nil
}

var _ domrepo.TickerSource = (*CHTickerSource)(nil)
