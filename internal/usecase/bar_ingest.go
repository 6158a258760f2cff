package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	domrepo "github.com/davidhchng/Stock-Predictive-Model/internal/domain/repository"
	pkgkafka "github.com/davidhchng/Stock-Predictive-Model/pkg/kafka"
	"github.com/davidhchng/Stock-Predictive-Model/pkg/util"
)

// BarIngestHandler consumes daily bar messages and writes them to the bar
// store. Upstream scrapers publish one message per ticker per session.
type BarIngestHandler struct {
	topic   string
	store   domrepo.BarStore
	metrics domrepo.Metrics
}

func NewBarIngestHandler(topic string, store domrepo.BarStore, metrics domrepo.Metrics) *BarIngestHandler {
	return &BarIngestHandler{topic: topic, store: store, metrics: metrics}
}

func (h *BarIngestHandler) Topic() string { return h.topic }

// incoming message schema: {ticker, date, open, high, low, close, adj_close, volume}
func (h *BarIngestHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Ticker   string  `json:"ticker"`
		Date     string  `json:"date"`
		Open     float64 `json:"open"`
		High     float64 `json:"high"`
		Low      float64 `json:"low"`
		Close    float64 `json:"close"`
		AdjClose float64 `json:"adj_close"`
		Volume   float64 `json:"volume"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	date, ok := util.ParseDate(m.Date)
	if !ok {
		h.metrics.RecordError("consumer_bad_date")
		return fmt.Errorf("bar ingest: bad date %q for %s", m.Date, m.Ticker)
	}

	start := time.Now()
	err := h.store.StoreBatch(ctx, m.Ticker, []models.Bar{{
		Date:     date,
		Open:     m.Open,
		High:     m.High,
		Low:      m.Low,
		Close:    m.Close,
		AdjClose: m.AdjClose,
		Volume:   m.Volume,
	}})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*BarIngestHandler)(nil)
