package di

import (
	"context"
	"fmt"
	"time"

	domrepo "github.com/davidhchng/Stock-Predictive-Model/internal/domain/repository"
	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/service"
	"github.com/davidhchng/Stock-Predictive-Model/internal/handler/api"
	internalrepo "github.com/davidhchng/Stock-Predictive-Model/internal/repository"
	"github.com/davidhchng/Stock-Predictive-Model/internal/services/indicators"
	"github.com/davidhchng/Stock-Predictive-Model/internal/services/predictive"
	"github.com/davidhchng/Stock-Predictive-Model/internal/services/seasonality"
	"github.com/davidhchng/Stock-Predictive-Model/internal/usecase"
	pkgcache "github.com/davidhchng/Stock-Predictive-Model/pkg/cache"
	pkgch "github.com/davidhchng/Stock-Predictive-Model/pkg/clickhouse"
	"github.com/davidhchng/Stock-Predictive-Model/pkg/config"
	xhttp "github.com/davidhchng/Stock-Predictive-Model/pkg/http"
	pkgkafka "github.com/davidhchng/Stock-Predictive-Model/pkg/kafka"
	applogger "github.com/davidhchng/Stock-Predictive-Model/pkg/logger"
	"github.com/davidhchng/Stock-Predictive-Model/pkg/metrics"
	"github.com/davidhchng/Stock-Predictive-Model/pkg/server"
)

// ProvideLogger creates the application logger. Production gets JSON,
// everything else a console writer.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return applogger.New(&applogger.Config{
		Level:  "info",
		Format: format,
		Output: "stdout",
	})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates the ClickHouse bar store and ensures its schema.
func ProvideBarStore(chClient *pkgch.Client, l *applogger.Logger) (domrepo.BarStore, error) {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("bar store schema: %w", err)
	}
	return store, nil
}

// ProvideTickerSource creates the ClickHouse ticker universe source.
func ProvideTickerSource(chClient *pkgch.Client) domrepo.TickerSource {
	return internalrepo.NewCHTickerSource(chClient)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the report cache per configuration. A nil service
// disables memoization.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Redis.Enabled {
		redisCache, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return pkgcache.NewLayeredCache(redisCache), nil
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideIndicatorEngine creates the technical indicator engine.
func ProvideIndicatorEngine() service.IndicatorAnalyzer {
	return indicators.NewEngine()
}

// ProvideSeasonalityEngine creates the calendar pattern engine.
func ProvideSeasonalityEngine(cfg *config.Config) service.SeasonalityAnalyzer {
	var opts []seasonality.Option
	if cfg.Analysis.MonthEndSessions > 0 {
		opts = append(opts, seasonality.WithMonthEndSessions(cfg.Analysis.MonthEndSessions))
	}
	return seasonality.NewEngine(opts...)
}

// ProvidePredictiveEngine creates the direction prediction engine.
func ProvidePredictiveEngine(cfg *config.Config) service.DirectionPredictor {
	var opts []predictive.Option
	if cfg.Analysis.Seed != 0 {
		opts = append(opts, predictive.WithSeed(cfg.Analysis.Seed))
	}
	if cfg.Analysis.MinTrainingBars > 0 {
		opts = append(opts, predictive.WithMinTrainingBars(cfg.Analysis.MinTrainingBars))
	}
	if cfg.Analysis.BacktestWindow > 0 {
		opts = append(opts, predictive.WithBacktestWindow(cfg.Analysis.BacktestWindow))
	}
	return predictive.NewEngine(opts...)
}

// ProvideAnalysisUseCase wires the report orchestrator.
func ProvideAnalysisUseCase(
	store domrepo.BarStore,
	ind service.IndicatorAnalyzer,
	seas service.SeasonalityAnalyzer,
	pred service.DirectionPredictor,
	m domrepo.Metrics,
	l *applogger.Logger,
	c pkgcache.Service,
	cfg *config.Config,
) *usecase.AnalysisUseCase {
	var opts []usecase.AnalysisOption
	if c != nil {
		opts = append(opts, usecase.WithCache(c, cfg.Cache.ReportTTL))
	}
	if cfg.Analysis.Timeout > 0 {
		opts = append(opts, usecase.WithTimeout(cfg.Analysis.Timeout))
	}
	if cfg.Analysis.RecentSnapshots > 0 {
		opts = append(opts, usecase.WithRecentSnapshots(cfg.Analysis.RecentSnapshots))
	}
	return usecase.NewAnalysisUseCase(store, ind, seas, pred, m, l, opts...)
}

// ProvideStocksUseCase wires the bar and ticker read paths.
func ProvideStocksUseCase(store domrepo.BarStore, tickers domrepo.TickerSource) *usecase.StocksUseCase {
	return usecase.NewStocksUseCase(store, tickers)
}

// ProvideBarIngestHandler registers the handler for the bars topic.
func ProvideBarIngestHandler(store domrepo.BarStore, m domrepo.Metrics, cfg *config.Config) *usecase.BarIngestHandler {
	return usecase.NewBarIngestHandler(cfg.Kafka.Topic, store, m)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML. It is
// nil when consumption is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideHTTPHandler groups the route registrars.
func ProvideHTTPHandler(
	l *applogger.Logger,
	analysis *usecase.AnalysisUseCase,
	stocks *usecase.StocksUseCase,
	store domrepo.BarStore,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewAnalysisEchoHandler(l, analysis, stocks),
		api.NewStocksEchoHandler(l, stocks, store),
	}
}

// ProvideHTTPServer creates the Echo server with middleware per config.
func ProvideHTTPServer(cfg *config.Config, handler xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithRequestLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	ingest *usecase.BarIngestHandler,
	chClient *pkgch.Client,
	c pkgcache.Service,
) *server.App {
	return server.New(cfg, l, httpServer, consumer, ingest, chClient, c)
}
