//go:build wireinject
// +build wireinject

package di

import (
	"github.com/davidhchng/Stock-Predictive-Model/pkg/config"
	"github.com/davidhchng/Stock-Predictive-Model/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvideKafkaConsumer,

		// Repositories
		ProvideBarStore,
		ProvideTickerSource,

		// Analysis engines
		ProvideIndicatorEngine,
		ProvideSeasonalityEngine,
		ProvidePredictiveEngine,

		// Use cases
		ProvideAnalysisUseCase,
		ProvideStocksUseCase,
		ProvideBarIngestHandler,

		// HTTP surface
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
