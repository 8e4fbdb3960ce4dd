//go:build wireinject
// +build wireinject

package di

import (
	"FundCorr/pkg/config"
	"FundCorr/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideCache,
		ProvideMetrics,

		// Data sources
		ProvideQuotaSource,
		ProvideNameResolver,
		ProvidePacer,
		ProvideProgressHub,

		// Use cases
		ProvideFundCollector,
		ProvideCorrelationUseCase,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
