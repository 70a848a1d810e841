//go:build wireinject
// +build wireinject

package di

import (
	"EdgePull/pkg/config"
	"EdgePull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Pipeline stages
		ProvideScorer,
		ProvideGuard,
		ProvideSizer,

		// Event fan-out
		ProvideHub,
		ProvideEventSink,

		// Use case and HTTP surface
		ProvideEngine,
		ProvideDecideHandler,

		ProvideApp,
	)
	return &server.App{}, nil
}
