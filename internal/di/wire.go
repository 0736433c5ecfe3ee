//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"FinSeason/pkg/config"
	"FinSeason/pkg/server"
)

var coreSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideCache,
	ProvideBackend,
	ProvideCalendarConfig,
	ProvideCalendar,
	ProvidePublisher,
	ProvideSeasonalUseCase,
	ProvideCalendarUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		coreSet,
		ProvideHandler,
		ProvideHTTPServer,
		ProvideWarmer,
		ProvideWarmConsumer,
		ProvideRedisClient,
		ProvideWarmQueue,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeToolkit wires the use cases for one-shot commands.
func InitializeToolkit(cfg *config.Config) (*Toolkit, error) {
	wire.Build(coreSet, ProvideToolkit)
	return &Toolkit{}, nil
}
