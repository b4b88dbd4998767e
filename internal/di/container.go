// Package di provides dependency injection configuration for the Diwan server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/diwanapp/diwan-server/internal/api"
	"github.com/diwanapp/diwan-server/internal/config"
	"github.com/diwanapp/diwan-server/internal/di/providers"
	"github.com/diwanapp/diwan-server/internal/logger"
	"github.com/diwanapp/diwan-server/internal/metrics"
	"github.com/diwanapp/diwan-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Configuration is read from flags, environment and .env.
func NewContainer() *do.RootScope {
	injector := do.New()
	do.Provide(injector, providers.ProvideConfig)
	registerProviders(injector)
	return injector
}

// NewContainerWithConfig is NewContainer with an already loaded configuration.
func NewContainerWithConfig(cfg *config.Config) *do.RootScope {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	registerProviders(injector)
	return injector
}

func registerProviders(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideValidator)

	// Storage and search
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideEvents)

	// Business services
	do.Provide(injector, providers.ProvidePoemService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideFavoriteService)
	do.Provide(injector, providers.ProvideRateLimiter)

	// Workers
	do.Provide(injector, providers.ProvideCorpusWatcher)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)
}

// Bootstrap initializes all services, loads the corpus and starts the watcher and HTTP server.
func Bootstrap(injector do.Injector) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*metrics.Collector](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.EventsHandle](injector)

	_ = do.MustInvoke[*service.PoemService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)
	_ = do.MustInvoke[*service.FavoriteService](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	// Workers
	_ = do.MustInvoke[*providers.CorpusWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*api.Server](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
