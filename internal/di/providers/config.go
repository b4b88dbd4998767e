// Package providers contains dependency injection providers for the Diwan server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/diwanapp/diwan-server/internal/config"
	"github.com/diwanapp/diwan-server/internal/logger"
	"github.com/diwanapp/diwan-server/internal/metrics"
	"github.com/diwanapp/diwan-server/internal/validation"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "diwan"

// ProvideConfig provides the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Diwan server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"corpus", cfg.Corpus.Source,
		"storage", cfg.Data.Backend,
	)

	return log, nil
}

// ProvideMetrics provides the Prometheus collector.
func ProvideMetrics(_ do.Injector) (*metrics.Collector, error) {
	return metrics.NewCollector(metricsNamespace), nil
}

// ProvideValidator provides the input validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
