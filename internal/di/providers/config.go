// Package providers contains dependency injection providers for the MediaSync
// server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/openlodging/mediasync/internal/config"
	"github.com/openlodging/mediasync/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting MediaSync Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"mediadb_path", cfg.Store.MediaDBPath,
		"catalog_path", cfg.Store.CatalogPath,
		"catalog_zone", cfg.Catalog.Zone,
	)

	return log, nil
}
