// Package di provides dependency injection configuration for the MediaSync
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/openlodging/mediasync/internal/config"
	"github.com/openlodging/mediasync/internal/di/providers"
	"github.com/openlodging/mediasync/internal/logger"
	"github.com/openlodging/mediasync/internal/reconcile"
	"github.com/openlodging/mediasync/internal/service"
	"github.com/openlodging/mediasync/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Stores
	do.Provide(injector, providers.ProvideMediaDB)
	do.Provide(injector, providers.ProvideCatalog)

	// Reconciliation engine
	do.Provide(injector, providers.ProvideHeroReconciler)

	// Supporting infrastructure
	do.Provide(injector, providers.ProvideDedupeCache)
	do.Provide(injector, providers.ProvidePublisher)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideRateLimiter)

	// Business services
	do.Provide(injector, providers.ProvideMediaService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap eagerly invokes every provider so initialization failures
// surface at startup rather than on first use. The HTTP server starts
// listening as a side effect.
func Bootstrap(injector *do.RootScope) error {
	// Core infrastructure
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)

	// Stores
	_ = do.MustInvoke[*providers.MediaDBHandle](injector)
	_ = do.MustInvoke[*providers.CatalogHandle](injector)

	// Reconciliation engine
	_ = do.MustInvoke[*reconcile.HeroReconciler](injector)

	// Supporting infrastructure
	_ = do.MustInvoke[*providers.DedupeHandle](injector)
	_ = do.MustInvoke[*providers.PublisherHandle](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.MediaService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
