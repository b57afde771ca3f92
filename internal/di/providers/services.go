package providers

import (
	"github.com/samber/do/v2"

	"github.com/openlodging/mediasync/internal/config"
	"github.com/openlodging/mediasync/internal/logger"
	"github.com/openlodging/mediasync/internal/reconcile"
	"github.com/openlodging/mediasync/internal/service"
)

// ProvideMediaService provides the image event processing service.
func ProvideMediaService(i do.Injector) (*service.MediaService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	docs := do.MustInvoke[*MediaDBHandle](i)
	cat := do.MustInvoke[*CatalogHandle](i)
	reconciler := do.MustInvoke[*reconcile.HeroReconciler](i)
	publisher := do.MustInvoke[*PublisherHandle](i)
	dedupeCache := do.MustInvoke[*DedupeHandle](i)

	return service.NewMediaService(
		docs.Store,
		cat.Store,
		reconciler,
		publisher,
		dedupeCache,
		cfg,
		log.Logger,
	), nil
}
