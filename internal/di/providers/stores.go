package providers

import (
	"github.com/samber/do/v2"

	"github.com/openlodging/mediasync/internal/config"
	"github.com/openlodging/mediasync/internal/logger"
	"github.com/openlodging/mediasync/internal/store/catalog"
	"github.com/openlodging/mediasync/internal/store/mediadb"
)

// MediaDBHandle wraps the document store with shutdown capability.
type MediaDBHandle struct {
	*mediadb.Store
}

// Shutdown implements do.Shutdownable.
func (h *MediaDBHandle) Shutdown() error {
	return h.Close()
}

// ProvideMediaDB provides the Badger-backed media document store.
func ProvideMediaDB(i do.Injector) (*MediaDBHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	store, err := mediadb.Open(cfg.Store.MediaDBPath, log.Logger)
	if err != nil {
		return nil, err
	}

	return &MediaDBHandle{Store: store}, nil
}

// CatalogHandle wraps the catalog store with shutdown capability.
type CatalogHandle struct {
	*catalog.Store
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	return h.Close()
}

// ProvideCatalog provides the SQLite-backed catalog store.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	store, err := catalog.Open(cfg.Store.CatalogPath, cfg.CatalogLocation(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog store initialized",
		"path", cfg.Store.CatalogPath,
		"zone", cfg.Catalog.Zone,
	)

	return &CatalogHandle{Store: store}, nil
}
