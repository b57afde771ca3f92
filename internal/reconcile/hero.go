// Package reconcile implements the dual-store media-state reconciliation
// engine: hero demotion across the catalog and document stores, room
// association diffing, and replacement selection for reprocessed content.
//
// All components are synchronous and carry no state beyond their injected
// gateways; they run inside the goroutine handling a single inbound event.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/openlodging/mediasync/internal/domain"
	"github.com/openlodging/mediasync/internal/errors"
)

// DocumentGateway is the document store (MediaDB) surface the reconciler
// needs.
type DocumentGateway interface {
	GetHeroMedia(ctx context.Context, propertyID int64, dom string) ([]domain.MediaRecord, error)
	SaveMedia(ctx context.Context, rec *domain.MediaRecord) error
}

// CatalogGateway is the catalog store (LCM) surface the reconciler needs.
type CatalogGateway interface {
	GetRoomListing(ctx context.Context, propertyID, excludeMediaID int64) ([]domain.CatalogMediaRecord, error)
	UpdateRank(ctx context.Context, propertyID, mediaID int64, rank int, userID, systemTag string) error
}

// HeroReconciler restores the hero-uniqueness invariant after an event has
// set or cleared a property's hero image: every other image still marked
// hero in either store is demoted to its prior subcategory.
type HeroReconciler struct {
	docs      DocumentGateway
	catalog   CatalogGateway
	zone      *time.Location
	dom       string
	systemTag string
	logger    *slog.Logger
}

// NewHeroReconciler creates a hero reconciler. zone is the catalog store's
// local time zone; systemTag is the fixed system user catalog writes are
// attributed to.
func NewHeroReconciler(docs DocumentGateway, catalog CatalogGateway, zone *time.Location, dom, systemTag string, logger *slog.Logger) *HeroReconciler {
	return &HeroReconciler{
		docs:      docs,
		catalog:   catalog,
		zone:      zone,
		dom:       dom,
		systemTag: systemTag,
		logger:    logger,
	}
}

// ReconcileHero demotes every image other than assetGUID that is still
// marked hero for the property in either store. The caller must already have
// persisted the incoming asset's own state; this only fixes up other assets.
//
// For each stale document-store hero the catalog rank to restore depends on
// which store is the newer source of truth for that media id:
//
//   - catalog not strictly newer (after cross-zone, minute-granular
//     normalization): the document record's subcategory is written, default 0.
//   - catalog strictly newer: the rank is left alone unless it still carries
//     the reserved hero rank, which is demoted to 0 regardless.
//
// Catalog rows that carry the hero rank with no matching document-store hero
// at all are forced to 0. Writes are independent, one per media id, in no
// particular order. The first failure aborts the remaining writes; writes
// already applied stay applied (there is no cross-store transaction).
//
// Returns the number of media ids whose state was changed.
func (r *HeroReconciler) ReconcileHero(ctx context.Context, ev *domain.ImageEvent, propertyID int64, assetGUID string, newMediaID int64) (int, error) {
	heroes, err := r.docs.GetHeroMedia(ctx, propertyID, r.dom)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeStoreRead,
			"load hero media for property %d (asset %s)", propertyID, assetGUID)
	}

	listing, err := r.catalog.GetRoomListing(ctx, propertyID, newMediaID)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeStoreRead,
			"load catalog listing for property %d (asset %s)", propertyID, assetGUID)
	}

	byMedia := make(map[int64]domain.CatalogMediaRecord, len(listing))
	for _, row := range listing {
		byMedia[row.MediaID] = row
	}

	affected := 0
	reconciled := make(map[int64]bool, len(heroes))

	for i := range heroes {
		doc := &heroes[i]
		if doc.GUID == assetGUID || doc.MediaID == 0 {
			// The new hero must not be touched; records the catalog store
			// has never seen have nothing to reconcile there.
			continue
		}
		reconciled[doc.MediaID] = true

		restoreRank := -1
		if row, exists := byMedia[doc.MediaID]; exists {
			if !CatalogNewer(row.LastUpdate, r.zone, doc.LastUpdated) {
				restoreRank = doc.SubcategoryID()
			} else if row.IsHero() {
				// The catalog was updated more recently, but a lingering
				// hero rank is still cleared.
				restoreRank = 0
			}
		}

		if restoreRank >= 0 {
			if err := r.catalog.UpdateRank(ctx, propertyID, doc.MediaID, restoreRank, ev.UserID, r.systemTag); err != nil {
				return affected, errors.Wrapf(err, errors.CodeStoreWrite,
					"demote media %d for property %d (asset %s)", doc.MediaID, propertyID, assetGUID)
			}
		}

		doc.SetHero(false)
		doc.LastUpdated = time.Now().UTC()
		if err := r.docs.SaveMedia(ctx, doc); err != nil {
			return affected, errors.Wrapf(err, errors.CodeStoreWrite,
				"clear hero flag on media %s for property %d (asset %s)", doc.GUID, propertyID, assetGUID)
		}
		affected++

		r.logger.Info("demoted stale hero",
			"property_id", propertyID,
			"media_id", doc.MediaID,
			"guid", doc.GUID,
			"restored_rank", restoreRank,
		)
	}

	// Catalog-only heroes: rows carrying the hero rank with no document-store
	// hero record behind them are demoted without a subcategory to restore.
	for _, row := range listing {
		if !row.IsHero() || reconciled[row.MediaID] {
			continue
		}
		if err := r.catalog.UpdateRank(ctx, propertyID, row.MediaID, 0, ev.UserID, r.systemTag); err != nil {
			return affected, errors.Wrapf(err, errors.CodeStoreWrite,
				"demote unconfirmed catalog hero %d for property %d (asset %s)", row.MediaID, propertyID, assetGUID)
		}
		affected++

		r.logger.Info("demoted catalog-only hero",
			"property_id", propertyID,
			"media_id", row.MediaID,
		)
	}

	return affected, nil
}
