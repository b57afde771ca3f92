// Package service orchestrates image event processing: identity resolution,
// dual-store persistence, hero reconciliation, room association diffing, and
// downstream notification.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openlodging/mediasync/internal/config"
	"github.com/openlodging/mediasync/internal/dedupe"
	"github.com/openlodging/mediasync/internal/domain"
	"github.com/openlodging/mediasync/internal/errors"
	"github.com/openlodging/mediasync/internal/events"
	"github.com/openlodging/mediasync/internal/reconcile"
	"github.com/openlodging/mediasync/internal/store/catalog"
)

// DocumentStore is the document-store surface the service needs.
type DocumentStore interface {
	SaveMedia(ctx context.Context, rec *domain.MediaRecord) error
	GetByGUID(ctx context.Context, guid string) (*domain.MediaRecord, error)
	GetByFilename(ctx context.Context, fileName string) ([]domain.MediaRecord, error)
	GetHeroMedia(ctx context.Context, propertyID int64, dom string) ([]domain.MediaRecord, error)
}

// CatalogStore is the catalog-store surface the service needs.
type CatalogStore interface {
	RegisterMedia(ctx context.Context, propertyID int64, rank int, userID string) (int64, error)
	UpdateRank(ctx context.Context, propertyID, mediaID int64, rank int, userID, systemTag string) error
	GetRoomsByMediaID(ctx context.Context, mediaID int64) ([]domain.RoomAssociation, error)
	ApplyRoomChanges(ctx context.Context, mediaID int64, rank int, userID string, changes catalog.RoomChanges) error
}

// HeroReconciler restores hero uniqueness after an event changed a
// property's hero designation.
type HeroReconciler interface {
	ReconcileHero(ctx context.Context, ev *domain.ImageEvent, propertyID int64, assetGUID string, newMediaID int64) (int, error)
}

// Result summarizes what processing one event did.
type Result struct {
	GUID          string `json:"guid"`
	MediaID       int64  `json:"media_id"`
	Duplicate     bool   `json:"duplicate"`
	Replaced      bool   `json:"replaced"`
	HeroDemotions int    `json:"hero_demotions,omitempty"`
}

// MediaService processes validated image events against both stores.
type MediaService struct {
	docs       DocumentStore
	catalog    CatalogStore
	reconciler HeroReconciler
	publisher  events.Publisher
	dedupe     dedupe.Cache
	cfg        *config.Config
	logger     *slog.Logger
}

// NewMediaService creates the event processing service.
func NewMediaService(
	docs DocumentStore,
	cat CatalogStore,
	reconciler HeroReconciler,
	publisher events.Publisher,
	dd dedupe.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *MediaService {
	return &MediaService{
		docs:       docs,
		catalog:    cat,
		reconciler: reconciler,
		publisher:  publisher,
		dedupe:     dd,
		cfg:        cfg,
		logger:     logger,
	}
}

// HandleEvent processes one inbound image event end to end. Redelivered
// event ids short-circuit to a duplicate result. The two stores are written
// without a cross-store transaction; a failure partway leaves the writes
// already applied in place, and the caller is expected to redeliver.
func (s *MediaService) HandleEvent(ctx context.Context, ev *domain.ImageEvent) (*Result, error) {
	if !ev.Kind.Valid() {
		return nil, errors.Validationf("unknown event kind %q", ev.Kind)
	}
	if ev.PropertyID <= 0 {
		return nil, errors.Validation("event has no property id")
	}

	if ev.EventID != "" {
		seen, err := s.dedupe.MarkSeen(ctx, ev.EventID)
		if err != nil {
			// Dedupe is best effort; a cache outage must not stall the feed.
			s.logger.Warn("event dedupe unavailable", "event_id", ev.EventID, "error", err)
		} else if seen {
			s.logger.Info("duplicate event skipped", "event_id", ev.EventID, "property_id", ev.PropertyID)
			return &Result{GUID: ev.GUID, Duplicate: true}, nil
		}
	}

	var (
		res *Result
		err error
	)
	switch ev.Kind {
	case domain.EventAdd:
		res, err = s.handleAdd(ctx, ev)
	case domain.EventUpdate:
		res, err = s.handleMutation(ctx, ev, false)
	case domain.EventReprocess:
		res, err = s.handleMutation(ctx, ev, true)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ev, res)
	return res, nil
}

// handleAdd ingests new content. When the provider uses replacement
// semantics and previously ingested content shares the file name, the event
// continues the canonical prior record's identity (same GUID, same catalog
// media id) instead of minting a new one.
func (s *MediaService) handleAdd(ctx context.Context, ev *domain.ImageEvent) (*Result, error) {
	guid := ev.GUID
	var mediaID int64
	replaced := false

	if s.cfg.IsReplacementProvider(ev.Provider) && ev.FileName != "" {
		prior, err := s.docs.GetByFilename(ctx, ev.FileName)
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeStoreRead,
				"load prior media for file %s", ev.FileName)
		}
		if best, ok := reconcile.SelectReplacement(s.matchingCandidates(ev, prior)); ok {
			guid = best.GUID
			mediaID = best.MediaID
			replaced = true
			s.logger.Info("add treated as replacement",
				"property_id", ev.PropertyID,
				"file_name", ev.FileName,
				"guid", guid,
				"media_id", mediaID,
			)
		}
	}

	if guid == "" {
		guid = uuid.NewString()
	}

	rank := eventRank(ev)
	if mediaID == 0 {
		id, err := s.catalog.RegisterMedia(ctx, ev.PropertyID, rank, ev.UserID)
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeStoreWrite,
				"register media for property %d", ev.PropertyID)
		}
		mediaID = id
	} else if err := s.catalog.UpdateRank(ctx, ev.PropertyID, mediaID, rank, ev.UserID, s.cfg.Catalog.SystemTag); err != nil {
		return nil, errors.Wrapf(err, errors.CodeStoreWrite,
			"update rank for replaced media %d", mediaID)
	}

	rec := &domain.MediaRecord{
		GUID:        guid,
		MediaID:     mediaID,
		PropertyID:  ev.PropertyID,
		Domain:      s.cfg.Media.Domain,
		Active:      ev.Active == nil || *ev.Active,
		LastUpdated: time.Now().UTC(),
		FileName:    ev.FileName,
		Provider:    ev.Provider,
	}
	rec.SetHero(ev.WantsHero())
	rec.SetSubcategoryID(ev.Subcategory)
	applyTextFields(rec, ev)

	if err := s.docs.SaveMedia(ctx, rec); err != nil {
		return nil, errors.Wrapf(err, errors.CodeStoreWrite, "save media %s", guid)
	}

	res := &Result{GUID: guid, MediaID: mediaID, Replaced: replaced}
	if ev.WantsHero() {
		demoted, err := s.reconciler.ReconcileHero(ctx, ev, ev.PropertyID, guid, mediaID)
		if err != nil {
			return nil, err
		}
		res.HeroDemotions = demoted
	}

	if ev.Rooms != nil {
		// Room rows always carry the subcategory; the hero rank is a
		// property-level designation only.
		if err := s.reconcileRooms(ctx, ev, mediaID, ev.Subcategory); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// handleMutation applies an update or reprocess to an existing record,
// located by GUID. A reprocess reactivates the record unless the event
// explicitly retires it.
func (s *MediaService) handleMutation(ctx context.Context, ev *domain.ImageEvent, reprocess bool) (*Result, error) {
	rec, err := s.docs.GetByGUID(ctx, ev.GUID)
	if err != nil {
		return nil, err
	}
	if rec.PropertyID != ev.PropertyID {
		return nil, errors.Conflictf("media %s belongs to property %d, not %d",
			ev.GUID, rec.PropertyID, ev.PropertyID)
	}

	if ev.FileName != "" {
		rec.FileName = ev.FileName
	}
	if ev.Provider != "" {
		rec.Provider = ev.Provider
	}
	if ev.Active != nil {
		rec.Active = *ev.Active
	} else if reprocess {
		rec.Active = true
	}
	if ev.Hero != nil {
		rec.SetHero(*ev.Hero)
	}
	if ev.Subcategory != 0 || ev.TouchesHero() {
		rec.SetSubcategoryID(ev.Subcategory)
	}
	applyTextFields(rec, ev)
	rec.LastUpdated = time.Now().UTC()

	rank := rec.SubcategoryID()
	if rec.IsHero() {
		rank = domain.HeroRank
	}

	if rec.MediaID == 0 {
		// Never registered catalog-side, typically a record ingested before
		// the catalog store existed for this property.
		id, err := s.catalog.RegisterMedia(ctx, ev.PropertyID, rank, ev.UserID)
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeStoreWrite,
				"register media for property %d", ev.PropertyID)
		}
		rec.MediaID = id
	} else if err := s.catalog.UpdateRank(ctx, ev.PropertyID, rec.MediaID, rank, ev.UserID, s.cfg.Catalog.SystemTag); err != nil {
		return nil, errors.Wrapf(err, errors.CodeStoreWrite,
			"update rank for media %d", rec.MediaID)
	}

	if err := s.docs.SaveMedia(ctx, rec); err != nil {
		return nil, errors.Wrapf(err, errors.CodeStoreWrite, "save media %s", rec.GUID)
	}

	res := &Result{GUID: rec.GUID, MediaID: rec.MediaID}
	if ev.TouchesHero() {
		demoted, err := s.reconciler.ReconcileHero(ctx, ev, ev.PropertyID, rec.GUID, rec.MediaID)
		if err != nil {
			return nil, err
		}
		res.HeroDemotions = demoted
	}

	if ev.Rooms != nil {
		if err := s.reconcileRooms(ctx, ev, rec.MediaID, rec.SubcategoryID()); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// reconcileRooms diffs the event's room list against the persisted
// associations and applies the resulting changes in one catalog transaction.
func (s *MediaService) reconcileRooms(ctx context.Context, ev *domain.ImageEvent, mediaID int64, rank int) error {
	persisted, err := s.catalog.GetRoomsByMediaID(ctx, mediaID)
	if err != nil {
		return errors.Wrapf(err, errors.CodeStoreRead,
			"load room associations for media %d", mediaID)
	}

	diff := reconcile.DiffRooms(ev.Rooms, persisted)
	if diff.Empty() {
		return nil
	}

	changes := catalog.RoomChanges{
		Add:            diff.AddAssociation,
		Remove:         diff.RemoveAssociation,
		AddHeroText:    diff.AddHeroText,
		RemoveHeroText: diff.RemoveHeroText,
	}
	if err := s.catalog.ApplyRoomChanges(ctx, mediaID, rank, ev.UserID, changes); err != nil {
		return errors.Wrapf(err, errors.CodeStoreWrite,
			"apply room changes for media %d", mediaID)
	}

	s.logger.Info("room associations reconciled",
		"media_id", mediaID,
		"added", len(diff.AddAssociation),
		"removed", len(diff.RemoveAssociation),
		"hero_text_set", len(diff.AddHeroText),
		"hero_text_cleared", len(diff.RemoveHeroText),
	)
	return nil
}

// matchingCandidates narrows same-file-name records to those that can carry
// this event's identity: same property, same domain, same provider.
func (s *MediaService) matchingCandidates(ev *domain.ImageEvent, prior []domain.MediaRecord) []domain.MediaRecord {
	var out []domain.MediaRecord
	for _, c := range prior {
		if c.PropertyID != ev.PropertyID || c.Domain != s.cfg.Media.Domain {
			continue
		}
		if !s.cfg.IsReplacementProvider(c.Provider) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// publish emits the media-updated notification. Failures are logged, never
// surfaced: the event has already been applied.
func (s *MediaService) publish(ctx context.Context, ev *domain.ImageEvent, res *Result) {
	n := events.MediaUpdated{
		EventID:    ev.EventID,
		Kind:       string(ev.Kind),
		PropertyID: ev.PropertyID,
		GUID:       res.GUID,
		MediaID:    res.MediaID,
		Hero:       ev.WantsHero(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishMediaUpdated(ctx, n); err != nil {
		s.logger.Warn("media-updated publish failed",
			"event_id", ev.EventID,
			"guid", res.GUID,
			"error", err,
		)
	}
}

func applyTextFields(rec *domain.MediaRecord, ev *domain.ImageEvent) {
	if ev.Caption != "" {
		if rec.Fields == nil {
			rec.Fields = make(map[string]string)
		}
		rec.Fields[domain.FieldCaption] = ev.Caption
	}
	if ev.Comment != "" {
		if rec.Fields == nil {
			rec.Fields = make(map[string]string)
		}
		rec.Fields[domain.FieldComment] = ev.Comment
	}
}

func eventRank(ev *domain.ImageEvent) int {
	if ev.WantsHero() {
		return domain.HeroRank
	}
	return ev.Subcategory
}
