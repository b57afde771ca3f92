package reconcile

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlodging/mediasync/internal/domain"
	"github.com/openlodging/mediasync/internal/errors"
)

type fakeDocs struct {
	heroes  []domain.MediaRecord
	saved   []domain.MediaRecord
	saveErr error
	listErr error
}

func (f *fakeDocs) GetHeroMedia(_ context.Context, _ int64, _ string) ([]domain.MediaRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.MediaRecord, len(f.heroes))
	copy(out, f.heroes)
	return out, nil
}

func (f *fakeDocs) SaveMedia(_ context.Context, rec *domain.MediaRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *rec)
	return nil
}

type rankWrite struct {
	mediaID int64
	rank    int
	userID  string
	tag     string
}

type fakeCatalog struct {
	listing   []domain.CatalogMediaRecord
	writes    []rankWrite
	failOn    int64
	listErr   error
	writeErr  error
	lastExcl  int64
	lastProp  int64
	listCalls int
}

func (f *fakeCatalog) GetRoomListing(_ context.Context, propertyID, excludeMediaID int64) ([]domain.CatalogMediaRecord, error) {
	f.listCalls++
	f.lastProp = propertyID
	f.lastExcl = excludeMediaID
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.CatalogMediaRecord, 0, len(f.listing))
	for _, row := range f.listing {
		if row.MediaID != excludeMediaID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeCatalog) UpdateRank(_ context.Context, _ int64, mediaID int64, rank int, userID, tag string) error {
	if f.writeErr != nil && (f.failOn == 0 || f.failOn == mediaID) {
		return f.writeErr
	}
	f.writes = append(f.writes, rankWrite{mediaID: mediaID, rank: rank, userID: userID, tag: tag})
	return nil
}

func heroDoc(guid string, mediaID int64, subcategory int, updated time.Time) domain.MediaRecord {
	rec := domain.MediaRecord{
		GUID:        guid,
		MediaID:     mediaID,
		PropertyID:  5001,
		Domain:      domain.DomainLodging,
		Active:      true,
		LastUpdated: updated,
	}
	rec.SetHero(true)
	if subcategory != 0 {
		rec.SetSubcategoryID(subcategory)
	}
	return rec
}

func catalogRow(mediaID int64, rank int, updated time.Time) domain.CatalogMediaRecord {
	return domain.CatalogMediaRecord{
		PropertyID:   5001,
		MediaID:      mediaID,
		MediaUseRank: rank,
		LastUpdate:   updated,
	}
}

func newTestReconciler(t *testing.T, docs *fakeDocs, catalog *fakeCatalog) *HeroReconciler {
	t.Helper()
	return NewHeroReconciler(docs, catalog, losAngeles(t), domain.DomainLodging, "MediaSyncService",
		slog.New(slog.DiscardHandler))
}

func heroEvent(userID string) *domain.ImageEvent {
	hero := true
	return &domain.ImageEvent{
		Kind:       domain.EventUpdate,
		PropertyID: 5001,
		UserID:     userID,
		Hero:       &hero,
	}
}

func TestReconcileHero_RestoresDocumentSubcategory(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")

	// Catalog 10:00 PST equals document 18:00:07Z after normalization, so
	// the document store remains the source of truth.
	docs := &fakeDocs{heroes: []domain.MediaRecord{
		heroDoc("stale-1", 301, 7, time.Date(2024, 1, 1, 18, 0, 7, 0, time.UTC)),
	}}
	catalog := &fakeCatalog{listing: []domain.CatalogMediaRecord{
		catalogRow(301, domain.HeroRank, time.Date(2024, 1, 1, 10, 0, 0, 0, loc)),
	}}

	r := newTestReconciler(t, docs, catalog)
	affected, err := r.ReconcileHero(context.Background(), heroEvent("u-9"), 5001, "new-hero", 999)

	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	require.Len(t, catalog.writes, 1)
	assert.Equal(t, rankWrite{mediaID: 301, rank: 7, userID: "u-9", tag: "MediaSyncService"}, catalog.writes[0])

	require.Len(t, docs.saved, 1)
	assert.False(t, docs.saved[0].IsHero())
}

func TestReconcileHero_CatalogNewerKeepsRank(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")

	// The catalog row was touched an hour after the document and no longer
	// carries the hero rank: leave it alone, only the document flag clears.
	docs := &fakeDocs{heroes: []domain.MediaRecord{
		heroDoc("stale-1", 301, 7, time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)),
	}}
	catalog := &fakeCatalog{listing: []domain.CatalogMediaRecord{
		catalogRow(301, 4, time.Date(2024, 1, 1, 11, 0, 0, 0, loc)),
	}}

	r := newTestReconciler(t, docs, catalog)
	affected, err := r.ReconcileHero(context.Background(), heroEvent("u-9"), 5001, "new-hero", 999)

	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	assert.Empty(t, catalog.writes)
	require.Len(t, docs.saved, 1)
	assert.False(t, docs.saved[0].IsHero())
}

func TestReconcileHero_CatalogNewerButStillHeroRankDemotes(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")

	docs := &fakeDocs{heroes: []domain.MediaRecord{
		heroDoc("stale-1", 301, 7, time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)),
	}}
	catalog := &fakeCatalog{listing: []domain.CatalogMediaRecord{
		catalogRow(301, domain.HeroRank, time.Date(2024, 1, 1, 11, 0, 0, 0, loc)),
	}}

	r := newTestReconciler(t, docs, catalog)
	affected, err := r.ReconcileHero(context.Background(), heroEvent("u-9"), 5001, "new-hero", 999)

	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	require.Len(t, catalog.writes, 1)
	assert.Equal(t, 0, catalog.writes[0].rank)
}

func TestReconcileHero_NewHeroAndUnregisteredRecordsUntouched(t *testing.T) {
	docs := &fakeDocs{heroes: []domain.MediaRecord{
		heroDoc("new-hero", 999, 0, time.Now().UTC()),
		heroDoc("doc-only", 0, 2, time.Now().UTC()),
	}}
	catalog := &fakeCatalog{}

	r := newTestReconciler(t, docs, catalog)
	affected, err := r.ReconcileHero(context.Background(), heroEvent("u-9"), 5001, "new-hero", 999)

	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.Empty(t, catalog.writes)
	assert.Empty(t, docs.saved)
	assert.Equal(t, int64(999), catalog.lastExcl)
}

func TestReconcileHero_ForcesCatalogOnlyHeroToZero(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")

	docs := &fakeDocs{}
	catalog := &fakeCatalog{listing: []domain.CatalogMediaRecord{
		catalogRow(888, domain.HeroRank, time.Date(2024, 1, 1, 10, 0, 0, 0, loc)),
		catalogRow(889, 5, time.Date(2024, 1, 1, 10, 0, 0, 0, loc)),
	}}

	r := newTestReconciler(t, docs, catalog)
	affected, err := r.ReconcileHero(context.Background(), heroEvent("u-9"), 5001, "new-hero", 999)

	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	require.Len(t, catalog.writes, 1)
	assert.Equal(t, rankWrite{mediaID: 888, rank: 0, userID: "u-9", tag: "MediaSyncService"}, catalog.writes[0])
}

func TestReconcileHero_HeroUniquenessAfterReconcile(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")
	old := time.Date(2024, 1, 1, 10, 0, 0, 0, loc)

	// Several stale heroes in both stores; after reconciliation no media id
	// other than the new hero may carry the hero rank.
	docs := &fakeDocs{heroes: []domain.MediaRecord{
		heroDoc("stale-1", 301, 7, old.UTC()),
		heroDoc("stale-2", 302, 0, old.UTC()),
	}}
	catalog := &fakeCatalog{listing: []domain.CatalogMediaRecord{
		catalogRow(301, domain.HeroRank, old),
		catalogRow(302, domain.HeroRank, old),
		catalogRow(303, domain.HeroRank, old), // catalog-only hero
	}}

	r := newTestReconciler(t, docs, catalog)
	affected, err := r.ReconcileHero(context.Background(), heroEvent("u-9"), 5001, "new-hero", 999)

	require.NoError(t, err)
	assert.Equal(t, 3, affected)

	final := make(map[int64]int)
	for _, row := range catalog.listing {
		final[row.MediaID] = row.MediaUseRank
	}
	for _, w := range catalog.writes {
		final[w.mediaID] = w.rank
	}
	heroCount := 0
	for _, rank := range final {
		if rank == domain.HeroRank {
			heroCount++
		}
	}
	assert.Zero(t, heroCount, "no stale media may keep the hero rank")
}

func TestReconcileHero_WriteFailureAbortsAndNamesAsset(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")
	old := time.Date(2024, 1, 1, 10, 0, 0, 0, loc)

	docs := &fakeDocs{heroes: []domain.MediaRecord{
		heroDoc("stale-1", 301, 7, old.UTC()),
		heroDoc("stale-2", 302, 2, old.UTC()),
	}}
	catalog := &fakeCatalog{
		listing: []domain.CatalogMediaRecord{
			catalogRow(301, domain.HeroRank, old),
			catalogRow(302, domain.HeroRank, old),
		},
		failOn:   302,
		writeErr: assert.AnError,
	}

	r := newTestReconciler(t, docs, catalog)
	affected, err := r.ReconcileHero(context.Background(), heroEvent("u-9"), 5001, "new-hero", 999)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreWrite))
	assert.Contains(t, err.Error(), "new-hero")

	// The write already applied stays applied; no rollback exists.
	assert.Equal(t, 1, affected)
	require.Len(t, catalog.writes, 1)
	assert.Equal(t, int64(301), catalog.writes[0].mediaID)
}

func TestReconcileHero_ReadFailureWrapped(t *testing.T) {
	docs := &fakeDocs{listErr: assert.AnError}
	catalog := &fakeCatalog{}

	r := newTestReconciler(t, docs, catalog)
	_, err := r.ReconcileHero(context.Background(), heroEvent("u-9"), 5001, "new-hero", 999)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreRead))
	assert.Zero(t, catalog.listCalls)
}
