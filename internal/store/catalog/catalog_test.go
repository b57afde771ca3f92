package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlodging/mediasync/internal/domain"
	"github.com/openlodging/mediasync/internal/errors"
	"github.com/openlodging/mediasync/internal/reconcile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	zone, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"), zone, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestRegisterMedia_AssignsSequentialIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.RegisterMedia(ctx, 5001, 0, "u-1")
	require.NoError(t, err)
	second, err := s.RegisterMedia(ctx, 5001, domain.HeroRank, "u-1")
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestGetRoomListing_ExcludesMediaID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.RegisterMedia(ctx, 5001, 2, "u-1")
	require.NoError(t, err)
	b, err := s.RegisterMedia(ctx, 5001, domain.HeroRank, "u-1")
	require.NoError(t, err)
	_, err = s.RegisterMedia(ctx, 6001, 1, "u-1")
	require.NoError(t, err)

	listing, err := s.GetRoomListing(ctx, 5001, b)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, a, listing[0].MediaID)
	assert.Equal(t, 2, listing[0].MediaUseRank)
	assert.Equal(t, int64(5001), listing[0].PropertyID)
}

func TestGetRoomListing_TimestampsAreMinuteGranularInZone(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.RegisterMedia(ctx, 5001, 0, "u-1")
	require.NoError(t, err)

	listing, err := s.GetRoomListing(ctx, 5001, 0)
	require.NoError(t, err)
	require.Len(t, listing, 1)

	ts := listing[0].LastUpdate
	assert.Zero(t, ts.Second())
	assert.Zero(t, ts.Nanosecond())
	assert.Equal(t, s.zone.String(), ts.Location().String())
	assert.WithinDuration(t, time.Now(), ts, 2*time.Minute)
}

func TestUpdateRank(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mediaID, err := s.RegisterMedia(ctx, 5001, domain.HeroRank, "u-1")
	require.NoError(t, err)

	require.NoError(t, s.UpdateRank(ctx, 5001, mediaID, 7, "u-2", "MediaSyncService"))

	listing, err := s.GetRoomListing(ctx, 5001, 0)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, 7, listing[0].MediaUseRank)
	assert.Equal(t, "MediaSyncService/u-2", listing[0].UpdatedBy)
}

func TestUpdateRank_UnknownMediaNotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.UpdateRank(context.Background(), 5001, 99999, 0, "u-1", "MediaSyncService")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestRoomAssociations_HeroDerivedFromParagraph(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mediaID, err := s.RegisterMedia(ctx, 5001, 0, "u-1")
	require.NoError(t, err)

	require.NoError(t, s.InsertAssociation(ctx, 10, mediaID, 2, "u-1"))
	require.NoError(t, s.InsertAssociation(ctx, 11, mediaID, 2, "u-1"))
	require.NoError(t, s.SetParagraphMediaRef(ctx, 10, &mediaID, "u-1"))

	rooms, err := s.GetRoomsByMediaID(ctx, mediaID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	byRoom := make(map[int64]bool, len(rooms))
	for _, r := range rooms {
		byRoom[r.RoomID] = r.Hero
	}
	assert.True(t, byRoom[10])
	assert.False(t, byRoom[11])
}

func TestDeleteAssociation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mediaID, err := s.RegisterMedia(ctx, 5001, 0, "u-1")
	require.NoError(t, err)
	require.NoError(t, s.InsertAssociation(ctx, 10, mediaID, 2, "u-1"))

	require.NoError(t, s.DeleteAssociation(ctx, 10, mediaID))

	rooms, err := s.GetRoomsByMediaID(ctx, mediaID)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestGetParagraph(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.GetParagraph(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, p)

	mediaID := int64(7)
	require.NoError(t, s.SetParagraphMediaRef(ctx, 42, &mediaID, "u-1"))

	p, err = s.GetParagraph(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, p.MediaID)
	assert.Equal(t, int64(7), *p.MediaID)

	require.NoError(t, s.SetParagraphMediaRef(ctx, 42, nil, "u-1"))

	p, err = s.GetParagraph(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Nil(t, p.MediaID)
}

func TestApplyRoomChanges_FullCycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mediaID, err := s.RegisterMedia(ctx, 5001, 0, "u-1")
	require.NoError(t, err)

	// Persist rooms 1 (non-hero) and 3 (hero), then request rooms 1 (hero)
	// and 2 (non-hero), exercising all four change sets.
	require.NoError(t, s.InsertAssociation(ctx, 1, mediaID, 2, "u-1"))
	require.NoError(t, s.InsertAssociation(ctx, 3, mediaID, 2, "u-1"))
	require.NoError(t, s.SetParagraphMediaRef(ctx, 3, &mediaID, "u-1"))

	persisted, err := s.GetRoomsByMediaID(ctx, mediaID)
	require.NoError(t, err)

	requested := []domain.RoomAssociation{
		{RoomID: 1, Hero: true},
		{RoomID: 2, Hero: false},
	}
	diff := reconcile.DiffRooms(requested, persisted)

	changes := RoomChanges{
		Add:            diff.AddAssociation,
		Remove:         diff.RemoveAssociation,
		AddHeroText:    diff.AddHeroText,
		RemoveHeroText: diff.RemoveHeroText,
	}
	require.NoError(t, s.ApplyRoomChanges(ctx, mediaID, 2, "u-2", changes))

	after, err := s.GetRoomsByMediaID(ctx, mediaID)
	require.NoError(t, err)

	byRoom := make(map[int64]bool, len(after))
	for _, r := range after {
		byRoom[r.RoomID] = r.Hero
	}
	assert.Equal(t, map[int64]bool{1: true, 2: false}, byRoom)

	// Applying the requested state again must be a no-op.
	assert.True(t, reconcile.DiffRooms(requested, after).Empty())
}
