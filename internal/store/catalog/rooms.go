package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openlodging/mediasync/internal/domain"
)

// RoomChanges is the set of room-side writes to apply for one media asset.
// The service layer maps the reconciler's room diff onto it.
type RoomChanges struct {
	Add            []domain.RoomAssociation
	Remove         []domain.RoomAssociation
	AddHeroText    []domain.RoomAssociation
	RemoveHeroText []domain.RoomAssociation
}

// GetRoomsByMediaID returns the rooms currently associated with a media
// asset. A room counts as hero when its paragraph's media reference points
// at this asset.
func (s *Store) GetRoomsByMediaID(ctx context.Context, mediaID int64) ([]domain.RoomAssociation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rm.room_id, COALESCE(p.media_id = rm.media_id, 0)
		FROM room_media rm
		LEFT JOIN paragraphs p ON p.room_id = rm.room_id
		WHERE rm.media_id = ?`,
		mediaID,
	)
	if err != nil {
		return nil, fmt.Errorf("query room_media: %w", err)
	}
	defer rows.Close()

	var rooms []domain.RoomAssociation
	for rows.Next() {
		var r domain.RoomAssociation
		if err := rows.Scan(&r.RoomID, &r.Hero); err != nil {
			return nil, fmt.Errorf("scan room_media: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return rooms, nil
}

// InsertAssociation creates a room-media association row.
func (s *Store) InsertAssociation(ctx context.Context, roomID, mediaID int64, subcategory int, userID string) error {
	return insertAssociation(ctx, s.db, roomID, mediaID, subcategory, userID, s.now())
}

// DeleteAssociation removes a room-media association row.
func (s *Store) DeleteAssociation(ctx context.Context, roomID, mediaID int64) error {
	return deleteAssociation(ctx, s.db, roomID, mediaID)
}

// ApplyRoomChanges applies all room-side writes for one event in a single
// local transaction, so a partial room reconciliation cannot be observed
// within this store. Cross-store atomicity is still not provided.
func (s *Store) ApplyRoomChanges(ctx context.Context, mediaID int64, rank int, userID string, changes RoomChanges) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := s.now()

	for _, r := range changes.Remove {
		if err := deleteAssociation(ctx, tx, r.RoomID, mediaID); err != nil {
			return err
		}
	}
	for _, r := range changes.Add {
		if err := insertAssociation(ctx, tx, r.RoomID, mediaID, rank, userID, now); err != nil {
			return err
		}
	}
	for _, r := range changes.RemoveHeroText {
		if err := setParagraphMediaRef(ctx, tx, r.RoomID, nil, userID, now); err != nil {
			return err
		}
	}
	for _, r := range changes.AddHeroText {
		if err := setParagraphMediaRef(ctx, tx, r.RoomID, &mediaID, userID, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAssociation(ctx context.Context, db execer, roomID, mediaID int64, subcategory int, userID, now string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO room_media (room_id, media_id, media_use_rank, last_update, updated_by)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(room_id, media_id) DO UPDATE SET
			media_use_rank = excluded.media_use_rank,
			last_update = excluded.last_update,
			updated_by = excluded.updated_by`,
		roomID, mediaID, subcategory, now, userID,
	)
	if err != nil {
		return fmt.Errorf("insert room_media (room %d, media %d): %w", roomID, mediaID, err)
	}
	return nil
}

func deleteAssociation(ctx context.Context, db execer, roomID, mediaID int64) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM room_media WHERE room_id = ? AND media_id = ?`,
		roomID, mediaID,
	)
	if err != nil {
		return fmt.Errorf("delete room_media (room %d, media %d): %w", roomID, mediaID, err)
	}
	return nil
}
