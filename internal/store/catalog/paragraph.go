package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openlodging/mediasync/internal/domain"
	"github.com/openlodging/mediasync/internal/errors"
)

// GetParagraph returns a room's paragraph row, or nil when the room has
// none yet.
func (s *Store) GetParagraph(ctx context.Context, roomID int64) (*domain.Paragraph, error) {
	var (
		p       domain.Paragraph
		mediaID sql.NullInt64
		raw     string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT room_id, media_id, last_update, updated_by
		FROM paragraphs
		WHERE room_id = ?`,
		roomID,
	).Scan(&p.RoomID, &mediaID, &raw, &p.UpdatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query paragraph: %w", err)
	}

	if mediaID.Valid {
		p.MediaID = &mediaID.Int64
	}
	if p.LastUpdate, err = s.parseTime(raw); err != nil {
		return nil, fmt.Errorf("parse last_update %q: %w", raw, err)
	}
	return &p, nil
}

// SetParagraphMediaRef sets or clears (mediaID nil) the media reference on a
// room's paragraph, creating the paragraph row if none exists.
func (s *Store) SetParagraphMediaRef(ctx context.Context, roomID int64, mediaID *int64, userID string) error {
	return setParagraphMediaRef(ctx, s.db, roomID, mediaID, userID, s.now())
}

func setParagraphMediaRef(ctx context.Context, db execer, roomID int64, mediaID *int64, userID, now string) error {
	ref := sql.NullInt64{}
	if mediaID != nil {
		ref = sql.NullInt64{Int64: *mediaID, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO paragraphs (room_id, media_id, last_update, updated_by)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(room_id) DO UPDATE SET
			media_id = excluded.media_id,
			last_update = excluded.last_update,
			updated_by = excluded.updated_by`,
		roomID, ref, now, userID,
	)
	if err != nil {
		return fmt.Errorf("set paragraph media ref (room %d): %w", roomID, err)
	}
	return nil
}
