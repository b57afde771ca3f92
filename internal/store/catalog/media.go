package catalog

import (
	"context"
	"fmt"

	"github.com/openlodging/mediasync/internal/domain"
	"github.com/openlodging/mediasync/internal/errors"
)

// RegisterMedia creates a property media row with the given initial rank and
// returns the catalog store's numeric media id for the asset.
func (s *Store) RegisterMedia(ctx context.Context, propertyID int64, rank int, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO property_media (property_id, media_use_rank, last_update, updated_by)
		VALUES (?, ?, ?, ?)`,
		propertyID, rank, s.now(), userID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert property_media: %w", err)
	}

	mediaID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return mediaID, nil
}

// GetRoomListing returns every property media row for the property except
// excludeMediaID. Pass 0 to exclude nothing.
func (s *Store) GetRoomListing(ctx context.Context, propertyID, excludeMediaID int64) ([]domain.CatalogMediaRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT media_id, media_use_rank, last_update, updated_by
		FROM property_media
		WHERE property_id = ? AND media_id != ?`,
		propertyID, excludeMediaID,
	)
	if err != nil {
		return nil, fmt.Errorf("query property_media: %w", err)
	}
	defer rows.Close()

	var listing []domain.CatalogMediaRecord
	for rows.Next() {
		var (
			rec domain.CatalogMediaRecord
			raw string
		)
		if err := rows.Scan(&rec.MediaID, &rec.MediaUseRank, &raw, &rec.UpdatedBy); err != nil {
			return nil, fmt.Errorf("scan property_media: %w", err)
		}
		rec.PropertyID = propertyID
		if rec.LastUpdate, err = s.parseTime(raw); err != nil {
			return nil, fmt.Errorf("parse last_update %q: %w", raw, err)
		}
		listing = append(listing, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return listing, nil
}

// UpdateRank sets a media row's rank, attributing the change to the fixed
// system tag plus the requesting user.
func (s *Store) UpdateRank(ctx context.Context, propertyID, mediaID int64, rank int, userID, systemTag string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE property_media
		SET media_use_rank = ?, last_update = ?, updated_by = ?
		WHERE property_id = ? AND media_id = ?`,
		rank, s.now(), attribution(systemTag, userID), propertyID, mediaID,
	)
	if err != nil {
		return fmt.Errorf("update property_media rank: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return errors.NotFoundf("media %d not registered for property %d", mediaID, propertyID)
	}
	return nil
}
