package mediadb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/openlodging/mediasync/internal/domain"
	"github.com/openlodging/mediasync/internal/errors"
)

// SaveMedia upserts a media record and maintains its index keys in the same
// transaction. A file-name change moves the record's file index entry.
func (s *Store) SaveMedia(ctx context.Context, rec *domain.MediaRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.GUID == "" {
		return errors.Validation("media record has no GUID")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal media record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// An existing record may hold a stale file index entry.
		item, err := txn.Get(recordKey(rec.GUID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			var prev domain.MediaRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &prev)
			}); err != nil {
				return fmt.Errorf("unmarshal existing record: %w", err)
			}
			if prev.FileName != "" && prev.FileName != rec.FileName {
				if err := txn.Delete(fileIndexKey(prev.FileName, rec.GUID)); err != nil {
					return err
				}
			}
		}

		if err := txn.Set(recordKey(rec.GUID), data); err != nil {
			return err
		}
		if err := txn.Set(propertyIndexKey(rec.PropertyID, rec.GUID), nil); err != nil {
			return err
		}
		if rec.FileName != "" {
			if err := txn.Set(fileIndexKey(rec.FileName, rec.GUID), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByGUID returns the media record for an asset GUID.
func (s *Store) GetByGUID(ctx context.Context, guid string) (*domain.MediaRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec domain.MediaRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(guid))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.NotFoundf("media %s not found", guid)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetHeroMedia returns all active media records for the property in the
// given domain whose domain fields currently mark them hero.
func (s *Store) GetHeroMedia(ctx context.Context, propertyID int64, dom string) ([]domain.MediaRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var heroes []domain.MediaRecord
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(propertyPrefix + strconv.FormatInt(propertyID, 10) + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			guid := strings.TrimPrefix(string(it.Item().Key()), string(prefix))

			item, err := txn.Get(recordKey(guid))
			if err != nil {
				return fmt.Errorf("load indexed record %s: %w", guid, err)
			}

			var rec domain.MediaRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}

			if rec.Active && rec.Domain == dom && rec.IsHero() {
				heroes = append(heroes, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return heroes, nil
}

// GetByFilename returns every media record sharing a file name, active or
// not. Callers filter and rank (see reconcile.SelectReplacement).
func (s *Store) GetByFilename(ctx context.Context, fileName string) ([]domain.MediaRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fileName == "" {
		return nil, nil
	}

	var records []domain.MediaRecord
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(filePrefix + fileName + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			guid := strings.TrimPrefix(string(it.Item().Key()), string(prefix))

			item, err := txn.Get(recordKey(guid))
			if err != nil {
				return fmt.Errorf("load indexed record %s: %w", guid, err)
			}

			var rec domain.MediaRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
