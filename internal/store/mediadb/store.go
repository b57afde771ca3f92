// Package mediadb provides the Badger-backed document store gateway for
// media asset records (the "MediaDB" side of the dual-store engine).
//
// Records are stored as JSON documents keyed by asset GUID, with secondary
// index keys maintained in the same transaction as the document write:
// a property index for hero lookups and a file-name index for replacement
// candidate lookups.
package mediadb

import (
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

// Key layout. Index keys carry no value; the indexed GUID is the key suffix.
const (
	recordPrefix   = "media:"
	propertyPrefix = "media:idx:property:"
	filePrefix     = "media:idx:file:"
)

// Store wraps a Badger database holding media documents.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (creating if necessary) the document store at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Media state must survive a crash

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("media document store opened", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing media document store")
	}
	return s.db.Close()
}

// recordKey returns the document key for an asset GUID.
func recordKey(guid string) []byte {
	return []byte(recordPrefix + guid)
}

// propertyIndexKey returns the property index key for a record.
func propertyIndexKey(propertyID int64, guid string) []byte {
	return []byte(propertyPrefix + strconv.FormatInt(propertyID, 10) + ":" + guid)
}

// fileIndexKey returns the file-name index key for a record.
func fileIndexKey(fileName, guid string) []byte {
	return []byte(filePrefix + fileName + ":" + guid)
}
