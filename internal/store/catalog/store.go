// Package catalog provides the SQLite-backed catalog store gateway (the
// relational "LCM" side of the dual-store engine): property media ranks,
// room-media associations, and room paragraphs.
package catalog

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// catalogTimeLayout is the minute-granular wall-clock format catalog
// timestamps are stored in. Seconds are always zero.
const catalogTimeLayout = "2006-01-02 15:04"

// Store provides catalog-store persistence. All timestamps it writes and
// reads are wall-clock values in the configured zone.
type Store struct {
	db     *sql.DB
	zone   *time.Location
	logger *slog.Logger
}

// Open creates a catalog store at the given path. It configures WAL mode,
// sets pragmas, and runs the embedded schema.
func Open(path string, zone *time.Location, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if zone == nil {
		zone = time.UTC
	}

	return &Store{db: db, zone: zone, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// now returns the current catalog timestamp string: minute-granular
// wall-clock time in the store's zone.
func (s *Store) now() string {
	return time.Now().In(s.zone).Format(catalogTimeLayout)
}

// parseTime parses a stored catalog timestamp back into a wall-clock value
// in the store's zone.
func (s *Store) parseTime(raw string) (time.Time, error) {
	return time.ParseInLocation(catalogTimeLayout, raw, s.zone)
}

// attribution combines the fixed system tag with the requesting user for
// updated_by columns.
func attribution(systemTag, userID string) string {
	if systemTag == "" {
		return userID
	}
	if userID == "" {
		return systemTag
	}
	return systemTag + "/" + userID
}
