package reconcile

import "time"

// The two stores record time differently: the catalog store keeps wall-clock
// values in a fixed local zone with minute granularity (seconds are never
// populated), while the document store keeps UTC instants with second-or-finer
// granularity. Comparing them raw would let sub-minute noise decide which
// store wins, so both sides are normalized to minute-granular instants first.

// catalogInstant interprets a catalog-store timestamp as a wall-clock value
// in the store's zone and converts it to an absolute instant, dropping any
// stray sub-minute component.
func catalogInstant(t time.Time, zone *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, zone)
}

// documentInstant normalizes a document-store timestamp to UTC with seconds
// and nanoseconds dropped.
func documentInstant(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), 0, 0, time.UTC)
}

// CatalogNewer reports whether a catalog-store timestamp is strictly more
// recent than a document-store timestamp after normalization. Equal instants
// mean the document store remains the source of truth.
func CatalogNewer(catalog time.Time, zone *time.Location, document time.Time) bool {
	return catalogInstant(catalog, zone).After(documentInstant(document))
}
