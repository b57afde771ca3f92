package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func losAngeles(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

func TestCatalogNewer_EqualAfterNormalization(t *testing.T) {
	loc := losAngeles(t)

	// Catalog 2024-01-01 10:00 PST is 18:00 UTC. The document instant
	// 18:00:07Z loses its seconds, so the two are equal and the catalog is
	// NOT more recent.
	catalog := time.Date(2024, 1, 1, 10, 0, 0, 0, loc)
	document := time.Date(2024, 1, 1, 18, 0, 7, 0, time.UTC)

	assert.False(t, CatalogNewer(catalog, loc, document))
}

func TestCatalogNewer_CatalogOneMinuteAhead(t *testing.T) {
	loc := losAngeles(t)

	catalog := time.Date(2024, 1, 1, 10, 1, 0, 0, loc)
	document := time.Date(2024, 1, 1, 18, 0, 59, 0, time.UTC)

	assert.True(t, CatalogNewer(catalog, loc, document))
}

func TestCatalogNewer_DocumentAhead(t *testing.T) {
	loc := losAngeles(t)

	catalog := time.Date(2024, 1, 1, 10, 0, 0, 0, loc)
	document := time.Date(2024, 1, 1, 18, 1, 0, 0, time.UTC)

	assert.False(t, CatalogNewer(catalog, loc, document))
}

func TestCatalogNewer_StraySecondsOnCatalogDropped(t *testing.T) {
	loc := losAngeles(t)

	// Catalog timestamps are minute-granular by contract; any stray seconds
	// must not influence the comparison.
	catalog := time.Date(2024, 1, 1, 10, 0, 42, 0, loc)
	document := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

	assert.False(t, CatalogNewer(catalog, loc, document))
}

func TestCatalogNewer_DSTSummerOffset(t *testing.T) {
	loc := losAngeles(t)

	// In July Los Angeles is UTC-7: catalog 10:00 PDT == 17:00 UTC.
	catalog := time.Date(2024, 7, 1, 10, 0, 0, 0, loc)
	document := time.Date(2024, 7, 1, 16, 59, 0, 0, time.UTC)

	assert.True(t, CatalogNewer(catalog, loc, document))
}
