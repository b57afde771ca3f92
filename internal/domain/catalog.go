package domain

import "time"

// HeroRank is the reserved mediaUseRank value that marks a catalog media row
// as the property's hero image. All other rank values are subcategory ids.
const HeroRank = 3

// CatalogMediaRecord is a media asset as known to the relational catalog
// store (LCM). The row may lag behind or be absent entirely for assets that
// so far exist only in the document store. Rows are never deleted; demotion
// resets MediaUseRank.
//
// LastUpdate carries the catalog store's clock semantics: a wall-clock value
// in the store's configured local zone, minute-granular (seconds are never
// populated).
type CatalogMediaRecord struct {
	PropertyID   int64
	MediaID      int64
	MediaUseRank int
	LastUpdate   time.Time
	UpdatedBy    string
}

// IsHero reports whether the row currently carries the reserved hero rank.
func (c *CatalogMediaRecord) IsHero() bool {
	return c.MediaUseRank == HeroRank
}

// Paragraph is a room's descriptive text row in the catalog store. A room's
// hero image is referenced from its paragraph; MediaID is nil when the room
// has no hero text association.
type Paragraph struct {
	RoomID     int64
	MediaID    *int64
	UpdatedBy  string
	LastUpdate time.Time
}
