// Package domain contains the core business entities for the MediaSync service:
// media assets, their catalog-store counterparts, and room associations.
package domain

import (
	"strconv"
	"time"
)

// Domain names for catalog items. Lodging is currently the only domain
// MediaSync serves.
const (
	DomainLodging = "Lodging"
)

// Well-known keys in MediaRecord.Fields.
const (
	FieldPropertyHero  = "propertyHero"
	FieldSubcategoryID = "subcategoryId"
	FieldCaption       = "caption"
	FieldComment       = "comment"
)

// MediaRecord is a media asset as known to the document store (MediaDB).
//
// A record is created on first ingestion of an asset and mutated on every
// update or reprocess event. Records are never hard-deleted; retirement is
// Active=false. MediaID is the catalog store's numeric id for the same
// physical asset and is 0 until the asset has been registered there.
type MediaRecord struct {
	GUID        string            `json:"guid"`
	MediaID     int64             `json:"media_id,omitempty"`
	PropertyID  int64             `json:"property_id"`
	Domain      string            `json:"domain"`
	Fields      map[string]string `json:"fields,omitempty"`
	Active      bool              `json:"active"`
	LastUpdated time.Time         `json:"last_updated"`
	FileName    string            `json:"file_name"`
	Provider    string            `json:"provider,omitempty"`
}

// IsHero reports whether the record carries the property-hero designation.
// The flag is stored as a boolean-as-string domain field.
func (m *MediaRecord) IsHero() bool {
	return m.Fields[FieldPropertyHero] == "true"
}

// SetHero sets or clears the property-hero domain field.
func (m *MediaRecord) SetHero(hero bool) {
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	m.Fields[FieldPropertyHero] = strconv.FormatBool(hero)
}

// SubcategoryID returns the subcategory recorded in the domain fields.
// Absent or unparsable values resolve to 0.
func (m *MediaRecord) SubcategoryID() int {
	v, ok := m.Fields[FieldSubcategoryID]
	if !ok {
		return 0
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return id
}

// SetSubcategoryID records the subcategory in the domain fields.
func (m *MediaRecord) SetSubcategoryID(id int) {
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	m.Fields[FieldSubcategoryID] = strconv.Itoa(id)
}
