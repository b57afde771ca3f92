package api

import (
	"time"

	"github.com/openlodging/mediasync/internal/domain"
)

// ImageEventRequest is the inbound event payload. GUID is required for
// update and reprocess events; add events may omit it and receive a minted
// identity (or a reused one under replacement semantics).
type ImageEventRequest struct {
	EventID     string        `json:"event_id" validate:"omitempty,max=64"`
	Kind        string        `json:"kind" validate:"required,oneof=add update reprocess"`
	PropertyID  int64         `json:"property_id" validate:"required,gt=0"`
	GUID        string        `json:"guid" validate:"required_unless=Kind add,omitempty,uuid"`
	FileName    string        `json:"file_name" validate:"required_if=Kind add"`
	Provider    string        `json:"provider"`
	UserID      string        `json:"user_id" validate:"required"`
	Hero        *bool         `json:"hero"`
	Subcategory int           `json:"subcategory" validate:"gte=0"`
	Rooms       []RoomRequest `json:"rooms"`
	Active      *bool         `json:"active"`
	Caption     string        `json:"caption"`
	Comment     string        `json:"comment"`
}

// RoomRequest is one requested room association.
type RoomRequest struct {
	RoomID int64 `json:"room_id" validate:"required,gt=0"`
	Hero   bool  `json:"hero"`
}

// toDomain converts the request into a domain event. A nil Rooms slice stays
// nil so the service can distinguish "no room list" from "remove all".
func (r *ImageEventRequest) toDomain() *domain.ImageEvent {
	ev := &domain.ImageEvent{
		EventID:     r.EventID,
		Kind:        domain.EventKind(r.Kind),
		PropertyID:  r.PropertyID,
		GUID:        r.GUID,
		FileName:    r.FileName,
		Provider:    r.Provider,
		UserID:      r.UserID,
		Hero:        r.Hero,
		Subcategory: r.Subcategory,
		Active:      r.Active,
		Caption:     r.Caption,
		Comment:     r.Comment,
	}
	if r.Rooms != nil {
		ev.Rooms = make([]domain.RoomAssociation, len(r.Rooms))
		for i, room := range r.Rooms {
			ev.Rooms[i] = domain.RoomAssociation{RoomID: room.RoomID, Hero: room.Hero}
		}
	}
	return ev
}

// MediaResponse is the outbound view of a media record.
type MediaResponse struct {
	GUID        string    `json:"guid"`
	MediaID     int64     `json:"media_id,omitempty"`
	PropertyID  int64     `json:"property_id"`
	Hero        bool      `json:"hero"`
	Subcategory int       `json:"subcategory"`
	Active      bool      `json:"active"`
	FileName    string    `json:"file_name"`
	Provider    string    `json:"provider,omitempty"`
	Caption     string    `json:"caption,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

func toMediaResponse(rec *domain.MediaRecord) MediaResponse {
	return MediaResponse{
		GUID:        rec.GUID,
		MediaID:     rec.MediaID,
		PropertyID:  rec.PropertyID,
		Hero:        rec.IsHero(),
		Subcategory: rec.SubcategoryID(),
		Active:      rec.Active,
		FileName:    rec.FileName,
		Provider:    rec.Provider,
		Caption:     rec.Fields[domain.FieldCaption],
		Comment:     rec.Fields[domain.FieldComment],
		LastUpdated: rec.LastUpdated,
	}
}

// RoomResponse is one persisted room association.
type RoomResponse struct {
	RoomID int64 `json:"room_id"`
	Hero   bool  `json:"hero"`
}

func toRoomResponses(rooms []domain.RoomAssociation) []RoomResponse {
	out := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		out[i] = RoomResponse{RoomID: r.RoomID, Hero: r.Hero}
	}
	return out
}
