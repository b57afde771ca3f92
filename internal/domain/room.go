package domain

// RoomAssociation is a (room, hero-flag) pair for a media asset, either as
// currently persisted in the catalog store or as requested by an incoming
// update event.
type RoomAssociation struct {
	RoomID int64 `json:"room_id"`
	Hero   bool  `json:"hero"`
}

// DedupeRooms returns the associations deduplicated by room id,
// first-encountered-wins, preserving input order. Within a media asset's
// association set no two entries may share a room id.
func DedupeRooms(rooms []RoomAssociation) []RoomAssociation {
	if len(rooms) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(rooms))
	out := make([]RoomAssociation, 0, len(rooms))
	for _, r := range rooms {
		if seen[r.RoomID] {
			continue
		}
		seen[r.RoomID] = true
		out = append(out, r)
	}
	return out
}
