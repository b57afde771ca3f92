package domain

// EventKind classifies an inbound image event.
type EventKind string

// Image event kinds.
const (
	EventAdd       EventKind = "add"
	EventUpdate    EventKind = "update"
	EventReprocess EventKind = "reprocess"
)

// Valid reports whether the kind is one of the known event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventAdd, EventUpdate, EventReprocess:
		return true
	}
	return false
}

// ImageEvent is an inbound media event after validation. Hero and Active are
// pointers so "not mentioned" is distinguishable from an explicit false:
// a nil Hero means the event neither grants nor revokes hero status. Rooms
// is nil when the event carries no room list at all; an empty non-nil slice
// requests removal of every association.
type ImageEvent struct {
	EventID     string
	Kind        EventKind
	PropertyID  int64
	GUID        string
	FileName    string
	Provider    string
	UserID      string
	Hero        *bool
	Subcategory int
	Rooms       []RoomAssociation
	Active      *bool
	Caption     string
	Comment     string
}

// WantsHero reports whether the event explicitly grants hero status.
func (e *ImageEvent) WantsHero() bool {
	return e.Hero != nil && *e.Hero
}

// TouchesHero reports whether the event declares or revokes hero status,
// i.e. whether hero reconciliation must run after the event's own writes.
func (e *ImageEvent) TouchesHero() bool {
	return e.Hero != nil
}
