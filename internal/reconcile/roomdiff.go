package reconcile

import "github.com/openlodging/mediasync/internal/domain"

// RoomDiff is the set of operations needed to move a media asset's room
// associations from the persisted state to the requested state.
//
// AddAssociation / RemoveAssociation target the room-media association rows;
// AddHeroText / RemoveHeroText target the media reference on the room's
// paragraph row. The two pairs are independent axes: a room id appears in at
// most one association set and, separately, in at most one hero-text set.
type RoomDiff struct {
	AddAssociation    []domain.RoomAssociation
	RemoveAssociation []domain.RoomAssociation
	AddHeroText       []domain.RoomAssociation
	RemoveHeroText    []domain.RoomAssociation
}

// Empty reports whether the diff requires no work.
func (d RoomDiff) Empty() bool {
	return len(d.AddAssociation) == 0 && len(d.RemoveAssociation) == 0 &&
		len(d.AddHeroText) == 0 && len(d.RemoveHeroText) == 0
}

// DiffRooms computes the minimal operations to reconcile a media asset's
// requested room list with the currently persisted one. Both inputs are
// deduplicated by room id before comparison. The function is pure and
// order-independent; applying the resulting operations and diffing again
// yields an empty diff.
//
// Classification per requested room:
//   - persisted with the same hero flag: unchanged, no output.
//   - persisted with a different hero flag: hero-text change only (the
//     association row already exists).
//   - not persisted: new association, plus hero text when requested as hero.
//
// Persisted rooms absent from the request lose their association row, plus
// their hero text when the persisted flag was set.
func DiffRooms(requested, persisted []domain.RoomAssociation) RoomDiff {
	requested = domain.DedupeRooms(requested)
	persisted = domain.DedupeRooms(persisted)

	persistedByRoom := make(map[int64]domain.RoomAssociation, len(persisted))
	for _, p := range persisted {
		persistedByRoom[p.RoomID] = p
	}

	var diff RoomDiff
	requestedRooms := make(map[int64]bool, len(requested))

	for _, r := range requested {
		requestedRooms[r.RoomID] = true

		p, exists := persistedByRoom[r.RoomID]
		switch {
		case !exists:
			diff.AddAssociation = append(diff.AddAssociation, r)
			if r.Hero {
				diff.AddHeroText = append(diff.AddHeroText, r)
			}
		case p.Hero != r.Hero:
			if r.Hero {
				diff.AddHeroText = append(diff.AddHeroText, r)
			} else {
				diff.RemoveHeroText = append(diff.RemoveHeroText, r)
			}
		}
	}

	for _, p := range persisted {
		if requestedRooms[p.RoomID] {
			continue
		}
		diff.RemoveAssociation = append(diff.RemoveAssociation, p)
		if p.Hero {
			diff.RemoveHeroText = append(diff.RemoveHeroText, p)
		}
	}

	return diff
}
