package reconcile

import "github.com/openlodging/mediasync/internal/domain"

// SelectReplacement picks the canonical record to reuse when an incoming
// "add" event reprocesses previously ingested content. Candidates share a
// file name with the incoming event; the caller is responsible for having
// confirmed file name, property, and provider matches. This function only
// ranks.
//
// Inactive candidates are ignored. Among the active ones the most recently
// updated wins; ties go to the first encountered. ok is false when no
// candidate is active.
func SelectReplacement(candidates []domain.MediaRecord) (best domain.MediaRecord, ok bool) {
	for _, c := range candidates {
		if !c.Active {
			continue
		}
		if !ok || c.LastUpdated.After(best.LastUpdated) {
			best = c
			ok = true
		}
	}
	return best, ok
}
