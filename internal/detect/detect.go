// Package detect implements novelty detection: the subsequence of a batch
// whose identifiers the history has never seen.
package detect

import (
	mapset "github.com/deckarep/golang-set/v2"

	"traineewatch/internal/domain"
)

// KnownIDs collects the identifier set of a loaded history.
func KnownIDs(history []domain.Listing) mapset.Set[string] {
	ids := mapset.NewThreadUnsafeSet[string]()
	for _, l := range history {
		ids.Add(l.ID)
	}
	return ids
}

// Novel returns the records absent from known, preserving the batch's
// relative order. Pure function; neither argument is modified.
func Novel(batch []domain.Listing, known mapset.Set[string]) []domain.Listing {
	var out []domain.Listing
	for _, l := range batch {
		if !known.Contains(l.ID) {
			out = append(out, l)
		}
	}
	return out
}
