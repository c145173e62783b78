// Package extract turns raw listings-page markup into normalized records.
// Each site gets its own ruleset; all rulesets share the same contract:
// best-effort per field, skip-and-continue per container, and a
// distinguishable error when the page structure no longer matches anything.
package extract

import (
	"errors"

	"traineewatch/internal/domain"
)

const (
	// MinTitleLen is the only hard requirement on a record. Containers whose
	// title resolves to something shorter are discarded.
	MinTitleLen = 3

	// MaxDescriptionLen caps stored description snippets.
	MaxDescriptionLen = 200
)

// ErrStructureChanged reports that no strategy located any listing
// containers. The site markup has likely changed; this is a run failure,
// not a parse crash.
var ErrStructureChanged = errors.New("no listing containers found; page structure may have changed")

// Source extracts listing records from one site's page markup.
type Source interface {
	Name() string
	ListURL() string
	Extract(html string) ([]domain.Listing, error)
}
