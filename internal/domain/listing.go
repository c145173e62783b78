package domain

import "time"

// Listing is one traineeship/job posting as extracted from a listings page.
// Instances are immutable after extraction; only novel ones reach the store.
type Listing struct {
	ID           string // stable identifier: native data-id or derived hash
	Title        string
	Organization string
	Location     string
	Category     string
	Duration     string
	StartDate    string
	EndDate      string
	Deadline     string
	Reference    string
	Description  string // snippet, capped at extract.MaxDescriptionLen
	URL          string
	FirstSeen    time.Time
}
