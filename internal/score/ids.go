package score

import "github.com/google/uuid"

// NewID returns a fresh unique id for a note, event, measure, or tuplet
// group. Ids are opaque strings; nothing in the core orders or parses
// them.
func NewID() string {
	return uuid.NewString()
}
