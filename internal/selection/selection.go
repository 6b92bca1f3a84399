package selection

import (
	"github.com/etudehq/etude/internal/rhythm"
	"github.com/etudehq/etude/internal/score"
)

// NoteRef addresses one note in the score.
type NoteRef struct {
	StaffIndex   int    `json:"staffIndex"`
	MeasureIndex int    `json:"measureIndex"`
	EventID      string `json:"eventId"`
	NoteID       string `json:"noteId"`
}

// PreviewMode says where the ghost cursor's note would land.
type PreviewMode int

// Ghost cursor placement modes.
const (
	// Append places the note after the measure's existing content.
	Append PreviewMode = iota
	// Insert places the note between existing events.
	Insert
)

// PreviewNote is the ghost cursor: a not-yet-committed note rendered
// at the edge of content. Quant is its start offset within the
// measure; Index is the event index an Insert would use.
type PreviewNote struct {
	StaffIndex   int             `json:"staffIndex"`
	MeasureIndex int             `json:"measureIndex"`
	Quant        int             `json:"quant"`
	Pitch        string          `json:"pitch"`
	Duration     rhythm.Duration `json:"duration"`
	Dotted       bool            `json:"dotted"`
	Mode         PreviewMode     `json:"mode"`
	Index        int             `json:"index"`
}

// Selection is the cursor state. MeasureIndex of -1 means no
// selection. An empty EventID with a valid MeasureIndex is the append
// position at the measure's end, optionally carrying a Preview.
type Selection struct {
	StaffIndex    int          `json:"staffIndex"`
	MeasureIndex  int          `json:"measureIndex"`
	EventID       string       `json:"eventId,omitempty"`
	NoteID        string       `json:"noteId,omitempty"`
	SelectedNotes []NoteRef    `json:"selectedNotes,omitempty"`
	Anchor        *NoteRef     `json:"anchor,omitempty"`
	Preview       *PreviewNote `json:"preview,omitempty"`
}

// None returns an empty selection.
func None() *Selection {
	return &Selection{MeasureIndex: -1}
}

// HasFocus reports whether the selection points at a real event.
func (sel *Selection) HasFocus() bool {
	return sel.MeasureIndex >= 0 && sel.EventID != ""
}

// Focus returns the focused note as a ref, and false when the
// selection has no real focus.
func (sel *Selection) Focus() (NoteRef, bool) {
	if !sel.HasFocus() {
		return NoteRef{}, false
	}
	return NoteRef{
		StaffIndex:   sel.StaffIndex,
		MeasureIndex: sel.MeasureIndex,
		EventID:      sel.EventID,
		NoteID:       sel.NoteID,
	}, true
}

// contains reports whether the multi-select set holds ref.
func (sel *Selection) contains(ref NoteRef) bool {
	for _, r := range sel.SelectedNotes {
		if r == ref {
			return true
		}
	}
	return false
}

// linearize flattens the score's notes in staff, measure, event, chord
// order. Rests (events without notes) contribute one ref with an empty
// NoteID so they stay addressable in ranges.
func linearize(s *score.Score) []NoteRef {
	var refs []NoteRef
	for si, st := range s.Staves {
		for mi, m := range st.Measures {
			for _, ev := range m.Events {
				if len(ev.Notes) == 0 {
					refs = append(refs, NoteRef{StaffIndex: si, MeasureIndex: mi, EventID: ev.ID})
					continue
				}
				for _, n := range ev.Notes {
					refs = append(refs, NoteRef{
						StaffIndex:   si,
						MeasureIndex: mi,
						EventID:      ev.ID,
						NoteID:       n.ID,
					})
				}
			}
		}
	}
	return refs
}

// refIndex finds ref's position in the linearized order, matching by
// event and note id only so the ref survives index drift.
func refIndex(refs []NoteRef, ref NoteRef) int {
	for i, r := range refs {
		if r.EventID == ref.EventID && r.NoteID == ref.NoteID {
			return i
		}
	}
	return -1
}

// metric orders notes vertically across staves: higher staves and
// higher pitches sort higher.
func metric(s *score.Score, ref NoteRef) int {
	base := (10 - ref.StaffIndex) * 1000
	m := s.MeasureAt(ref.StaffIndex, ref.MeasureIndex)
	if m == nil {
		return base
	}
	idx := m.EventIndex(ref.EventID)
	if idx < 0 {
		return base
	}
	ev := m.Events[idx]
	ni := ev.NoteByID(ref.NoteID)
	if ni < 0 {
		return base
	}
	n := ev.Notes[ni]
	return base + score.MIDIPitch(n.Pitch, n.Accidental)
}
