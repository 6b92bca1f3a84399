package command

import (
	"github.com/etudehq/etude/internal/score"
)

// AddNoteToEvent adds a pitch to an event's chord. Adding a pitch the
// chord already holds (enharmonically) is a no-op. Adding a pitch to a
// rest converts it to a sounding event.
type AddNoteToEvent struct {
	StaffIndex   int
	MeasureIndex int
	EventID      string
	Pitch        string
	Accidental   string

	noteID  string
	wasRest bool
}

// Type identifies the command kind.
func (c *AddNoteToEvent) Type() string { return "addNote" }

// Execute appends the note, generating its id on first run.
func (c *AddNoteToEvent) Execute(s *score.Score) *score.Score {
	if c.Pitch == "" {
		return s
	}
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	idx := m.EventIndex(c.EventID)
	if idx < 0 {
		return s
	}
	ev := m.Events[idx]
	if ev.HasPitch(c.Pitch, c.Accidental) {
		return s
	}

	if c.noteID == "" {
		c.noteID = score.NewID()
	}
	c.wasRest = ev.Rest
	return score.MutateEvent(s, c.StaffIndex, c.MeasureIndex, c.EventID, func(ne *score.Event) {
		ne.Notes = append(ne.Notes, score.Note{ID: c.noteID, Pitch: c.Pitch, Accidental: c.Accidental})
		ne.Rest = false
	})
}

// Undo removes the added note by id, restoring the rest flag when the
// event was a rest before.
func (c *AddNoteToEvent) Undo(s *score.Score) *score.Score {
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	idx := m.EventIndex(c.EventID)
	if idx < 0 || m.Events[idx].NoteByID(c.noteID) < 0 {
		return s
	}
	return score.MutateEvent(s, c.StaffIndex, c.MeasureIndex, c.EventID, func(ne *score.Event) {
		ni := ne.NoteByID(c.noteID)
		ne.Notes = append(ne.Notes[:ni], ne.Notes[ni+1:]...)
		ne.Rest = c.wasRest
	})
}

// UpdateNote changes a note's pitch, accidental, and/or tie flag,
// capturing the previous values. Changing the pitch onto one the chord
// already holds is a no-op.
type UpdateNote struct {
	StaffIndex   int
	MeasureIndex int
	EventID      string
	NoteID       string
	Pitch        *string
	Accidental   *string
	Tied         *bool

	prev    score.Note
	applied bool
}

// Type identifies the command kind.
func (c *UpdateNote) Type() string { return "updateNote" }

// Execute applies the partial update.
func (c *UpdateNote) Execute(s *score.Score) *score.Score {
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	idx := m.EventIndex(c.EventID)
	if idx < 0 {
		return s
	}
	ev := m.Events[idx]
	ni := ev.NoteByID(c.NoteID)
	if ni < 0 {
		return s
	}
	n := ev.Notes[ni]

	pitch := n.Pitch
	if c.Pitch != nil {
		pitch = *c.Pitch
	}
	accidental := n.Accidental
	if c.Accidental != nil {
		accidental = *c.Accidental
	}
	tied := n.Tied
	if c.Tied != nil {
		tied = *c.Tied
	}
	if pitch == n.Pitch && accidental == n.Accidental && tied == n.Tied {
		return s
	}
	if pitch != "" && (pitch != n.Pitch || accidental != n.Accidental) {
		moved := score.MIDIPitch(pitch, accidental) != score.MIDIPitch(n.Pitch, n.Accidental)
		if moved && ev.HasPitch(pitch, accidental) {
			return s
		}
	}

	c.prev = n
	c.applied = true
	return score.MutateEvent(s, c.StaffIndex, c.MeasureIndex, c.EventID, func(ne *score.Event) {
		i := ne.NoteByID(c.NoteID)
		ne.Notes[i].Pitch = pitch
		ne.Notes[i].Accidental = accidental
		ne.Notes[i].Tied = tied
	})
}

// Undo restores the captured note fields.
func (c *UpdateNote) Undo(s *score.Score) *score.Score {
	if !c.applied {
		return s
	}
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	idx := m.EventIndex(c.EventID)
	if idx < 0 || m.Events[idx].NoteByID(c.NoteID) < 0 {
		return s
	}
	return score.MutateEvent(s, c.StaffIndex, c.MeasureIndex, c.EventID, func(ne *score.Event) {
		i := ne.NoteByID(c.NoteID)
		ne.Notes[i] = c.prev
	})
}

// DeleteNote removes a note from an event's chord. Deleting the last
// note deletes the whole event instead.
type DeleteNote struct {
	StaffIndex   int
	MeasureIndex int
	EventID      string
	NoteID       string

	removedNote  score.Note
	noteIndex    int
	removedEvent *score.Event
	eventIndex   int
}

// Type identifies the command kind.
func (c *DeleteNote) Type() string { return "deleteNote" }

// Execute removes the note or, when it is the chord's last, the event.
func (c *DeleteNote) Execute(s *score.Score) *score.Score {
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	ei := m.EventIndex(c.EventID)
	if ei < 0 {
		return s
	}
	ev := m.Events[ei]
	ni := ev.NoteByID(c.NoteID)
	if ni < 0 {
		return s
	}

	if len(ev.Notes) == 1 {
		c.removedEvent = ev
		c.eventIndex = ei
		return score.MutateMeasure(s, c.StaffIndex, c.MeasureIndex, func(nm *score.Measure) {
			nm.Events = append(nm.Events[:ei], nm.Events[ei+1:]...)
		})
	}

	c.removedNote = ev.Notes[ni]
	c.noteIndex = ni
	return score.MutateEvent(s, c.StaffIndex, c.MeasureIndex, c.EventID, func(ne *score.Event) {
		ne.Notes = append(ne.Notes[:ni], ne.Notes[ni+1:]...)
	})
}

// Undo restores the note into its event, or the event at its index
// when the whole event was removed.
func (c *DeleteNote) Undo(s *score.Score) *score.Score {
	if c.removedEvent != nil {
		return insertEventAt(s, c.StaffIndex, c.MeasureIndex, c.eventIndex, c.removedEvent)
	}
	if c.removedNote.ID == "" {
		return s
	}
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil || m.EventIndex(c.EventID) < 0 {
		return s
	}
	return score.MutateEvent(s, c.StaffIndex, c.MeasureIndex, c.EventID, func(ne *score.Event) {
		at := c.noteIndex
		if at > len(ne.Notes) {
			at = len(ne.Notes)
		}
		ne.Notes = append(ne.Notes, score.Note{})
		copy(ne.Notes[at+1:], ne.Notes[at:])
		ne.Notes[at] = c.removedNote
	})
}
