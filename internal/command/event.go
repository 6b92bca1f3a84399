package command

import (
	"github.com/etudehq/etude/internal/reflow"
	"github.com/etudehq/etude/internal/rhythm"
	"github.com/etudehq/etude/internal/score"
)

// AddEvent appends a note or rest event to a measure. The command is a
// no-op when the event does not fit the measure's remaining capacity.
type AddEvent struct {
	StaffIndex   int
	MeasureIndex int
	Duration     rhythm.Duration
	Dotted       bool
	Rest         bool
	Pitch        string
	Accidental   string
	Tuplet       *score.Tuplet

	eventID string
	noteID  string
}

// Type identifies the command kind.
func (c *AddEvent) Type() string { return "addEvent" }

// Execute appends the event, generating ids on first run so undo/redo
// keeps them stable.
func (c *AddEvent) Execute(s *score.Score) *score.Score {
	if c.eventID == "" {
		c.eventID = score.NewID()
	}
	ev := &score.Event{
		ID:       c.eventID,
		Duration: c.Duration,
		Dotted:   c.Dotted,
		Rest:     c.Rest,
		Tuplet:   c.Tuplet,
	}
	if !c.Rest && c.Pitch != "" {
		if c.noteID == "" {
			c.noteID = score.NewID()
		}
		ev.Notes = []score.Note{{ID: c.noteID, Pitch: c.Pitch, Accidental: c.Accidental}}
	}
	if !s.Fits(c.StaffIndex, c.MeasureIndex, ev.Quants()) {
		return s
	}
	return score.MutateMeasure(s, c.StaffIndex, c.MeasureIndex, func(m *score.Measure) {
		m.Events = append(m.Events, ev)
	})
}

// Undo removes the appended event by id.
func (c *AddEvent) Undo(s *score.Score) *score.Score {
	return removeEventByID(s, c.StaffIndex, c.MeasureIndex, c.eventID)
}

// InsertEvent splices an event into a measure through the
// overflow-tolerant reflow path: an event that does not fit splits
// across the barline instead of being rejected. Reflow restructures
// measures, so undo restores the captured previous root.
type InsertEvent struct {
	StaffIndex   int
	MeasureIndex int
	Index        int
	Duration     rhythm.Duration
	Dotted       bool
	Rest         bool
	Pitch        string
	Accidental   string

	before *score.Score
}

// Type identifies the command kind.
func (c *InsertEvent) Type() string { return "insertEvent" }

// Execute builds the event and runs the staff reflow.
func (c *InsertEvent) Execute(s *score.Score) *score.Score {
	ev := &score.Event{
		ID:       score.NewID(),
		Duration: c.Duration,
		Dotted:   c.Dotted,
		Rest:     c.Rest,
	}
	if !c.Rest && c.Pitch != "" {
		ev.Notes = []score.Note{{ID: score.NewID(), Pitch: c.Pitch, Accidental: c.Accidental}}
	}
	next := reflow.InsertEvent(s, c.StaffIndex, c.MeasureIndex, c.Index, ev)
	if next == s {
		return s
	}
	c.before = s
	return next
}

// Undo restores the root from before the insert.
func (c *InsertEvent) Undo(s *score.Score) *score.Score {
	if c.before == nil {
		return s
	}
	return c.before
}

// UpdateEvent changes an event's duration and/or dot, capturing the
// previous values. No-ops when nothing changes or the new duration
// overflows the measure.
type UpdateEvent struct {
	StaffIndex   int
	MeasureIndex int
	EventID      string
	Duration     *rhythm.Duration
	Dotted       *bool

	prevDuration rhythm.Duration
	prevDotted   bool
	applied      bool
}

// Type identifies the command kind.
func (c *UpdateEvent) Type() string { return "updateEvent" }

// Execute applies the partial update.
func (c *UpdateEvent) Execute(s *score.Score) *score.Score {
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	idx := m.EventIndex(c.EventID)
	if idx < 0 {
		return s
	}
	ev := m.Events[idx]

	dur := ev.Duration
	if c.Duration != nil {
		dur = *c.Duration
	}
	dotted := ev.Dotted
	if c.Dotted != nil {
		dotted = *c.Dotted
	}
	if dur == ev.Duration && dotted == ev.Dotted {
		return s
	}

	var ratio *rhythm.Ratio
	if ev.Tuplet != nil {
		ratio = &ev.Tuplet.Ratio
	}
	delta := rhythm.Quants(dur, dotted, ratio) - ev.Quants()
	if delta > m.Remaining(s.Capacity()) {
		return s
	}

	c.prevDuration = ev.Duration
	c.prevDotted = ev.Dotted
	c.applied = true
	return score.MutateEvent(s, c.StaffIndex, c.MeasureIndex, c.EventID, func(ne *score.Event) {
		ne.Duration = dur
		ne.Dotted = dotted
	})
}

// Undo restores the captured duration and dot.
func (c *UpdateEvent) Undo(s *score.Score) *score.Score {
	if !c.applied {
		return s
	}
	return score.MutateEvent(s, c.StaffIndex, c.MeasureIndex, c.EventID, func(ne *score.Event) {
		ne.Duration = c.prevDuration
		ne.Dotted = c.prevDotted
	})
}

// DeleteEvent removes a whole event, remembering it and its position.
type DeleteEvent struct {
	StaffIndex   int
	MeasureIndex int
	EventID      string

	removed *score.Event
	index   int
}

// Type identifies the command kind.
func (c *DeleteEvent) Type() string { return "deleteEvent" }

// Execute removes the event.
func (c *DeleteEvent) Execute(s *score.Score) *score.Score {
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	idx := m.EventIndex(c.EventID)
	if idx < 0 {
		return s
	}
	c.removed = m.Events[idx]
	c.index = idx
	return score.MutateMeasure(s, c.StaffIndex, c.MeasureIndex, func(nm *score.Measure) {
		nm.Events = append(nm.Events[:idx], nm.Events[idx+1:]...)
	})
}

// Undo restores the event at its original index, clamped when later
// edits shrank the measure.
func (c *DeleteEvent) Undo(s *score.Score) *score.Score {
	if c.removed == nil {
		return s
	}
	return insertEventAt(s, c.StaffIndex, c.MeasureIndex, c.index, c.removed)
}

// removeEventByID removes an event from a measure, resolving by id.
// Same-root no-op when the event is missing.
func removeEventByID(s *score.Score, staffIndex, measureIndex int, eventID string) *score.Score {
	m := s.MeasureAt(staffIndex, measureIndex)
	if m == nil || m.EventIndex(eventID) < 0 {
		return s
	}
	return score.MutateMeasure(s, staffIndex, measureIndex, func(nm *score.Measure) {
		idx := nm.EventIndex(eventID)
		nm.Events = append(nm.Events[:idx], nm.Events[idx+1:]...)
	})
}

// insertEventAt restores ev at index, clamped to the measure's bounds.
func insertEventAt(s *score.Score, staffIndex, measureIndex, index int, ev *score.Event) *score.Score {
	m := s.MeasureAt(staffIndex, measureIndex)
	if m == nil {
		return s
	}
	return score.MutateMeasure(s, staffIndex, measureIndex, func(nm *score.Measure) {
		at := index
		if at > len(nm.Events) {
			at = len(nm.Events)
		}
		if at < 0 {
			at = 0
		}
		nm.Events = append(nm.Events, nil)
		copy(nm.Events[at+1:], nm.Events[at:])
		nm.Events[at] = ev
	})
}
