package score

import (
	"github.com/etudehq/etude/internal/rhythm"
)

// Clef identifies the pitch ladder a staff reads from.
type Clef string

// Supported clefs.
const (
	ClefTreble Clef = "treble"
	ClefBass   Clef = "bass"
)

// Note is a single pitched (or silent) head inside an event's chord.
// An empty Pitch marks a rest note. Tied means the note's sound
// continues into the next adjacent event carrying the same pitch.
type Note struct {
	ID         string `json:"id" yaml:"id"`
	Pitch      string `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Accidental string `json:"accidental,omitempty" yaml:"accidental,omitempty"`
	Tied       bool   `json:"tied,omitempty" yaml:"tied,omitempty"`
}

// Tuplet groups the events sharing one tuplet bracket. Grouping is keyed
// by ID; GroupSize and Position are lossy hints that can go stale after
// edits and must never be the primary grouping key.
type Tuplet struct {
	ID        string       `json:"id" yaml:"id"`
	Ratio     rhythm.Ratio `json:"ratio" yaml:"ratio"`
	GroupSize int          `json:"groupSize" yaml:"groupSize"`
	Position  int          `json:"position" yaml:"position"`
}

// Event is one rhythmic slot: a note, chord, or rest with a single
// duration.
type Event struct {
	ID       string          `json:"id" yaml:"id"`
	Duration rhythm.Duration `json:"duration" yaml:"duration"`
	Dotted   bool            `json:"dotted,omitempty" yaml:"dotted,omitempty"`
	Rest     bool            `json:"isRest,omitempty" yaml:"isRest,omitempty"`
	Notes    []Note          `json:"notes" yaml:"notes"`
	Tuplet   *Tuplet         `json:"tuplet,omitempty" yaml:"tuplet,omitempty"`
}

// Measure holds an ordered run of events. A pickup measure's capacity is
// its own content total rather than the full time-signature capacity.
type Measure struct {
	ID      string   `json:"id" yaml:"id"`
	Events  []*Event `json:"events" yaml:"events"`
	Pickup  bool     `json:"isPickup,omitempty" yaml:"isPickup,omitempty"`
}

// Staff is one line of the system. A grand-staff score has two staves
// synchronized at the measure-index level: staff A's measure i and staff
// B's measure i cover the same time window.
type Staff struct {
	ID           string     `json:"id" yaml:"id"`
	Clef         Clef       `json:"clef" yaml:"clef"`
	KeySignature string     `json:"keySignature,omitempty" yaml:"keySignature,omitempty"`
	Measures     []*Measure `json:"measures" yaml:"measures"`
}

// Score is the document root. It is owned exclusively by the command
// engine, which is the only writer.
type Score struct {
	Title         string   `json:"title,omitempty" yaml:"title,omitempty"`
	KeySignature  string   `json:"keySignature,omitempty" yaml:"keySignature,omitempty"`
	TimeSignature string   `json:"timeSignature" yaml:"timeSignature"`
	BPM           int      `json:"bpm" yaml:"bpm"`
	Staves        []*Staff `json:"staves" yaml:"staves"`
}

// Quants returns the event's length in quants, dots and tuplet ratio
// included.
func (e *Event) Quants() int {
	var r *rhythm.Ratio
	if e.Tuplet != nil {
		r = &e.Tuplet.Ratio
	}
	return rhythm.Quants(e.Duration, e.Dotted, r)
}

// HasPitch reports whether the event's chord already contains the given
// pitch. Equality is enharmonic: C#4 and Db4 collide.
func (e *Event) HasPitch(pitch, accidental string) bool {
	want := MIDIPitch(pitch, accidental)
	for _, n := range e.Notes {
		if n.Pitch != "" && MIDIPitch(n.Pitch, n.Accidental) == want {
			return true
		}
	}
	return false
}

// NoteByID returns the index of the note with the given id, or -1.
func (e *Event) NoteByID(id string) int {
	for i, n := range e.Notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a shallow copy of the event with its own Notes slice.
// The Tuplet pointer is shared; replace it to change tuplet membership.
func (e *Event) Clone() *Event {
	c := *e
	c.Notes = make([]Note, len(e.Notes))
	copy(c.Notes, e.Notes)
	return &c
}

// Quants returns the total quant mass of the measure's events.
func (m *Measure) Quants() int {
	total := 0
	for _, e := range m.Events {
		total += e.Quants()
	}
	return total
}

// Remaining returns the unfilled quants of the measure against the given
// capacity. Never negative.
func (m *Measure) Remaining(capacity int) int {
	r := capacity - m.Quants()
	if r < 0 {
		return 0
	}
	return r
}

// EventIndex returns the index of the event with the given id, or -1.
func (m *Measure) EventIndex(id string) int {
	for i, e := range m.Events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// StartQuant returns the quant offset at which the given event starts
// within the measure, and false if the event is not present.
func (m *Measure) StartQuant(eventID string) (int, bool) {
	q := 0
	for _, e := range m.Events {
		if e.ID == eventID {
			return q, true
		}
		q += e.Quants()
	}
	return 0, false
}

// EventAtQuant returns the event whose occupied interval contains the
// given quant, or nil. An event occupies [start, start+quants).
func (m *Measure) EventAtQuant(quant int) *Event {
	q := 0
	for _, e := range m.Events {
		next := q + e.Quants()
		if quant >= q && quant < next {
			return e
		}
		q = next
	}
	return nil
}

// Clone returns a shallow copy of the measure with its own Events slice.
// The event pointers are shared; clone an event before changing it.
func (m *Measure) Clone() *Measure {
	c := *m
	c.Events = make([]*Event, len(m.Events))
	copy(c.Events, m.Events)
	return &c
}

// Clone returns a shallow copy of the staff with its own Measures slice.
func (st *Staff) Clone() *Staff {
	c := *st
	c.Measures = make([]*Measure, len(st.Measures))
	copy(c.Measures, st.Measures)
	return &c
}

// Capacity returns the full measure capacity for the score's time
// signature.
func (s *Score) Capacity() int {
	return rhythm.Capacity(s.TimeSignature)
}

// ActiveStaff returns the staff at index, falling back to staff 0 when
// the index is out of range. The leniency is deliberate: selection state
// can briefly reference a staff that a concurrent edit removed. Returns
// nil only for a score with no staves at all.
func (s *Score) ActiveStaff(index int) *Staff {
	if index >= 0 && index < len(s.Staves) {
		return s.Staves[index]
	}
	if len(s.Staves) > 0 {
		return s.Staves[0]
	}
	return nil
}

// MeasureAt returns the measure at (staffIndex, measureIndex) with the
// same staff-0 fallback as ActiveStaff, or nil when the measure index is
// out of range.
func (s *Score) MeasureAt(staffIndex, measureIndex int) *Measure {
	st := s.ActiveStaff(staffIndex)
	if st == nil || measureIndex < 0 || measureIndex >= len(st.Measures) {
		return nil
	}
	return st.Measures[measureIndex]
}

// Fits reports whether an event of the given quant length fits in the
// remaining space of measure (staffIndex, measureIndex). This is the
// capacity-check helper callers run before dispatching AddEvent.
func (s *Score) Fits(staffIndex, measureIndex, quants int) bool {
	m := s.MeasureAt(staffIndex, measureIndex)
	if m == nil {
		return false
	}
	return quants <= m.Remaining(s.Capacity())
}

// TotalQuants sums the quant mass of every measure of every staff.
func (s *Score) TotalQuants() int {
	total := 0
	for _, st := range s.Staves {
		for _, m := range st.Measures {
			total += m.Quants()
		}
	}
	return total
}

// Clone returns a shallow copy of the score with its own Staves slice.
func (s *Score) Clone() *Score {
	c := *s
	c.Staves = make([]*Staff, len(s.Staves))
	copy(c.Staves, s.Staves)
	return &c
}

// MutateStaff returns a new root in which staff staffIndex has been
// replaced by a clone that mutate was allowed to modify. Every other
// staff is shared with the old root. Returns the old root unchanged when
// the staff does not resolve.
func MutateStaff(s *Score, staffIndex int, mutate func(*Staff)) *Score {
	if staffIndex < 0 || staffIndex >= len(s.Staves) {
		return s
	}
	ns := s.Clone()
	nst := s.Staves[staffIndex].Clone()
	mutate(nst)
	ns.Staves[staffIndex] = nst
	return ns
}

// MutateMeasure returns a new root in which measure (staffIndex,
// measureIndex) has been replaced by a clone that mutate was allowed to
// modify, cloning only the path down to it. Returns the old root when
// the measure does not resolve.
func MutateMeasure(s *Score, staffIndex, measureIndex int, mutate func(*Measure)) *Score {
	if staffIndex < 0 || staffIndex >= len(s.Staves) {
		return s
	}
	st := s.Staves[staffIndex]
	if measureIndex < 0 || measureIndex >= len(st.Measures) {
		return s
	}
	ns := s.Clone()
	nst := st.Clone()
	nm := st.Measures[measureIndex].Clone()
	mutate(nm)
	nst.Measures[measureIndex] = nm
	ns.Staves[staffIndex] = nst
	return ns
}

// MutateEvent returns a new root in which the event with the given id in
// measure (staffIndex, measureIndex) has been replaced by a clone that
// mutate was allowed to modify. Returns the old root when the event does
// not resolve.
func MutateEvent(s *Score, staffIndex, measureIndex int, eventID string, mutate func(*Event)) *Score {
	m := s.MeasureAt(staffIndex, measureIndex)
	if m == nil {
		return s
	}
	idx := m.EventIndex(eventID)
	if idx < 0 {
		return s
	}
	return MutateMeasure(s, staffIndex, measureIndex, func(nm *Measure) {
		ne := nm.Events[idx].Clone()
		mutate(ne)
		nm.Events[idx] = ne
	})
}
