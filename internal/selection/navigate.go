package selection

import (
	"github.com/etudehq/etude/internal/rhythm"
	"github.com/etudehq/etude/internal/score"
)

// Direction of a navigation step.
type Direction int

// Navigation directions.
const (
	Left Direction = iota
	Right
	Up
	Down
)

// defaultGhostPitch seeds the ghost cursor when no note is focused.
const defaultGhostPitch = "B4"

// Navigate moves the cursor one step. Horizontal moves walk events and
// synthesize the ghost cursor at the edge of content; vertical moves
// walk chords and staves. The command records ShouldCreateMeasure when
// a rightward step runs off the final measure: the core only requests
// the measure, the caller decides whether to dispatch AddMeasure.
type Navigate struct {
	Direction Direction
	Hooks     *Hooks

	ShouldCreateMeasure bool
}

// Execute applies the step.
func (c *Navigate) Execute(sel *Selection, s *score.Score) *Selection {
	c.ShouldCreateMeasure = false
	if s == nil || len(s.Staves) == 0 {
		return sel
	}
	if sel.MeasureIndex < 0 {
		return enter(sel, s)
	}
	switch c.Direction {
	case Left:
		return c.horizontal(sel, s, false)
	case Right:
		return c.horizontal(sel, s, true)
	case Up:
		return c.vertical(sel, s, true)
	default:
		return c.vertical(sel, s, false)
	}
}

// enter focuses the score's first note, or ghosts into the first
// measure of an empty score.
func enter(sel *Selection, s *score.Score) *Selection {
	st := s.ActiveStaff(0)
	for mi, m := range st.Measures {
		if len(m.Events) > 0 {
			return focusEvent(0, mi, m.Events[0], false)
		}
	}
	if len(st.Measures) == 0 {
		return sel
	}
	return ghost(0, 0, 0, 0, defaultGhostPitch, rhythm.Quarter, false, Append, rhythm.Capacity(s.TimeSignature))
}

func (c *Navigate) horizontal(sel *Selection, s *score.Score, right bool) *Selection {
	st := s.ActiveStaff(sel.StaffIndex)
	if st == nil || sel.MeasureIndex >= len(st.Measures) {
		return sel
	}
	capacity := s.Capacity()

	// Ghost or append position.
	if sel.EventID == "" {
		if right {
			next := sel.MeasureIndex + 1
			if next >= len(st.Measures) {
				c.ShouldCreateMeasure = true
				return sel
			}
			nm := st.Measures[next]
			if len(nm.Events) > 0 {
				return focusEvent(sel.StaffIndex, next, nm.Events[0], false)
			}
			return ghostLike(sel, sel.StaffIndex, next, 0, 0, Append, capacity)
		}
		// Left: snap to the last real event at or before this position.
		for mi := sel.MeasureIndex; mi >= 0; mi-- {
			m := st.Measures[mi]
			if len(m.Events) > 0 {
				return focusEvent(sel.StaffIndex, mi, m.Events[len(m.Events)-1], false)
			}
		}
		return sel
	}

	m := st.Measures[sel.MeasureIndex]
	idx := m.EventIndex(sel.EventID)
	if idx < 0 {
		return sel
	}

	if right {
		if idx+1 < len(m.Events) {
			return focusEvent(sel.StaffIndex, sel.MeasureIndex, m.Events[idx+1], false)
		}
		// Last event of the measure: ghost into the remaining space.
		if available := m.Remaining(capacity); available > 0 {
			return c.ghostAfter(sel, s, m, available)
		}
		next := sel.MeasureIndex + 1
		if next >= len(st.Measures) {
			c.ShouldCreateMeasure = true
			return sel
		}
		nm := st.Measures[next]
		if len(nm.Events) > 0 {
			return focusEvent(sel.StaffIndex, next, nm.Events[0], false)
		}
		return ghostLike(sel, sel.StaffIndex, next, 0, 0, Append, capacity)
	}

	if idx > 0 {
		return focusEvent(sel.StaffIndex, sel.MeasureIndex, m.Events[idx-1], true)
	}
	if sel.MeasureIndex == 0 {
		// First event of the first measure: nowhere left to go.
		return sel
	}
	prev := st.Measures[sel.MeasureIndex-1]
	if len(prev.Events) > 0 {
		return focusEvent(sel.StaffIndex, sel.MeasureIndex-1, prev.Events[len(prev.Events)-1], true)
	}
	return ghostLike(sel, sel.StaffIndex, sel.MeasureIndex-1, 0, 0, Append, capacity)
}

// ghostAfter appends the ghost cursor after the focused measure's
// content, carrying the focused event's duration clamped to the space.
func (c *Navigate) ghostAfter(sel *Selection, s *score.Score, m *score.Measure, available int) *Selection {
	dur, dotted := rhythm.Quarter, false
	pitch := defaultGhostPitch
	if idx := m.EventIndex(sel.EventID); idx >= 0 {
		ev := m.Events[idx]
		dur, dotted = ev.Duration, ev.Dotted
		if ni := ev.NoteByID(sel.NoteID); ni >= 0 && ev.Notes[ni].Pitch != "" {
			pitch = ev.Notes[ni].Pitch
		}
	}
	return ghost(sel.StaffIndex, sel.MeasureIndex, m.Quants(), len(m.Events), pitch, dur, dotted, Append, available)
}

func (c *Navigate) vertical(sel *Selection, s *score.Score, up bool) *Selection {
	// A ghost moves across staves at its quant.
	if sel.EventID == "" {
		if sel.Preview == nil {
			return sel
		}
		target, ok := neighborStaff(s, sel.StaffIndex, up)
		if !ok {
			return sel
		}
		return c.crossStaff(sel, s, target, sel.Preview.Quant, up)
	}

	m := s.MeasureAt(sel.StaffIndex, sel.MeasureIndex)
	if m == nil {
		return sel
	}
	idx := m.EventIndex(sel.EventID)
	if idx < 0 {
		return sel
	}
	ev := m.Events[idx]

	// Chord-internal step first, without wraparound.
	if len(ev.Notes) > 1 && sel.NoteID != "" {
		sorted := chordByPitch(ev)
		pos := -1
		for i, n := range sorted {
			if n.ID == sel.NoteID {
				pos = i
				break
			}
		}
		if pos >= 0 {
			if up && pos+1 < len(sorted) {
				return refocusNote(sel, sorted[pos+1].ID)
			}
			if !up && pos > 0 {
				return refocusNote(sel, sorted[pos-1].ID)
			}
		}
	}

	quant, _ := m.StartQuant(ev.ID)

	// Boundary hooks: an external track may claim the focus before the
	// staff wraparound applies.
	if c.Hooks != nil {
		if up && sel.StaffIndex == 0 && c.Hooks.UpFromTop != nil && c.Hooks.UpFromTop(quant) {
			return sel
		}
		if !up && sel.StaffIndex == len(s.Staves)-1 && c.Hooks.DownFromBottom != nil && c.Hooks.DownFromBottom(quant) {
			return sel
		}
	}

	target, ok := neighborStaff(s, sel.StaffIndex, up)
	if !ok {
		return sel
	}
	return c.crossStaff(sel, s, target, quant, up)
}

// crossStaff lands on the target staff's event occupying quant,
// picking the topmost (up) or bottommost (down) chord note, or ghosts
// when the staff has nothing sounding there.
func (c *Navigate) crossStaff(sel *Selection, s *score.Score, target, quant int, up bool) *Selection {
	tm := s.MeasureAt(target, sel.MeasureIndex)
	if tm == nil {
		return sel
	}
	if tev := tm.EventAtQuant(quant); tev != nil {
		if len(tev.Notes) == 0 {
			return focusEvent(target, sel.MeasureIndex, tev, false)
		}
		sorted := chordByPitch(tev)
		pick := sorted[0]
		if up {
			pick = sorted[len(sorted)-1]
		}
		ns := focusEvent(target, sel.MeasureIndex, tev, false)
		ns.NoteID = pick.ID
		ns.SelectedNotes = []NoteRef{{
			StaffIndex:   target,
			MeasureIndex: sel.MeasureIndex,
			EventID:      tev.ID,
			NoteID:       pick.ID,
		}}
		return ns
	}

	available := tm.Remaining(s.Capacity())
	if available <= 0 {
		return sel
	}
	dur, dotted := rhythm.Quarter, false
	pitch := defaultGhostPitch
	if sel.Preview != nil {
		dur, dotted, pitch = sel.Preview.Duration, sel.Preview.Dotted, sel.Preview.Pitch
	} else if m := s.MeasureAt(sel.StaffIndex, sel.MeasureIndex); m != nil {
		if idx := m.EventIndex(sel.EventID); idx >= 0 {
			ev := m.Events[idx]
			dur, dotted = ev.Duration, ev.Dotted
			if ni := ev.NoteByID(sel.NoteID); ni >= 0 && ev.Notes[ni].Pitch != "" {
				pitch = ev.Notes[ni].Pitch
			}
		}
	}
	gq := quant
	mode := Insert
	index := eventsBefore(tm, quant)
	if gq >= tm.Quants() {
		gq = tm.Quants()
		mode = Append
		index = len(tm.Events)
	}
	return ghost(target, sel.MeasureIndex, gq, index, pitch, dur, dotted, mode, available)
}

// neighborStaff resolves the staff one step up or down, wrapping to
// the opposite staff at the outermost ones. A single-staff score has
// no vertical neighbor.
func neighborStaff(s *score.Score, staffIndex int, up bool) (int, bool) {
	if len(s.Staves) < 2 {
		return 0, false
	}
	target := staffIndex + 1
	if up {
		target = staffIndex - 1
	}
	if target < 0 {
		target = len(s.Staves) - 1
	}
	if target >= len(s.Staves) {
		target = 0
	}
	return target, true
}

// focusEvent builds a plain single-focus selection on ev. Entering
// from the right lands on the chord's first note either way; lastNote
// is reserved for callers that want the final chord note instead.
func focusEvent(staffIndex, measureIndex int, ev *score.Event, lastNote bool) *Selection {
	noteID := ""
	if len(ev.Notes) > 0 {
		n := ev.Notes[0]
		if lastNote {
			n = ev.Notes[len(ev.Notes)-1]
		}
		noteID = n.ID
	}
	sel := &Selection{
		StaffIndex:   staffIndex,
		MeasureIndex: measureIndex,
		EventID:      ev.ID,
		NoteID:       noteID,
	}
	if noteID != "" {
		sel.SelectedNotes = []NoteRef{{
			StaffIndex:   staffIndex,
			MeasureIndex: measureIndex,
			EventID:      ev.ID,
			NoteID:       noteID,
		}}
	}
	return sel
}

// refocusNote keeps the selection shape but moves the focused note.
func refocusNote(sel *Selection, noteID string) *Selection {
	ns := *sel
	ns.NoteID = noteID
	ns.SelectedNotes = []NoteRef{{
		StaffIndex:   sel.StaffIndex,
		MeasureIndex: sel.MeasureIndex,
		EventID:      sel.EventID,
		NoteID:       noteID,
	}}
	ns.Preview = nil
	return &ns
}

// ghost builds the append/insert position with its preview note, the
// duration clamped to the available space through the decompose table.
func ghost(staffIndex, measureIndex, quant, index int, pitch string, dur rhythm.Duration, dotted bool, mode PreviewMode, available int) *Selection {
	if available > 0 && rhythm.Quants(dur, dotted, nil) > available {
		if p, ok := rhythm.LargestFit(available); ok {
			dur, dotted = p.Duration, p.Dotted
		}
	}
	return &Selection{
		StaffIndex:   staffIndex,
		MeasureIndex: measureIndex,
		Preview: &PreviewNote{
			StaffIndex:   staffIndex,
			MeasureIndex: measureIndex,
			Quant:        quant,
			Pitch:        pitch,
			Duration:     dur,
			Dotted:       dotted,
			Mode:         mode,
			Index:        index,
		},
	}
}

// ghostLike carries the previous selection's preview texture into a
// fresh ghost position.
func ghostLike(sel *Selection, staffIndex, measureIndex, quant, index int, mode PreviewMode, available int) *Selection {
	dur, dotted := rhythm.Quarter, false
	pitch := defaultGhostPitch
	if sel.Preview != nil {
		dur, dotted, pitch = sel.Preview.Duration, sel.Preview.Dotted, sel.Preview.Pitch
	}
	return ghost(staffIndex, measureIndex, quant, index, pitch, dur, dotted, mode, available)
}

// eventsBefore counts the events starting strictly before quant.
func eventsBefore(m *score.Measure, quant int) int {
	q, n := 0, 0
	for _, ev := range m.Events {
		if q >= quant {
			break
		}
		n++
		q += ev.Quants()
	}
	return n
}
