package selection

import (
	"sort"

	"github.com/etudehq/etude/internal/score"
)

// SelectEvent points the cursor at a note by position. NoteIndex below
// zero selects the chord's first note; an index past the chord clamps
// to the last. AddToSelection toggles the note's membership in the
// multi-select set instead of replacing it.
type SelectEvent struct {
	StaffIndex       int
	MeasureIndex     int
	EventIndex       int
	NoteIndex        int
	AddToSelection   bool
	SelectAllInEvent bool
}

// Execute resolves and applies the selection.
func (c *SelectEvent) Execute(sel *Selection, s *score.Score) *Selection {
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil || c.EventIndex < 0 || c.EventIndex >= len(m.Events) {
		return sel
	}
	ev := m.Events[c.EventIndex]

	noteID := ""
	if len(ev.Notes) > 0 {
		ni := c.NoteIndex
		if ni < 0 {
			ni = 0
		}
		if ni >= len(ev.Notes) {
			ni = len(ev.Notes) - 1
		}
		noteID = ev.Notes[ni].ID
	}
	ref := NoteRef{
		StaffIndex:   c.StaffIndex,
		MeasureIndex: c.MeasureIndex,
		EventID:      ev.ID,
		NoteID:       noteID,
	}

	if c.AddToSelection {
		return c.toggle(sel, ref)
	}

	var selected []NoteRef
	if c.SelectAllInEvent {
		for _, n := range ev.Notes {
			selected = append(selected, NoteRef{
				StaffIndex:   c.StaffIndex,
				MeasureIndex: c.MeasureIndex,
				EventID:      ev.ID,
				NoteID:       n.ID,
			})
		}
	}
	if selected == nil {
		selected = []NoteRef{ref}
	}

	if sel.StaffIndex == ref.StaffIndex && sel.MeasureIndex == ref.MeasureIndex &&
		sel.EventID == ref.EventID && sel.NoteID == ref.NoteID &&
		sel.Anchor == nil && sel.Preview == nil && sameRefs(sel.SelectedNotes, selected) {
		return sel
	}

	return &Selection{
		StaffIndex:    ref.StaffIndex,
		MeasureIndex:  ref.MeasureIndex,
		EventID:       ref.EventID,
		NoteID:        ref.NoteID,
		SelectedNotes: selected,
	}
}

// toggle flips ref's membership, anchoring the range machinery at the
// prior focus the first time.
func (c *SelectEvent) toggle(sel *Selection, ref NoteRef) *Selection {
	ns := *sel
	ns.Preview = nil

	if anchor, ok := sel.Focus(); ok && sel.Anchor == nil {
		ns.Anchor = &anchor
	}

	if sel.contains(ref) {
		kept := make([]NoteRef, 0, len(sel.SelectedNotes)-1)
		for _, r := range sel.SelectedNotes {
			if r != ref {
				kept = append(kept, r)
			}
		}
		ns.SelectedNotes = kept
	} else {
		ns.SelectedNotes = append(append([]NoteRef(nil), sel.SelectedNotes...), ref)
	}

	ns.StaffIndex = ref.StaffIndex
	ns.MeasureIndex = ref.MeasureIndex
	ns.EventID = ref.EventID
	ns.NoteID = ref.NoteID
	return &ns
}

// ExtendTo grows a range selection from the anchor (or the current
// focus when no anchor is set) to the target note. The range is the
// contiguous run of the score's linearized note order between the two
// ends, whichever comes first.
type ExtendTo struct {
	StaffIndex   int
	MeasureIndex int
	EventIndex   int
	NoteIndex    int
}

// Execute resolves the target and re-unions the range.
func (c *ExtendTo) Execute(sel *Selection, s *score.Score) *Selection {
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil || c.EventIndex < 0 || c.EventIndex >= len(m.Events) {
		return sel
	}
	ev := m.Events[c.EventIndex]
	noteID := ""
	if len(ev.Notes) > 0 {
		ni := c.NoteIndex
		if ni < 0 {
			ni = 0
		}
		if ni >= len(ev.Notes) {
			ni = len(ev.Notes) - 1
		}
		noteID = ev.Notes[ni].ID
	}
	target := NoteRef{
		StaffIndex:   c.StaffIndex,
		MeasureIndex: c.MeasureIndex,
		EventID:      ev.ID,
		NoteID:       noteID,
	}

	anchor := sel.Anchor
	if anchor == nil {
		if f, ok := sel.Focus(); ok {
			anchor = &f
		}
	}
	if anchor == nil {
		// Nothing to extend from; behave as a plain select.
		return (&SelectEvent{
			StaffIndex:   c.StaffIndex,
			MeasureIndex: c.MeasureIndex,
			EventIndex:   c.EventIndex,
			NoteIndex:    c.NoteIndex,
		}).Execute(sel, s)
	}

	refs := linearize(s)
	ai := refIndex(refs, *anchor)
	ti := refIndex(refs, target)
	if ai < 0 || ti < 0 {
		return sel
	}
	lo, hi := ai, ti
	if lo > hi {
		lo, hi = hi, lo
	}
	selected := append([]NoteRef(nil), refs[lo:hi+1]...)

	if sel.Anchor != nil && *sel.Anchor == *anchor &&
		sel.EventID == target.EventID && sel.NoteID == target.NoteID &&
		sameRefs(sel.SelectedNotes, selected) {
		return sel
	}

	return &Selection{
		StaffIndex:    target.StaffIndex,
		MeasureIndex:  target.MeasureIndex,
		EventID:       target.EventID,
		NoteID:        target.NoteID,
		SelectedNotes: selected,
		Anchor:        anchor,
	}
}

// sliceKey spreads measure indices far enough apart that a start quant
// never collides with the next measure.
const sliceKey = 10000

// ExtendVertical extends every time slice of the current multi-select
// one step up or down through that slice's full cross-staff vertical
// stack, each slice independently.
type ExtendVertical struct {
	Up bool
}

// Execute re-unions the per-slice ranges after moving each cursor.
func (c *ExtendVertical) Execute(sel *Selection, s *score.Score) *Selection {
	focus, ok := sel.Focus()
	if !ok || len(sel.SelectedNotes) == 0 {
		return sel
	}
	anchor := sel.Anchor
	if anchor == nil {
		anchor = &focus
	}

	// Global orientation: which edge is fixed and which moves.
	extendedUp := metric(s, focus) > metric(s, *anchor)
	if metric(s, focus) == metric(s, *anchor) {
		extendedUp = c.Up
	}

	slices := map[int][]NoteRef{}
	for _, r := range sel.SelectedNotes {
		q, sok := startQuant(s, r)
		if !sok {
			continue
		}
		key := r.MeasureIndex*sliceKey + q
		slices[key] = append(slices[key], r)
	}
	if len(slices) == 0 {
		return sel
	}

	// Walk slices in time order so the rebuilt set is stable across
	// identical dispatches.
	keys := make([]int, 0, len(slices))
	for key := range slices {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	var selected []NoteRef
	var newFocus *NoteRef
	moved := false
	for _, key := range keys {
		members := slices[key]
		mi := key / sliceKey
		q := key % sliceKey
		stack := verticalStack(s, mi, q)
		if len(stack) == 0 {
			selected = append(selected, members...)
			continue
		}

		// Per-slice edges: the anchor is the fixed edge opposite the
		// extension direction.
		top, bottom := 0, 0
		for i, r := range members {
			if metric(s, r) > metric(s, members[top]) {
				top = i
			}
			if metric(s, r) < metric(s, members[bottom]) {
				bottom = i
			}
		}
		var sliceAnchor, cursor NoteRef
		if extendedUp {
			sliceAnchor, cursor = members[bottom], members[top]
		} else {
			sliceAnchor, cursor = members[top], members[bottom]
		}

		ci := stackIndex(stack, cursor)
		ai := stackIndex(stack, sliceAnchor)
		if ci < 0 || ai < 0 {
			selected = append(selected, members...)
			continue
		}
		// The stack is sorted top to bottom; up means a lower index.
		ni := ci
		if c.Up && ci > 0 {
			ni = ci - 1
		}
		if !c.Up && ci < len(stack)-1 {
			ni = ci + 1
		}
		if ni != ci {
			moved = true
		}
		lo, hi := ai, ni
		if lo > hi {
			lo, hi = hi, lo
		}
		selected = append(selected, stack[lo:hi+1]...)

		if focusIn(members, focus) {
			f := stack[ni]
			newFocus = &f
		}
	}
	if !moved {
		return sel
	}

	ns := &Selection{
		StaffIndex:    sel.StaffIndex,
		MeasureIndex:  sel.MeasureIndex,
		EventID:       sel.EventID,
		NoteID:        sel.NoteID,
		SelectedNotes: selected,
		Anchor:        sel.Anchor,
	}
	if newFocus != nil {
		ns.StaffIndex = newFocus.StaffIndex
		ns.MeasureIndex = newFocus.MeasureIndex
		ns.EventID = newFocus.EventID
		ns.NoteID = newFocus.NoteID
	}
	return ns
}

// CycleChord moves the focus through its chord with wraparound, the
// plain in-place variant used outside shift-selection.
type CycleChord struct {
	Up bool
}

// Execute steps to the next chord note, wrapping at the ends.
func (c *CycleChord) Execute(sel *Selection, s *score.Score) *Selection {
	focus, ok := sel.Focus()
	if !ok {
		return sel
	}
	m := s.MeasureAt(focus.StaffIndex, focus.MeasureIndex)
	if m == nil {
		return sel
	}
	idx := m.EventIndex(focus.EventID)
	if idx < 0 {
		return sel
	}
	ev := m.Events[idx]
	if len(ev.Notes) < 2 {
		return sel
	}

	sorted := chordByPitch(ev)
	pos := -1
	for i, n := range sorted {
		if n.ID == focus.NoteID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return sel
	}
	if c.Up {
		pos = (pos + 1) % len(sorted)
	} else {
		pos = (pos - 1 + len(sorted)) % len(sorted)
	}

	ns := *sel
	ns.NoteID = sorted[pos].ID
	ns.SelectedNotes = []NoteRef{{
		StaffIndex:   focus.StaffIndex,
		MeasureIndex: focus.MeasureIndex,
		EventID:      focus.EventID,
		NoteID:       sorted[pos].ID,
	}}
	ns.Preview = nil
	return &ns
}

// startQuant resolves a ref's event start offset within its measure.
func startQuant(s *score.Score, ref NoteRef) (int, bool) {
	m := s.MeasureAt(ref.StaffIndex, ref.MeasureIndex)
	if m == nil {
		return 0, false
	}
	return m.StartQuant(ref.EventID)
}

// verticalStack collects every note sounding at (measureIndex, quant)
// across all staves, sorted top to bottom.
func verticalStack(s *score.Score, measureIndex, quant int) []NoteRef {
	var stack []NoteRef
	for si := range s.Staves {
		m := s.MeasureAt(si, measureIndex)
		if m == nil {
			continue
		}
		ev := m.EventAtQuant(quant)
		if ev == nil {
			continue
		}
		for _, n := range ev.Notes {
			stack = append(stack, NoteRef{
				StaffIndex:   si,
				MeasureIndex: measureIndex,
				EventID:      ev.ID,
				NoteID:       n.ID,
			})
		}
	}
	sort.SliceStable(stack, func(i, j int) bool {
		return metric(s, stack[i]) > metric(s, stack[j])
	})
	return stack
}

func stackIndex(stack []NoteRef, ref NoteRef) int {
	for i, r := range stack {
		if r.EventID == ref.EventID && r.NoteID == ref.NoteID {
			return i
		}
	}
	return -1
}

func focusIn(members []NoteRef, focus NoteRef) bool {
	for _, r := range members {
		if r.EventID == focus.EventID && r.NoteID == focus.NoteID {
			return true
		}
	}
	return false
}

// chordByPitch returns the event's notes sorted ascending by pitch.
func chordByPitch(ev *score.Event) []score.Note {
	sorted := append([]score.Note(nil), ev.Notes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return score.MIDIPitch(sorted[i].Pitch, sorted[i].Accidental) <
			score.MIDIPitch(sorted[j].Pitch, sorted[j].Accidental)
	})
	return sorted
}

func sameRefs(a, b []NoteRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
