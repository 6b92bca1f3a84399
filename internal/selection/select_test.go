package selection

import (
	"testing"

	"github.com/etudehq/etude/internal/rhythm"
	"github.com/etudehq/etude/internal/score"
)

// line builds a single-staff score whose first measure holds one
// quarter-note event per pitch.
func line(pitches ...string) *score.Score {
	s := score.New("test")
	m := s.Staves[0].Measures[0]
	for _, p := range pitches {
		m.Events = append(m.Events, &score.Event{
			ID:       score.NewID(),
			Duration: rhythm.Quarter,
			Notes:    []score.Note{{ID: score.NewID(), Pitch: p}},
		})
	}
	return s
}

// chordScore builds a single-staff score with one chord event.
func chordScore(pitches ...string) *score.Score {
	s := score.New("test")
	ev := &score.Event{ID: score.NewID(), Duration: rhythm.Quarter}
	for _, p := range pitches {
		ev.Notes = append(ev.Notes, score.Note{ID: score.NewID(), Pitch: p})
	}
	s.Staves[0].Measures[0].Events = []*score.Event{ev}
	return s
}

func TestSelectEventClamps(t *testing.T) {
	s := chordScore("C4", "E4", "G4")
	ev := s.Staves[0].Measures[0].Events[0]

	sel := (&SelectEvent{NoteIndex: 10}).Execute(None(), s)
	if sel.NoteID != ev.Notes[2].ID {
		t.Error("an index past the chord must clamp to the last note")
	}
	sel = (&SelectEvent{NoteIndex: -1}).Execute(None(), s)
	if sel.NoteID != ev.Notes[0].ID {
		t.Error("a negative index must select the first note")
	}
	if len(sel.SelectedNotes) != 1 {
		t.Errorf("plain select records one note, got %d", len(sel.SelectedNotes))
	}
}

func TestSelectEventOutOfRangeIsSame(t *testing.T) {
	s := line("C4")
	sel := None()
	if got := (&SelectEvent{EventIndex: 5}).Execute(sel, s); got != sel {
		t.Error("an unresolvable target must return the identical selection")
	}
	if got := (&SelectEvent{MeasureIndex: 3}).Execute(sel, s); got != sel {
		t.Error("a missing measure must return the identical selection")
	}
}

func TestSelectEventReferenceStability(t *testing.T) {
	s := line("C4", "D4")
	first := (&SelectEvent{EventIndex: 0}).Execute(None(), s)
	again := (&SelectEvent{EventIndex: 0}).Execute(first, s)
	if again != first {
		t.Error("re-selecting the focused note must return the identical selection")
	}
}

func TestSelectAllInEvent(t *testing.T) {
	s := chordScore("C4", "E4", "G4")
	ev := s.Staves[0].Measures[0].Events[0]

	sel := (&SelectEvent{SelectAllInEvent: true}).Execute(None(), s)
	if sel.NoteID != ev.Notes[0].ID {
		t.Error("focus should be the first note")
	}
	if len(sel.SelectedNotes) != 3 {
		t.Fatalf("SelectedNotes has %d refs, want 3", len(sel.SelectedNotes))
	}
}

func TestSelectEventToggle(t *testing.T) {
	s := line("C4", "D4", "E4")

	sel := (&SelectEvent{EventIndex: 0}).Execute(None(), s)
	firstFocus, _ := sel.Focus()

	sel = (&SelectEvent{EventIndex: 1, AddToSelection: true}).Execute(sel, s)
	if len(sel.SelectedNotes) != 2 {
		t.Fatalf("toggle-add left %d refs, want 2", len(sel.SelectedNotes))
	}
	if sel.Anchor == nil || *sel.Anchor != firstFocus {
		t.Error("the first toggle must anchor at the prior focus")
	}

	// Toggling the same note again removes it.
	sel = (&SelectEvent{EventIndex: 1, AddToSelection: true}).Execute(sel, s)
	if len(sel.SelectedNotes) != 1 {
		t.Errorf("toggle-remove left %d refs, want 1", len(sel.SelectedNotes))
	}
}

func TestExtendToRangeOrderInsensitive(t *testing.T) {
	s := line("C4", "D4", "E4", "F4", "G4")

	forward := (&ExtendTo{EventIndex: 4}).Execute(
		(&SelectEvent{EventIndex: 0}).Execute(None(), s), s)
	backward := (&ExtendTo{EventIndex: 0}).Execute(
		(&SelectEvent{EventIndex: 4}).Execute(None(), s), s)

	if len(forward.SelectedNotes) != 5 || len(backward.SelectedNotes) != 5 {
		t.Fatalf("range sizes = %d, %d; want 5 both ways",
			len(forward.SelectedNotes), len(backward.SelectedNotes))
	}
	for i := range forward.SelectedNotes {
		if forward.SelectedNotes[i] != backward.SelectedNotes[i] {
			t.Fatal("the linearized range must be identical regardless of direction")
		}
	}
}

func TestExtendToPartialRange(t *testing.T) {
	s := line("C4", "D4", "E4", "F4", "G4")
	sel := (&SelectEvent{EventIndex: 1}).Execute(None(), s)
	sel = (&ExtendTo{EventIndex: 3}).Execute(sel, s)
	if len(sel.SelectedNotes) != 3 {
		t.Fatalf("range has %d refs, want 3", len(sel.SelectedNotes))
	}
	if sel.Anchor == nil {
		t.Fatal("extending must pin the anchor")
	}
	// Extending again from the same anchor shrinks the range.
	sel = (&ExtendTo{EventIndex: 2}).Execute(sel, s)
	if len(sel.SelectedNotes) != 2 {
		t.Errorf("re-extended range has %d refs, want 2", len(sel.SelectedNotes))
	}
}

func TestCycleChordWraps(t *testing.T) {
	s := chordScore("C4", "E4", "G4")
	ev := s.Staves[0].Measures[0].Events[0]

	sel := (&SelectEvent{NoteIndex: 2}).Execute(None(), s) // G4, chord top
	sel = (&CycleChord{Up: true}).Execute(sel, s)
	if sel.NoteID != ev.Notes[0].ID {
		t.Error("cycling up from the top must wrap to the bottom note")
	}
	sel = (&CycleChord{Up: false}).Execute(sel, s)
	if sel.NoteID != ev.Notes[2].ID {
		t.Error("cycling down from the bottom must wrap to the top note")
	}
}

func TestCycleChordSingleNoteIsSame(t *testing.T) {
	s := line("C4")
	sel := (&SelectEvent{}).Execute(None(), s)
	if got := (&CycleChord{Up: true}).Execute(sel, s); got != sel {
		t.Error("a one-note chord has nothing to cycle")
	}
}

func TestExtendVerticalStepsAcrossStaves(t *testing.T) {
	s := score.NewGrand("test")
	treble := &score.Event{ID: score.NewID(), Duration: rhythm.Quarter, Notes: []score.Note{
		{ID: score.NewID(), Pitch: "C4"},
		{ID: score.NewID(), Pitch: "E4"},
	}}
	bass := &score.Event{ID: score.NewID(), Duration: rhythm.Whole, Notes: []score.Note{
		{ID: score.NewID(), Pitch: "C2"},
	}}
	s.Staves[0].Measures[0].Events = []*score.Event{treble}
	s.Staves[1].Measures[0].Events = []*score.Event{bass}

	sel := (&SelectEvent{NoteIndex: 0}).Execute(None(), s) // C4
	sel = (&ExtendVertical{Up: false}).Execute(sel, s)
	if len(sel.SelectedNotes) != 2 {
		t.Fatalf("first step selects %d refs, want 2", len(sel.SelectedNotes))
	}
	if sel.NoteID != bass.Notes[0].ID {
		t.Errorf("the moving edge should now be the bass note, focus = %q", sel.NoteID)
	}

	// Down again: the cursor is already at the stack's bottom.
	if got := (&ExtendVertical{Up: false}).Execute(sel, s); got != sel {
		t.Error("a step with no room must return the identical selection")
	}
}

func TestExtendVerticalOrderIsStable(t *testing.T) {
	// Two time slices extended at once: the rebuilt set must come back
	// in time order, identically on every dispatch.
	s := score.NewGrand("test")
	mkEvent := func(pitch string) *score.Event {
		return &score.Event{ID: score.NewID(), Duration: rhythm.Quarter, Notes: []score.Note{
			{ID: score.NewID(), Pitch: pitch},
		}}
	}
	c4, d4 := mkEvent("C4"), mkEvent("D4")
	c2, g2 := mkEvent("C2"), mkEvent("G2")
	s.Staves[0].Measures[0].Events = []*score.Event{c4, d4}
	s.Staves[1].Measures[0].Events = []*score.Event{c2, g2}

	sel := (&SelectEvent{EventIndex: 0}).Execute(None(), s)                       // C4
	sel = (&SelectEvent{EventIndex: 1, AddToSelection: true}).Execute(sel, s)     // + D4
	want := []string{c4.Notes[0].ID, c2.Notes[0].ID, d4.Notes[0].ID, g2.Notes[0].ID}

	for run := 0; run < 3; run++ {
		got := (&ExtendVertical{Up: false}).Execute(sel, s)
		if len(got.SelectedNotes) != len(want) {
			t.Fatalf("run %d: %d refs, want %d", run, len(got.SelectedNotes), len(want))
		}
		for i, r := range got.SelectedNotes {
			if r.NoteID != want[i] {
				t.Fatalf("run %d: ref %d = %q, want %q", run, i, r.NoteID, want[i])
			}
		}
	}
}

func TestEngineDispatchAndResync(t *testing.T) {
	s := line("C4", "D4")
	e := NewEngine(func() *score.Score { return s })

	var seen int
	off := e.Subscribe(func(*Selection) { seen++ })
	defer off()

	if !e.Dispatch(&SelectEvent{EventIndex: 0}) {
		t.Fatal("select should apply")
	}
	if seen != 1 {
		t.Errorf("subscriber called %d times, want 1", seen)
	}
	if e.Dispatch(&SelectEvent{EventIndex: 0}) {
		t.Error("a no-op dispatch must report false")
	}
	if seen != 1 {
		t.Error("no-ops must not notify")
	}

	// Drop the focused event from the score and resync.
	s2 := line("D4")
	e.Resync(s2)
	got := e.State()
	if got.EventID != "" || got.MeasureIndex != 0 {
		t.Errorf("stale focus should collapse to the append position, got %+v", got)
	}

	// Resync against a score where everything resolves is silent.
	before := e.State()
	e.Resync(s2)
	if e.State() != before {
		t.Error("a clean resync must keep the identical selection")
	}
}
