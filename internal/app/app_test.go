package app

import (
	"testing"

	"github.com/etudehq/etude/internal/command"
	"github.com/etudehq/etude/internal/rhythm"
	"github.com/etudehq/etude/internal/score"
	"github.com/etudehq/etude/internal/selection"
)

func TestCommandDispatchResyncsSelection(t *testing.T) {
	a := New(score.New("test"))
	a.Commands.Dispatch(&command.AddEvent{Duration: rhythm.Quarter, Pitch: "C4"})

	ev := a.Score().Staves[0].Measures[0].Events[0]
	a.Selection.Dispatch(&selection.SelectEvent{})
	if a.Selection.State().EventID != ev.ID {
		t.Fatal("fixture: event should be focused")
	}

	a.Commands.Dispatch(&command.DeleteEvent{EventID: ev.ID})
	got := a.Selection.State()
	if got.EventID != "" {
		t.Error("deleting the focused event must collapse the selection to the append position")
	}
}

func TestNavigateAppendsRequestedMeasure(t *testing.T) {
	a := New(score.New("test"))
	for _, p := range []string{"C4", "D4", "E4", "F4"} {
		a.Commands.Dispatch(&command.AddEvent{Duration: rhythm.Quarter, Pitch: p})
	}
	a.Selection.Dispatch(&selection.SelectEvent{EventIndex: 3})

	// Right from the last event of a full final measure: the request
	// is honored with a fresh measure and the cursor ghosts into it.
	if !a.Navigate(selection.Right) {
		t.Fatal("navigation should succeed after appending a measure")
	}
	if n := len(a.Score().Staves[0].Measures); n != 2 {
		t.Fatalf("score has %d measures, want 2", n)
	}
	sel := a.Selection.State()
	if sel.MeasureIndex != 1 || sel.EventID != "" || sel.Preview == nil {
		t.Errorf("cursor should ghost into the new measure, got %+v", sel)
	}
}

func TestNavigatePlainStep(t *testing.T) {
	a := New(score.New("test"))
	a.Commands.Dispatch(&command.AddEvent{Duration: rhythm.Quarter, Pitch: "C4"})
	a.Commands.Dispatch(&command.AddEvent{Duration: rhythm.Quarter, Pitch: "D4"})
	a.Selection.Dispatch(&selection.SelectEvent{})

	if !a.Navigate(selection.Right) {
		t.Fatal("step should succeed")
	}
	if a.Selection.State().EventID != a.Score().Staves[0].Measures[0].Events[1].ID {
		t.Error("cursor should be on the second event")
	}
	if n := len(a.Score().Staves[0].Measures); n != 1 {
		t.Errorf("plain steps must not create measures, got %d", n)
	}
}

func TestLoadResetsState(t *testing.T) {
	a := New(score.New("first"))
	a.Commands.Dispatch(&command.AddEvent{Duration: rhythm.Quarter, Pitch: "C4"})
	a.Selection.Dispatch(&selection.SelectEvent{})

	a.Load(score.New("second"))
	if a.Score().Title != "second" {
		t.Error("Load must install the new score")
	}
	if a.Commands.CanUndo() {
		t.Error("Load must clear history")
	}
	if a.Selection.State().MeasureIndex != -1 {
		t.Error("Load must clear the selection")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := New(score.New("one"))
	id := r.Add("", a)
	if id == "" {
		t.Fatal("Add must generate an id")
	}
	got, ok := r.Get(id)
	if !ok || got != a {
		t.Error("Get must return the registered app")
	}
	r.Add("named", New(score.New("two")))
	if n := len(r.IDs()); n != 2 {
		t.Errorf("registry holds %d apps, want 2", n)
	}
	r.Remove(id)
	if _, ok := r.Get(id); ok {
		t.Error("Remove must drop the app")
	}
}
