package script

import (
	"strings"
	"testing"

	"github.com/etudehq/etude/internal/app"
	"github.com/etudehq/etude/internal/score"
)

func newHost() (*Host, *app.App) {
	a := app.New(score.New("scripted"))
	return NewHost(a), a
}

func TestScriptAddsEvents(t *testing.T) {
	h, a := newHost()
	err := h.Run(`
		local etude = require("etude")
		assert(etude.dispatch("addEvent", { pitch = "C4", duration = "quarter" }))
		assert(etude.dispatch("addEvent", { pitch = "D4", duration = "quarter", dotted = true }))
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	events := a.Score().Staves[0].Measures[0].Events
	if len(events) != 2 {
		t.Fatalf("script added %d events, want 2", len(events))
	}
	if !events[1].Dotted {
		t.Error("dotted flag lost on the way through the payload")
	}
}

func TestScriptReadsScoreSnapshot(t *testing.T) {
	h, _ := newHost()
	err := h.Run(`
		local etude = require("etude")
		etude.dispatch("addEvent", { pitch = "G4", duration = "half" })
		local s = etude.score()
		assert(s.title == "scripted", "title: " .. tostring(s.title))
		assert(s.timeSignature == "4/4")
		local ev = s.staves[1].measures[1].events[1]
		assert(ev.duration == "half", "duration: " .. tostring(ev.duration))
		assert(ev.notes[1].pitch == "G4")
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestScriptUndoRedo(t *testing.T) {
	h, a := newHost()
	err := h.Run(`
		local etude = require("etude")
		etude.dispatch("addEvent", { pitch = "C4", duration = "quarter" })
		assert(etude.undo())
		assert(not etude.undo())
		assert(etude.redo())
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := len(a.Score().Staves[0].Measures[0].Events); n != 1 {
		t.Errorf("after redo: %d events, want 1", n)
	}
}

func TestScriptTransaction(t *testing.T) {
	h, a := newHost()
	err := h.Run(`
		local etude = require("etude")
		etude.dispatch("addEvent", { pitch = "C4", duration = "quarter" })
		local s = etude.score()
		local id = s.staves[1].measures[1].events[1].id
		etude.transaction(function()
			etude.dispatch("addNote", { eventId = id, pitch = "E4" })
			etude.dispatch("addNote", { eventId = id, pitch = "G4" })
		end)
		assert(etude.undo())
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Undo removed the whole transaction, leaving the single C4.
	ev := a.Score().Staves[0].Measures[0].Events[0]
	if len(ev.Notes) != 1 {
		t.Errorf("transaction undo left %d notes, want 1", len(ev.Notes))
	}
}

func TestScriptTransactionRollsBackOnError(t *testing.T) {
	h, a := newHost()
	err := h.Run(`
		local etude = require("etude")
		etude.transaction(function()
			etude.dispatch("addEvent", { pitch = "C4", duration = "quarter" })
			error("boom")
		end)
	`)
	if err == nil {
		t.Fatal("the raised error must propagate")
	}
	if n := len(a.Score().Staves[0].Measures[0].Events); n != 0 {
		t.Errorf("rollback left %d events, want 0", n)
	}
	if a.Commands.CanUndo() {
		t.Error("a rolled-back transaction must not enter history")
	}
}

func TestScriptUnknownCommand(t *testing.T) {
	h, _ := newHost()
	err := h.Run(`require("etude").dispatch("explode", {})`)
	if err == nil {
		t.Fatal("unknown command types must raise")
	}
	if !strings.Contains(err.Error(), "unknown command type") {
		t.Errorf("error should name the failure, got %v", err)
	}
}

func TestScriptNavigate(t *testing.T) {
	h, a := newHost()
	err := h.Run(`
		local etude = require("etude")
		etude.dispatch("addEvent", { pitch = "C4", duration = "quarter" })
		etude.dispatch("addEvent", { pitch = "D4", duration = "quarter" })
		assert(etude.navigate("right"))
		local sel = etude.selection()
		assert(sel.measureIndex == 0)
	`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.Selection.State().MeasureIndex != 0 {
		t.Error("navigation should have focused measure 0")
	}
}
