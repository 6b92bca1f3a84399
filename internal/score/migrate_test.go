package score

import (
	"bytes"
	"errors"
	"testing"

	"github.com/etudehq/etude/internal/rhythm"
)

func TestMigrateFullDocument(t *testing.T) {
	doc := []byte(`{
		"title": "Prelude",
		"timeSignature": "3/4",
		"bpm": 90,
		"staves": [{
			"clef": "treble",
			"measures": [{
				"events": [
					{"duration": "quarter", "notes": [{"pitch": "C4"}, {"pitch": "E4"}]},
					{"duration": "eighth", "dotted": true, "notes": [{"pitch": "G4", "tied": true}]},
					{"duration": "quarter", "isRest": true, "notes": []}
				]
			}]
		}]
	}`)
	s, err := Migrate(doc)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if s.Title != "Prelude" || s.TimeSignature != "3/4" || s.BPM != 90 {
		t.Errorf("header mismatch: %+v", s)
	}
	m := s.Staves[0].Measures[0]
	if len(m.Events) != 3 {
		t.Fatalf("want 3 events, got %d", len(m.Events))
	}
	chord := m.Events[0]
	if chord.Duration != rhythm.Quarter || len(chord.Notes) != 2 {
		t.Errorf("chord event mismatch: %+v", chord)
	}
	if chord.ID == "" || chord.Notes[0].ID == "" {
		t.Error("missing ids must be generated")
	}
	if e := m.Events[1]; !e.Dotted || !e.Notes[0].Tied {
		t.Errorf("dotted tied event mismatch: %+v", e)
	}
	if !m.Events[2].Rest {
		t.Error("rest flag lost")
	}
}

func TestMigrateNumericDurations(t *testing.T) {
	doc := []byte(`{"staves":[{"measures":[{"events":[
		{"duration": 16, "notes": [{"pitch":"C4"}]},
		{"duration": 24, "notes": [{"pitch":"D4"}]}
	]}]}]}`)
	s, err := Migrate(doc)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	events := s.Staves[0].Measures[0].Events
	if events[0].Duration != rhythm.Quarter || events[0].Dotted {
		t.Errorf("16 quants should migrate to a quarter, got %+v", events[0])
	}
	if events[1].Duration != rhythm.Quarter || !events[1].Dotted {
		t.Errorf("24 quants should migrate to a dotted quarter, got %+v", events[1])
	}
}

func TestMigrateTupletForms(t *testing.T) {
	doc := []byte(`{"staves":[{"measures":[{"events":[
		{"duration":"eighth","notes":[{"pitch":"C4"}],"tuplet":{"ratio":[3,2],"groupSize":3,"position":0}},
		{"duration":"eighth","notes":[{"pitch":"D4"}],"tuplet":{"ratio":{"actual":3,"target":2},"groupSize":3,"position":1}}
	]}]}]}`)
	s, err := Migrate(doc)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	for i, e := range s.Staves[0].Measures[0].Events {
		if e.Tuplet == nil {
			t.Fatalf("event %d lost its tuplet", i)
		}
		if e.Tuplet.Ratio != (rhythm.Ratio{Actual: 3, Target: 2}) {
			t.Errorf("event %d ratio = %+v", i, e.Tuplet.Ratio)
		}
		if e.Tuplet.ID == "" {
			t.Errorf("event %d tuplet id must be generated", i)
		}
	}
}

func TestMigrateEmptyAndInvalid(t *testing.T) {
	s, err := Migrate([]byte(`{}`))
	if err != nil {
		t.Fatalf("empty object should migrate: %v", err)
	}
	if len(s.Staves) != 1 || len(s.Staves[0].Measures) != 1 {
		t.Error("empty document should normalize to one staff with one measure")
	}
	if s.TimeSignature != DefaultTimeSignature || s.BPM != DefaultBPM {
		t.Error("defaults not applied")
	}

	if _, err := Migrate([]byte(`not json`)); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("invalid JSON should return ErrInvalidDocument, got %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewGrand("Round Trip")
	s.Staves[0].Measures[0].Events = []*Event{
		{
			ID:       NewID(),
			Duration: rhythm.Eighth,
			Notes:    []Note{{ID: NewID(), Pitch: "C4"}, {ID: NewID(), Pitch: "E4", Tied: true}},
			Tuplet:   &Tuplet{ID: NewID(), Ratio: rhythm.Ratio{Actual: 3, Target: 2}, GroupSize: 3},
		},
		{ID: NewID(), Duration: rhythm.Quarter, Rest: true},
	}

	for name, write := range map[string]func(*bytes.Buffer) error{
		"json": func(buf *bytes.Buffer) error { return Write(buf, s) },
		"yaml": func(buf *bytes.Buffer) error { return WriteYAML(buf, s) },
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := write(&buf); err != nil {
				t.Fatalf("write: %v", err)
			}
			back, err := Read(&buf)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if back.Title != s.Title || len(back.Staves) != 2 {
				t.Fatalf("header mismatch: %+v", back)
			}
			got := back.Staves[0].Measures[0]
			want := s.Staves[0].Measures[0]
			if len(got.Events) != len(want.Events) {
				t.Fatalf("event count mismatch: %d vs %d", len(got.Events), len(want.Events))
			}
			if got.Events[0].Quants() != want.Events[0].Quants() {
				t.Error("tuplet quants changed across round trip")
			}
			if !got.Events[0].Notes[1].Tied {
				t.Error("tie flag lost")
			}
			if !got.Events[1].Rest {
				t.Error("rest flag lost")
			}
		})
	}
}
