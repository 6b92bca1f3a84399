package score

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/tidwall/gjson"

	"github.com/etudehq/etude/internal/rhythm"
)

// Migrate converts an externally supplied JSON document into a Score.
// It is deliberately tolerant: unknown fields are ignored, missing ids
// are generated, durations may be spelled by name ("quarter") or as raw
// quant counts, and a document with no usable staves still yields a
// minimal valid score. Migration happens exactly once, when a document
// enters the editor; from then on the score is only ever replaced by
// command engine output.
func Migrate(data []byte) (*Score, error) {
	if !gjson.ValidBytes(data) {
		return nil, fault.Wrap(ErrInvalidDocument, fmsg.With("document is not valid JSON"))
	}
	root := gjson.ParseBytes(data)

	s := &Score{
		Title:         root.Get("title").String(),
		KeySignature:  root.Get("keySignature").String(),
		TimeSignature: root.Get("timeSignature").String(),
		BPM:           int(root.Get("bpm").Int()),
	}

	for _, staff := range root.Get("staves").Array() {
		s.Staves = append(s.Staves, migrateStaff(staff))
	}

	Normalize(s)
	return s, nil
}

func migrateStaff(staff gjson.Result) *Staff {
	st := &Staff{
		ID:           orNewID(staff.Get("id")),
		Clef:         Clef(staff.Get("clef").String()),
		KeySignature: staff.Get("keySignature").String(),
	}
	for _, measure := range staff.Get("measures").Array() {
		st.Measures = append(st.Measures, migrateMeasure(measure))
	}
	return st
}

func migrateMeasure(measure gjson.Result) *Measure {
	m := &Measure{
		ID:     orNewID(measure.Get("id")),
		Pickup: measure.Get("isPickup").Bool(),
	}
	for _, event := range measure.Get("events").Array() {
		m.Events = append(m.Events, migrateEvent(event))
	}
	return m
}

func migrateEvent(event gjson.Result) *Event {
	duration, dotted := migrateDuration(event.Get("duration"))
	if event.Get("dotted").Exists() {
		dotted = event.Get("dotted").Bool()
	}
	e := &Event{
		ID:       orNewID(event.Get("id")),
		Duration: duration,
		Dotted:   dotted,
		Rest:     event.Get("isRest").Bool(),
	}
	for _, note := range event.Get("notes").Array() {
		e.Notes = append(e.Notes, Note{
			ID:         orNewID(note.Get("id")),
			Pitch:      note.Get("pitch").String(),
			Accidental: note.Get("accidental").String(),
			Tied:       note.Get("tied").Bool(),
		})
	}
	if tuplet := event.Get("tuplet"); tuplet.Exists() {
		e.Tuplet = migrateTuplet(tuplet)
	}
	return e
}

// migrateDuration accepts either a duration name or a raw quant count.
// Quant counts snap to the nearest representable value via the greedy
// table: the largest single part wins, dots included.
func migrateDuration(d gjson.Result) (rhythm.Duration, bool) {
	if d.Type == gjson.String {
		if parsed, ok := rhythm.ParseDuration(d.String()); ok {
			return parsed, false
		}
		return rhythm.Quarter, false
	}
	if d.Type == gjson.Number {
		if part, ok := rhythm.LargestFit(int(d.Int())); ok {
			return part.Duration, part.Dotted
		}
	}
	return rhythm.Quarter, false
}

// migrateTuplet accepts the ratio either as a two-element array
// [actual, target] or as an {actual, target} object.
func migrateTuplet(tuplet gjson.Result) *Tuplet {
	t := &Tuplet{
		ID:        orNewID(tuplet.Get("id")),
		GroupSize: int(tuplet.Get("groupSize").Int()),
		Position:  int(tuplet.Get("position").Int()),
	}
	ratio := tuplet.Get("ratio")
	if arr := ratio.Array(); len(arr) == 2 {
		t.Ratio = rhythm.Ratio{Actual: int(arr[0].Int()), Target: int(arr[1].Int())}
	} else {
		t.Ratio = rhythm.Ratio{
			Actual: int(ratio.Get("actual").Int()),
			Target: int(ratio.Get("target").Int()),
		}
	}
	if !t.Ratio.Valid() {
		t.Ratio = rhythm.Ratio{Actual: 3, Target: 2}
	}
	return t
}

func orNewID(r gjson.Result) string {
	if id := r.String(); id != "" {
		return id
	}
	return NewID()
}
