package score

import "github.com/etudehq/etude/internal/rhythm"

// Default document values used by New, Normalize, and the migrator.
const (
	DefaultTimeSignature = "4/4"
	DefaultBPM           = 120
)

// New returns a minimal valid score: a single treble staff holding one
// empty 4/4 measure.
func New(title string) *Score {
	return &Score{
		Title:         title,
		TimeSignature: DefaultTimeSignature,
		BPM:           DefaultBPM,
		Staves: []*Staff{
			{
				ID:       NewID(),
				Clef:     ClefTreble,
				Measures: []*Measure{{ID: NewID()}},
			},
		},
	}
}

// NewGrand returns a score with a synchronized treble/bass staff pair.
func NewGrand(title string) *Score {
	s := New(title)
	s.Staves = append(s.Staves, &Staff{
		ID:       NewID(),
		Clef:     ClefBass,
		Measures: []*Measure{{ID: NewID()}},
	})
	return s
}

// Normalize repairs a deserialized or migrated score in place: unknown
// time signatures fall back to 4/4, a non-positive BPM becomes the
// default, missing ids are generated, empty scores get one staff, empty
// staves get one measure, and all staves are padded to the same measure
// count so that grand-staff measure indices stay aligned.
func Normalize(s *Score) {
	if !rhythm.KnownSignature(s.TimeSignature) {
		s.TimeSignature = DefaultTimeSignature
	}
	if s.BPM <= 0 {
		s.BPM = DefaultBPM
	}
	if len(s.Staves) == 0 {
		s.Staves = []*Staff{{ID: NewID(), Clef: ClefTreble}}
	}
	maxMeasures := 1
	for _, st := range s.Staves {
		if len(st.Measures) > maxMeasures {
			maxMeasures = len(st.Measures)
		}
	}
	for _, st := range s.Staves {
		if st.ID == "" {
			st.ID = NewID()
		}
		if st.Clef == "" {
			st.Clef = ClefTreble
		}
		for len(st.Measures) < maxMeasures {
			st.Measures = append(st.Measures, &Measure{ID: NewID()})
		}
		for _, m := range st.Measures {
			if m.ID == "" {
				m.ID = NewID()
			}
			for _, e := range m.Events {
				if e.ID == "" {
					e.ID = NewID()
				}
				if e.Tuplet != nil && e.Tuplet.ID == "" {
					e.Tuplet.ID = NewID()
				}
				for i := range e.Notes {
					if e.Notes[i].ID == "" {
						e.Notes[i].ID = NewID()
					}
				}
			}
		}
	}
}
