package command

import (
	"github.com/etudehq/etude/internal/rhythm"
	"github.com/etudehq/etude/internal/score"
)

// TransposeSelection shifts pitches along the staff's clef ladder,
// clamped at the ladder's ends. Granularity follows which ids are set:
// NoteID for a single note, EventID alone for the whole chord, neither
// for every note in the measure. Undo re-applies with the negated
// interval.
type TransposeSelection struct {
	StaffIndex   int
	MeasureIndex int
	EventID      string
	NoteID       string
	Semitones    int
}

// Type identifies the command kind.
func (c *TransposeSelection) Type() string { return "transpose" }

// Execute shifts the targeted notes. Transposed pitches come back
// sharp-spelled with the accidental folded in.
func (c *TransposeSelection) Execute(s *score.Score) *score.Score {
	if c.Semitones == 0 {
		return s
	}
	st := s.ActiveStaff(c.StaffIndex)
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if st == nil || m == nil {
		return s
	}
	clef := st.Clef

	changed := false
	for _, ev := range m.Events {
		if c.EventID != "" && ev.ID != c.EventID {
			continue
		}
		for _, n := range ev.Notes {
			if c.NoteID != "" && n.ID != c.NoteID {
				continue
			}
			if n.Pitch == "" {
				continue
			}
			np := score.Transpose(n.Pitch, n.Accidental, c.Semitones, clef)
			if np != n.Pitch || n.Accidental != "" {
				changed = true
			}
		}
	}
	if !changed {
		return s
	}

	return score.MutateMeasure(s, c.StaffIndex, c.MeasureIndex, func(nm *score.Measure) {
		for i, ev := range nm.Events {
			if c.EventID != "" && ev.ID != c.EventID {
				continue
			}
			ne := ev.Clone()
			touched := false
			for ni := range ne.Notes {
				n := &ne.Notes[ni]
				if c.NoteID != "" && n.ID != c.NoteID {
					continue
				}
				if n.Pitch == "" {
					continue
				}
				np := score.Transpose(n.Pitch, n.Accidental, c.Semitones, clef)
				if np != n.Pitch || n.Accidental != "" {
					n.Pitch = np
					n.Accidental = ""
					touched = true
				}
			}
			if touched {
				nm.Events[i] = ne
			}
		}
	})
}

// Undo transposes the same target by the negated interval.
func (c *TransposeSelection) Undo(s *score.Score) *score.Score {
	inv := TransposeSelection{
		StaffIndex:   c.StaffIndex,
		MeasureIndex: c.MeasureIndex,
		EventID:      c.EventID,
		NoteID:       c.NoteID,
		Semitones:    -c.Semitones,
	}
	return inv.Execute(s)
}

// ApplyTuplet stamps a shared tuplet over a contiguous run of events
// starting at EventID. A run whose rescaled quants overflow the
// measure is a no-op.
type ApplyTuplet struct {
	StaffIndex   int
	MeasureIndex int
	EventID      string
	Ratio        rhythm.Ratio
	GroupSize    int

	tupletID string
	runIDs   []string
	prev     []*score.Tuplet
}

// Type identifies the command kind.
func (c *ApplyTuplet) Type() string { return "applyTuplet" }

// Execute stamps the run.
func (c *ApplyTuplet) Execute(s *score.Score) *score.Score {
	if c.Ratio.Actual <= 0 || c.Ratio.Target <= 0 {
		return s
	}
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	start := m.EventIndex(c.EventID)
	if start < 0 {
		return s
	}
	size := c.GroupSize
	if size <= 0 {
		size = c.Ratio.Actual
	}
	if start+size > len(m.Events) {
		return s
	}

	// Rescaled total against full capacity.
	total := 0
	for i, ev := range m.Events {
		if i >= start && i < start+size {
			total += rhythm.Quants(ev.Duration, ev.Dotted, &c.Ratio)
		} else {
			total += ev.Quants()
		}
	}
	if total > s.Capacity() {
		return s
	}

	if c.tupletID == "" {
		c.tupletID = score.NewID()
	}
	c.runIDs = make([]string, size)
	c.prev = make([]*score.Tuplet, size)
	for k := 0; k < size; k++ {
		c.runIDs[k] = m.Events[start+k].ID
		c.prev[k] = m.Events[start+k].Tuplet
	}

	return score.MutateMeasure(s, c.StaffIndex, c.MeasureIndex, func(nm *score.Measure) {
		for k := 0; k < size; k++ {
			ne := nm.Events[start+k].Clone()
			ne.Tuplet = &score.Tuplet{
				ID:        c.tupletID,
				Ratio:     c.Ratio,
				GroupSize: size,
				Position:  k,
			}
			nm.Events[start+k] = ne
		}
	})
}

// Undo restores the previous tuplet pointer of each run member,
// resolving by event id so later reorders do not corrupt neighbors.
func (c *ApplyTuplet) Undo(s *score.Score) *score.Score {
	if c.runIDs == nil {
		return s
	}
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	restored := false
	next := score.MutateMeasure(s, c.StaffIndex, c.MeasureIndex, func(nm *score.Measure) {
		for k, id := range c.runIDs {
			idx := nm.EventIndex(id)
			if idx < 0 {
				continue
			}
			ne := nm.Events[idx].Clone()
			ne.Tuplet = c.prev[k]
			nm.Events[idx] = ne
			restored = true
		}
	})
	if !restored {
		return s
	}
	return next
}

// RemoveTuplet clears the tuplet with the given id from every event
// carrying it. Clearing expands durations, so a result overflowing the
// measure is a no-op.
type RemoveTuplet struct {
	StaffIndex   int
	MeasureIndex int
	TupletID     string

	prev map[string]*score.Tuplet
}

// Type identifies the command kind.
func (c *RemoveTuplet) Type() string { return "removeTuplet" }

// Execute clears the tuplet run.
func (c *RemoveTuplet) Execute(s *score.Score) *score.Score {
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	members := 0
	total := 0
	for _, ev := range m.Events {
		if ev.Tuplet != nil && ev.Tuplet.ID == c.TupletID {
			members++
			total += rhythm.Quants(ev.Duration, ev.Dotted, nil)
		} else {
			total += ev.Quants()
		}
	}
	if members == 0 || total > s.Capacity() {
		return s
	}

	c.prev = make(map[string]*score.Tuplet, members)
	return score.MutateMeasure(s, c.StaffIndex, c.MeasureIndex, func(nm *score.Measure) {
		for i, ev := range nm.Events {
			if ev.Tuplet == nil || ev.Tuplet.ID != c.TupletID {
				continue
			}
			c.prev[ev.ID] = ev.Tuplet
			ne := ev.Clone()
			ne.Tuplet = nil
			nm.Events[i] = ne
		}
	})
}

// Undo re-stamps the captured tuplet pointers by event id.
func (c *RemoveTuplet) Undo(s *score.Score) *score.Score {
	if len(c.prev) == 0 {
		return s
	}
	m := s.MeasureAt(c.StaffIndex, c.MeasureIndex)
	if m == nil {
		return s
	}
	restored := false
	next := score.MutateMeasure(s, c.StaffIndex, c.MeasureIndex, func(nm *score.Measure) {
		for i, ev := range nm.Events {
			t, ok := c.prev[ev.ID]
			if !ok {
				continue
			}
			ne := ev.Clone()
			ne.Tuplet = t
			nm.Events[i] = ne
			restored = true
		}
	})
	if !restored {
		return s
	}
	return next
}
