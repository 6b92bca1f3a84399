package command

import (
	"github.com/etudehq/etude/internal/reflow"
	"github.com/etudehq/etude/internal/score"
)

// AddMeasure inserts an empty measure into every staff at AtIndex,
// keeping the staves' measure indices in lockstep. AtIndex of -1 or
// past the end appends. This is the command issued when navigation
// reports the cursor stepping past the final measure.
type AddMeasure struct {
	AtIndex int

	addedIDs []string
}

// Type identifies the command kind.
func (c *AddMeasure) Type() string { return "addMeasure" }

// Execute inserts the measures, generating their ids on first run.
func (c *AddMeasure) Execute(s *score.Score) *score.Score {
	if len(s.Staves) == 0 {
		return s
	}
	// Ids are generated once so a redo recreates the same measures; a
	// staff added since the first run still gets a fresh unique id.
	for len(c.addedIDs) < len(s.Staves) {
		c.addedIDs = append(c.addedIDs, score.NewID())
	}
	ns := s.Clone()
	for i, st := range s.Staves {
		nst := st.Clone()
		m := &score.Measure{ID: c.addedIDs[i]}
		at := c.AtIndex
		if at < 0 || at > len(nst.Measures) {
			at = len(nst.Measures)
		}
		nst.Measures = append(nst.Measures, nil)
		copy(nst.Measures[at+1:], nst.Measures[at:])
		nst.Measures[at] = m
		ns.Staves[i] = nst
	}
	return ns
}

// Undo removes the inserted measures by id.
func (c *AddMeasure) Undo(s *score.Score) *score.Score {
	if c.addedIDs == nil {
		return s
	}
	ids := make(map[string]bool, len(c.addedIDs))
	for _, id := range c.addedIDs {
		ids[id] = true
	}
	found := false
	ns := s.Clone()
	for i, st := range s.Staves {
		nst := st.Clone()
		kept := nst.Measures[:0]
		for _, m := range nst.Measures {
			if ids[m.ID] {
				found = true
				continue
			}
			kept = append(kept, m)
		}
		nst.Measures = kept
		ns.Staves[i] = nst
	}
	if !found {
		return s
	}
	return ns
}

// DeleteMeasure removes measure MeasureIndex from every staff. The
// last remaining measure is never deleted.
type DeleteMeasure struct {
	MeasureIndex int

	removed []*score.Measure
}

// Type identifies the command kind.
func (c *DeleteMeasure) Type() string { return "deleteMeasure" }

// Execute removes the measure column.
func (c *DeleteMeasure) Execute(s *score.Score) *score.Score {
	if len(s.Staves) == 0 {
		return s
	}
	for _, st := range s.Staves {
		if c.MeasureIndex < 0 || c.MeasureIndex >= len(st.Measures) {
			return s
		}
		if len(st.Measures) <= 1 {
			return s
		}
	}
	c.removed = make([]*score.Measure, len(s.Staves))
	ns := s.Clone()
	for i, st := range s.Staves {
		nst := st.Clone()
		c.removed[i] = nst.Measures[c.MeasureIndex]
		nst.Measures = append(nst.Measures[:c.MeasureIndex], nst.Measures[c.MeasureIndex+1:]...)
		ns.Staves[i] = nst
	}
	return ns
}

// Undo restores the removed measure column at its index.
func (c *DeleteMeasure) Undo(s *score.Score) *score.Score {
	if c.removed == nil {
		return s
	}
	ns := s.Clone()
	for i, st := range s.Staves {
		if i >= len(c.removed) {
			break
		}
		nst := st.Clone()
		at := c.MeasureIndex
		if at > len(nst.Measures) {
			at = len(nst.Measures)
		}
		nst.Measures = append(nst.Measures, nil)
		copy(nst.Measures[at+1:], nst.Measures[at:])
		nst.Measures[at] = c.removed[i]
		ns.Staves[i] = nst
	}
	return ns
}

// SetTimeSignature changes the score's time signature and reflows
// every staff. Reflow is lossy (splits, synthetic ties), so undo
// restores the captured previous root rather than reflowing back.
type SetTimeSignature struct {
	TimeSignature string

	before *score.Score
}

// Type identifies the command kind.
func (c *SetTimeSignature) Type() string { return "setTimeSignature" }

// Execute reflows under the new signature. Unknown signatures and the
// current signature are no-ops.
func (c *SetTimeSignature) Execute(s *score.Score) *score.Score {
	if c.TimeSignature == s.TimeSignature {
		return s
	}
	next := reflow.Apply(s, c.TimeSignature)
	if next == s {
		return s
	}
	c.before = s
	return next
}

// Undo restores the root from before the signature change.
func (c *SetTimeSignature) Undo(s *score.Score) *score.Score {
	if c.before == nil {
		return s
	}
	return c.before
}
