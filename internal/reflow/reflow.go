package reflow

import (
	"github.com/etudehq/etude/internal/rhythm"
	"github.com/etudehq/etude/internal/score"
)

// Apply rebuilds every staff of s for the given time signature and
// returns the new root. Returns s unchanged (same pointer) when the
// signature is unknown. Measure counts are padded so all staves stay
// aligned at the measure-index level.
func Apply(s *score.Score, timeSignature string) *score.Score {
	if !rhythm.KnownSignature(timeSignature) {
		return s
	}
	capacity := rhythm.Capacity(timeSignature)

	ns := s.Clone()
	ns.TimeSignature = timeSignature
	for i, st := range s.Staves {
		nst := st.Clone()
		nst.Measures = refill(flatten(st), pickupCapacity(st, capacity), capacity)
		ns.Staves[i] = nst
	}
	padMeasures(ns)
	return ns
}

// InsertEvent splices ev into staff staffIndex just before position
// index of measure measureIndex (an index past the events appends) and
// reflows that staff under the current signature. Unlike AddEvent this
// path tolerates overflow: the inserted event may split across barlines.
// Returns s unchanged when the target measure does not resolve.
func InsertEvent(s *score.Score, staffIndex, measureIndex, index int, ev *score.Event) *score.Score {
	if staffIndex < 0 || staffIndex >= len(s.Staves) {
		return s
	}
	st := s.Staves[staffIndex]
	if measureIndex < 0 || measureIndex >= len(st.Measures) {
		return s
	}
	capacity := s.Capacity()

	var stream []*score.Event
	for mi, m := range st.Measures {
		if mi == measureIndex {
			at := index
			if at < 0 {
				at = 0
			}
			if at > len(m.Events) {
				at = len(m.Events)
			}
			stream = append(stream, m.Events[:at]...)
			stream = append(stream, ev)
			stream = append(stream, m.Events[at:]...)
			continue
		}
		stream = append(stream, m.Events...)
	}

	ns := s.Clone()
	nst := st.Clone()
	nst.Measures = refill(stream, pickupCapacity(st, capacity), capacity)
	ns.Staves[staffIndex] = nst
	padMeasures(ns)
	return ns
}

// flatten collects a staff's events into one ordered stream. The
// original event pointers are returned; refill decides what to clone.
func flatten(st *score.Staff) []*score.Event {
	var stream []*score.Event
	for _, m := range st.Measures {
		stream = append(stream, m.Events...)
	}
	return stream
}

// pickupCapacity returns the capacity of the leading measure: a pickup
// keeps its own content total, clamped to the full capacity; zero means
// no pickup.
func pickupCapacity(st *score.Staff, capacity int) int {
	if len(st.Measures) == 0 || !st.Measures[0].Pickup {
		return 0
	}
	total := st.Measures[0].Quants()
	if total > capacity {
		return capacity
	}
	return total
}

// refill walks the stream, packing events into fresh measures of the
// given capacity. Events that fit are carried whole; boundary events
// are split with decomposed, tied parts.
func refill(stream []*score.Event, pickupCap, capacity int) []*score.Measure {
	var measures []*score.Measure
	cur := &score.Measure{ID: score.NewID()}
	remaining := capacity
	if pickupCap > 0 {
		cur.Pickup = true
		remaining = pickupCap
	}
	commit := func() {
		measures = append(measures, cur)
		cur = &score.Measure{ID: score.NewID()}
		remaining = capacity
	}

	for _, ev := range stream {
		q := ev.Quants()
		if q <= 0 {
			continue
		}
		if remaining == 0 {
			commit()
		}
		if q <= remaining {
			cur.Events = append(cur.Events, ev)
			remaining -= q
			continue
		}

		// Split: fill the current measure, then decompose the leftover
		// into the following measure(s).
		for _, p := range rhythm.Decompose(remaining) {
			cur.Events = append(cur.Events, splitPart(ev, p, true))
		}
		leftover := q - remaining
		commit()
		for leftover > 0 {
			chunk := leftover
			if chunk > remaining {
				chunk = remaining
			}
			parts := rhythm.Decompose(chunk)
			for i, p := range parts {
				final := leftover == chunk && i == len(parts)-1
				cur.Events = append(cur.Events, splitPart(ev, p, !final))
				remaining -= p.Quants
			}
			leftover -= chunk
			if leftover > 0 {
				commit()
			}
		}
	}
	if len(cur.Events) > 0 || len(measures) == 0 {
		// A score with no measures at all is disallowed; one empty
		// measure is the floor.
		cur.Pickup = cur.Pickup && len(cur.Events) > 0
		measures = append(measures, cur)
	}
	return measures
}

// splitPart builds one decomposed part of a split event. Parts that
// continue into a following part are tied forward; the final part
// inherits each note's original tie flag. Split parts are straight
// durations, so the tuplet pointer is dropped.
func splitPart(ev *score.Event, p rhythm.Part, continues bool) *score.Event {
	part := &score.Event{
		ID:       score.NewID(),
		Duration: p.Duration,
		Dotted:   p.Dotted,
		Rest:     ev.Rest,
	}
	for _, n := range ev.Notes {
		tied := n.Tied
		if continues && n.Pitch != "" {
			tied = true
		}
		part.Notes = append(part.Notes, score.Note{
			ID:         score.NewID(),
			Pitch:      n.Pitch,
			Accidental: n.Accidental,
			Tied:       tied,
		})
	}
	return part
}

// padMeasures appends empty measures to shorter staves so every staff
// has the same measure count. Padded staves are replaced with clones:
// a staff may still be shared by pointer with an older root, and that
// root must never see the padding.
func padMeasures(s *score.Score) {
	max := 0
	for _, st := range s.Staves {
		if len(st.Measures) > max {
			max = len(st.Measures)
		}
	}
	for i, st := range s.Staves {
		if len(st.Measures) >= max {
			continue
		}
		nst := st.Clone()
		for len(nst.Measures) < max {
			nst.Measures = append(nst.Measures, &score.Measure{ID: score.NewID()})
		}
		s.Staves[i] = nst
	}
}
