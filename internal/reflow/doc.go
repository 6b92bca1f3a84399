// Package reflow redistributes a staff's events across measure
// boundaries.
//
// Reflow runs when the time signature changes and when an event is
// inserted through the overflow-tolerant insert path. Each staff is
// flattened into one ordered event stream and refilled measure by
// measure: events that fit are carried whole (sharing the original
// event pointers), and an event straddling a barline is split: the
// part filling the measure is decomposed into concrete note values and
// tied forward, the leftover is decomposed into the following
// measure(s), recursively for events longer than a full measure. The
// final part of a split inherits the original notes' own tie flags, so
// a note that was already tied onward keeps that downstream connection
// independent of the synthetic ties the split created.
//
// Total quant mass is conserved exactly: both the fit path and the
// split path are quant-additive and rhythm.Decompose never loses a
// remainder.
package reflow
