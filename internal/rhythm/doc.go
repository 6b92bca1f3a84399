// Package rhythm implements quant arithmetic for the score model.
//
// A quant is the integer unit of rhythmic time: one whole note is 64
// quants. Every duration the editor understands (whole through
// sixty-fourth, dotted or not, inside a tuplet or not) reduces to a
// quant count, and all positional math in the editing core is done in
// quants. Pixel geometry is a downstream concern and never appears here.
//
// The package provides:
//
//   - Duration and Ratio types with the duration→quant conversion
//   - Capacity lookup for time signatures
//   - Decompose, the greedy largest-fit decomposition of an arbitrary
//     quant count into concrete note values
//
// Decompose is the basis for both measure reflow (splitting an event
// across a barline) and ghost-cursor duration clamping, and it is exact:
// the parts always sum back to the input.
package rhythm
