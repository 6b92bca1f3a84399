package rhythm

// Part is one element of a greedy decomposition: a concrete note value
// and the quants it occupies.
type Part struct {
	Duration Duration
	Dotted   bool
	Quants   int
}

// decomposeTable is the fixed descending table of representable note
// values. Greedy largest-fit over this table is exact because the final
// entry is a single quant.
var decomposeTable = [...]Part{
	{Whole, false, 64},
	{Half, true, 48},
	{Half, false, 32},
	{Quarter, true, 24},
	{Quarter, false, 16},
	{Eighth, true, 12},
	{Eighth, false, 8},
	{Sixteenth, true, 6},
	{Sixteenth, false, 4},
	{ThirtySecond, true, 3},
	{ThirtySecond, false, 2},
	{SixtyFourth, false, 1},
}

// Decompose splits a quant count into concrete note values, repeatedly
// taking the largest table entry that still fits. The parts always sum
// to exactly the input; a non-positive input yields nil.
func Decompose(quants int) []Part {
	if quants <= 0 {
		return nil
	}
	var parts []Part
	remaining := quants
	for remaining > 0 {
		for _, p := range decomposeTable {
			if p.Quants <= remaining {
				parts = append(parts, p)
				remaining -= p.Quants
				break
			}
		}
	}
	return parts
}

// LargestFit returns the single largest note value that fits in the
// given quant count, and false when nothing fits (quants < 1). It is
// the duration the ghost cursor previews in a partially filled measure.
func LargestFit(quants int) (Part, bool) {
	if quants <= 0 {
		return Part{}, false
	}
	for _, p := range decomposeTable {
		if p.Quants <= quants {
			return p, true
		}
	}
	return Part{}, false
}
