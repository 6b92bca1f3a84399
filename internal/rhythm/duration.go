package rhythm

// WholeNoteQuants is the quant count of an undotted whole note. All
// time-signature capacities derive from it.
const WholeNoteQuants = 64

// Duration identifies a base note value, whole through sixty-fourth.
type Duration int

// Base note values in descending order of length.
const (
	Whole Duration = iota
	Half
	Quarter
	Eighth
	Sixteenth
	ThirtySecond
	SixtyFourth
)

// baseQuants maps each Duration to its undotted quant count.
var baseQuants = [...]int{
	Whole:        64,
	Half:         32,
	Quarter:      16,
	Eighth:       8,
	Sixteenth:    4,
	ThirtySecond: 2,
	SixtyFourth:  1,
}

// durationNames is the wire form of each Duration.
var durationNames = [...]string{
	Whole:        "whole",
	Half:         "half",
	Quarter:      "quarter",
	Eighth:       "eighth",
	Sixteenth:    "sixteenth",
	ThirtySecond: "thirtysecond",
	SixtyFourth:  "sixtyfourth",
}

// Valid reports whether d is one of the defined note values.
func (d Duration) Valid() bool {
	return d >= Whole && d <= SixtyFourth
}

// BaseQuants returns the undotted quant count of d. Invalid durations
// count as zero.
func (d Duration) BaseQuants() int {
	if !d.Valid() {
		return 0
	}
	return baseQuants[d]
}

// String returns the wire name of the duration ("quarter", "eighth", ...).
func (d Duration) String() string {
	if !d.Valid() {
		return "invalid"
	}
	return durationNames[d]
}

// ParseDuration converts a wire name back to a Duration. The second
// return value reports whether the name was recognized.
func ParseDuration(name string) (Duration, bool) {
	for d, n := range durationNames {
		if n == name {
			return Duration(d), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler so durations serialize
// as their names in both JSON and YAML snapshots.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognized names
// fall back to a quarter note rather than failing the whole document.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, ok := ParseDuration(string(text))
	if !ok {
		parsed = Quarter
	}
	*d = parsed
	return nil
}

// Ratio is a tuplet ratio: Actual events occupy the time of Target
// normal events. A triplet is 3:2.
type Ratio struct {
	Actual int `json:"actual" yaml:"actual"`
	Target int `json:"target" yaml:"target"`
}

// Valid reports whether both sides of the ratio are positive.
func (r Ratio) Valid() bool {
	return r.Actual > 0 && r.Target > 0
}

// Quants returns the quant count of a note value: the base quants of d,
// times 3/2 when dotted, scaled by the tuplet ratio when one applies.
// A nil or invalid ratio means no tuplet.
func Quants(d Duration, dotted bool, tuplet *Ratio) int {
	q := d.BaseQuants()
	if dotted {
		q = q * 3 / 2
	}
	if tuplet != nil && tuplet.Valid() {
		q = q * tuplet.Target / tuplet.Actual
	}
	return q
}

// timeSignatures maps the supported time signatures to their measure
// capacity in quants.
var timeSignatures = map[string]int{
	"2/2":  64,
	"2/4":  32,
	"3/4":  48,
	"4/4":  64,
	"5/4":  80,
	"6/4":  96,
	"3/8":  24,
	"6/8":  48,
	"7/8":  56,
	"9/8":  72,
	"12/8": 96,
}

// Capacity returns the measure capacity in quants for a time signature.
// Unknown signatures fall back to a full 4/4 measure; use KnownSignature
// to validate before trusting the result.
func Capacity(timeSignature string) int {
	if c, ok := timeSignatures[timeSignature]; ok {
		return c
	}
	return WholeNoteQuants
}

// KnownSignature reports whether the time signature is one the editor
// supports.
func KnownSignature(timeSignature string) bool {
	_, ok := timeSignatures[timeSignature]
	return ok
}

// Signatures returns the supported time signatures. The slice is a copy
// and safe to modify.
func Signatures() []string {
	out := make([]string, 0, len(timeSignatures))
	for sig := range timeSignatures {
		out = append(out, sig)
	}
	return out
}
