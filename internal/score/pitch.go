package score

import (
	"strconv"
	"strings"
)

// semitone offset of each natural letter within an octave.
var letterSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// pitchClasses spells the chromatic scale with sharps; ladder entries
// and transposition results use this spelling.
var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MIDIPitch converts a pitch name like "C4" or "F#3" plus an optional
// accidental ("sharp", "flat", "natural") to a MIDI note number.
// C4 = 60. Returns -1 for an empty or unparseable pitch.
func MIDIPitch(pitch, accidental string) int {
	if pitch == "" {
		return -1
	}
	letter := pitch[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	semi, ok := letterSemitones[letter]
	if !ok {
		return -1
	}
	rest := pitch[1:]
	for strings.HasPrefix(rest, "#") {
		semi++
		rest = rest[1:]
	}
	for strings.HasPrefix(rest, "b") {
		semi--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return -1
	}
	switch accidental {
	case "sharp":
		semi++
	case "flat":
		semi--
	}
	return (octave+1)*12 + semi
}

// pitchName spells a MIDI note number with the sharp-based pitch classes.
func pitchName(midi int) string {
	octave := midi/12 - 1
	return pitchClasses[((midi%12)+12)%12] + strconv.Itoa(octave)
}

// makeLadder builds the chromatic ladder between two MIDI pitches
// inclusive.
func makeLadder(lowMIDI, highMIDI int) []string {
	ladder := make([]string, 0, highMIDI-lowMIDI+1)
	for m := lowMIDI; m <= highMIDI; m++ {
		ladder = append(ladder, pitchName(m))
	}
	return ladder
}

// Per-clef pitch ladders. Transposition walks these tables and clamps at
// the ends; it never wraps.
var clefLadders = map[Clef][]string{
	ClefTreble: makeLadder(MIDIPitch("A3", ""), MIDIPitch("C7", "")),
	ClefBass:   makeLadder(MIDIPitch("C2", ""), MIDIPitch("E5", "")),
}

// Ladder returns the ordered pitch ladder for a clef. Unknown clefs read
// the treble ladder.
func Ladder(clef Clef) []string {
	if l, ok := clefLadders[clef]; ok {
		return l
	}
	return clefLadders[ClefTreble]
}

// Transpose shifts a pitch by the given number of semitones along the
// clef's ladder, clamping at the ladder's ends. The result is always
// spelled with sharps; the accidental is folded into the returned name.
// Rests (empty pitch) transpose to themselves.
func Transpose(pitch, accidental string, semitones int, clef Clef) string {
	if pitch == "" {
		return pitch
	}
	midi := MIDIPitch(pitch, accidental)
	if midi < 0 {
		return pitch
	}
	ladder := Ladder(clef)
	low := MIDIPitch(ladder[0], "")
	idx := midi - low
	idx += semitones
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ladder) {
		idx = len(ladder) - 1
	}
	return ladder[idx]
}
