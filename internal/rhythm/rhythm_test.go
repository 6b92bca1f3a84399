package rhythm

import "testing"

func TestQuants(t *testing.T) {
	triplet := &Ratio{Actual: 3, Target: 2}
	tests := []struct {
		name     string
		duration Duration
		dotted   bool
		tuplet   *Ratio
		want     int
	}{
		{"whole", Whole, false, nil, 64},
		{"half", Half, false, nil, 32},
		{"quarter", Quarter, false, nil, 16},
		{"eighth", Eighth, false, nil, 8},
		{"sixteenth", Sixteenth, false, nil, 4},
		{"thirtysecond", ThirtySecond, false, nil, 2},
		{"sixtyfourth", SixtyFourth, false, nil, 1},
		{"dotted half", Half, true, nil, 48},
		{"dotted quarter", Quarter, true, nil, 24},
		{"dotted eighth", Eighth, true, nil, 12},
		{"triplet eighth", Eighth, false, triplet, 5}, // 8*2/3, integer math
		{"triplet quarter", Quarter, false, triplet, 10},
		{"quintuplet sixteenth", Sixteenth, false, &Ratio{Actual: 5, Target: 4}, 3},
		{"nil ratio ignored", Quarter, false, nil, 16},
		{"invalid ratio ignored", Quarter, false, &Ratio{}, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quants(tt.duration, tt.dotted, tt.tuplet); got != tt.want {
				t.Errorf("Quants(%v, %v, %v) = %d, want %d", tt.duration, tt.dotted, tt.tuplet, got, tt.want)
			}
		})
	}
}

func TestCapacity(t *testing.T) {
	tests := []struct {
		sig  string
		want int
	}{
		{"4/4", 64},
		{"3/4", 48},
		{"2/4", 32},
		{"6/8", 48},
		{"12/8", 96},
		{"5/4", 80},
		{"bogus", 64}, // fallback
	}
	for _, tt := range tests {
		if got := Capacity(tt.sig); got != tt.want {
			t.Errorf("Capacity(%q) = %d, want %d", tt.sig, got, tt.want)
		}
	}
	if KnownSignature("bogus") {
		t.Error("KnownSignature(bogus) = true, want false")
	}
	if !KnownSignature("4/4") {
		t.Error("KnownSignature(4/4) = false, want true")
	}
}

func TestDecomposeConservation(t *testing.T) {
	// Every non-negative input must decompose without remainder loss.
	for quants := 1; quants <= 256; quants++ {
		sum := 0
		for _, p := range Decompose(quants) {
			if got := Quants(p.Duration, p.Dotted, nil); got != p.Quants {
				t.Fatalf("part %v reports %d quants, duration math says %d", p, p.Quants, got)
			}
			sum += p.Quants
		}
		if sum != quants {
			t.Fatalf("Decompose(%d) parts sum to %d", quants, sum)
		}
	}
}

func TestDecomposeGreedy(t *testing.T) {
	tests := []struct {
		quants int
		want   []Part
	}{
		{64, []Part{{Whole, false, 64}}},
		{48, []Part{{Half, true, 48}}},
		{40, []Part{{Half, false, 32}, {Eighth, false, 8}}},
		{16, []Part{{Quarter, false, 16}}},
		{7, []Part{{Sixteenth, true, 6}, {SixtyFourth, false, 1}}},
		{5, []Part{{Sixteenth, false, 4}, {SixtyFourth, false, 1}}},
		{1, []Part{{SixtyFourth, false, 1}}},
		{0, nil},
		{-3, nil},
	}
	for _, tt := range tests {
		got := Decompose(tt.quants)
		if len(got) != len(tt.want) {
			t.Errorf("Decompose(%d) = %v, want %v", tt.quants, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Decompose(%d)[%d] = %v, want %v", tt.quants, i, got[i], tt.want[i])
			}
		}
	}
}

func TestLargestFit(t *testing.T) {
	if p, ok := LargestFit(16); !ok || p.Duration != Quarter || p.Dotted {
		t.Errorf("LargestFit(16) = %v, %v; want quarter", p, ok)
	}
	if p, ok := LargestFit(12); !ok || p.Duration != Eighth || !p.Dotted {
		t.Errorf("LargestFit(12) = %v, %v; want dotted eighth", p, ok)
	}
	if _, ok := LargestFit(0); ok {
		t.Error("LargestFit(0) should not fit anything")
	}
}

func TestDurationText(t *testing.T) {
	for d := Whole; d <= SixtyFourth; d++ {
		text, err := d.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", d, err)
		}
		var back Duration
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != d {
			t.Errorf("round trip %v -> %q -> %v", d, text, back)
		}
	}
	var d Duration
	if err := d.UnmarshalText([]byte("nonsense")); err != nil || d != Quarter {
		t.Errorf("unknown duration should fall back to quarter, got %v, %v", d, err)
	}
}
