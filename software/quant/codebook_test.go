package quant

import "testing"

func TestBuildCodebookScenario(t *testing.T) {
	ch := Channel{Width: 4, Height: 4, Pix: scenario}
	cb := BuildCodebook(ch, Quantize(ch, 2))

	want := Codebook{
		{Label: 0, Mean: 15.0},
		{Label: 1, Mean: 45.0},
		{Label: 2, Mean: 112.5},
		{Label: 3, Mean: 185.0},
	}
	if len(cb) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(cb), len(want), cb)
	}
	for i := range want {
		if cb[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, cb[i], want[i])
		}
	}
}

func TestBuildCodebookAscendingAndBounded(t *testing.T) {
	ch := makeTestImage(40, 30).Channel(Green)
	for bits := MinBitDepth; bits <= MaxBitDepth; bits++ {
		lm := Quantize(ch, bits)
		cb := BuildCodebook(ch, lm)
		if len(cb) != lm.Levels {
			t.Fatalf("bits=%d: %d entries for %d levels", bits, len(cb), lm.Levels)
		}
		for i, e := range cb {
			if i > 0 && e.Label <= cb[i-1].Label {
				t.Fatalf("bits=%d: labels not ascending at %d", bits, i)
			}
			// Groups follow intensity order, so their means do too.
			if i > 0 && e.Mean < cb[i-1].Mean {
				t.Errorf("bits=%d: mean %v of label %d below previous %v", bits, e.Mean, e.Label, cb[i-1].Mean)
			}
			if e.Mean < 0 || e.Mean > 255 {
				t.Errorf("bits=%d: mean %v out of range", bits, e.Mean)
			}
		}
	}
}

func TestCodebookLookup(t *testing.T) {
	cb := Codebook{{Label: 0, Mean: 3}, {Label: 2, Mean: 9}}
	if m, ok := cb.Lookup(2); !ok || m != 9 {
		t.Errorf("Lookup(2) = %v, %v; want 9, true", m, ok)
	}
	if _, ok := cb.Lookup(1); ok {
		t.Errorf("Lookup(1) found a missing label")
	}
}
