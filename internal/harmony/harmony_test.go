package harmony

import (
	"math/rand"
	"testing"

	"github.com/davidgilbertson/beatparakeet/internal/pattern"
)

func TestNoteParsesNamesAndAccidentals(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"C4", 60},
		{"c4", 60},
		{"A2", 45},
		{"A4", 69},
		{"C#4", 61},
		{"Db4", 61},
		{"Eb3", 51},
		{"B1", 35},
		{"C-1", 0},
		{"G9", 127},
	}
	for _, c := range cases {
		if got := Note(c.name); got != c.want {
			t.Errorf("Note(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestNoteFallsBackOnMalformedNames(t *testing.T) {
	for _, name := range []string{"", "A", "H3", "C#x", "4C", "A10", "Cb-2"} {
		if got := Note(name); got != DefaultNote {
			t.Errorf("Note(%q) = %d, want the default %d", name, got, DefaultNote)
		}
	}
}

func TestChordPitchSelections(t *testing.T) {
	c := Chord{Name: "Am9", Root: 45, Notes: []int{57, 60, 64, 67, 71}}

	cases := []struct {
		sel  pattern.Pitch
		want []int
	}{
		{pattern.Pitch{Kind: pattern.PitchRoot}, []int{45}},
		{pattern.Pitch{Kind: pattern.PitchFifth}, []int{52}},
		{pattern.Pitch{Kind: pattern.PitchOctave}, []int{57}},
		{pattern.Pitch{Kind: pattern.PitchRoot, Octaves: 1}, []int{57}},
		{pattern.Pitch{Kind: pattern.PitchDegree, Degree: 1}, []int{60}},
		{pattern.Pitch{Kind: pattern.PitchDegree, Degree: 2, Semitones: -1}, []int{63}},
		{pattern.Pitch{Kind: pattern.PitchVoicing}, []int{57, 60, 64, 67, 71}},
		{pattern.Pitch{Kind: pattern.PitchVoicing, Octaves: 1}, []int{69, 72, 76, 79, 83}},
		{pattern.Pitch{Kind: pattern.PitchNone}, nil},
	}
	for _, tc := range cases {
		got := c.Pitch(tc.sel)
		if len(got) != len(tc.want) {
			t.Errorf("Pitch(%+v) = %v, want %v", tc.sel, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Pitch(%+v) = %v, want %v", tc.sel, got, tc.want)
				break
			}
		}
	}
}

func TestChordPitchDegreeWrapsModulo(t *testing.T) {
	c := Chord{Root: 45, Notes: []int{57, 60, 64, 67, 71}}
	if got := c.Pitch(pattern.Pitch{Kind: pattern.PitchDegree, Degree: 7}); got[0] != 64 {
		t.Errorf("degree 7 over 5 notes = %d, want 64", got[0])
	}
	if got := c.Pitch(pattern.Pitch{Kind: pattern.PitchDegree, Degree: 12}); got[0] != 64 {
		t.Errorf("degree 12 over 5 notes = %d, want 64", got[0])
	}
	if got := c.Pitch(pattern.Pitch{Kind: pattern.PitchDegree, Degree: -1}); got[0] != 71 {
		t.Errorf("degree -1 over 5 notes = %d, want 71", got[0])
	}
}

func TestChordWithoutVoicingFallsBackToRoot(t *testing.T) {
	c := Chord{Root: 40}
	if got := c.Pitch(pattern.Pitch{Kind: pattern.PitchDegree, Degree: 3}); got[0] != 40 {
		t.Errorf("degree on empty voicing = %d, want root 40", got[0])
	}
	if got := c.Pitch(pattern.Pitch{Kind: pattern.PitchVoicing}); len(got) != 1 || got[0] != 52 {
		t.Errorf("voicing on empty chord = %v, want [52]", got)
	}
}

func TestProgressionAtWrapsModulo(t *testing.T) {
	p := DefaultProgressions()[0]
	if p.Len() != 8 {
		t.Fatalf("Len = %d, want 8", p.Len())
	}
	if a, b := p.At(0), p.At(8); a.Name != b.Name {
		t.Errorf("chord at bar 8 (%s) differs from bar 0 (%s)", b.Name, a.Name)
	}
	if a, b := p.At(5), p.At(8*100+5); a.Name != b.Name {
		t.Errorf("chord at bar 805 (%s) differs from bar 5 (%s)", b.Name, a.Name)
	}
}

func TestEmptyProgressionYieldsDefaultChord(t *testing.T) {
	var p Progression
	c := p.At(12)
	if c.Root != DefaultNote || len(c.Notes) == 0 {
		t.Errorf("empty progression: got root %d notes %v", c.Root, c.Notes)
	}
}

func TestPoolAdvanceNeverRepeatsCurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := NewPool(rng, 4, DefaultProgressions()...)
	prev := pool.Current().Name
	for bar := int64(4); bar <= 4*200; bar += 4 {
		if !pool.Observe(bar) {
			t.Fatalf("Observe(%d) did not switch", bar)
		}
		cur := pool.Current().Name
		if cur == prev {
			t.Fatalf("bar %d: progression repeated %q", bar, cur)
		}
		prev = cur
	}
}

func TestPoolObservesOnlyTheCadence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := NewPool(rng, 32, DefaultProgressions()...)

	if pool.Observe(0) {
		t.Error("switched at bar 0")
	}
	if pool.Observe(31) {
		t.Error("switched off-cadence")
	}
	if !pool.Observe(32) {
		t.Error("did not switch at bar 32")
	}
	if pool.Observe(32) {
		t.Error("switched twice on the same bar")
	}
	if !pool.Observe(64) {
		t.Error("did not switch at bar 64")
	}
}

func TestPoolWithOneEntryNeverSwitches(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := NewPool(rng, 8, DefaultProgressions()[:1]...)
	name := pool.Current().Name
	for bar := int64(8); bar <= 80; bar += 8 {
		if pool.Observe(bar) {
			t.Fatalf("single-entry pool reported a switch at bar %d", bar)
		}
	}
	if pool.Current().Name != name {
		t.Errorf("progression changed from %q to %q", name, pool.Current().Name)
	}
}

func TestDefaultProgressionsShape(t *testing.T) {
	progs := DefaultProgressions()
	if len(progs) != 3 {
		t.Fatalf("len = %d, want 3", len(progs))
	}
	for _, p := range progs {
		if p.Len() != 8 {
			t.Errorf("%s: %d chords, want 8", p.Name, p.Len())
		}
		for _, c := range p.Chords {
			if c.Root < 36 || c.Root > 47 {
				t.Errorf("%s/%s: bass root %d outside the low octave", p.Name, c.Name, c.Root)
			}
			if len(c.Notes) == 0 {
				t.Errorf("%s/%s: empty voicing", p.Name, c.Name)
			}
			for _, n := range c.Notes {
				if n <= c.Root || n > 96 {
					t.Errorf("%s/%s: voicing note %d outside (%d, 96]", p.Name, c.Name, n, c.Root)
				}
			}
		}
	}
}
