package arrange

import (
	"testing"

	"github.com/davidgilbertson/beatparakeet/internal/pattern"
)

func testArrangement(t *testing.T) *Arrangement {
	t.Helper()
	lengths := []int{16, 32, 32, 16, 32, 24, 16}
	sections := make([]Section, len(lengths))
	for i, n := range lengths {
		sections[i] = Section{Name: string(rune('a' + i)), LengthBars: n}
	}
	a, err := New(sections...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNewRejectsEmptyAndNonPositiveSections(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error for empty arrangement")
	}
	if _, err := New(Section{Name: "x", LengthBars: 0}); err == nil {
		t.Fatal("expected error for zero-length section")
	}
	if _, err := New(Section{Name: "x", LengthBars: -4}); err == nil {
		t.Fatal("expected error for negative-length section")
	}
}

func TestResolveLocatesSectionBoundaries(t *testing.T) {
	a := testArrangement(t)
	if got := a.TotalBars(); got != 168 {
		t.Fatalf("TotalBars = %d, want 168", got)
	}

	cases := []struct {
		bar    int64
		index  int
		offset int
		start  bool
	}{
		{0, 0, 0, true},
		{15, 0, 15, false},
		{16, 1, 0, true},
		{47, 1, 31, false},
		{48, 2, 0, true},
		{152, 6, 0, true},
		{167, 6, 15, false},
	}
	for _, c := range cases {
		pos := a.Resolve(c.bar)
		if pos.Index != c.index || pos.Offset != c.offset || pos.SectionStart != c.start {
			t.Errorf("Resolve(%d) = (%d, %d, %v), want (%d, %d, %v)",
				c.bar, pos.Index, pos.Offset, pos.SectionStart, c.index, c.offset, c.start)
		}
	}
}

func TestResolvePartitionsEveryBar(t *testing.T) {
	a := testArrangement(t)
	counts := make([]int, a.NumSections())
	prevIndex := 0
	for bar := int64(0); bar < a.TotalBars(); bar++ {
		pos := a.Resolve(bar)
		if pos.Index < prevIndex {
			t.Fatalf("bar %d: section index went backwards (%d after %d)", bar, pos.Index, prevIndex)
		}
		if pos.Offset < 0 || pos.Offset >= pos.Section.LengthBars {
			t.Fatalf("bar %d: offset %d outside [0, %d)", bar, pos.Offset, pos.Section.LengthBars)
		}
		if pos.SectionStart != (pos.Offset == 0) {
			t.Fatalf("bar %d: SectionStart=%v with offset %d", bar, pos.SectionStart, pos.Offset)
		}
		counts[pos.Index]++
		prevIndex = pos.Index
	}
	for i, n := range counts {
		if want := a.Section(i).LengthBars; n != want {
			t.Errorf("section %d covered %d bars, want %d", i, n, want)
		}
	}
}

func TestResolveClampsOutOfRangeBars(t *testing.T) {
	a := testArrangement(t)
	if pos := a.Resolve(-5); pos.Index != 0 || pos.Offset != 0 {
		t.Errorf("Resolve(-5) = (%d, %d), want (0, 0)", pos.Index, pos.Offset)
	}
	if pos := a.Resolve(a.TotalBars() + 10); pos.Index != 6 || pos.Offset != 15 {
		t.Errorf("Resolve(past end) = (%d, %d), want (6, 15)", pos.Index, pos.Offset)
	}
}

func TestRepeatModeWrapsIndefinitely(t *testing.T) {
	a := testArrangement(t)
	tl := NewTimeline(a, ModeRepeat, func() {
		t.Error("fade requested in repeat mode")
	})

	if pos := tl.Locate(168); pos.Index != 0 || pos.Offset != 0 || !pos.SectionStart {
		t.Errorf("Locate(168) = (%d, %d, %v), want start of section 0", pos.Index, pos.Offset, pos.SectionStart)
	}
	if pos := tl.Locate(168 + 167); pos.Index != 6 || pos.Offset != 15 {
		t.Errorf("Locate(335) = (%d, %d), want (6, 15)", pos.Index, pos.Offset)
	}
	if pos := tl.Locate(5 * 168); pos.Index != 0 || pos.Offset != 0 {
		t.Errorf("Locate(840) = (%d, %d), want (0, 0)", pos.Index, pos.Offset)
	}
	if got := tl.State(); got != StatePlaying {
		t.Errorf("State = %v, want playing", got)
	}
}

func TestTerminalModeClampsAndFadesExactlyOnce(t *testing.T) {
	a := testArrangement(t)
	fades := 0
	tl := NewTimeline(a, ModeTerminal, func() { fades++ })

	if pos := tl.Locate(167); pos.Index != 6 || pos.Offset != 15 {
		t.Fatalf("Locate(167) = (%d, %d), want (6, 15)", pos.Index, pos.Offset)
	}
	if fades != 0 {
		t.Fatalf("fade fired before the end of the arrangement")
	}

	pos := tl.Locate(168)
	if pos.Index != 6 || pos.Offset != 15 {
		t.Errorf("Locate(168) = (%d, %d), want clamp to (6, 15)", pos.Index, pos.Offset)
	}
	if fades != 1 {
		t.Fatalf("fades = %d after first overrun, want 1", fades)
	}
	if got := tl.State(); got != StateFadeScheduled {
		t.Errorf("State = %v, want fade-scheduled", got)
	}

	tl.Locate(169)
	tl.Locate(500)
	if fades != 1 {
		t.Errorf("fades = %d after repeated overruns, want 1", fades)
	}

	tl.MarkStopped()
	if got := tl.State(); got != StateStopped {
		t.Errorf("State after MarkStopped = %v, want stopped", got)
	}
	tl.Locate(600)
	if fades != 1 {
		t.Errorf("fades = %d after stop, want 1", fades)
	}
}

func TestTimelineStateVisibleDuringFadeCallback(t *testing.T) {
	a := testArrangement(t)
	var seen RunState
	var tl *Timeline
	tl = NewTimeline(a, ModeTerminal, func() { seen = tl.State() })
	tl.Locate(a.TotalBars())
	if seen != StateTerminalFade {
		t.Errorf("state inside fade callback = %v, want terminal-fade", seen)
	}
}

func TestDefaultArrangementShape(t *testing.T) {
	a := DefaultArrangement()
	if got := a.TotalBars(); got != 168 {
		t.Fatalf("TotalBars = %d, want 168", got)
	}
	wantLengths := []int{16, 32, 32, 16, 32, 24, 16}
	if a.NumSections() != len(wantLengths) {
		t.Fatalf("NumSections = %d, want %d", a.NumSections(), len(wantLengths))
	}
	lib := pattern.Default()
	for i, want := range wantLengths {
		sec := a.Section(i)
		if sec.LengthBars != want {
			t.Errorf("section %d (%s): length %d, want %d", i, sec.Name, sec.LengthBars, want)
		}
		if sec.SparkleProb < 0 || sec.SparkleProb > 1 {
			t.Errorf("section %s: sparkle probability %v outside [0, 1]", sec.Name, sec.SparkleProb)
		}
		for role := range sec.Intensity {
			name, ok := sec.Patterns[role]
			if !ok {
				t.Errorf("section %s: role %s has intensity but no pattern", sec.Name, role)
				continue
			}
			if _, ok := lib.Get(name); !ok {
				t.Errorf("section %s: pattern %q not in the default library", sec.Name, name)
			}
		}
		for role := range sec.Patterns {
			if _, ok := sec.Intensity[role]; !ok {
				t.Errorf("section %s: role %s has a pattern but no intensity", sec.Name, role)
			}
		}
	}
}
