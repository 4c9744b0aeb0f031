package director

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/davidgilbertson/beatparakeet/internal/arrange"
	"github.com/davidgilbertson/beatparakeet/internal/automation"
	"github.com/davidgilbertson/beatparakeet/internal/harmony"
	"github.com/davidgilbertson/beatparakeet/internal/pattern"
	"github.com/davidgilbertson/beatparakeet/internal/scheduler"
)

type captureSink struct {
	events []TriggerEvent
}

func (s *captureSink) Trigger(ev TriggerEvent) error {
	s.events = append(s.events, ev)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTimeline(mode arrange.Mode) *arrange.Timeline {
	return arrange.NewTimeline(arrange.DefaultArrangement(), mode, nil)
}

func newTestDirector(sink Sink, seed int64) *Director {
	rng := rand.New(rand.NewSource(seed))
	return New(Options{
		Timeline: testTimeline(arrange.ModeRepeat),
		Pool:     harmony.DefaultPool(rng),
		Library:  pattern.Default(),
		Params:   automation.NewParams(),
		Sink:     sink,
		Rand:     rng,
		Logger:   quietLogger(),
	})
}

// runBars pumps the director through whole bars the way the scheduler
// would: bar callback first, then the sixteen slots.
func runBars(d *Director, fromBar, bars int64, sixteenth float64) {
	for bar := fromBar; bar < fromBar+bars; bar++ {
		base := float64(bar) * 16 * sixteenth
		d.OnBar(scheduler.BarEvent{Time: base, Bar: bar, Sixteenth: sixteenth})
		for slot := 0; slot < 16; slot++ {
			d.OnSixteenth(scheduler.StepEvent{
				Time:      base + float64(slot)*sixteenth,
				Slot:      slot,
				Bar:       bar,
				Sixteenth: sixteenth,
			})
		}
	}
}

func TestFixedSeedProducesIdenticalRuns(t *testing.T) {
	var runs [2][]TriggerEvent
	for i := range runs {
		sink := &captureSink{}
		d := newTestDirector(sink, 42)
		runBars(d, 0, 40, 0.125)
		runs[i] = sink.events
	}
	if len(runs[0]) == 0 {
		t.Fatal("expected triggers over 40 bars, got none")
	}
	if len(runs[0]) != len(runs[1]) {
		t.Fatalf("run lengths differ: %d vs %d", len(runs[0]), len(runs[1]))
	}
	for i := range runs[0] {
		a, b := runs[0][i], runs[1][i]
		if a.Role != b.Role || a.Time != b.Time || a.Amplitude != b.Amplitude || a.Duration != b.Duration {
			t.Fatalf("event %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestChordFollowsBarNotSection(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := harmony.DefaultPool(rng)
	d := New(Options{
		Timeline: testTimeline(arrange.ModeRepeat),
		Pool:     pool,
		Library:  pattern.Default(),
		Params:   automation.NewParams(),
		Sink:     &captureSink{},
		Rand:     rng,
		Logger:   quietLogger(),
	})
	n := int64(pool.Current().Len())

	info0 := d.OnBar(scheduler.BarEvent{Bar: 0, Sixteenth: 0.125})
	infoN := d.OnBar(scheduler.BarEvent{Bar: n, Sixteenth: 0.125})
	if info0.Chord != infoN.Chord {
		t.Fatalf("chord at bar %d should equal chord at bar 0: %q vs %q", n, infoN.Chord, info0.Chord)
	}
	// The default arrangement's first section is shorter than a whole
	// harmonic cycle times two, so the structural position has moved on.
	if n < 16 && info0.Section != "dawn" {
		t.Fatalf("expected opening section dawn, got %q", info0.Section)
	}
	if infoN.Section == info0.Section && n >= 16 {
		t.Fatalf("section should differ once past the first boundary")
	}
}

func TestPendingResourceSkipsWithoutError(t *testing.T) {
	sink := &captureSink{}
	rng := rand.New(rand.NewSource(3))
	d := New(Options{
		Timeline:  testTimeline(arrange.ModeRepeat),
		Pool:      harmony.DefaultPool(rng),
		Library:   pattern.Default(),
		Params:    automation.NewParams(),
		Sink:      sink,
		Rand:      rng,
		Available: func(role pattern.Role) bool { return role != pattern.RoleKick },
		Logger:    quietLogger(),
	})
	// Bar 96 sits in the peak section, where the kick plays four to the
	// floor; all of those must be skipped.
	runBars(d, 96, 4, 0.125)
	for _, ev := range sink.events {
		if ev.Role == pattern.RoleKick {
			t.Fatalf("kick fired despite pending instrument: %+v", ev)
		}
	}
	if d.SkippedTriggers() == 0 {
		t.Fatal("expected skipped triggers while kick was pending")
	}
	if len(sink.events) == 0 {
		t.Fatal("other roles should still have fired")
	}
}

func TestAmplitudeReadsLiveParametersAtTriggerTime(t *testing.T) {
	sink := &captureSink{}
	params := automation.NewParams()
	rng := rand.New(rand.NewSource(11))
	d := New(Options{
		Timeline: testTimeline(arrange.ModeRepeat),
		Pool:     harmony.DefaultPool(rng),
		Library:  pattern.Default(),
		Params:   params,
		Sink:     sink,
		Rand:     rng,
		Logger:   quietLogger(),
	})

	params.SetLevel(automation.BusPad, 1.0)
	runBars(d, 0, 1, 0.125)
	before := padAmplitude(t, sink.events)

	sink.events = nil
	params.SetLevel(automation.BusPad, 0.5)
	runBars(d, 1, 1, 0.125)
	after := padAmplitude(t, sink.events)

	if math.Abs(after-before/2) > 1e-9 {
		t.Fatalf("halving the pad fader should halve pad amplitude: %v -> %v", before, after)
	}
}

func padAmplitude(t *testing.T, events []TriggerEvent) float64 {
	t.Helper()
	for _, ev := range events {
		if ev.Role == pattern.RolePad {
			return ev.Amplitude
		}
	}
	t.Fatal("no pad trigger found")
	return 0
}

func TestDurationFloor(t *testing.T) {
	sink := &captureSink{}
	d := newTestDirector(sink, 5)
	// At a very short sixteenth, one-sixteenth events hit the floor.
	runBars(d, 96, 1, 0.01)
	found := false
	for _, ev := range sink.events {
		if ev.Duration < minEventDuration-1e-12 {
			t.Fatalf("duration %v below floor for %+v", ev.Duration, ev)
		}
		if ev.Role == pattern.RoleHat {
			found = true
			if !almostEqual(ev.Duration, minEventDuration) {
				t.Fatalf("hat should sit on the floor, got %v", ev.Duration)
			}
		}
	}
	if !found {
		t.Fatal("expected hat triggers in the peak section")
	}
}

func TestHumanizeJitterBounded(t *testing.T) {
	sink := &captureSink{}
	d := newTestDirector(sink, 9)
	sixteenth := 0.125
	runBars(d, 96, 8, sixteenth)
	for _, ev := range sink.events {
		grid := math.Mod(ev.Time, sixteenth)
		if grid > sixteenth/2 {
			grid -= sixteenth
		}
		if math.Abs(grid) > defaultHumanize+1e-9 {
			t.Fatalf("trigger %v strays %vs from the grid, beyond the jitter bound", ev, grid)
		}
	}
}

type panicSink struct {
	calls int
}

func (s *panicSink) Trigger(TriggerEvent) error {
	s.calls++
	panic("synth exploded")
}

type failSink struct{}

func (failSink) Trigger(TriggerEvent) error {
	return errors.New("device gone")
}

func TestSinkGuardAbsorbsPanics(t *testing.T) {
	inner := &panicSink{}
	g := NewSinkGuard(inner, quietLogger())
	for i := 0; i < 5; i++ {
		if err := g.Trigger(TriggerEvent{Role: pattern.RoleLead}); err != nil {
			t.Fatalf("guard must not surface errors, got %v", err)
		}
	}
	if inner.calls != 5 {
		t.Fatalf("guard should keep forwarding after panics, forwarded %d times", inner.calls)
	}
	if g.Skipped() != 5 {
		t.Fatalf("expected 5 skips, got %d", g.Skipped())
	}
}

func TestSinkGuardConvertsErrorsToSkips(t *testing.T) {
	g := NewSinkGuard(failSink{}, quietLogger())
	if err := g.Trigger(TriggerEvent{Role: pattern.RoleBass}); err != nil {
		t.Fatalf("guard must swallow sink errors, got %v", err)
	}
	if g.Skipped() != 1 {
		t.Fatalf("expected 1 skip, got %d", g.Skipped())
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
