// Package scheduler converts a polled audio clock into a drift-free stream
// of sixteenth-note and bar callbacks. It looks ahead of the clock by a
// fixed horizon so triggers can be timestamped slightly in the future, which
// keeps the musical grid exact even though the poll interval is coarse.
package scheduler

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davidgilbertson/beatparakeet/internal/clock"
)

const (
	SlotsPerBar = 16

	defaultLookahead = 0.2
	defaultInterval  = 25 * time.Millisecond

	MinBPM = 20
	MaxBPM = 300

	// MaxSwing is the upper clamp for SetSwing. Beyond this the delayed
	// off-8th would land on top of the following slot.
	MaxSwing = 0.75
)

// StepEvent describes one due sixteenth slot. Time already includes the
// swing offset for off-8th slots. Sixteenth is the slot duration in seconds
// at the tempo the event was computed with.
type StepEvent struct {
	Time      float64
	Slot      int
	Bar       int64
	Sixteenth float64
}

// BarEvent marks the start of a bar. Its Time is always the unswung
// grid time of slot 0.
type BarEvent struct {
	Time      float64
	Bar       int64
	Sixteenth float64
}

type Options struct {
	BPM   float64
	Swing float64

	// Lookahead is the scheduling horizon in seconds (default 0.2).
	Lookahead float64
	// Interval is the poll period (default 25ms).
	Interval time.Duration
	// Manual disables the internal poll timer; the caller pumps Poll
	// directly. Used by offline rendering and tests.
	Manual bool

	OnSixteenth func(StepEvent)
	OnBar       func(BarEvent)

	Logger *slog.Logger
}

// Scheduler emits quantized musical events ahead of a clock source.
//
// All grid state (next event time, slot, bar) is mutated only inside Poll,
// so a single poller needs no locking. Tempo and swing are atomic cells
// written by the control surface and read at each advance.
type Scheduler struct {
	clk    clock.Clock
	logger *slog.Logger

	bpmBits   atomic.Uint64
	swingBits atomic.Uint64

	lookahead float64
	interval  time.Duration
	manual    bool

	onSixteenth func(StepEvent)
	onBar       func(BarEvent)

	// Mutated only inside Poll.
	nextEventTime float64
	slot          int
	bar           int64

	running atomic.Bool
	skipped atomic.Uint64

	lifeMu   sync.Mutex
	stopCh   chan struct{}
	loopDone chan struct{}
}

func New(clk clock.Clock, opts Options) *Scheduler {
	if opts.Lookahead <= 0 {
		opts.Lookahead = defaultLookahead
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Scheduler{
		clk:         clk,
		logger:      opts.Logger,
		lookahead:   opts.Lookahead,
		interval:    opts.Interval,
		manual:      opts.Manual,
		onSixteenth: opts.OnSixteenth,
		onBar:       opts.OnBar,
	}
	s.SetBPM(opts.BPM)
	s.SetSwing(opts.Swing)
	return s
}

// SetBPM updates the tempo. It affects slot durations from the next grid
// advance onward; already-emitted events keep their timestamps.
func (s *Scheduler) SetBPM(bpm float64) {
	if bpm <= 0 {
		bpm = 120
	}
	if bpm < MinBPM {
		bpm = MinBPM
	}
	if bpm > MaxBPM {
		bpm = MaxBPM
	}
	s.bpmBits.Store(math.Float64bits(bpm))
}

func (s *Scheduler) BPM() float64 {
	return math.Float64frombits(s.bpmBits.Load())
}

// SetSwing sets the shuffle amount, clamped to [0, MaxSwing]. Swing delays
// the callback time of the off-8th slot in each beat (slot%4 == 2) by
// amount*sixteenth; the underlying grid position is unchanged and bar
// callbacks are never swung.
func (s *Scheduler) SetSwing(amount float64) {
	if amount < 0 {
		amount = 0
	}
	if amount > MaxSwing {
		amount = MaxSwing
	}
	s.swingBits.Store(math.Float64bits(amount))
}

func (s *Scheduler) Swing() float64 {
	return math.Float64frombits(s.swingBits.Load())
}

// SixteenthDuration returns the current slot length in seconds.
func (s *Scheduler) SixteenthDuration() float64 {
	return 0.25 * 60.0 / s.BPM()
}

// Start resets the grid and begins polling. The first slot lands
// delaySeconds after the clock's current time. Calling Start while already
// running is a no-op.
func (s *Scheduler) Start(delaySeconds float64) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.running.Load() {
		return
	}
	// Wait for a previous run's poller to drain before touching grid state.
	if s.loopDone != nil {
		<-s.loopDone
		s.loopDone = nil
	}
	s.nextEventTime = s.clk.Now() + delaySeconds
	s.slot = 0
	s.bar = 0
	s.running.Store(true)
	if s.manual {
		return
	}
	s.stopCh = make(chan struct{})
	s.loopDone = make(chan struct{})
	go s.loop(s.stopCh, s.loopDone)
}

// Stop halts polling. Events already emitted with future timestamps are not
// recalled; the sink plays them out on its own timeline.
func (s *Scheduler) Stop() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}

func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// SkippedCallbacks reports how many callback invocations were dropped after
// panicking. A nonzero value means a handler is faulty, not the grid.
func (s *Scheduler) SkippedCallbacks() uint64 {
	return s.skipped.Load()
}

func (s *Scheduler) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.Poll()
		}
	}
}

// Poll emits every event whose grid time falls inside the lookahead window
// and advances the grid past it. Gapless as long as polls arrive often
// enough that the horizon never fully drains; harmless when they arrive
// early or bunched.
func (s *Scheduler) Poll() {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("poll", s.slot, s.bar, r)
		}
	}()
	if !s.running.Load() {
		return
	}
	horizon := s.clk.Now() + s.lookahead
	for s.running.Load() && s.nextEventTime < horizon {
		s.emit()
		s.advance()
	}
}

func (s *Scheduler) emit() {
	sixteenth := s.SixteenthDuration()
	if s.slot == 0 && s.onBar != nil {
		ev := BarEvent{Time: s.nextEventTime, Bar: s.bar, Sixteenth: sixteenth}
		s.invokeBar(ev)
	}
	if s.onSixteenth != nil {
		t := s.nextEventTime
		if s.slot%4 == 2 {
			t += s.Swing() * sixteenth
		}
		ev := StepEvent{Time: t, Slot: s.slot, Bar: s.bar, Sixteenth: sixteenth}
		s.invokeSixteenth(ev)
	}
}

func (s *Scheduler) advance() {
	s.nextEventTime += s.SixteenthDuration()
	s.slot++
	if s.slot >= SlotsPerBar {
		s.slot = 0
		s.bar++
	}
}

// Callback panics are contained per invocation: one faulty handler must not
// stall the grid or starve the other callbacks.

func (s *Scheduler) invokeBar(ev BarEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.skipped.Add(1)
			s.logPanic("bar", 0, ev.Bar, r)
		}
	}()
	s.onBar(ev)
}

func (s *Scheduler) invokeSixteenth(ev StepEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.skipped.Add(1)
			s.logPanic("sixteenth", ev.Slot, ev.Bar, r)
		}
	}()
	s.onSixteenth(ev)
}

// logPanic reports a recovered callback panic. The log call is itself
// guarded: a failing logger must never take the poll loop down with it.
func (s *Scheduler) logPanic(kind string, slot int, bar int64, r any) {
	defer func() { _ = recover() }()
	s.logger.Error("scheduler callback panicked",
		"kind", kind,
		"slot", slot,
		"bar", bar,
		"panic", r,
	)
}
