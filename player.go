// Package beatparakeet renders an unending, generative ambient performance.
// A Player wires the synth engine, the lookahead scheduler and the director
// together and plays through the system audio device; Render produces the
// same performance offline.
package beatparakeet

import (
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	intarrange "github.com/davidgilbertson/beatparakeet/internal/arrange"
	intaudio "github.com/davidgilbertson/beatparakeet/internal/audio"
	intauto "github.com/davidgilbertson/beatparakeet/internal/automation"
	intconfig "github.com/davidgilbertson/beatparakeet/internal/config"
	intdirector "github.com/davidgilbertson/beatparakeet/internal/director"
	intharmony "github.com/davidgilbertson/beatparakeet/internal/harmony"
	intpattern "github.com/davidgilbertson/beatparakeet/internal/pattern"
	intsched "github.com/davidgilbertson/beatparakeet/internal/scheduler"
	intsynth "github.com/davidgilbertson/beatparakeet/internal/synth"
)

// DefaultSampleRate is the rate players and renders run at unless
// WithSampleRate overrides it.
const DefaultSampleRate = intsynth.DefaultSampleRate

// Bus re-exports the mixer buses for callers of SetLevel.
type Bus = intauto.Bus

const (
	BusDrums = intauto.BusDrums
	BusBass  = intauto.BusBass
	BusLead  = intauto.BusLead
	BusPad   = intauto.BusPad
)

// EventKind tags the events delivered by Watch.
type EventKind int

const (
	// EventBar fires on every bar boundary.
	EventBar EventKind = iota
	// EventSection fires on the first bar of each section.
	EventSection
	// EventProgression fires when the harmonic pool switches progressions.
	EventProgression
	// EventFade fires once when a terminal-mode run schedules its fade-out.
	EventFade
	// EventStopped fires when playback has been torn down.
	EventStopped
)

// Event describes one moment of the performance for observers.
type Event struct {
	Kind        EventKind
	Bar         int64
	Section     string
	Chord       string
	Progression string
}

// Status is a point-in-time snapshot for control surfaces.
type Status struct {
	Bar         int64
	Section     string
	Chord       string
	Progression string
	BPM         float64
	Swing       float64
	Energy      float64
	State       intarrange.RunState
	Playing     bool
}

type Option func(*playerConfig)

type playerConfig struct {
	sampleRate   int
	bpm          float64
	swing        float64
	energy       float64
	seed         int64
	mode         intarrange.Mode
	fadeSeconds  float64
	startDelay   float64
	arrangement  *intarrange.Arrangement
	progressions []intharmony.Progression
	library      *intpattern.Library
	levels       map[Bus]float64
	logger       *slog.Logger
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		sampleRate:  intsynth.DefaultSampleRate,
		bpm:         96,
		swing:       0.12,
		energy:      0.5,
		seed:        1,
		mode:        intarrange.ModeRepeat,
		fadeSeconds: 12,
		startDelay:  0.1,
		levels:      make(map[Bus]float64),
	}
}

func WithSampleRate(hz int) Option {
	return func(cfg *playerConfig) { cfg.sampleRate = hz }
}

func WithBPM(bpm float64) Option {
	return func(cfg *playerConfig) { cfg.bpm = bpm }
}

func WithSwing(amount float64) Option {
	return func(cfg *playerConfig) { cfg.swing = amount }
}

func WithEnergy(energy float64) Option {
	return func(cfg *playerConfig) { cfg.energy = energy }
}

// WithSeed fixes the random source. Two players with the same seed and
// parameters perform the identical sequence of triggers.
func WithSeed(seed int64) Option {
	return func(cfg *playerConfig) { cfg.seed = seed }
}

// WithMode selects what happens past the final section: loop forever
// (repeat) or fade out and stop (terminal).
func WithMode(mode intarrange.Mode) Option {
	return func(cfg *playerConfig) { cfg.mode = mode }
}

// WithFadeSeconds sets the terminal fade-out length.
func WithFadeSeconds(seconds float64) Option {
	return func(cfg *playerConfig) { cfg.fadeSeconds = seconds }
}

func WithArrangement(a *intarrange.Arrangement) Option {
	return func(cfg *playerConfig) { cfg.arrangement = a }
}

func WithProgressions(ps ...intharmony.Progression) Option {
	return func(cfg *playerConfig) { cfg.progressions = ps }
}

func WithLibrary(l *intpattern.Library) Option {
	return func(cfg *playerConfig) { cfg.library = l }
}

func WithLevel(b Bus, level float64) Option {
	return func(cfg *playerConfig) { cfg.levels[b] = level }
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *playerConfig) { cfg.logger = l }
}

// WithSettings applies a loaded settings file. Bus levels are matched by
// bus name; unknown names are ignored.
func WithSettings(s intconfig.Settings) Option {
	return func(cfg *playerConfig) {
		s = s.Clamped()
		cfg.bpm = s.BPM
		cfg.swing = s.Swing
		cfg.energy = s.Energy
		cfg.seed = s.Seed
		cfg.mode = s.ArrangeMode()
		for name, level := range s.Levels {
			for b := Bus(0); b < intauto.NumBuses; b++ {
				if b.String() == name {
					cfg.levels[b] = level
				}
			}
		}
	}
}

// core is the assembled engine heart, shared between the realtime Player
// and the offline renderer. The synth engine doubles as the clock source.
type core struct {
	engine   *intsynth.Engine
	sched    *intsched.Scheduler
	director *intdirector.Director
	auto     *intauto.Automator
	params   *intauto.Params
	timeline *intarrange.Timeline
	guard    *intdirector.SinkGuard
	cfg      playerConfig
}

func newCore(cfg playerConfig, manual bool, onBar func(intdirector.BarInfo), onFade func()) (*core, error) {
	if cfg.sampleRate <= 0 {
		return nil, errors.New("sample rate must be positive")
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.arrangement == nil {
		cfg.arrangement = intarrange.DefaultArrangement()
	}
	if cfg.library == nil {
		cfg.library = intpattern.Default()
	}
	if len(cfg.progressions) == 0 {
		cfg.progressions = intharmony.DefaultProgressions()
	}

	engine := intsynth.NewEngine(cfg.sampleRate, intsynth.Options{Logger: cfg.logger})
	engine.Instruments().Warm()

	params := intauto.NewParams()
	params.SetEnergy(cfg.energy)
	for b, level := range cfg.levels {
		params.SetLevel(b, level)
	}
	auto := intauto.New(params, engine)

	timeline := intarrange.NewTimeline(cfg.arrangement, cfg.mode, onFade)

	rng := rand.New(rand.NewSource(cfg.seed))
	pool := intharmony.NewPool(rng, intharmony.SwitchEveryBars, cfg.progressions...)
	guard := intdirector.NewSinkGuard(engine, cfg.logger)
	dir := intdirector.New(intdirector.Options{
		Timeline:  timeline,
		Pool:      pool,
		Library:   cfg.library,
		Params:    params,
		Sink:      guard,
		Available: engine.Ready,
		Rand:      rng,
		Logger:    cfg.logger,
	})

	c := &core{
		engine:   engine,
		director: dir,
		auto:     auto,
		params:   params,
		timeline: timeline,
		guard:    guard,
		cfg:      cfg,
	}
	c.sched = intsched.New(engine, intsched.Options{
		BPM:    cfg.bpm,
		Swing:  cfg.swing,
		Manual: manual,
		Logger: cfg.logger,
		OnBar: func(ev intsched.BarEvent) {
			info := dir.OnBar(ev)
			if onBar != nil {
				onBar(info)
			}
		},
		OnSixteenth: dir.OnSixteenth,
	})
	return c, nil
}

// Player performs in real time through the system audio device.
type Player struct {
	mu      sync.Mutex
	core    *core
	backend *intaudio.Player
	playing bool

	status    atomic.Pointer[Status]
	stopTimer *time.Timer
	done      chan struct{}

	eventChMu sync.Mutex
	eventCh   chan Event
}

func NewPlayer(opts ...Option) (*Player, error) {
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Player{}
	c, err := newCore(cfg, false, p.handleBar, p.handleFade)
	if err != nil {
		return nil, err
	}
	p.core = c
	p.status.Store(&Status{
		BPM:    c.sched.BPM(),
		Swing:  c.sched.Swing(),
		Energy: c.params.Energy(),
		State:  c.timeline.State(),
	})
	return p, nil
}

// Play opens the audio device on first use and starts the performance.
// Calling Play while already playing is a no-op.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return nil
	}
	if p.backend == nil {
		backend, err := intaudio.NewPlayer(p.core.cfg.sampleRate, p.core.engine)
		if err != nil {
			return err
		}
		p.backend = backend
	}
	p.done = make(chan struct{})
	p.playing = true
	// Seed the energy fan-out so the bus ramps settle toward the configured
	// energy instead of their construction defaults.
	p.core.auto.SetEnergy(p.core.params.Energy())
	// A previous run may have faded the master gain to silence; ramp it back
	// over the start delay so a restarted performance is audible.
	p.core.auto.FadeIn(p.core.cfg.startDelay)
	p.backend.Play()
	p.core.sched.Start(p.core.cfg.startDelay)
	return nil
}

// Stop halts scheduling and pauses the device. Triggers already handed to
// the engine with future timestamps still play out; use FadeOut for a
// musical ending.
func (p *Player) Stop() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = false
	p.core.sched.Stop()
	if p.backend != nil {
		p.backend.Pause()
	}
	if p.stopTimer != nil {
		p.stopTimer.Stop()
		p.stopTimer = nil
	}
	done := p.done
	p.done = nil
	p.mu.Unlock()

	p.core.timeline.MarkStopped()
	p.updateStatus(func(s *Status) { s.Playing = false; s.State = p.core.timeline.State() })
	p.sendEvent(Event{Kind: EventStopped})
	if done != nil {
		close(done)
	}
}

// FadeOut ramps the master gain to silence over the given seconds, then
// stops.
func (p *Player) FadeOut(seconds float64) {
	if seconds <= 0 {
		seconds = p.core.cfg.fadeSeconds
	}
	p.core.auto.FadeOut(seconds)
	p.mu.Lock()
	if p.stopTimer == nil {
		p.stopTimer = time.AfterFunc(secondsToDuration(seconds+1), p.Stop)
	}
	p.mu.Unlock()
}

// Wait blocks until playback stops. In repeat mode that only happens via
// Stop or FadeOut.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Watch returns a buffered channel of performance events. Slow receivers
// lose events rather than blocking the tick; only the most recent Watch
// channel receives, and any channel a previous Watch returned is closed so
// its consumer unblocks.
func (p *Player) Watch() <-chan Event {
	ch := make(chan Event, 64)
	p.eventChMu.Lock()
	if p.eventCh != nil {
		close(p.eventCh)
	}
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}

func (p *Player) Status() Status {
	return *p.status.Load()
}

func (p *Player) SetBPM(bpm float64) {
	p.core.sched.SetBPM(bpm)
	p.updateStatus(func(s *Status) { s.BPM = p.core.sched.BPM() })
}

func (p *Player) SetSwing(amount float64) {
	p.core.sched.SetSwing(amount)
	p.updateStatus(func(s *Status) { s.Swing = p.core.sched.Swing() })
}

// SetEnergy moves the dynamics knob; the automation layer fans it out into
// ramped bus gains and filter cutoffs.
func (p *Player) SetEnergy(energy float64) {
	p.core.auto.SetEnergy(energy)
	p.updateStatus(func(s *Status) { s.Energy = p.core.params.Energy() })
}

func (p *Player) SetLevel(b Bus, level float64) {
	p.core.auto.SetLevel(b, level)
}

func (p *Player) Level(b Bus) float64 {
	return p.core.params.Level(b)
}

// Settings captures the current scalars for persistence.
func (p *Player) Settings() intconfig.Settings {
	s := intconfig.Settings{
		BPM:    p.core.sched.BPM(),
		Swing:  p.core.sched.Swing(),
		Energy: p.core.params.Energy(),
		Levels: make(map[string]float64, int(intauto.NumBuses)),
		Mode:   p.core.cfg.mode.String(),
		Seed:   p.core.cfg.seed,
	}
	for b := Bus(0); b < intauto.NumBuses; b++ {
		s.Levels[b.String()] = p.core.params.Level(b)
	}
	return s
}

// handleBar runs inside the scheduler tick, after the director's own bar
// work and before the bar's first sixteenth.
func (p *Player) handleBar(info intdirector.BarInfo) {
	p.updateStatus(func(s *Status) {
		s.Bar = info.Bar
		s.Section = info.Section
		s.Chord = info.Chord
		s.Progression = info.Progression
		s.State = info.State
		s.Playing = true
	})
	base := Event{Bar: info.Bar, Section: info.Section, Chord: info.Chord, Progression: info.Progression}
	ev := base
	ev.Kind = EventBar
	p.sendEvent(ev)
	if info.SectionStart {
		ev = base
		ev.Kind = EventSection
		p.sendEvent(ev)
	}
	if info.ProgressionChanged {
		ev = base
		ev.Kind = EventProgression
		p.sendEvent(ev)
	}
}

// handleFade is the timeline's terminal transition, fired exactly once when
// the bar counter runs past the arrangement.
func (p *Player) handleFade() {
	p.core.auto.FadeOut(p.core.cfg.fadeSeconds)
	p.mu.Lock()
	if p.stopTimer == nil {
		p.stopTimer = time.AfterFunc(secondsToDuration(p.core.cfg.fadeSeconds+1), p.Stop)
	}
	p.mu.Unlock()
	p.sendEvent(Event{Kind: EventFade, Bar: p.status.Load().Bar})
}

func (p *Player) updateStatus(f func(*Status)) {
	for {
		old := p.status.Load()
		next := *old
		f(&next)
		if p.status.CompareAndSwap(old, &next) {
			return
		}
	}
}

// sendEvent delivers to the current Watch channel. It holds the channel
// lock across the send so Watch cannot close the channel mid-send.
func (p *Player) sendEvent(ev Event) {
	p.eventChMu.Lock()
	defer p.eventChMu.Unlock()
	if p.eventCh == nil {
		return
	}
	select {
	case p.eventCh <- ev:
	default:
		// Receiver is behind; the tick must not wait for it.
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
