// Package director turns scheduled grid positions into concrete trigger
// events: it resolves where the performance is in the arrangement, which
// chord is active, which pattern events fire on the current slot, and how
// loud and how late each one lands after humanization and live modulation.
package director

import (
	"log/slog"
	"math/rand"

	"github.com/davidgilbertson/beatparakeet/internal/arrange"
	"github.com/davidgilbertson/beatparakeet/internal/automation"
	"github.com/davidgilbertson/beatparakeet/internal/harmony"
	"github.com/davidgilbertson/beatparakeet/internal/pattern"
	"github.com/davidgilbertson/beatparakeet/internal/scheduler"
)

// minEventDuration is the floor for trigger length in seconds; patterns at
// fast tempos never shrink a note below this.
const minEventDuration = 0.03

// defaultHumanize is the symmetric timing jitter bound in seconds.
const defaultHumanize = 0.010

// TriggerEvent is one concrete instruction for the event sink. Notes is
// empty for unpitched roles. Time is absolute on the sink's clock.
type TriggerEvent struct {
	Role      pattern.Role
	Time      float64
	Notes     []int
	Amplitude float64
	Duration  float64
}

// Sink consumes trigger events. Implementations must not block; a sink may
// drop an event when a resource it needs is not ready.
type Sink interface {
	Trigger(ev TriggerEvent) error
}

// BarInfo summarizes the decisions taken at a bar boundary, for observers.
type BarInfo struct {
	Bar                int64
	Section            string
	SectionStart       bool
	Chord              string
	Progression        string
	ProgressionChanged bool
	State              arrange.RunState
}

type Options struct {
	Timeline *arrange.Timeline
	Pool     *harmony.Pool
	Library  *pattern.Library
	Params   *automation.Params
	Sink     Sink

	// Available reports whether the sink can sound a role right now. Nil
	// means always available. A pending resource is a skip, not an error.
	Available func(role pattern.Role) bool

	// Rand drives humanization, ornament gating and progression choice.
	// Sharing one seeded source across the run makes output reproducible.
	Rand *rand.Rand

	// Humanize is the jitter bound in seconds (default 10ms).
	Humanize float64

	Logger *slog.Logger
}

// Director holds the per-run generative state. All mutation happens inside
// the scheduler tick, so it carries no lock.
type Director struct {
	timeline  *arrange.Timeline
	pool      *harmony.Pool
	lib       *pattern.Library
	params    *automation.Params
	sink      Sink
	available func(role pattern.Role) bool
	rng       *rand.Rand
	humanize  float64
	logger    *slog.Logger

	pos     arrange.Position
	located bool
	skips   uint64
}

func New(opts Options) *Director {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	if opts.Humanize <= 0 {
		opts.Humanize = defaultHumanize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Director{
		timeline:  opts.Timeline,
		pool:      opts.Pool,
		lib:       opts.Library,
		params:    opts.Params,
		sink:      opts.Sink,
		available: opts.Available,
		rng:       opts.Rand,
		humanize:  opts.Humanize,
		logger:    opts.Logger,
	}
}

// OnBar resolves the structural position for a new bar. The scheduler
// delivers it before the bar's slot-0 sixteenth, so section and progression
// decisions are visible to the first note of the bar.
func (d *Director) OnBar(ev scheduler.BarEvent) BarInfo {
	d.pos = d.timeline.Locate(ev.Bar)
	d.located = true
	changed := d.pool.Observe(ev.Bar)
	prog := d.pool.Current()
	if changed {
		d.logger.Info("progression switch", "bar", ev.Bar, "progression", prog.Name)
	}
	return BarInfo{
		Bar:                ev.Bar,
		Section:            d.pos.Section.Name,
		SectionStart:       d.pos.SectionStart,
		Chord:              prog.At(ev.Bar).Name,
		Progression:        prog.Name,
		ProgressionChanged: changed,
		State:              d.timeline.State(),
	}
}

// OnSixteenth fires every pattern event declared for the slot. Roles are
// walked in canonical order so a seeded run consumes randomness in a fixed
// sequence.
func (d *Director) OnSixteenth(ev scheduler.StepEvent) {
	if !d.located {
		d.pos = d.timeline.Locate(ev.Bar)
		d.located = true
	}
	// Chord follows the bar counter, not the section: the harmonic and
	// structural cycles drift in and out of phase over a run.
	chord := d.pool.Current().At(ev.Bar)
	sec := d.pos.Section

	for _, role := range pattern.Roles {
		weight := sec.Intensity[role]
		if weight <= 0 {
			continue
		}
		table, ok := d.lib.Get(sec.Patterns[role])
		if !ok {
			continue
		}
		for _, tev := range table.At(ev.Slot) {
			d.fire(ev, tev, chord, weight, sec.SparkleProb)
		}
	}
}

func (d *Director) fire(ev scheduler.StepEvent, tev pattern.Event, chord harmony.Chord, weight, sparkleProb float64) {
	// Randomness is drawn before the availability check so the sequence of
	// draws does not depend on load timing.
	if tev.Role == pattern.RoleSparkle && d.rng.Float64() >= sparkleProb {
		return
	}
	t := ev.Time
	if tev.Humanize {
		t += (d.rng.Float64()*2 - 1) * d.humanize
	}
	if d.available != nil && !d.available(tev.Role) {
		d.skips++
		return
	}

	bus := automation.BusFor(string(tev.Role))
	amp := weight * tev.Velocity * d.params.Level(bus) * automation.AmpScale(d.params.Energy())
	if amp <= 0 {
		return
	}
	dur := tev.Sixteenths * ev.Sixteenth
	if dur < minEventDuration {
		dur = minEventDuration
	}
	// Guarded sink: the error is already converted to a skip outcome.
	_ = d.sink.Trigger(TriggerEvent{
		Role:      tev.Role,
		Time:      t,
		Notes:     chord.Pitch(tev.Pitch),
		Amplitude: amp,
		Duration:  dur,
	})
}

// SkippedTriggers reports how many events were dropped because their role's
// resource was still loading.
func (d *Director) SkippedTriggers() uint64 {
	return d.skips
}
