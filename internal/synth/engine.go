// Package synth is the event sink of the performance: it holds trigger
// instructions until their timestamp comes due, renders them through a
// capped voice pool onto smoothed mixer buses, and exposes the rendered
// frame counter as the clock the scheduler polls.
package synth

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/davidgilbertson/beatparakeet/internal/automation"
	"github.com/davidgilbertson/beatparakeet/internal/director"
	"github.com/davidgilbertson/beatparakeet/internal/effects"
	"github.com/davidgilbertson/beatparakeet/internal/pattern"
)

const (
	DefaultSampleRate = 44100

	defaultPolyphony = 48
	// maxPending bounds the trigger queue; if rendering stalls long enough
	// to fill it, the oldest instructions are the right ones to lose.
	maxPending = 512
)

type Options struct {
	Polyphony   int
	Instruments *InstrumentSet
	Logger      *slog.Logger
}

// ramp is one smoothed parameter: an atomic (target, coefficient) pair
// written by any goroutine and a current value owned by the render loop.
type ramp struct {
	targetBits atomic.Uint64
	coefBits   atomic.Uint64
	current    float64
}

func (r *ramp) init(v float64) {
	r.current = v
	r.targetBits.Store(math.Float64bits(v))
	r.coefBits.Store(math.Float64bits(1))
}

func (r *ramp) set(value, tau, sr float64) {
	coef := 1.0
	if tau > 0 {
		coef = 1 - math.Exp(-1/(tau*sr))
	}
	r.targetBits.Store(math.Float64bits(value))
	r.coefBits.Store(math.Float64bits(coef))
}

func (r *ramp) step() float64 {
	t := math.Float64frombits(r.targetBits.Load())
	c := math.Float64frombits(r.coefBits.Load())
	r.current += c * (t - r.current)
	return r.current
}

type pendingTrigger struct {
	start int64
	ev    director.TriggerEvent
}

// Engine renders the performance. It implements clock.Clock (rendered time),
// director.Sink (triggers) and automation.Ramper (smoothed parameters).
type Engine struct {
	sampleRate float64
	logger     *slog.Logger
	insts      *InstrumentSet

	frames   atomic.Int64
	dropped  atomic.Uint64
	notReady atomic.Uint64

	mu      sync.Mutex
	pending []pendingTrigger

	voices []voice
	due    []pendingTrigger // reused scratch for each Process call

	ramps [automation.NumTargets]ramp

	// One-pole lowpass state per filtered bus.
	padLPL, padLPR   float64
	leadLPL, leadLPR float64

	padFX  *effects.Chain
	leadFX *effects.Chain
	master *effects.Chain
}

func NewEngine(sampleRate int, opts Options) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if opts.Polyphony <= 0 {
		opts.Polyphony = defaultPolyphony
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Instruments == nil {
		opts.Instruments = NewInstrumentSet(sampleRate)
	}
	e := &Engine{
		sampleRate: float64(sampleRate),
		logger:     opts.Logger,
		insts:      opts.Instruments,
		voices:     make([]voice, opts.Polyphony),
		padFX: effects.NewChain(
			effects.NewChorus(sampleRate, 18, 0.2, 6, 0.35, 0.4),
			effects.NewReverb(sampleRate, 0.85, 0.72, 0.45),
		),
		leadFX: effects.NewChain(
			effects.NewDelay(sampleRate, 0.375*1000, 0.35, 0.4, 0.3),
		),
		master: effects.NewChain(
			effects.NewCompressor(sampleRate, -14, 3, 12, 220, 2),
		),
	}
	e.ramps[automation.TargetMasterGain].init(1)
	e.ramps[automation.TargetMasterTrim].init(0.9)
	e.ramps[automation.TargetDrumsGain].init(0.6)
	e.ramps[automation.TargetBassGain].init(0.7)
	e.ramps[automation.TargetLeadGain].init(0.65)
	e.ramps[automation.TargetPadGain].init(0.9)
	e.ramps[automation.TargetPadCutoff].init(1400)
	e.ramps[automation.TargetLeadCutoff].init(2400)
	return e
}

func (e *Engine) SampleRate() int { return int(e.sampleRate) }

func (e *Engine) Instruments() *InstrumentSet { return e.insts }

// Now is the rendered playhead in seconds. The scheduler polls this, so
// musical time advances exactly as fast as audio leaves the engine.
func (e *Engine) Now() float64 {
	return float64(e.frames.Load()) / e.sampleRate
}

// Ramp moves a smoothed parameter toward value along a one-pole curve with
// time constant tau seconds. Safe from any goroutine; never blocks.
func (e *Engine) Ramp(target automation.Target, value, tau float64) {
	if target < 0 || target >= automation.NumTargets {
		return
	}
	e.ramps[target].set(value, tau, e.sampleRate)
}

// Ready reports whether a role can sound right now. Drum roles wait on the
// instrument set; tonal roles synthesize live and are always ready.
func (e *Engine) Ready(role pattern.Role) bool {
	switch role {
	case pattern.RoleKick, pattern.RoleHat:
		_, ok := e.insts.Lookup(string(role))
		return ok
	default:
		return true
	}
}

// Trigger queues one instruction. Timestamps already in the past are pulled
// up to the playhead rather than dropped, so a briefly stalled render never
// silences a whole beat.
func (e *Engine) Trigger(ev director.TriggerEvent) error {
	start := int64(ev.Time * e.sampleRate)
	if now := e.frames.Load(); start < now {
		start = now
	}
	e.mu.Lock()
	if len(e.pending) >= maxPending {
		e.pending = e.pending[1:]
		e.dropped.Add(1)
	}
	e.pending = append(e.pending, pendingTrigger{start: start, ev: ev})
	e.mu.Unlock()
	return nil
}

// DroppedTriggers reports triggers lost to pending-queue overflow.
func (e *Engine) DroppedTriggers() uint64 {
	return e.dropped.Load()
}

// SkippedTriggers reports drum triggers that came due while their
// instrument was still loading.
func (e *Engine) SkippedTriggers() uint64 {
	return e.notReady.Load()
}

// ActiveVoices counts currently sounding voices.
func (e *Engine) ActiveVoices() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].active {
			n++
		}
	}
	return n
}

// Process renders interleaved stereo float32 frames and advances the
// playhead. Called by the audio backend's goroutine (or the offline pump);
// it must not be called concurrently with itself.
func (e *Engine) Process(dst []float32) {
	frames := len(dst) / 2
	start := e.frames.Load()
	end := start + int64(frames)

	e.due = e.due[:0]
	e.mu.Lock()
	rest := e.pending[:0]
	for _, p := range e.pending {
		if p.start < end {
			e.due = append(e.due, p)
		} else {
			rest = append(rest, p)
		}
	}
	e.pending = rest
	e.mu.Unlock()
	sort.Slice(e.due, func(i, j int) bool { return e.due[i].start < e.due[j].start })

	di := 0
	dt := 1 / e.sampleRate
	for i := 0; i < frames; i++ {
		f := start + int64(i)
		for di < len(e.due) && e.due[di].start <= f {
			e.activate(e.due[di])
			di++
		}

		var busL, busR [automation.NumBuses]float64
		for vi := range e.voices {
			v := &e.voices[vi]
			if !v.active {
				continue
			}
			l, r, alive := v.render(e.sampleRate)
			if !alive {
				v.active = false
				continue
			}
			busL[v.bus] += l
			busR[v.bus] += r
		}

		drums := e.ramps[automation.TargetDrumsGain].step()
		bass := e.ramps[automation.TargetBassGain].step()
		lead := e.ramps[automation.TargetLeadGain].step()
		pad := e.ramps[automation.TargetPadGain].step()

		// Filtered buses run through their one-pole lowpass before the
		// insert chains.
		padCut := e.ramps[automation.TargetPadCutoff].step()
		padAlpha := dt / (1/(twoPi*padCut) + dt)
		e.padLPL += padAlpha * (busL[automation.BusPad] - e.padLPL)
		e.padLPR += padAlpha * (busR[automation.BusPad] - e.padLPR)
		padL, padR := e.padFX.Process(float32(e.padLPL*pad), float32(e.padLPR*pad))

		leadCut := e.ramps[automation.TargetLeadCutoff].step()
		leadAlpha := dt / (1/(twoPi*leadCut) + dt)
		e.leadLPL += leadAlpha * (busL[automation.BusLead] - e.leadLPL)
		e.leadLPR += leadAlpha * (busR[automation.BusLead] - e.leadLPR)
		leadL, leadR := e.leadFX.Process(float32(e.leadLPL*lead), float32(e.leadLPR*lead))

		mixL := busL[automation.BusDrums]*drums + busL[automation.BusBass]*bass + float64(padL) + float64(leadL)
		mixR := busR[automation.BusDrums]*drums + busR[automation.BusBass]*bass + float64(padR) + float64(leadR)

		trim := e.ramps[automation.TargetMasterTrim].step()
		gain := e.ramps[automation.TargetMasterGain].step()
		outL, outR := e.master.Process(float32(mixL*trim*gain), float32(mixR*trim*gain))

		dst[i*2] = clamp32(outL)
		dst[i*2+1] = clamp32(outR)
	}
	e.frames.Store(end)
}

// activate turns a due trigger into voices. A drum whose buffer is still
// loading is skipped here too; the race between Warm and the first bars is
// expected, not an error.
func (e *Engine) activate(p pendingTrigger) {
	ev := p.ev
	bus := automation.BusFor(string(ev.Role))
	switch ev.Role {
	case pattern.RoleKick, pattern.RoleHat:
		inst, ok := e.insts.Lookup(string(ev.Role))
		if !ok {
			e.notReady.Add(1)
			return
		}
		v := e.allocVoice()
		v.startBuffer(ev.Role, bus, p.start, ev.Amplitude, inst)
	default:
		gate := int64(ev.Duration * e.sampleRate)
		for _, note := range ev.Notes {
			v := e.allocVoice()
			v.startTone(ev.Role, bus, p.start, gate, ev.Amplitude, midiToFreq(note), e.sampleRate)
		}
	}
}

// allocVoice returns a free slot, or steals the oldest sounding voice.
func (e *Engine) allocVoice() *voice {
	oldest := 0
	oldestStart := int64(math.MaxInt64)
	for i := range e.voices {
		if !e.voices[i].active {
			return &e.voices[i]
		}
		if e.voices[i].startFrame < oldestStart {
			oldestStart = e.voices[i].startFrame
			oldest = i
		}
	}
	return &e.voices[oldest]
}

func clamp32(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
