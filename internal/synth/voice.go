package synth

import (
	"math"

	"github.com/davidgilbertson/beatparakeet/internal/automation"
	"github.com/davidgilbertson/beatparakeet/internal/lfo"
	"github.com/davidgilbertson/beatparakeet/internal/pattern"
)

const twoPi = 2 * math.Pi

type waveShape int

const (
	waveSine waveShape = iota
	waveTriangle
	waveSaw
)

func waveformSample(phase float64, shape waveShape) float64 {
	p := math.Mod(phase, twoPi)
	switch shape {
	case waveTriangle:
		return 2*math.Abs(2*p/twoPi-1) - 1
	case waveSaw:
		return 1 - 2*p/twoPi
	default:
		return math.Sin(p)
	}
}

type envState int

const (
	envAttack envState = iota
	envDecay
	envSustain
	envRelease
	envOff
)

// envelope is a linear ADSR stepped per sample, timed in seconds.
type envelope struct {
	state   envState
	level   float64
	attack  float64
	decay   float64
	sustain float64
	release float64
}

func (e *envelope) advance(sr float64) {
	switch e.state {
	case envAttack:
		step := 1.0 / (e.attack * sr)
		if step <= 0 {
			step = 1
		}
		e.level += step
		if e.level >= 1 {
			e.level = 1
			e.state = envDecay
		}
	case envDecay:
		step := (1 - e.sustain) / (e.decay * sr)
		if step <= 0 {
			step = 1
		}
		e.level -= step
		if e.level <= e.sustain {
			e.level = e.sustain
			e.state = envSustain
		}
	case envSustain:
	case envRelease:
		step := e.releaseStep(sr)
		e.level -= step
		if e.level <= 0.0001 {
			e.level = 0
			e.state = envOff
		}
	case envOff:
		e.level = 0
	}
}

func (e *envelope) releaseStep(sr float64) float64 {
	from := e.sustain
	if from <= 0 {
		from = 0.25
	}
	step := from / (e.release * sr)
	if step <= 0 {
		step = 1
	}
	return step
}

func (e *envelope) gateOff() {
	if e.state != envOff {
		e.state = envRelease
	}
}

// toneSpec fixes the voice character per role.
type toneSpec struct {
	wave     waveShape
	attack   float64
	decay    float64
	sustain  float64
	release  float64
	detune   float64 // cents between the paired oscillators, 0 = single
	vibDepth float64 // semitones
	vibRate  float64 // Hz
	pan      float64 // -1 left .. +1 right
	gain     float64
}

var toneSpecs = map[pattern.Role]toneSpec{
	pattern.RoleBass: {
		wave: waveSine, attack: 0.012, decay: 0.18, sustain: 0.8, release: 0.28,
		gain: 0.95,
	},
	pattern.RoleLead: {
		wave: waveTriangle, attack: 0.025, decay: 0.2, sustain: 0.6, release: 0.4,
		vibDepth: 0.12, vibRate: 5.2, pan: 0.2, gain: 0.7,
	},
	pattern.RolePad: {
		wave: waveSaw, attack: 0.9, decay: 0.7, sustain: 0.75, release: 1.8,
		detune: 9, vibDepth: 0.05, vibRate: 0.21, gain: 0.32,
	},
	pattern.RoleSparkle: {
		wave: waveSine, attack: 0.004, decay: 0.3, sustain: 0, release: 0.3,
		pan: -0.3, gain: 0.55,
	},
}

// voice is one sounding event: either a drum buffer playing out or an
// oscillator pair under an envelope. All fields are owned by the render
// goroutine.
type voice struct {
	active     bool
	role       pattern.Role
	bus        automation.Bus
	startFrame int64
	gateFrames int64
	age        int64
	amp        float64
	pan        float64

	// buffer playback (drums)
	buf []float64
	pos int

	// tonal
	freq        float64
	phase       float64
	phase2      float64
	detuneRatio float64
	wave        waveShape
	env         envelope
	vib         lfo.LFO
}

func (v *voice) startBuffer(role pattern.Role, bus automation.Bus, start int64, amp float64, inst *Instrument) {
	*v = voice{
		active:     true,
		role:       role,
		bus:        bus,
		startFrame: start,
		amp:        amp,
		buf:        inst.Samples,
	}
}

func (v *voice) startTone(role pattern.Role, bus automation.Bus, start, gate int64, amp, freq, sr float64) {
	spec, ok := toneSpecs[role]
	if !ok {
		spec = toneSpecs[pattern.RoleLead]
	}
	*v = voice{
		active:     true,
		role:       role,
		bus:        bus,
		startFrame: start,
		gateFrames: gate,
		amp:        amp * spec.gain,
		pan:        spec.pan,
		freq:       freq,
		wave:       spec.wave,
		env: envelope{
			state:   envAttack,
			attack:  spec.attack,
			decay:   spec.decay,
			sustain: spec.sustain,
			release: spec.release,
		},
	}
	if spec.detune > 0 {
		v.detuneRatio = math.Pow(2, spec.detune/1200)
	}
	if spec.vibDepth > 0 {
		v.vib = lfo.New(lfo.Sine, spec.vibDepth, spec.vibRate)
		// Spread the modulation phase across the stack so a chord's
		// voices never pump together.
		v.vib.Shift(math.Mod(freq, 1.0))
	}
}

// render produces one stereo sample. It returns alive=false once the voice
// has fully decayed or its buffer ran out.
func (v *voice) render(sr float64) (l, r float64, alive bool) {
	if v.buf != nil {
		if v.pos >= len(v.buf) {
			return 0, 0, false
		}
		s := v.buf[v.pos] * v.amp
		v.pos++
		return s, s, true
	}

	v.env.advance(sr)
	if v.env.state == envOff {
		return 0, 0, false
	}
	if v.age >= v.gateFrames {
		v.env.gateOff()
	}
	v.age++

	freq := v.freq
	if mod := v.vib.Sample(sr); mod != 0 {
		freq *= math.Pow(2, mod/12)
	}
	s := waveformSample(v.phase, v.wave)
	v.phase += twoPi * freq / sr
	if v.phase > twoPi {
		v.phase -= twoPi
	}
	if v.detuneRatio > 0 {
		s = (s + waveformSample(v.phase2, v.wave)) * 0.6
		v.phase2 += twoPi * freq * v.detuneRatio / sr
		if v.phase2 > twoPi {
			v.phase2 -= twoPi
		}
	}
	s *= v.env.level * v.amp

	angle := (v.pan + 1) / 2 * (math.Pi / 2)
	return s * math.Cos(angle), s * math.Sin(angle), true
}

func midiToFreq(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}
