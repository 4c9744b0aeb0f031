package automation

// Target names a ramped destination owned by the event sink. The master
// fade gain and the energy-driven trim are separate stages so a fade-out
// never fights an energy change.
type Target int

const (
	TargetMasterGain Target = iota
	TargetMasterTrim
	TargetDrumsGain
	TargetBassGain
	TargetLeadGain
	TargetPadGain
	TargetPadCutoff
	TargetLeadCutoff
	NumTargets
)

func (t Target) String() string {
	switch t {
	case TargetMasterGain:
		return "master.gain"
	case TargetMasterTrim:
		return "master.trim"
	case TargetDrumsGain:
		return "drums.gain"
	case TargetBassGain:
		return "bass.gain"
	case TargetLeadGain:
		return "lead.gain"
	case TargetPadGain:
		return "pad.gain"
	case TargetPadCutoff:
		return "pad.cutoff"
	case TargetLeadCutoff:
		return "lead.cutoff"
	default:
		return "unknown"
	}
}

// Ramper is the smoothing primitive owned by the sink. Implementations move
// the parameter toward value along a one-pole curve with time constant tau
// in seconds, and must not block.
type Ramper interface {
	Ramp(target Target, value, tau float64)
}

// AmpScale is the energy contribution to per-trigger amplitude. It is kept
// gentle because energy also drives the ramped bus gain stages; the full
// swing comes from the stages multiplying, not from any one of them.
func AmpScale(energy float64) float64 {
	return 0.5 + 0.5*clamp(energy, 0, 1)
}

// Automator computes target values from parameter writes and invokes the
// sink's ramps. It owns no smoothing state itself; every write is just a
// (target, value, time constant) triple handed over.
type Automator struct {
	params *Params
	sink   Ramper
}

func New(params *Params, sink Ramper) *Automator {
	return &Automator{params: params, sink: sink}
}

func (a *Automator) Params() *Params { return a.params }

// SetEnergy stores the scalar and fans it out: each bus gain and filter
// cutoff gets its own curve and smoothing time constant, so a single knob
// move lands as several staggered trajectories rather than one jump.
func (a *Automator) SetEnergy(e float64) {
	a.params.SetEnergy(e)
	e = a.params.Energy()

	a.sink.Ramp(TargetDrumsGain, 0.25+0.75*e, 0.08)
	a.sink.Ramp(TargetBassGain, 0.45+0.55*e, 0.25)
	a.sink.Ramp(TargetLeadGain, 0.35+0.65*e, 0.4)
	// Pads recede slightly as the beat rises, on a long constant.
	a.sink.Ramp(TargetPadGain, 1.0-0.25*e, 1.2)
	a.sink.Ramp(TargetPadCutoff, 350+4500*e*e, 0.9)
	a.sink.Ramp(TargetLeadCutoff, 700+6800*e*e, 0.35)
	a.sink.Ramp(TargetMasterTrim, 0.8+0.2*e, 0.6)
}

// SetLevel stores a bus fader. Levels feed trigger amplitude directly, so
// there is nothing to ramp.
func (a *Automator) SetLevel(b Bus, v float64) {
	a.params.SetLevel(b, v)
}

// FadeIn ramps the master gain up over roughly the given seconds.
func (a *Automator) FadeIn(seconds float64) {
	a.sink.Ramp(TargetMasterGain, 1, tauFor(seconds))
}

// FadeOut ramps the master gain to silence over roughly the given seconds.
func (a *Automator) FadeOut(seconds float64) {
	a.sink.Ramp(TargetMasterGain, 0, tauFor(seconds))
}

// tauFor converts a perceived fade length to a one-pole time constant; the
// ramp covers ~95% of the distance in three constants.
func tauFor(seconds float64) float64 {
	if seconds <= 0 {
		return 0.001
	}
	return seconds / 3
}
