// Package lfo provides the slow modulators that keep sustained voices
// alive: vibrato on the lead, shimmer on pad stacks, drift on filter
// cutoffs. Values are per-sample and bounded by the configured depth.
package lfo

import "math"

// Shape selects the modulation curve.
type Shape int

const (
	Sine Shape = iota
	Triangle
)

// LFO is a low-frequency oscillator. The zero value is inert; configure it
// with Set before use, or construct with New.
type LFO struct {
	shape Shape
	depth float64 // output bound, units depend on the destination
	rate  float64 // Hz
	phase float64 // [0, 1)
}

func New(shape Shape, depth, rateHz float64) LFO {
	l := LFO{shape: shape}
	l.Set(depth, rateHz)
	return l
}

// Set reconfigures depth and rate without resetting phase, so a running
// modulation never jumps.
func (l *LFO) Set(depth, rateHz float64) {
	l.depth = depth
	if rateHz < 0 {
		rateHz = 0
	}
	l.rate = rateHz
}

// Shift advances the phase by a fraction of a cycle. Detuned voice pairs
// offset their shimmer so the stack never pumps in unison.
func (l *LFO) Shift(fraction float64) {
	l.phase += fraction
	l.phase -= math.Floor(l.phase)
}

// Sample advances one sample and returns a value in [-depth, +depth].
// An inert LFO returns 0 without advancing.
func (l *LFO) Sample(sampleRate float64) float64 {
	if l.depth == 0 || l.rate == 0 || sampleRate <= 0 {
		return 0
	}
	var v float64
	switch l.shape {
	case Triangle:
		if l.phase < 0.5 {
			v = 4*l.phase - 1
		} else {
			v = 3 - 4*l.phase
		}
	default:
		v = math.Sin(2 * math.Pi * l.phase)
	}
	l.phase += l.rate / sampleRate
	if l.phase >= 1 {
		l.phase -= 1
	}
	return v * l.depth
}

// Active reports whether Sample can produce nonzero output.
func (l *LFO) Active() bool {
	return l.depth != 0 && l.rate != 0
}

// Reset rewinds the phase to the cycle start.
func (l *LFO) Reset() {
	l.phase = 0
}
