package effects

// Delay is the lead-bus echo: a stereo delay line whose feedback path can
// ping-pong between channels and runs through a fixed damping lowpass, so
// repeats soften instead of stacking up brightly under a sustained line.
type Delay struct {
	lineL, lineR []float32
	pos          int
	fb           float32
	cross        float32
	wet          float32
	dampL, dampR float32
}

// feedbackDamp is the one-pole coefficient applied to the signal re-entering
// the line; echoes lose top end on every pass.
const feedbackDamp = 0.35

// NewDelay creates the echo.
// delayMs: tap time in milliseconds
// feedback: repeat amount 0..1
// cross: how much of each repeat crosses to the other channel, 0..1
// wet: wet/dry mix 0..1
func NewDelay(sampleRate int, delayMs float64, feedback, cross, wet float32) *Delay {
	n := int(delayMs * float64(sampleRate) / 1000.0)
	if n < 1 {
		n = 1
	}
	return &Delay{
		lineL: make([]float32, n),
		lineR: make([]float32, n),
		fb:    clamp(feedback, 0, 0.95),
		cross: clamp(cross, 0, 1),
		wet:   clamp(wet, 0, 1),
	}
}

func (d *Delay) Process(l, r float32) (float32, float32) {
	tapL := d.lineL[d.pos]
	tapR := d.lineR[d.pos]

	// Route the taps back in, swapped by the cross amount, then darken.
	backL := tapL*(1-d.cross) + tapR*d.cross
	backR := tapR*(1-d.cross) + tapL*d.cross
	d.dampL += feedbackDamp * (backL - d.dampL)
	d.dampR += feedbackDamp * (backR - d.dampR)
	d.lineL[d.pos] = l + d.dampL*d.fb
	d.lineR[d.pos] = r + d.dampR*d.fb

	d.pos++
	if d.pos >= len(d.lineL) {
		d.pos = 0
	}
	return l*(1-d.wet) + tapL*d.wet, r*(1-d.wet) + tapR*d.wet
}

func (d *Delay) Reset() {
	for i := range d.lineL {
		d.lineL[i] = 0
		d.lineR[i] = 0
	}
	d.pos = 0
	d.dampL = 0
	d.dampR = 0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
