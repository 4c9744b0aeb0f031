package effects

// Reverb is the pad-bus tail: a damped Schroeder comb bank per channel
// behind a short predelay, finished by two series diffusers. The right
// bank's delays sit a few samples off the left's so the tail decorrelates
// into stereo width, and the damping lowpass inside each comb darkens the
// tail as it decays.
type Reverb struct {
	pre    []float32
	prePos int

	combL [4]comb
	combR [4]comb
	diffL [2]diffuser
	diffR [2]diffuser
	wet   float32
}

// comb is a feedback comb with a one-pole lowpass in the loop.
type comb struct {
	buf  []float32
	pos  int
	fb   float32
	damp float32
	lp   float32
}

func (c *comb) process(in float32) float32 {
	out := c.buf[c.pos]
	c.lp += c.damp * (out - c.lp)
	c.buf[c.pos] = in + c.lp*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

// diffuser is an allpass stage that smears comb echoes into a wash.
type diffuser struct {
	buf []float32
	pos int
	fb  float32
}

func (d *diffuser) process(in float32) float32 {
	tail := d.buf[d.pos]
	out := -in + tail
	d.buf[d.pos] = in + tail*d.fb
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
	return out
}

// NewReverb creates the tail processor.
// roomSize: 0..1 scales every delay length
// feedback: 0..1 controls decay time
// wet: wet/dry mix 0..1
func NewReverb(sampleRate int, roomSize, feedback, wet float32) *Reverb {
	base := int(float32(sampleRate) * roomSize * 0.05)
	if base < 10 {
		base = 10
	}
	fb := clamp(feedback, 0, 0.95)
	r := &Reverb{
		pre: make([]float32, max(sampleRate*12/1000, 1)),
		wet: clamp(wet, 0, 1),
	}
	// Prime-ish length ratios avoid coincident resonances; the right bank
	// runs slightly long for decorrelation.
	lens := [4]int{base, base * 1117 / 1000, base * 1271 / 1000, base * 1437 / 1000}
	for i := range r.combL {
		r.combL[i] = comb{buf: make([]float32, lens[i]), fb: fb, damp: 0.22}
		r.combR[i] = comb{buf: make([]float32, lens[i]+23), fb: fb, damp: 0.22}
	}
	diffLens := [2]int{base * 347 / 1000, base * 213 / 1000}
	for i := range r.diffL {
		r.diffL[i] = diffuser{buf: make([]float32, max(diffLens[i], 1)), fb: 0.5}
		r.diffR[i] = diffuser{buf: make([]float32, max(diffLens[i]+7, 1)), fb: 0.5}
	}
	return r
}

func (r *Reverb) Process(l, rr float32) (float32, float32) {
	mono := (l + rr) * 0.5
	delayed := r.pre[r.prePos]
	r.pre[r.prePos] = mono
	r.prePos++
	if r.prePos >= len(r.pre) {
		r.prePos = 0
	}

	var tailL, tailR float32
	for i := range r.combL {
		tailL += r.combL[i].process(delayed)
		tailR += r.combR[i].process(delayed)
	}
	tailL *= 0.25
	tailR *= 0.25
	for i := range r.diffL {
		tailL = r.diffL[i].process(tailL)
		tailR = r.diffR[i].process(tailR)
	}
	return l*(1-r.wet) + tailL*r.wet, rr*(1-r.wet) + tailR*r.wet
}

func (r *Reverb) Reset() {
	for i := range r.pre {
		r.pre[i] = 0
	}
	r.prePos = 0
	for i := range r.combL {
		clearComb(&r.combL[i])
		clearComb(&r.combR[i])
	}
	for i := range r.diffL {
		clearDiffuser(&r.diffL[i])
		clearDiffuser(&r.diffR[i])
	}
}

func clearComb(c *comb) {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.pos = 0
	c.lp = 0
}

func clearDiffuser(d *diffuser) {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.pos = 0
}
