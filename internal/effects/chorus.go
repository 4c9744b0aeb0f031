package effects

import (
	"github.com/davidgilbertson/beatparakeet/internal/lfo"
)

// Chorus thickens the pad bus: each channel reads its delay line through a
// slowly modulated fractional tap. The two modulators run a quarter cycle
// apart, so the widening never collapses to mono and never pumps in sync
// with the pad's own shimmer.
type Chorus struct {
	bufL, bufR []float32
	pos        int
	size       int
	base       float64 // center tap in samples
	sampleRate float64
	modL, modR lfo.LFO
	fb         float32
	wet        float32
}

// NewChorus creates the widener.
// delayMs: center tap time in ms (typically 5-30ms)
// feedback: regeneration amount 0..1
// depthMs: modulation depth in ms
// rateHz: modulation rate in Hz (well under 1 Hz for ambient duty)
// wet: wet/dry mix 0..1
func NewChorus(sampleRate int, delayMs, feedback, depthMs, rateHz, wet float32) *Chorus {
	base := float64(delayMs) * float64(sampleRate) / 1000.0
	depth := float64(depthMs) * float64(sampleRate) / 1000.0
	if depth > base-1 {
		depth = base - 1
	}
	if depth < 0 {
		depth = 0
	}
	size := int(base+depth) + 2
	if size < 4 {
		size = 4
	}
	c := &Chorus{
		bufL:       make([]float32, size),
		bufR:       make([]float32, size),
		size:       size,
		base:       base,
		sampleRate: float64(sampleRate),
		modL:       lfo.New(lfo.Sine, depth, float64(rateHz)),
		modR:       lfo.New(lfo.Sine, depth, float64(rateHz)),
		fb:         clamp(feedback, 0, 0.9),
		wet:        clamp(wet, 0, 1),
	}
	c.modR.Shift(0.25)
	return c
}

func (c *Chorus) Process(l, r float32) (float32, float32) {
	tapL := c.read(c.bufL, c.base+c.modL.Sample(c.sampleRate))
	tapR := c.read(c.bufR, c.base+c.modR.Sample(c.sampleRate))

	c.bufL[c.pos] = l + tapL*c.fb
	c.bufR[c.pos] = r + tapR*c.fb
	c.pos++
	if c.pos >= c.size {
		c.pos = 0
	}
	return l*(1-c.wet) + tapL*c.wet, r*(1-c.wet) + tapR*c.wet
}

// read pulls a linearly interpolated sample delay samples behind the write
// head.
func (c *Chorus) read(buf []float32, delay float64) float32 {
	at := float64(c.pos) - delay
	for at < 0 {
		at += float64(c.size)
	}
	i := int(at)
	frac := float32(at - float64(i))
	j := i + 1
	if j >= c.size {
		j = 0
	}
	return buf[i]*(1-frac) + buf[j]*frac
}

func (c *Chorus) Reset() {
	for i := range c.bufL {
		c.bufL[i] = 0
		c.bufR[i] = 0
	}
	c.pos = 0
	c.modL.Reset()
	c.modR.Reset()
	c.modR.Shift(0.25)
}
