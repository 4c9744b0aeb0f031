package effects

import "math"

// Compressor rides the master bus. Both channels share one peak detector,
// so gain reduction never shifts the stereo image; the gain computer works
// in decibels with a plain hard knee.
type Compressor struct {
	threshold float32 // linear
	slope     float64 // 1 - 1/ratio, dB reduction per dB over
	attack    float32 // detector coefficients
	release   float32
	makeup    float32
	env       float32
}

// NewCompressor creates the leveler.
// thresholdDB: threshold in dB (e.g., -14)
// ratio: compression ratio (e.g., 3 for 3:1)
// attackMs, releaseMs: detector times
// makeupDB: fixed output gain in dB
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) *Compressor {
	sr := float64(sampleRate)
	if ratio < 1 {
		ratio = 1
	}
	return &Compressor{
		threshold: float32(math.Pow(10, float64(thresholdDB)/20)),
		slope:     1 - 1/float64(ratio),
		attack:    float32(1 - math.Exp(-1/(float64(attackMs)*sr/1000))),
		release:   float32(1 - math.Exp(-1/(float64(releaseMs)*sr/1000))),
		makeup:    float32(math.Pow(10, float64(makeupDB)/20)),
	}
}

func (c *Compressor) Process(l, r float32) (float32, float32) {
	peak := float32(math.Abs(float64(l)))
	if a := float32(math.Abs(float64(r))); a > peak {
		peak = a
	}
	if peak > c.env {
		c.env += c.attack * (peak - c.env)
	} else {
		c.env += c.release * (peak - c.env)
	}
	g := c.gain()
	return l * g * c.makeup, r * g * c.makeup
}

// gain converts the detector level to a linear gain factor.
func (c *Compressor) gain() float32 {
	if c.env <= c.threshold || c.threshold <= 0 {
		return 1
	}
	overDB := 20 * math.Log10(float64(c.env/c.threshold))
	return float32(math.Pow(10, -c.slope*overDB/20))
}

func (c *Compressor) Reset() {
	c.env = 0
}
