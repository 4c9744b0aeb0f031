package beatparakeet

import (
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

const renderBlockFrames = 1024

// Render performs offline: the scheduler is pumped by hand against the
// engine's rendered playhead, so a bounce needs no audio device and runs
// faster than real time. The result is interleaved stereo float32 at the
// configured sample rate, deterministic for a fixed seed.
func Render(seconds float64, opts ...Option) ([]float32, error) {
	if seconds <= 0 {
		return nil, errors.New("render length must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	var c *core
	c, err := newCore(cfg, true, nil, func() {
		c.auto.FadeOut(c.cfg.fadeSeconds)
	})
	if err != nil {
		return nil, err
	}
	// Drum buffers must be in place before the first bar or the opening
	// kicks would be skipped nondeterministically.
	c.engine.Instruments().WaitReady()

	c.auto.SetEnergy(c.params.Energy())
	c.sched.Start(cfg.startDelay)
	defer c.sched.Stop()

	totalFrames := int(seconds * float64(cfg.sampleRate))
	out := make([]float32, 0, totalFrames*2)
	block := make([]float32, renderBlockFrames*2)
	for rendered := 0; rendered < totalFrames; rendered += renderBlockFrames {
		n := renderBlockFrames
		if left := totalFrames - rendered; left < n {
			n = left
		}
		// Poll before each block: the lookahead horizon comfortably covers
		// one block of audio, so the grid never drains.
		c.sched.Poll()
		c.engine.Process(block[:n*2])
		out = append(out, block[:n*2]...)
	}
	return out, nil
}

// WriteWAV encodes interleaved stereo float32 frames as a 16-bit WAV.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	if len(samples)%2 != 0 {
		return errors.New("samples must be whole stereo frames")
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	if err := wav.Encode(w, &pcmStreamer{samples: samples}, format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// pcmStreamer adapts a rendered buffer to the encoder's pull interface.
type pcmStreamer struct {
	samples []float32
	pos     int
}

func (s *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) && s.pos+1 < len(s.samples) {
		samples[n] = [2]float64{float64(s.samples[s.pos]), float64(s.samples[s.pos+1])}
		s.pos += 2
		n++
	}
	return n, n > 0
}

func (s *pcmStreamer) Err() error { return nil }
