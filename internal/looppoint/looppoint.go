// Package looppoint finds seamless loop boundaries in recorded ambience
// beds. It scores candidate loop lengths by FFT autocorrelation of the
// mono mix, then nudges both ends onto zero crossings so the splice is
// click-free.
package looppoint

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/ktye/fft"
)

// Clip is a fully-decoded stereo WAV.
type Clip struct {
	Frames [][2]float64
	Format beep.Format
}

// ReadClip decodes a WAV file into memory.
func ReadClip(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clip: %w", err)
	}
	defer f.Close()
	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer stream.Close()

	c := &Clip{Format: format}
	buf := make([][2]float64, 2048)
	for {
		n, ok := stream.Stream(buf)
		c.Frames = append(c.Frames, buf[:n]...)
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(c.Frames) == 0 {
		return nil, errors.New("clip is empty")
	}
	return c, nil
}

// WriteClip encodes a frame range of the clip to a WAV file.
func (c *Clip) WriteClip(path string, from, to int) error {
	if from < 0 || to > len(c.Frames) || from >= to {
		return fmt.Errorf("bad clip range [%d, %d) of %d frames", from, to, len(c.Frames))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create clip: %w", err)
	}
	defer f.Close()
	s := &sliceStreamer{frames: c.Frames[from:to]}
	if err := wav.Encode(f, s, c.Format); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func (c *Clip) mono() []float64 {
	out := make([]float64, len(c.Frames))
	for i, fr := range c.Frames {
		out[i] = (fr[0] + fr[1]) / 2
	}
	return out
}

type sliceStreamer struct {
	frames [][2]float64
	pos    int
}

func (s *sliceStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.frames) {
		return 0, false
	}
	n := copy(samples, s.frames[s.pos:])
	s.pos += n
	return n, true
}

func (s *sliceStreamer) Err() error { return nil }

// Loop is a candidate splice: the clip plays [Start, End) and jumps back.
type Loop struct {
	Start int
	End   int
	// Score is the normalized autocorrelation at the loop length, 1 at a
	// perfect repeat.
	Score      float64
	SampleRate int
}

func (l Loop) StartSeconds() float64 { return float64(l.Start) / float64(l.SampleRate) }
func (l Loop) EndSeconds() float64   { return float64(l.End) / float64(l.SampleRate) }

// Scan finds the best loop of at least minSeconds. The clip must be at
// least twice that long so a full repeat fits inside it.
func Scan(c *Clip, minSeconds float64) (Loop, error) {
	sr := c.Format.SampleRate.N(time.Second)
	mono := c.mono()
	n := len(mono)
	minLag := int(minSeconds * float64(sr))
	if minLag < 1 {
		minLag = 1
	}
	if n < minLag*2 {
		return Loop{}, fmt.Errorf("clip too short: %d frames for a %d-frame minimum loop", n, minLag)
	}

	ac, err := autocorrelate(mono)
	if err != nil {
		return Loop{}, err
	}
	energy := ac[0]
	if energy <= 0 {
		return Loop{}, errors.New("clip is silent")
	}

	bestLag, bestScore := 0, math.Inf(-1)
	for lag := minLag; lag <= n/2; lag++ {
		score := ac[lag] / energy
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	// Skip the attack transient, then settle both ends on rising zero
	// crossings so the splice lands on matching waveform phases.
	start := risingZeroCrossing(mono, bestLag/4)
	end := risingZeroCrossing(mono, start+bestLag)
	if end <= start || end > n {
		start = 0
		end = bestLag
	}
	return Loop{Start: start, End: end, Score: bestScore, SampleRate: sr}, nil
}

// autocorrelate computes the (biased) autocorrelation of x via FFT,
// zero-padded to a power of two at least twice the input length.
func autocorrelate(x []float64) ([]float64, error) {
	size := 1
	for size < 2*len(x) {
		size *= 2
	}
	f, err := fft.New(size)
	if err != nil {
		return nil, fmt.Errorf("fft size %d: %w", size, err)
	}
	buf := make([]complex128, size)
	for i, v := range x {
		buf[i] = complex(v, 0)
	}
	buf = f.Transform(buf)
	for i, v := range buf {
		buf[i] = v * cmplxConj(v)
	}
	buf = f.Inverse(buf)
	out := make([]float64, len(x))
	for i := range out {
		out[i] = real(buf[i])
	}
	return out, nil
}

func cmplxConj(v complex128) complex128 {
	return complex(real(v), -imag(v))
}

// risingZeroCrossing returns the first index at or after from where the
// signal crosses from negative to non-negative. Falls back to from when no
// crossing exists.
func risingZeroCrossing(x []float64, from int) int {
	if from < 1 {
		from = 1
	}
	for i := from; i < len(x); i++ {
		if x[i-1] < 0 && x[i] >= 0 {
			return i
		}
	}
	return from
}
