package effects

import (
	"math"
	"testing"
)

func TestDelayEchoesAfterItsTime(t *testing.T) {
	d := NewDelay(44100, 100, 0.5, 0, 0.5)
	d.Process(1.0, 1.0)
	for i := 0; i < 4409; i++ { // ~100ms at 44100Hz
		d.Process(0, 0)
	}
	l, r := d.Process(0, 0)
	if math.Abs(float64(l)) < 0.01 || math.Abs(float64(r)) < 0.01 {
		t.Errorf("expected delayed output, got l=%f r=%f", l, r)
	}
}

func TestReverbTailRingsOut(t *testing.T) {
	r := NewReverb(44100, 0.5, 0.7, 0.5)
	r.Process(1.0, 1.0)
	var maxOut float32
	for i := 0; i < 10000; i++ {
		l, _ := r.Process(0, 0)
		if l > maxOut {
			maxOut = l
		}
	}
	if maxOut < 0.001 {
		t.Error("expected reverb tail after an impulse")
	}
}

func TestChorusStaysBounded(t *testing.T) {
	c := NewChorus(44100, 18, 0.2, 6, 0.35, 0.4)
	for i := 0; i < 20000; i++ {
		l, r := c.Process(0.5, -0.5)
		if math.Abs(float64(l)) > 2 || math.Abs(float64(r)) > 2 {
			t.Fatalf("chorus output blew up at sample %d: l=%f r=%f", i, l, r)
		}
	}
}

func TestChainAppliesEffectsInOrder(t *testing.T) {
	c := NewChain(
		NewChorus(44100, 10, 0, 2, 1, 0.5),
		NewDelay(44100, 10, 0, 0, 0.5),
	)
	l, r := c.Process(0.5, 0.5)
	if l == 0 || r == 0 {
		t.Error("chain should produce output")
	}
	c.Reset()
}

func TestCompressorReducesLoudSignal(t *testing.T) {
	c := NewCompressor(44100, -10, 4, 1, 50, 0)
	var out float32
	for i := 0; i < 1000; i++ {
		out, _ = c.Process(1.0, 1.0)
	}
	if out >= 1.0 {
		t.Errorf("compressor should reduce loud signals, got %f", out)
	}
}

func TestCompressorPassesQuietSignal(t *testing.T) {
	c := NewCompressor(44100, -10, 4, 1, 50, 0)
	var out float32
	for i := 0; i < 1000; i++ {
		out, _ = c.Process(0.05, 0.05)
	}
	if math.Abs(float64(out)-0.05) > 0.005 {
		t.Errorf("signal under threshold should pass untouched, got %f", out)
	}
}
