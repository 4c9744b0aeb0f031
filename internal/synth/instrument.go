package synth

import (
	"math"
	"math/rand"
	"sync"
)

// Instrument is a pre-rendered mono hit at unity peak. Drum roles play
// these; tonal roles synthesize live and never touch the set.
type Instrument struct {
	Name    string
	Samples []float64
}

// InstrumentSet owns the drum buffers and their normalization gains. It is
// an instance-owned cache, not a process-wide one, so engines stay
// independent and testable. Loading is asynchronous: a Lookup before Warm
// finishes simply reports not-ready and the caller skips the trigger.
type InstrumentSet struct {
	sampleRate float64

	mu    sync.RWMutex
	insts map[string]*Instrument
	// gains caches the normalization gain per instrument name, so an
	// instrument re-rendered under the same name keeps its loudness.
	gains map[string]float64

	warmOnce sync.Once
	ready    chan struct{}
}

func NewInstrumentSet(sampleRate int) *InstrumentSet {
	return &InstrumentSet{
		sampleRate: float64(sampleRate),
		insts:      make(map[string]*Instrument),
		gains:      make(map[string]float64),
		ready:      make(chan struct{}),
	}
}

// Warm renders the built-in drum kit on a background goroutine. Safe to
// call more than once.
func (s *InstrumentSet) Warm() {
	s.warmOnce.Do(func() {
		go func() {
			s.Register("kick", renderKick(s.sampleRate))
			s.Register("hat", renderHat(s.sampleRate))
			close(s.ready)
		}()
	})
}

// WaitReady blocks until the built-ins are loaded. Offline rendering calls
// this so a bounce never starts with silent drums.
func (s *InstrumentSet) WaitReady() {
	s.Warm()
	<-s.ready
}

// Lookup returns the named instrument, or ok=false while it is pending.
func (s *InstrumentSet) Lookup(name string) (*Instrument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.insts[name]
	return inst, ok
}

// Register normalizes the buffer and stores it under the name. The gain is
// computed once per name and reused on re-registration.
func (s *InstrumentSet) Register(name string, samples []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gain, ok := s.gains[name]
	if !ok {
		gain = normalizationGain(samples)
		s.gains[name] = gain
	}
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = v * gain
	}
	s.insts[name] = &Instrument{Name: name, Samples: out}
}

const normalizeTarget = 0.9

func normalizationGain(samples []float64) float64 {
	var peak float64
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return 1
	}
	return normalizeTarget / peak
}

// Drum rendering. The noise source is seeded so two engines built in the
// same process produce identical buffers; offline bounces depend on that.

func renderKick(sr float64) []float64 {
	n := int(0.35 * sr)
	buf := make([]float64, n)
	phase := 0.0
	for i := range buf {
		t := float64(i) / sr
		// Pitch sweep 110 Hz down to 42 Hz over the first ~120 ms.
		freq := 42 + 68*math.Exp(-t/0.045)
		phase += 2 * math.Pi * freq / sr
		buf[i] = math.Sin(phase) * math.Exp(-t/0.11)
	}
	// Short click on top for attack definition.
	click := int(0.004 * sr)
	for i := 0; i < click && i < n; i++ {
		buf[i] += (1 - float64(i)/float64(click)) * 0.4
	}
	return buf
}

func renderHat(sr float64) []float64 {
	rng := rand.New(rand.NewSource(0x9e3779b9))
	n := int(0.12 * sr)
	buf := make([]float64, n)
	prev := 0.0
	for i := range buf {
		t := float64(i) / sr
		white := rng.Float64()*2 - 1
		// One-pole highpass keeps only the sizzle.
		hp := white - prev
		prev = white
		buf[i] = hp * math.Exp(-t/0.025)
	}
	return buf
}
