// Package clock provides the monotonic time sources the scheduler polls.
// Times are in seconds; the zero point is whatever the source defines.
package clock

import (
	"math"
	"sync/atomic"
	"time"
)

// Clock is a monotonically non-decreasing time base in seconds.
type Clock interface {
	Now() float64
}

// Manual is a hand-advanced clock for tests and offline rendering.
// Stores beneath an atomic so the reader may live on another goroutine.
type Manual struct {
	bits atomic.Uint64
}

func NewManual(start float64) *Manual {
	m := &Manual{}
	m.Set(start)
	return m
}

func (m *Manual) Now() float64 {
	return math.Float64frombits(m.bits.Load())
}

func (m *Manual) Set(t float64) {
	m.bits.Store(math.Float64bits(t))
}

// Advance moves the clock forward by d seconds. Negative deltas are ignored
// so the clock stays monotonic.
func (m *Manual) Advance(d float64) {
	if d < 0 {
		return
	}
	m.Set(m.Now() + d)
}

// System counts wall-clock seconds since construction. Used when the engine
// runs silent, without an audio callback to derive time from.
type System struct {
	start time.Time
}

func NewSystem() *System {
	return &System{start: time.Now()}
}

func (s *System) Now() float64 {
	return time.Since(s.start).Seconds()
}
