package harmony

import "math/rand"

// Progression is a repeating cycle of chords. The chord for a bar is
// Chords[bar mod len], deliberately independent of section boundaries, so
// the harmonic and structural cycles drift in and out of phase over a run.
type Progression struct {
	Name   string
	Chords []Chord
}

// At returns the chord for a bar. An empty progression yields a bare chord
// on the default root so callers never branch on emptiness.
func (p Progression) At(bar int64) Chord {
	if len(p.Chords) == 0 {
		return Chord{Name: "-", Root: DefaultNote, Notes: []int{DefaultNote + 12}}
	}
	i := bar % int64(len(p.Chords))
	if i < 0 {
		i += int64(len(p.Chords))
	}
	return p.Chords[i]
}

func (p Progression) Len() int { return len(p.Chords) }

// Pool cycles between candidate progressions on a fixed bar cadence. It is
// only ever touched from the scheduler tick, so it carries no lock.
type Pool struct {
	rng     *rand.Rand
	entries []Progression
	current int
	every   int64
	lastBar int64
}

// NewPool builds a pool that switches progressions every `every` bars.
// A non-positive cadence falls back to 32 bars.
func NewPool(rng *rand.Rand, every int64, entries ...Progression) *Pool {
	if every <= 0 {
		every = 32
	}
	if len(entries) == 0 {
		entries = []Progression{{Name: "-"}}
	}
	return &Pool{rng: rng, entries: entries, every: every, lastBar: -1}
}

// Current returns the active progression.
func (p *Pool) Current() Progression { return p.entries[p.current] }

// Observe notes a bar boundary and switches progressions when the bar sits
// on the cadence. Returns true when the active progression changed.
func (p *Pool) Observe(bar int64) bool {
	if bar <= 0 || bar%p.every != 0 || bar == p.lastBar {
		return false
	}
	p.lastBar = bar
	return p.advance()
}

// advance draws a new entry uniformly. On drawing the current entry it
// redraws from the remaining N-1 instead of retrying, so a switch never
// repeats the previous choice and never loops.
func (p *Pool) advance() bool {
	n := len(p.entries)
	if n < 2 {
		return false
	}
	next := p.rng.Intn(n)
	if next == p.current {
		next = p.rng.Intn(n - 1)
		if next >= p.current {
			next++
		}
	}
	p.current = next
	return true
}
