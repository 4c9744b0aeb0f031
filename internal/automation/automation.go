// Package automation holds the live parameter snapshot shared between the
// control surface and the scheduler tick, and the automator that turns
// discrete parameter writes into smooth ramp invocations on the sink.
package automation

import (
	"math"
	"sync/atomic"
)

// Bus groups trigger roles onto a mixer channel.
type Bus int

const (
	BusDrums Bus = iota
	BusBass
	BusLead
	BusPad
	NumBuses
)

func (b Bus) String() string {
	switch b {
	case BusDrums:
		return "drums"
	case BusBass:
		return "bass"
	case BusLead:
		return "lead"
	case BusPad:
		return "pad"
	default:
		return "unknown"
	}
}

// BusFor maps a trigger role to the bus that carries it. Unknown roles land
// on the pad bus.
func BusFor(role string) Bus {
	switch role {
	case "kick", "hat":
		return BusDrums
	case "bass":
		return BusBass
	case "lead", "sparkle":
		return BusLead
	default:
		return BusPad
	}
}

// Cell is a lock-free float slot: one writer on the control surface, one
// reader on the tick. Writes are independent scalar assignments, so a plain
// atomic word is enough; no tick decision needs two cells to change
// together.
type Cell struct {
	bits atomic.Uint64
}

func (c *Cell) Store(v float64) { c.bits.Store(math.Float64bits(v)) }
func (c *Cell) Load() float64   { return math.Float64frombits(c.bits.Load()) }

// Params is the live parameter set. Range checks happen here, at the write
// boundary, so readers never re-validate.
type Params struct {
	energy Cell
	levels [NumBuses]Cell
}

func NewParams() *Params {
	p := &Params{}
	p.energy.Store(0.5)
	for b := Bus(0); b < NumBuses; b++ {
		p.levels[b].Store(1.0)
	}
	return p
}

// Energy is the global dynamics scalar in [0, 1].
func (p *Params) Energy() float64 { return p.energy.Load() }

func (p *Params) SetEnergy(v float64) { p.energy.Store(clamp(v, 0, 1)) }

// Level is the user fader for a bus, in [0, 1.5]. It scales trigger
// amplitude directly; new triggers pick the latest value up, so it needs
// no ramp of its own.
func (p *Params) Level(b Bus) float64 {
	if b < 0 || b >= NumBuses {
		return 0
	}
	return p.levels[b].Load()
}

func (p *Params) SetLevel(b Bus, v float64) {
	if b < 0 || b >= NumBuses {
		return
	}
	p.levels[b].Store(clamp(v, 0, 1.5))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
