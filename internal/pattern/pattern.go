// Package pattern holds the declarative sixteenth-step tables the director
// reads musical material from. Tables are plain data: which slot fires,
// which role it belongs to, how long and how loud, and how the pitch is
// chosen from the active chord.
package pattern

import "sync"

// Role names one instrumental layer of the performance.
type Role string

const (
	RoleKick    Role = "kick"
	RoleHat     Role = "hat"
	RoleBass    Role = "bass"
	RoleLead    Role = "lead"
	RolePad     Role = "pad"
	RoleSparkle Role = "sparkle"
)

// Roles is the canonical iteration order. The director walks roles in this
// order so a seeded run always consumes randomness in the same sequence.
var Roles = []Role{RoleKick, RoleHat, RoleBass, RoleLead, RolePad, RoleSparkle}

// PitchKind selects how an event's pitch is resolved against the active
// chord. The zero value means the event is unpitched (drums).
type PitchKind int

const (
	PitchNone PitchKind = iota
	PitchRoot
	PitchFifth
	PitchOctave
	// PitchDegree indexes the chord's note list for the event's role.
	// Out-of-range degrees wrap modulo the list length.
	PitchDegree
	// PitchVoicing fires every note of the chord's voicing at once.
	PitchVoicing
)

// Pitch is the pitch-selection rule declared on an event.
type Pitch struct {
	Kind      PitchKind
	Degree    int
	Octaves   int // additional shift in octaves
	Semitones int // additional shift in semitones
}

// Event is one trigger template within a table.
type Event struct {
	Step       int     // sixteenth slot 0-15
	Role       Role
	Sixteenths float64 // duration in sixteenth units
	Velocity   float64 // 0-1 base velocity before live modulation
	Pitch      Pitch
	Humanize   bool // allow a small timing jitter on this event
}

const slotsPerBar = 16

// Table is a named set of events with a per-slot index.
type Table struct {
	Name   string
	Events []Event

	bySlot [slotsPerBar][]Event
}

// NewTable builds a table and its slot index. Steps outside 0-15 are folded
// back into range rather than rejected.
func NewTable(name string, events ...Event) *Table {
	t := &Table{Name: name, Events: events}
	for _, ev := range events {
		slot := ev.Step % slotsPerBar
		if slot < 0 {
			slot += slotsPerBar
		}
		ev.Step = slot
		t.bySlot[slot] = append(t.bySlot[slot], ev)
	}
	return t
}

// At returns the events declared for one slot, in declaration order.
func (t *Table) At(slot int) []Event {
	if slot < 0 || slot >= slotsPerBar {
		return nil
	}
	return t.bySlot[slot]
}

// Library is an instance-owned table registry. Built-ins live in the
// default library; callers may register their own tables over them.
type Library struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewLibrary() *Library {
	return &Library{tables: make(map[string]*Table)}
}

func (l *Library) Register(t *Table) {
	l.mu.Lock()
	l.tables[t.Name] = t
	l.mu.Unlock()
}

func (l *Library) Get(name string) (*Table, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.tables[name]
	return t, ok
}

func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.tables))
	for name := range l.tables {
		names = append(names, name)
	}
	return names
}
