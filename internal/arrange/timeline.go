package arrange

import "sync"

// Mode selects what happens when the bar counter runs past the final section.
type Mode int

const (
	// ModeRepeat wraps the bar counter so the arrangement loops forever.
	ModeRepeat Mode = iota
	// ModeTerminal holds the final bar and requests a fade-out instead.
	ModeTerminal
)

func (m Mode) String() string {
	switch m {
	case ModeRepeat:
		return "repeat"
	case ModeTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// RunState tracks progress through the end-of-arrangement sequence.
type RunState int

const (
	StatePlaying RunState = iota
	// StateTerminalFade is held while the fade request is being issued.
	StateTerminalFade
	StateFadeScheduled
	StateStopped
)

func (s RunState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateTerminalFade:
		return "terminal-fade"
	case StateFadeScheduled:
		return "fade-scheduled"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Timeline applies a playback mode to an arrangement. In repeat mode bars
// wrap modulo the total length. In terminal mode the first bar past the end
// fires the fade callback exactly once and every later bar clamps to the
// final bar, so the texture underneath the fade never changes.
type Timeline struct {
	arr    *Arrangement
	mode   Mode
	onFade func()

	mu    sync.Mutex
	state RunState
}

func NewTimeline(arr *Arrangement, mode Mode, onFade func()) *Timeline {
	return &Timeline{arr: arr, mode: mode, onFade: onFade}
}

func (t *Timeline) Arrangement() *Arrangement { return t.arr }

func (t *Timeline) Mode() Mode { return t.mode }

func (t *Timeline) State() RunState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Locate resolves a running bar counter according to the playback mode.
func (t *Timeline) Locate(bar int64) Position {
	if bar < 0 {
		bar = 0
	}
	total := t.arr.TotalBars()
	if t.mode == ModeRepeat {
		return t.arr.Resolve(bar % total)
	}
	if bar >= total {
		t.requestFade()
		bar = total - 1
	}
	return t.arr.Resolve(bar)
}

// requestFade advances Playing -> TerminalFade -> FadeScheduled, invoking
// the callback once. Later boundary crossings find the state already past
// Playing and return without side effects.
func (t *Timeline) requestFade() {
	t.mu.Lock()
	if t.state != StatePlaying {
		t.mu.Unlock()
		return
	}
	t.state = StateTerminalFade
	fade := t.onFade
	t.mu.Unlock()

	// Callback runs outside the lock so it may query State freely.
	if fade != nil {
		fade()
	}

	t.mu.Lock()
	if t.state == StateTerminalFade {
		t.state = StateFadeScheduled
	}
	t.mu.Unlock()
}

// MarkStopped records that playback has been torn down after the fade.
func (t *Timeline) MarkStopped() {
	t.mu.Lock()
	t.state = StateStopped
	t.mu.Unlock()
}
