// Package harmony maps pattern pitch rules onto chords, and cycles chords
// through progressions drawn from a pool.
package harmony

import (
	"strconv"
	"strings"

	"github.com/davidgilbertson/beatparakeet/internal/pattern"
)

// DefaultNote is the fallback for unparsable note names, a low A.
const DefaultNote = 45

var letterOffsets = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// Note converts a name like "A2", "C#4" or "Eb3" to a MIDI note number.
// A malformed name resolves to DefaultNote, so a typo in a chord table
// degrades to a wrong pitch rather than a dead layer.
func Note(name string) int {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return DefaultNote
	}
	semi, ok := letterOffsets[strings.ToUpper(s[:1])]
	if !ok {
		return DefaultNote
	}
	i := 1
	for i < len(s) && (s[i] == '#' || s[i] == 'b') {
		if s[i] == '#' {
			semi++
		} else {
			semi--
		}
		i++
	}
	oct, err := strconv.Atoi(s[i:])
	if err != nil {
		return DefaultNote
	}
	n := (oct+1)*12 + semi
	if n < 0 || n > 127 {
		return DefaultNote
	}
	return n
}

// Chord couples a bass root with a mid-register voicing. Degree selections
// index Notes and wrap modulo its length, so patterns written for a five
// note voicing still work against a triad.
type Chord struct {
	Name  string
	Root  int   // bass root, MIDI
	Notes []int // voicing low to high, MIDI
}

// Pitch resolves a pitch rule to concrete MIDI notes. PitchVoicing yields
// the whole voicing; every other kind yields a single note. A chord with no
// voicing falls back to its root instead of failing.
func (c Chord) Pitch(sel pattern.Pitch) []int {
	shift := sel.Octaves*12 + sel.Semitones
	switch sel.Kind {
	case pattern.PitchRoot:
		return []int{c.Root + shift}
	case pattern.PitchFifth:
		return []int{c.Root + 7 + shift}
	case pattern.PitchOctave:
		return []int{c.Root + 12 + shift}
	case pattern.PitchDegree:
		if len(c.Notes) == 0 {
			return []int{c.Root + shift}
		}
		d := sel.Degree % len(c.Notes)
		if d < 0 {
			d += len(c.Notes)
		}
		return []int{c.Notes[d] + shift}
	case pattern.PitchVoicing:
		if len(c.Notes) == 0 {
			return []int{c.Root + 12 + shift}
		}
		out := make([]int, len(c.Notes))
		for i, n := range c.Notes {
			out[i] = n + shift
		}
		return out
	default:
		return nil
	}
}
