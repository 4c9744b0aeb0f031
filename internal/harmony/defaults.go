package harmony

import "math/rand"

// SwitchEveryBars is the default progression-switch cadence.
const SwitchEveryBars = 32

func chord(name, root string, voicing ...string) Chord {
	c := Chord{Name: name, Root: Note(root), Notes: make([]int, len(voicing))}
	for i, v := range voicing {
		c.Notes[i] = Note(v)
	}
	return c
}

// DefaultProgressions returns the built-in harmonic pools, eight chords
// each, all living around A minor so a mid-run switch stays consonant.
func DefaultProgressions() []Progression {
	am9 := chord("Am9", "A2", "A3", "C4", "E4", "G4", "B4")
	am7 := chord("Am7", "A2", "A3", "C4", "E4", "G4")
	fmaj9 := chord("Fmaj9", "F2", "F3", "A3", "C4", "E4", "G4")
	fmaj7 := chord("Fmaj7", "F2", "F3", "A3", "C4", "E4")
	cmaj9 := chord("Cmaj9", "C2", "G3", "B3", "D4", "E4")
	g6 := chord("G6", "G2", "D4", "E4", "G4", "B4")
	dm9 := chord("Dm9", "D2", "F3", "A3", "C4", "E4")
	em7 := chord("Em7", "E2", "E3", "G3", "B3", "D4")
	esus4 := chord("Esus4", "E2", "E3", "A3", "B3", "D4")

	return []Progression{
		{
			Name:   "amber",
			Chords: []Chord{am9, fmaj9, cmaj9, g6, am9, fmaj9, dm9, esus4},
		},
		{
			Name:   "slate",
			Chords: []Chord{dm9, g6, am7, fmaj7, dm9, em7, fmaj7, g6},
		},
		{
			Name:   "violet",
			Chords: []Chord{fmaj9, am7, g6, cmaj9, fmaj9, em7, am7, esus4},
		},
	}
}

// DefaultPool wraps the built-in progressions in a pool on the default
// switch cadence.
func DefaultPool(rng *rand.Rand) *Pool {
	return NewPool(rng, SwitchEveryBars, DefaultProgressions()...)
}
