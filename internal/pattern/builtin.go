package pattern

// Built-in table names, grouped by role.
const (
	KickFour   = "kick.four"
	KickSparse = "kick.sparse"

	HatOffbeat = "hat.offbeat"
	HatSixteen = "hat.sixteen"
	HatWhisper = "hat.whisper"

	BassRoots = "bass.roots"
	BassPulse = "bass.pulse"
	BassDrone = "bass.drone"

	LeadArc   = "lead.arc"
	LeadCall  = "lead.call"
	LeadDrift = "lead.drift"

	PadSwell = "pad.swell"
	PadPulse = "pad.pulse"

	SparkleGlints  = "sparkle.glints"
	SparkleCascade = "sparkle.cascade"
)

// Default returns a library holding the built-in tables.
func Default() *Library {
	l := NewLibrary()
	for _, t := range builtins() {
		l.Register(t)
	}
	return l
}

func builtins() []*Table {
	return []*Table{
		NewTable(KickFour,
			Event{Step: 0, Role: RoleKick, Sixteenths: 1, Velocity: 1.0},
			Event{Step: 4, Role: RoleKick, Sixteenths: 1, Velocity: 0.9},
			Event{Step: 8, Role: RoleKick, Sixteenths: 1, Velocity: 0.95},
			Event{Step: 12, Role: RoleKick, Sixteenths: 1, Velocity: 0.9},
		),
		NewTable(KickSparse,
			Event{Step: 0, Role: RoleKick, Sixteenths: 1, Velocity: 1.0},
			Event{Step: 8, Role: RoleKick, Sixteenths: 1, Velocity: 0.8},
		),

		NewTable(HatOffbeat,
			Event{Step: 2, Role: RoleHat, Sixteenths: 1, Velocity: 0.6, Humanize: true},
			Event{Step: 6, Role: RoleHat, Sixteenths: 1, Velocity: 0.5, Humanize: true},
			Event{Step: 10, Role: RoleHat, Sixteenths: 1, Velocity: 0.6, Humanize: true},
			Event{Step: 14, Role: RoleHat, Sixteenths: 1, Velocity: 0.5, Humanize: true},
		),
		NewTable(HatSixteen,
			Event{Step: 0, Role: RoleHat, Sixteenths: 1, Velocity: 0.35},
			Event{Step: 2, Role: RoleHat, Sixteenths: 1, Velocity: 0.55, Humanize: true},
			Event{Step: 4, Role: RoleHat, Sixteenths: 1, Velocity: 0.35},
			Event{Step: 6, Role: RoleHat, Sixteenths: 1, Velocity: 0.55, Humanize: true},
			Event{Step: 8, Role: RoleHat, Sixteenths: 1, Velocity: 0.35},
			Event{Step: 10, Role: RoleHat, Sixteenths: 1, Velocity: 0.55, Humanize: true},
			Event{Step: 12, Role: RoleHat, Sixteenths: 1, Velocity: 0.35},
			Event{Step: 14, Role: RoleHat, Sixteenths: 1, Velocity: 0.6, Humanize: true},
		),
		NewTable(HatWhisper,
			Event{Step: 2, Role: RoleHat, Sixteenths: 1, Velocity: 0.3, Humanize: true},
			Event{Step: 10, Role: RoleHat, Sixteenths: 1, Velocity: 0.3, Humanize: true},
		),

		NewTable(BassRoots,
			Event{Step: 0, Role: RoleBass, Sixteenths: 7, Velocity: 0.9, Pitch: Pitch{Kind: PitchRoot}},
			Event{Step: 8, Role: RoleBass, Sixteenths: 7, Velocity: 0.8, Pitch: Pitch{Kind: PitchFifth}},
		),
		NewTable(BassPulse,
			Event{Step: 0, Role: RoleBass, Sixteenths: 3, Velocity: 0.9, Pitch: Pitch{Kind: PitchRoot}, Humanize: true},
			Event{Step: 4, Role: RoleBass, Sixteenths: 3, Velocity: 0.75, Pitch: Pitch{Kind: PitchRoot}, Humanize: true},
			Event{Step: 8, Role: RoleBass, Sixteenths: 3, Velocity: 0.85, Pitch: Pitch{Kind: PitchOctave}, Humanize: true},
			Event{Step: 12, Role: RoleBass, Sixteenths: 3, Velocity: 0.75, Pitch: Pitch{Kind: PitchFifth}, Humanize: true},
		),
		NewTable(BassDrone,
			Event{Step: 0, Role: RoleBass, Sixteenths: 16, Velocity: 0.85, Pitch: Pitch{Kind: PitchRoot}},
		),

		NewTable(LeadArc,
			Event{Step: 0, Role: RoleLead, Sixteenths: 2, Velocity: 0.7, Pitch: Pitch{Kind: PitchDegree, Degree: 0}, Humanize: true},
			Event{Step: 3, Role: RoleLead, Sixteenths: 2, Velocity: 0.6, Pitch: Pitch{Kind: PitchDegree, Degree: 2}, Humanize: true},
			Event{Step: 6, Role: RoleLead, Sixteenths: 3, Velocity: 0.75, Pitch: Pitch{Kind: PitchDegree, Degree: 4}, Humanize: true},
			Event{Step: 10, Role: RoleLead, Sixteenths: 2, Velocity: 0.6, Pitch: Pitch{Kind: PitchDegree, Degree: 3}, Humanize: true},
			Event{Step: 12, Role: RoleLead, Sixteenths: 4, Velocity: 0.65, Pitch: Pitch{Kind: PitchDegree, Degree: 1}, Humanize: true},
		),
		NewTable(LeadCall,
			Event{Step: 2, Role: RoleLead, Sixteenths: 3, Velocity: 0.7, Pitch: Pitch{Kind: PitchDegree, Degree: 4}, Humanize: true},
			Event{Step: 7, Role: RoleLead, Sixteenths: 2, Velocity: 0.6, Pitch: Pitch{Kind: PitchDegree, Degree: 5}, Humanize: true},
			Event{Step: 11, Role: RoleLead, Sixteenths: 4, Velocity: 0.65, Pitch: Pitch{Kind: PitchDegree, Degree: 2}, Humanize: true},
		),
		NewTable(LeadDrift,
			Event{Step: 0, Role: RoleLead, Sixteenths: 8, Velocity: 0.5, Pitch: Pitch{Kind: PitchDegree, Degree: 0}, Humanize: true},
			Event{Step: 8, Role: RoleLead, Sixteenths: 8, Velocity: 0.45, Pitch: Pitch{Kind: PitchDegree, Degree: 4}, Humanize: true},
		),

		NewTable(PadSwell,
			Event{Step: 0, Role: RolePad, Sixteenths: 16, Velocity: 0.8, Pitch: Pitch{Kind: PitchVoicing}},
		),
		NewTable(PadPulse,
			Event{Step: 0, Role: RolePad, Sixteenths: 8, Velocity: 0.75, Pitch: Pitch{Kind: PitchVoicing}},
			Event{Step: 8, Role: RolePad, Sixteenths: 8, Velocity: 0.6, Pitch: Pitch{Kind: PitchVoicing}},
		),

		NewTable(SparkleGlints,
			Event{Step: 4, Role: RoleSparkle, Sixteenths: 1, Velocity: 0.5, Pitch: Pitch{Kind: PitchDegree, Degree: 0, Octaves: 1}, Humanize: true},
			Event{Step: 12, Role: RoleSparkle, Sixteenths: 1, Velocity: 0.45, Pitch: Pitch{Kind: PitchDegree, Degree: 2, Octaves: 1}, Humanize: true},
		),
		NewTable(SparkleCascade,
			Event{Step: 2, Role: RoleSparkle, Sixteenths: 1, Velocity: 0.4, Pitch: Pitch{Kind: PitchDegree, Degree: 4}, Humanize: true},
			Event{Step: 6, Role: RoleSparkle, Sixteenths: 1, Velocity: 0.35, Pitch: Pitch{Kind: PitchDegree, Degree: 2, Octaves: 1}, Humanize: true},
			Event{Step: 10, Role: RoleSparkle, Sixteenths: 1, Velocity: 0.4, Pitch: Pitch{Kind: PitchDegree, Degree: 0, Octaves: 1}, Humanize: true},
			Event{Step: 14, Role: RoleSparkle, Sixteenths: 1, Velocity: 0.35, Pitch: Pitch{Kind: PitchDegree, Degree: 3}, Humanize: true},
		),
	}
}
