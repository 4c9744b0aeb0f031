package arrange

import "github.com/davidgilbertson/beatparakeet/internal/pattern"

// DefaultArrangement is a 168-bar arc: a sparse dawn building through a full
// peak and easing back out. Section lengths are 16/32/32/16/32/24/16.
func DefaultArrangement() *Arrangement {
	a, err := New(
		Section{
			Name:       "dawn",
			LengthBars: 16,
			Intensity: map[pattern.Role]float64{
				pattern.RolePad:     0.7,
				pattern.RoleHat:     0.25,
				pattern.RoleSparkle: 0.4,
			},
			Patterns: map[pattern.Role]string{
				pattern.RolePad:     pattern.PadSwell,
				pattern.RoleHat:     pattern.HatWhisper,
				pattern.RoleSparkle: pattern.SparkleGlints,
			},
			SparkleProb: 0.10,
		},
		Section{
			Name:       "rise",
			LengthBars: 32,
			Intensity: map[pattern.Role]float64{
				pattern.RolePad:     0.8,
				pattern.RoleBass:    0.7,
				pattern.RoleKick:    0.5,
				pattern.RoleHat:     0.4,
				pattern.RoleSparkle: 0.5,
			},
			Patterns: map[pattern.Role]string{
				pattern.RolePad:     pattern.PadSwell,
				pattern.RoleBass:    pattern.BassDrone,
				pattern.RoleKick:    pattern.KickSparse,
				pattern.RoleHat:     pattern.HatOffbeat,
				pattern.RoleSparkle: pattern.SparkleGlints,
			},
			SparkleProb: 0.15,
		},
		Section{
			Name:       "bloom",
			LengthBars: 32,
			Intensity: map[pattern.Role]float64{
				pattern.RolePad:     0.85,
				pattern.RoleBass:    0.8,
				pattern.RoleKick:    0.7,
				pattern.RoleHat:     0.55,
				pattern.RoleLead:    0.7,
				pattern.RoleSparkle: 0.5,
			},
			Patterns: map[pattern.Role]string{
				pattern.RolePad:     pattern.PadPulse,
				pattern.RoleBass:    pattern.BassRoots,
				pattern.RoleKick:    pattern.KickSparse,
				pattern.RoleHat:     pattern.HatOffbeat,
				pattern.RoleLead:    pattern.LeadDrift,
				pattern.RoleSparkle: pattern.SparkleGlints,
			},
			SparkleProb: 0.20,
		},
		Section{
			Name:       "hollow",
			LengthBars: 16,
			Intensity: map[pattern.Role]float64{
				pattern.RolePad:     0.75,
				pattern.RoleBass:    0.6,
				pattern.RoleHat:     0.3,
				pattern.RoleLead:    0.5,
				pattern.RoleSparkle: 0.55,
			},
			Patterns: map[pattern.Role]string{
				pattern.RolePad:     pattern.PadSwell,
				pattern.RoleBass:    pattern.BassDrone,
				pattern.RoleHat:     pattern.HatWhisper,
				pattern.RoleLead:    pattern.LeadCall,
				pattern.RoleSparkle: pattern.SparkleCascade,
			},
			SparkleProb: 0.30,
		},
		Section{
			Name:       "peak",
			LengthBars: 32,
			Intensity: map[pattern.Role]float64{
				pattern.RolePad:     0.9,
				pattern.RoleBass:    0.9,
				pattern.RoleKick:    1.0,
				pattern.RoleHat:     0.7,
				pattern.RoleLead:    0.85,
				pattern.RoleSparkle: 0.6,
			},
			Patterns: map[pattern.Role]string{
				pattern.RolePad:     pattern.PadPulse,
				pattern.RoleBass:    pattern.BassPulse,
				pattern.RoleKick:    pattern.KickFour,
				pattern.RoleHat:     pattern.HatSixteen,
				pattern.RoleLead:    pattern.LeadArc,
				pattern.RoleSparkle: pattern.SparkleCascade,
			},
			SparkleProb: 0.25,
		},
		Section{
			Name:       "dusk",
			LengthBars: 24,
			Intensity: map[pattern.Role]float64{
				pattern.RolePad:     0.85,
				pattern.RoleBass:    0.75,
				pattern.RoleKick:    0.55,
				pattern.RoleHat:     0.45,
				pattern.RoleLead:    0.6,
				pattern.RoleSparkle: 0.5,
			},
			Patterns: map[pattern.Role]string{
				pattern.RolePad:     pattern.PadSwell,
				pattern.RoleBass:    pattern.BassRoots,
				pattern.RoleKick:    pattern.KickSparse,
				pattern.RoleHat:     pattern.HatOffbeat,
				pattern.RoleLead:    pattern.LeadCall,
				pattern.RoleSparkle: pattern.SparkleGlints,
			},
			SparkleProb: 0.20,
		},
		Section{
			Name:       "afterglow",
			LengthBars: 16,
			Intensity: map[pattern.Role]float64{
				pattern.RolePad:     0.7,
				pattern.RoleBass:    0.5,
				pattern.RoleLead:    0.4,
				pattern.RoleSparkle: 0.45,
			},
			Patterns: map[pattern.Role]string{
				pattern.RolePad:     pattern.PadSwell,
				pattern.RoleBass:    pattern.BassDrone,
				pattern.RoleLead:    pattern.LeadDrift,
				pattern.RoleSparkle: pattern.SparkleGlints,
			},
			SparkleProb: 0.15,
		},
	)
	if err != nil {
		// Section lengths above are all positive; New cannot fail.
		panic(err)
	}
	return a
}
