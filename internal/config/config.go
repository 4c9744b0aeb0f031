// Package config loads and saves the performance settings: a flat YAML map
// of scalars the control surfaces persist between runs. Values are clamped
// at this boundary so the engine never re-validates.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/davidgilbertson/beatparakeet/internal/arrange"
)

// Settings holds every user-adjustable scalar.
type Settings struct {
	BPM    float64            `yaml:"bpm"`
	Swing  float64            `yaml:"swing"`
	Energy float64            `yaml:"energy"`
	Levels map[string]float64 `yaml:"levels,omitempty"`
	Mode   string             `yaml:"mode"` // "repeat" or "terminal"
	Seed   int64              `yaml:"seed"`
}

func Default() Settings {
	return Settings{
		BPM:    96,
		Swing:  0.12,
		Energy: 0.5,
		Mode:   "repeat",
		Seed:   1,
	}
}

// Load reads settings from path. A missing file is not an error: callers
// get the defaults and the file appears on the first Save.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read settings: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s.Clamped(), nil
}

// Save writes the settings to path.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s.Clamped())
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Clamped returns a copy with every scalar forced into its valid range.
func (s Settings) Clamped() Settings {
	s.BPM = clamp(s.BPM, 20, 300)
	s.Swing = clamp(s.Swing, 0, 0.75)
	s.Energy = clamp(s.Energy, 0, 1)
	if s.Mode != "terminal" {
		s.Mode = "repeat"
	}
	if s.Levels != nil {
		for k, v := range s.Levels {
			s.Levels[k] = clamp(v, 0, 1.5)
		}
	}
	return s
}

// ArrangeMode maps the mode string onto the timeline policy.
func (s Settings) ArrangeMode() arrange.Mode {
	if s.Mode == "terminal" {
		return arrange.ModeTerminal
	}
	return arrange.ModeRepeat
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
