package clock

import "testing"

func TestManualAdvance(t *testing.T) {
	m := NewManual(10.0)
	if got := m.Now(); got != 10.0 {
		t.Fatalf("expected 10.0, got %v", got)
	}
	m.Advance(0.025)
	if got := m.Now(); got != 10.025 {
		t.Fatalf("expected 10.025, got %v", got)
	}
}

func TestManualIgnoresNegativeAdvance(t *testing.T) {
	m := NewManual(5.0)
	m.Advance(-1.0)
	if got := m.Now(); got != 5.0 {
		t.Fatalf("clock moved backwards: %v", got)
	}
}

func TestSystemIsMonotonic(t *testing.T) {
	s := NewSystem()
	a := s.Now()
	b := s.Now()
	if b < a {
		t.Fatalf("system clock went backwards: %v -> %v", a, b)
	}
}
