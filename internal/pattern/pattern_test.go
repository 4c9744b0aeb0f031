package pattern

import "testing"

func TestTableSlotIndex(t *testing.T) {
	tbl := NewTable("test",
		Event{Step: 0, Role: RoleKick, Velocity: 1},
		Event{Step: 4, Role: RoleKick, Velocity: 0.5},
		Event{Step: 4, Role: RoleHat, Velocity: 0.3},
	)
	if got := tbl.At(0); len(got) != 1 || got[0].Role != RoleKick {
		t.Fatalf("slot 0: unexpected events %#v", got)
	}
	got := tbl.At(4)
	if len(got) != 2 {
		t.Fatalf("slot 4: expected 2 events, got %d", len(got))
	}
	if got[0].Role != RoleKick || got[1].Role != RoleHat {
		t.Fatalf("slot 4: declaration order not preserved: %#v", got)
	}
	if tbl.At(7) != nil {
		t.Fatalf("slot 7: expected no events")
	}
}

func TestTableFoldsOutOfRangeSteps(t *testing.T) {
	tbl := NewTable("test",
		Event{Step: 16, Role: RoleKick, Velocity: 1},
		Event{Step: -1, Role: RoleHat, Velocity: 1},
	)
	if got := tbl.At(0); len(got) != 1 || got[0].Role != RoleKick {
		t.Fatalf("step 16 should fold to slot 0, got %#v", got)
	}
	if got := tbl.At(15); len(got) != 1 || got[0].Role != RoleHat {
		t.Fatalf("step -1 should fold to slot 15, got %#v", got)
	}
}

func TestTableAtRejectsInvalidSlot(t *testing.T) {
	tbl := NewTable("test", Event{Step: 0, Role: RoleKick})
	if tbl.At(-1) != nil || tbl.At(16) != nil {
		t.Fatalf("out-of-range slots must return nil")
	}
}

func TestDefaultLibraryHoldsBuiltins(t *testing.T) {
	lib := Default()
	for _, name := range []string{
		KickFour, KickSparse,
		HatOffbeat, HatSixteen, HatWhisper,
		BassRoots, BassPulse, BassDrone,
		LeadArc, LeadCall, LeadDrift,
		PadSwell, PadPulse,
		SparkleGlints, SparkleCascade,
	} {
		if _, ok := lib.Get(name); !ok {
			t.Fatalf("builtin %q missing from default library", name)
		}
	}
}

func TestBuiltinStepsCoverOneBar(t *testing.T) {
	lib := Default()
	for _, name := range lib.Names() {
		tbl, _ := lib.Get(name)
		for _, ev := range tbl.Events {
			if ev.Step < 0 || ev.Step > 15 {
				t.Fatalf("%s: step %d out of range", name, ev.Step)
			}
			if ev.Velocity <= 0 || ev.Velocity > 1 {
				t.Fatalf("%s: velocity %v out of range", name, ev.Velocity)
			}
			if ev.Sixteenths <= 0 {
				t.Fatalf("%s: non-positive duration", name)
			}
		}
	}
}

func TestRegisterOverridesBuiltin(t *testing.T) {
	lib := Default()
	custom := NewTable(KickFour, Event{Step: 2, Role: RoleKick, Sixteenths: 1, Velocity: 1})
	lib.Register(custom)
	got, ok := lib.Get(KickFour)
	if !ok || len(got.Events) != 1 || got.Events[0].Step != 2 {
		t.Fatalf("expected override to win, got %#v", got)
	}
}
