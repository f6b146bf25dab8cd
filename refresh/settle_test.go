package refresh

import (
	"math"
	"testing"
)

func TestSettlerConvergesToRest(t *testing.T) {
	s := NewSettler()
	cmd := s.Release(100)
	if cmd == nil {
		t.Fatal("release should schedule the first frame")
	}
	if !s.Active() {
		t.Fatal("settler inactive after release")
	}

	prev := math.Abs(s.Offset())
	for i := 0; i < 1000 && s.Active(); i++ {
		offset, next, ok := s.Step(SettleMsg{ID: s.id})
		if !ok {
			t.Fatal("frame for the current animation was rejected")
		}
		if next == nil {
			if offset != 0 {
				t.Errorf("final offset = %v, want 0", offset)
			}
			break
		}
		// The damped spring never overshoots outward.
		if math.Abs(offset) > prev+settleRestBand {
			t.Fatalf("offset diverged: %v after %v", offset, prev)
		}
		prev = math.Abs(offset)
	}
	if s.Active() {
		t.Error("settler did not come to rest within 1000 frames")
	}
}

func TestSettlerIgnoresSupersededFrames(t *testing.T) {
	s := NewSettler()
	s.Release(100)
	stale := SettleMsg{ID: s.id}

	s.Release(40) // supersedes the first animation
	if _, _, ok := s.Step(stale); ok {
		t.Error("frame from a superseded animation was applied")
	}
	if _, _, ok := s.Step(SettleMsg{ID: s.id}); !ok {
		t.Error("frame from the current animation was rejected")
	}
}

func TestSettlerNudgeStacksAgainstSpring(t *testing.T) {
	s := NewSettler()
	s.Release(50)
	s.Step(SettleMsg{ID: s.id})

	before := s.Offset()
	s.Nudge(30)
	if got := s.Offset(); got != before+30 {
		t.Errorf("Offset() = %v, want %v", got, before+30)
	}
}

func TestSettlerCancelStopsAnimation(t *testing.T) {
	s := NewSettler()
	s.Release(100)
	pending := SettleMsg{ID: s.id}

	s.Cancel()
	if s.Active() {
		t.Error("settler active after cancel")
	}
	if _, _, ok := s.Step(pending); ok {
		t.Error("frame applied after cancel")
	}
}
