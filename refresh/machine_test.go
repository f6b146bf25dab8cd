package refresh

import (
	"context"
	"errors"
	"testing"
	"time"
)

func topGeom(offset float64) Geometry {
	return Geometry{MovingTop: offset, FixedTop: 0}
}

func bottomGeom(offset, contentH, viewportH float64) Geometry {
	return Geometry{MovingTop: offset, FixedTop: 0, ContentHeight: contentH, ViewportHeight: viewportH}
}

// countNotifier records arm acknowledgements per edge.
type countNotifier struct {
	primed map[Edge]int
}

func newCountNotifier() *countNotifier {
	return &countNotifier{primed: make(map[Edge]int)}
}

func (n *countNotifier) Primed(edge Edge) {
	n.primed[edge]++
}

func TestMachineNeverFiresBelowThreshold(t *testing.T) {
	m := newMachine(EdgeTop, 68)
	calls := 0
	m.action = func(ctx context.Context) error { calls++; return nil }

	for _, off := range []float64{0, 10, 40, 67, 68, 50, 0, 67.9} {
		if cmd := m.observe(topGeom(off)); cmd != nil {
			t.Fatalf("offset %v produced a command", off)
		}
		if m.state != StateNormal {
			t.Fatalf("offset %v moved state to %v", off, m.state)
		}
	}
	if calls != 0 {
		t.Errorf("action called %d times, want 0", calls)
	}
}

func TestMachineArmAndFireOnce(t *testing.T) {
	m := newMachine(EdgeTop, 68)
	notifier := newCountNotifier()
	m.notifier = notifier
	calls := 0
	m.action = func(ctx context.Context) error { calls++; return nil }

	if cmd := m.observe(topGeom(80)); cmd != nil {
		t.Fatal("arming should not produce a command")
	}
	if m.state != StatePrimed {
		t.Fatalf("state = %v, want primed", m.state)
	}
	if notifier.primed[EdgeTop] != 1 {
		t.Errorf("notifier fired %d times on arm, want 1", notifier.primed[EdgeTop])
	}

	// Staying past the threshold keeps the session primed.
	m.observe(topGeom(90))
	if m.state != StatePrimed {
		t.Fatalf("state = %v, want primed", m.state)
	}
	if notifier.primed[EdgeTop] != 1 {
		t.Errorf("notifier fired again while already primed")
	}

	cmd := m.observe(topGeom(60))
	if cmd == nil {
		t.Fatal("release below threshold should fire the action")
	}
	if m.state != StateLoading {
		t.Fatalf("state = %v, want loading", m.state)
	}

	msg, ok := cmd().(refreshDoneMsg)
	if !ok {
		t.Fatalf("fire command returned %T, want refreshDoneMsg", cmd())
	}
	if msg.Err != nil {
		t.Errorf("action error = %v, want nil", msg.Err)
	}
	if calls != 1 {
		t.Errorf("action called %d times, want 1", calls)
	}
}

func TestMachineIgnoresOffsetWhileLoading(t *testing.T) {
	m := newMachine(EdgeTop, 68)
	calls := 0
	m.action = func(ctx context.Context) error { calls++; return nil }

	m.observe(topGeom(80))
	cmd := m.observe(topGeom(0))
	cmd() // resolve the first action

	// Re-cross and release while still loading: no second action.
	for _, off := range []float64{90, 120, 10, 80, 0} {
		if extra := m.observe(topGeom(off)); extra != nil {
			t.Fatalf("offset %v fired while loading", off)
		}
	}
	if m.state != StateLoading {
		t.Fatalf("state = %v, want loading", m.state)
	}
	if calls != 1 {
		t.Errorf("action called %d times, want 1", calls)
	}
}

func TestMachineSuccessPath(t *testing.T) {
	m := newMachine(EdgeTop, 68)
	m.succeededDelay = time.Millisecond
	m.action = func(ctx context.Context) error { return nil }

	m.observe(topGeom(80))
	fire := m.observe(topGeom(0))
	done := fire().(refreshDoneMsg)

	revert := m.complete(done.Gen, done.Err)
	if m.state != StateSucceeded {
		t.Fatalf("state = %v, want succeeded", m.state)
	}
	if revert == nil {
		t.Fatal("complete should schedule a reversion")
	}

	msg := revert().(revertMsg) // tea.Tick: blocks for the configured delay
	m.revert(msg.Gen)
	if m.state != StateNormal {
		t.Errorf("state after reversion = %v, want normal", m.state)
	}
}

func TestMachineFailurePath(t *testing.T) {
	m := newMachine(EdgeTop, 68)
	m.failedDelay = time.Millisecond
	actionErr := errors.New("feed unavailable")
	m.action = func(ctx context.Context) error { return actionErr }

	m.observe(topGeom(80))
	fire := m.observe(topGeom(0))
	done := fire().(refreshDoneMsg)
	if !errors.Is(done.Err, actionErr) {
		t.Fatalf("done.Err = %v, want %v", done.Err, actionErr)
	}

	revert := m.complete(done.Gen, done.Err)
	if m.state != StateFailed {
		t.Fatalf("state = %v, want failed", m.state)
	}

	msg := revert().(revertMsg)
	m.revert(msg.Gen)
	if m.state != StateNormal {
		t.Errorf("state after reversion = %v, want normal", m.state)
	}
}

func TestMachineRecoversPanickingAction(t *testing.T) {
	m := newMachine(EdgeTop, 68)
	m.action = func(ctx context.Context) error { panic("boom") }

	m.observe(topGeom(80))
	fire := m.observe(topGeom(0))
	done := fire().(refreshDoneMsg)
	if done.Err == nil {
		t.Fatal("panicking action should resolve as failure")
	}

	m.complete(done.Gen, done.Err)
	if m.state != StateFailed {
		t.Errorf("state = %v, want failed", m.state)
	}
}

func TestMachineDiscardsStaleCompletion(t *testing.T) {
	m := newMachine(EdgeTop, 68)
	m.action = func(ctx context.Context) error { return nil }

	m.observe(topGeom(80))
	fire := m.observe(topGeom(0))
	done := fire().(refreshDoneMsg)

	// Reset before the completion lands: a new session has started.
	m.reset()
	if cmd := m.complete(done.Gen, done.Err); cmd != nil {
		t.Fatal("stale completion scheduled a reversion")
	}
	if m.state != StateNormal {
		t.Errorf("state = %v, want normal", m.state)
	}
}

func TestMachineDiscardsStaleReversion(t *testing.T) {
	m := newMachine(EdgeTop, 68)
	m.succeededDelay = time.Millisecond
	m.action = func(ctx context.Context) error { return nil }

	m.observe(topGeom(80))
	fire := m.observe(topGeom(0))
	done := fire().(refreshDoneMsg)
	revert := m.complete(done.Gen, done.Err)
	msg := revert().(revertMsg)

	// A reset in between invalidates the pending reversion's generation.
	m.reset()
	m.observe(topGeom(80)) // new session arms again
	m.revert(msg.Gen)
	if m.state != StatePrimed {
		t.Errorf("stale reversion disturbed a fresh session: state = %v", m.state)
	}
}

func TestMachineSucceededNeverSkipsToPrimed(t *testing.T) {
	m := newMachine(EdgeTop, 68)
	m.action = func(ctx context.Context) error { return nil }

	m.observe(topGeom(80))
	fire := m.observe(topGeom(0))
	done := fire().(refreshDoneMsg)
	m.complete(done.Gen, done.Err)

	// Offset past the threshold while presenting the result: no re-arm.
	m.observe(topGeom(120))
	if m.state != StateSucceeded {
		t.Errorf("state = %v, want succeeded", m.state)
	}
}

func TestMachineInertWithoutAction(t *testing.T) {
	m := newMachine(EdgeTop, 68)

	for _, off := range []float64{0, 80, 120, 0} {
		if cmd := m.observe(topGeom(off)); cmd != nil {
			t.Fatalf("offset %v produced a command without an action", off)
		}
	}
	if m.state != StateNormal {
		t.Errorf("state = %v, want normal", m.state)
	}
}

func TestBottomMachineArmsAtHalfSlack(t *testing.T) {
	m := newMachine(EdgeBottom, 68)
	calls := 0
	m.action = func(ctx context.Context) error { calls++; return nil }

	// contentHeight=1000, viewportHeight=600: slack=400, boundary=-200.
	m.observe(bottomGeom(-100, 1000, 600))
	if m.state != StateNormal {
		t.Fatalf("state at -100 = %v, want normal", m.state)
	}

	m.observe(bottomGeom(-200, 1000, 600))
	if m.state != StatePrimed {
		t.Fatalf("state at -200 = %v, want primed", m.state)
	}

	cmd := m.observe(bottomGeom(-150, 1000, 600))
	if cmd == nil {
		t.Fatal("release back above the boundary should fire")
	}
	if m.state != StateLoading {
		t.Fatalf("state = %v, want loading", m.state)
	}
	cmd()
	if calls != 1 {
		t.Errorf("action called %d times, want 1", calls)
	}
}

func TestBottomMachineFallsBackToThresholdWithoutSlack(t *testing.T) {
	m := newMachine(EdgeBottom, 68)
	m.action = func(ctx context.Context) error { return nil }

	// Content shorter than the viewport: arm on the plain threshold.
	m.observe(bottomGeom(-40, 300, 600))
	if m.state != StateNormal {
		t.Fatalf("state at -40 = %v, want normal", m.state)
	}
	m.observe(bottomGeom(-80, 300, 600))
	if m.state != StatePrimed {
		t.Fatalf("state at -80 = %v, want primed", m.state)
	}
}
