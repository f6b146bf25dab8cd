package refresh

import "sync"

// Rect is a bounding rectangle in the shared coordinate space used by the
// host framework's layout pass.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Bottom returns the Y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Geometry is one scroll measurement snapshot. It is ephemeral: recomputed
// on every layout change and never stored beyond the current update.
type Geometry struct {
	MovingTop      float64 // top of the scrolled content
	FixedTop       float64 // top of the viewport
	ContentHeight  float64
	ViewportHeight float64
}

// Offset is the pull distance: positive when the content has been dragged
// down away from the viewport top, negative when dragged up past the bottom.
func (g Geometry) Offset() float64 {
	return g.MovingTop - g.FixedTop
}

// Slack is the scrollable distance beyond the viewport at the bottom edge.
// Zero until the content height is known and exceeds the viewport.
func (g Geometry) Slack() float64 {
	if g.ContentHeight <= 0 {
		return 0
	}
	s := g.ContentHeight - g.ViewportHeight
	if s < 0 {
		return 0
	}
	return s
}

// Tracker derives Geometry snapshots from the viewport and content bounds.
// The bounds are written by layout callbacks and read by the state machines;
// the mutex keeps that safe even under a host with threaded layout passes.
type Tracker struct {
	mu      sync.Mutex
	fixed   Rect
	moving  Rect
	hasGeom bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetViewport records the fixed reference bound (the scroll viewport).
func (t *Tracker) SetViewport(r Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fixed = r
	t.hasGeom = true
}

// SetContent records the moving bound (the scrolled content).
func (t *Tracker) SetContent(r Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.moving = r
	t.hasGeom = true
}

// Snapshot returns the current geometry. Snapshots taken from the same
// bounds are identical, so a recorded sequence can be replayed in tests.
func (t *Tracker) Snapshot() Geometry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Geometry{
		MovingTop:      t.moving.Top,
		FixedTop:       t.fixed.Top,
		ContentHeight:  t.moving.Height,
		ViewportHeight: t.fixed.Height,
	}
}

func (t *Tracker) fixedBound() Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fixed
}

// Measured reports whether any bound has been recorded yet.
func (t *Tracker) Measured() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hasGeom
}
