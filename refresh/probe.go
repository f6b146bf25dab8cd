package refresh

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Probe is an explicit callback registry for layout bound changes. A host
// publishes the tracked element's bounding rect whenever layout moves it;
// subscribers (normally the container's tracker) recompute from there.
type Probe struct {
	mu    sync.Mutex
	bound Rect
	subs  []func(Rect)
}

// NewProbe creates an empty probe.
func NewProbe() *Probe {
	return &Probe{}
}

// OnChange registers a callback invoked on every published bound.
func (p *Probe) OnChange(fn func(Rect)) {
	p.mu.Lock()
	p.subs = append(p.subs, fn)
	p.mu.Unlock()
}

// Publish records the new bound and notifies subscribers in registration
// order. Callbacks run outside the lock so a subscriber may read Bound.
func (p *Probe) Publish(r Rect) {
	p.mu.Lock()
	p.bound = r
	subs := make([]func(Rect), len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(r)
	}
}

// Bound returns the last published rect.
func (p *Probe) Bound() Rect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bound
}

// GeometryObserver adapts probe-driven geometry to a channel for Bubble Tea.
type GeometryObserver struct {
	ch chan<- Geometry
}

// NewGeometryObserver creates a new channel-based observer.
func NewGeometryObserver(ch chan<- Geometry) *GeometryObserver {
	return &GeometryObserver{ch: ch}
}

// OnGeometry sends a snapshot to the channel (non-blocking if full).
func (o *GeometryObserver) OnGeometry(g Geometry) {
	select {
	case o.ch <- g:
	default: // Non-blocking if channel full
	}
}

// WaitGeometry returns a command that blocks until the next snapshot
// arrives and delivers it to the update loop as a GeometryMsg.
func WaitGeometry(ch <-chan Geometry) tea.Cmd {
	return func() tea.Msg {
		return GeometryMsg{Geometry: <-ch}
	}
}
