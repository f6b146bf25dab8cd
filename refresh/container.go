package refresh

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultThreshold is the pull distance that arms an edge.
const DefaultThreshold = 68.0

// Container is a pull-to-refresh scroll container: content framed by two
// indicator regions, with an independent refresh session per edge driven by
// the same geometry stream.
//
// Geometry reaches the container one of two ways: hosts outside the update
// loop publish bounds to Probe() and run Init() so snapshots arrive as
// GeometryMsg, while hosts already inside the loop inject GeometryMsg
// themselves. Either way every snapshot is processed in arrival order.
type Container struct {
	top    *machine
	bottom *machine

	topEnabled    bool
	bottomEnabled bool

	tracker *Tracker
	probe   *Probe
	geomCh  chan Geometry

	content       string
	bottomPadding int
	width         int
	height        int

	topBuilder    IndicatorBuilder
	bottomBuilder IndicatorBuilder
}

// Option configures a Container.
type Option func(*Container)

// WithThreshold sets the arming threshold for both edges.
func WithThreshold(v float64) Option {
	return func(c *Container) {
		c.top.threshold = v
		c.bottom.threshold = v
	}
}

// WithTopThreshold sets the top edge's arming threshold.
func WithTopThreshold(v float64) Option {
	return func(c *Container) { c.top.threshold = v }
}

// WithBottomThreshold sets the bottom edge's arming threshold.
func WithBottomThreshold(v float64) Option {
	return func(c *Container) { c.bottom.threshold = v }
}

// WithTopRefresh sets the top edge's refresh action.
func WithTopRefresh(action Action) Option {
	return func(c *Container) { c.top.action = action }
}

// WithBottomRefresh sets the bottom edge's refresh action.
func WithBottomRefresh(action Action) Option {
	return func(c *Container) { c.bottom.action = action }
}

// WithTopEnabled gates the top edge's machinery.
func WithTopEnabled(enabled bool) Option {
	return func(c *Container) { c.topEnabled = enabled }
}

// WithBottomEnabled gates the bottom edge's machinery.
func WithBottomEnabled(enabled bool) Option {
	return func(c *Container) { c.bottomEnabled = enabled }
}

// WithTopIndicator replaces the top indicator builder.
func WithTopIndicator(b IndicatorBuilder) Option {
	return func(c *Container) { c.topBuilder = b }
}

// WithBottomIndicator replaces the bottom indicator builder.
func WithBottomIndicator(b IndicatorBuilder) Option {
	return func(c *Container) { c.bottomBuilder = b }
}

// WithBottomPadding appends blank spacer rows after the content.
func WithBottomPadding(rows int) Option {
	return func(c *Container) { c.bottomPadding = rows }
}

// WithNotifier sets the arm acknowledgement receiver for both edges.
func WithNotifier(n Notifier) Option {
	return func(c *Container) {
		if n == nil {
			n = nopNotifier{}
		}
		c.top.notifier = n
		c.bottom.notifier = n
	}
}

// WithSucceededDelay sets how long the succeeded state is shown before
// reverting to normal.
func WithSucceededDelay(d time.Duration) Option {
	return func(c *Container) {
		c.top.succeededDelay = d
		c.bottom.succeededDelay = d
	}
}

// WithFailedDelay sets how long the failed state is shown before reverting
// to normal.
func WithFailedDelay(d time.Duration) Option {
	return func(c *Container) {
		c.top.failedDelay = d
		c.bottom.failedDelay = d
	}
}

// New creates a container with the given options applied over defaults.
func New(opts ...Option) *Container {
	c := &Container{
		top:           newMachine(EdgeTop, DefaultThreshold),
		bottom:        newMachine(EdgeBottom, DefaultThreshold),
		topEnabled:    true,
		bottomEnabled: true,
		tracker:       NewTracker(),
		probe:         NewProbe(),
		geomCh:        make(chan Geometry, 16),
		topBuilder:    DefaultTopIndicator,
		bottomBuilder: DefaultBottomIndicator,
	}

	obs := NewGeometryObserver(c.geomCh)
	c.probe.OnChange(func(r Rect) {
		c.tracker.SetContent(r)
		obs.OnGeometry(c.tracker.Snapshot())
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init starts listening for probe-driven geometry.
func (c *Container) Init() tea.Cmd {
	return WaitGeometry(c.geomCh)
}

// Update processes one message and returns the follow-up commands.
func (c *Container) Update(msg tea.Msg) (*Container, tea.Cmd) {
	switch msg := msg.(type) {
	case GeometryMsg:
		return c, tea.Batch(c.drive(msg.Geometry), WaitGeometry(c.geomCh))

	case refreshDoneMsg:
		if m := c.machineFor(msg.Edge); m != nil {
			return c, m.complete(msg.Gen, msg.Err)
		}

	case revertMsg:
		if m := c.machineFor(msg.Edge); m != nil {
			m.revert(msg.Gen)
		}
	}
	return c, nil
}

// drive evaluates both sessions against one snapshot, in delivery order.
func (c *Container) drive(g Geometry) tea.Cmd {
	var cmds []tea.Cmd
	if c.topEnabled {
		if cmd := c.top.observe(g); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if c.bottomEnabled {
		if cmd := c.bottom.observe(g); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (c *Container) machineFor(edge Edge) *machine {
	switch {
	case edge == EdgeTop && c.topEnabled:
		return c.top
	case edge == EdgeBottom && c.bottomEnabled:
		return c.bottom
	}
	return nil
}

// View renders the top indicator region, content, bottom indicator region,
// and padding. Indicator lines are always reserved for enabled edges so
// state changes do not shift the content.
func (c *Container) View() string {
	var parts []string
	if c.topEnabled {
		parts = append(parts, orSpace(c.topBuilder(c.top.state, c.top.offset)))
	}
	parts = append(parts, c.content)
	if c.bottomEnabled {
		parts = append(parts, orSpace(c.bottomBuilder(c.bottom.state, c.bottom.offset)))
	}
	for i := 0; i < c.bottomPadding; i++ {
		parts = append(parts, " ")
	}
	return strings.Join(parts, "\n")
}

func orSpace(s string) string {
	if s == "" {
		return " "
	}
	return s
}

// SetContent replaces the scrolled content.
func (c *Container) SetContent(content string) {
	c.content = content
}

// SetSize records the render size and updates the viewport bound.
func (c *Container) SetSize(width, height int) {
	c.width = width
	c.height = height

	fixed := c.tracker.fixedBound()
	fixed.Width = float64(width)
	fixed.Height = float64(height)
	c.SetViewport(fixed)
}

// SetViewport records the fixed reference bound and republishes geometry.
func (c *Container) SetViewport(r Rect) {
	c.tracker.SetViewport(r)
	select {
	case c.geomCh <- c.tracker.Snapshot():
	default:
	}
}

// Probe exposes the content bound probe for the host's layout callbacks.
func (c *Container) Probe() *Probe {
	return c.probe
}

// State returns an edge's current refresh state.
func (c *Container) State(edge Edge) State {
	if edge == EdgeBottom {
		return c.bottom.state
	}
	return c.top.state
}

// Offset returns the offset last observed by an edge's session.
func (c *Container) Offset(edge Edge) float64 {
	if edge == EdgeBottom {
		return c.bottom.offset
	}
	return c.top.offset
}

// Reset forces an edge's session back to normal. Completions from an action
// still in flight are discarded when they arrive.
func (c *Container) Reset(edge Edge) {
	if edge == EdgeBottom {
		c.bottom.reset()
		return
	}
	c.top.reset()
}
