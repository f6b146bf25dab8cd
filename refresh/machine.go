package refresh

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// State is the refresh lifecycle state of one edge.
type State int

const (
	StateNormal State = iota
	StatePrimed
	StateLoading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StatePrimed:
		return "primed"
	case StateLoading:
		return "loading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Edge identifies which end of the scroll surface a session belongs to.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

func (e Edge) String() string {
	if e == EdgeBottom {
		return "bottom"
	}
	return "top"
}

// Action is a user-supplied asynchronous refresh callback. A nil error
// resolves the session as succeeded, anything else as failed.
type Action func(ctx context.Context) error

// Notifier receives the arm acknowledgement (the haptic stand-in). It fires
// exactly once per normal→primed transition.
type Notifier interface {
	Primed(edge Edge)
}

type nopNotifier struct{}

func (nopNotifier) Primed(Edge) {}

// Default display delays before a terminal state reverts to normal.
const (
	DefaultSucceededDelay = 300 * time.Millisecond
	DefaultFailedDelay    = 400 * time.Millisecond
)

// machine is one refresh session: the per-edge state, latest offset, and
// the generation token that invalidates stale async completions.
type machine struct {
	edge      Edge
	state     State
	offset    float64
	threshold float64
	gen       uint64

	action   Action
	notifier Notifier

	succeededDelay time.Duration
	failedDelay    time.Duration
}

func newMachine(edge Edge, threshold float64) *machine {
	return &machine{
		edge:           edge,
		threshold:      threshold,
		notifier:       nopNotifier{},
		succeededDelay: DefaultSucceededDelay,
		failedDelay:    DefaultFailedDelay,
	}
}

// armed reports whether the given geometry holds the edge past its arming
// boundary. Top arms when the content is pulled down more than the
// threshold. Bottom mirrors it: armed once the content bottom is exposed
// beyond half the remaining slack, or past the threshold when the content
// is shorter than the viewport (no slack to measure against).
func (m *machine) armed(g Geometry) bool {
	off := g.Offset()
	if m.edge == EdgeTop {
		return off > m.threshold
	}
	if s := g.Slack(); s > 0 {
		return off <= -s/2
	}
	return off <= -m.threshold
}

// observe feeds one geometry snapshot through the session. Transitions:
// normal→primed on crossing the arming boundary, primed→loading on
// releasing back past it. While loading or presenting a result, offset
// movement is ignored (one action in flight per edge, and terminal states
// never re-prime directly).
func (m *machine) observe(g Geometry) tea.Cmd {
	m.offset = g.Offset()
	if m.action == nil {
		return nil
	}

	switch m.state {
	case StateNormal:
		if m.armed(g) {
			m.state = StatePrimed
			m.notifier.Primed(m.edge)
		}
	case StatePrimed:
		if !m.armed(g) {
			return m.fire()
		}
	}
	return nil
}

// fire enters loading and detaches the refresh action. The returned command
// runs the action off the update loop and reports back with the generation
// it was issued under; a recovered panic resolves as failure.
func (m *machine) fire() tea.Cmd {
	m.state = StateLoading
	m.gen++

	gen := m.gen
	edge := m.edge
	action := m.action
	return func() tea.Msg {
		return refreshDoneMsg{Edge: edge, Gen: gen, Err: runAction(action)}
	}
}

func runAction(action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh action panicked: %v", r)
		}
	}()
	return action(context.Background())
}

// complete resolves the in-flight action. Stale generations (the session
// was reset while the action ran) are discarded. Returns the command that
// schedules the reversion to normal.
func (m *machine) complete(gen uint64, actionErr error) tea.Cmd {
	if gen != m.gen || m.state != StateLoading {
		return nil
	}

	delay := m.succeededDelay
	if actionErr != nil {
		m.state = StateFailed
		delay = m.failedDelay
	} else {
		m.state = StateSucceeded
	}

	edge := m.edge
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return revertMsg{Edge: edge, Gen: gen}
	})
}

// revert returns a terminal state to normal once its display delay has
// elapsed. Scrolling cannot cancel it; only a session reset can, via the
// generation check.
func (m *machine) revert(gen uint64) {
	if gen != m.gen {
		return
	}
	if m.state == StateSucceeded || m.state == StateFailed {
		m.state = StateNormal
	}
}

// reset forces the session back to normal and bumps the generation so any
// in-flight completion or pending reversion is discarded on arrival.
func (m *machine) reset() {
	m.state = StateNormal
	m.gen++
}
