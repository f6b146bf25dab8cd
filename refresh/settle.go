package refresh

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

// Settle animation parameters. Terminals have no touch release, so the
// second half of the pull gesture is produced by a damped spring driving
// the overscroll offset back to rest.
const (
	settleFPS       = 60
	settleFrequency = 7.0
	settleDamping   = 1.0 // critically damped: no bounce past rest
	settleRestBand  = 0.5
)

// Settler animates an overscrolled offset toward zero, one SettleMsg frame
// at a time. Each Release supersedes the previous animation; frames from a
// superseded run are ignored by ID.
type Settler struct {
	id     int
	spring harmonica.Spring
	pos    float64
	vel    float64
	active bool
}

// NewSettler creates a settler with the default spring.
func NewSettler() *Settler {
	return &Settler{
		spring: harmonica.NewSpring(harmonica.FPS(settleFPS), settleFrequency, settleDamping),
	}
}

// Release starts settling from the given offset and returns the first
// frame command.
func (s *Settler) Release(offset float64) tea.Cmd {
	s.id++
	s.pos = offset
	s.vel = 0
	s.active = true
	return s.frame()
}

// Step advances the spring for one frame. It returns the new offset, the
// command for the next frame (nil once at rest), and whether the message
// belonged to the current animation.
func (s *Settler) Step(msg SettleMsg) (offset float64, cmd tea.Cmd, ok bool) {
	if !s.active || msg.ID != s.id {
		return 0, nil, false
	}

	s.pos, s.vel = s.spring.Update(s.pos, s.vel, 0)
	if math.Abs(s.pos) < settleRestBand && math.Abs(s.vel) < settleRestBand {
		s.pos, s.vel = 0, 0
		s.active = false
		return 0, nil, true
	}
	return s.pos, s.frame(), true
}

// Nudge shifts the in-flight offset without restarting the animation, so
// repeated pull input stacks against the spring.
func (s *Settler) Nudge(delta float64) {
	s.pos += delta
}

// Cancel stops the animation; any pending frame is discarded on arrival.
func (s *Settler) Cancel() {
	s.active = false
	s.id++
}

// Active reports whether an animation is running.
func (s *Settler) Active() bool {
	return s.active
}

// Offset returns the current animated offset.
func (s *Settler) Offset() float64 {
	return s.pos
}

func (s *Settler) frame() tea.Cmd {
	id := s.id
	return tea.Tick(time.Second/settleFPS, func(time.Time) tea.Msg {
		return SettleMsg{ID: id}
	})
}
