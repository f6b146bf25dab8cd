package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/overscroll/internal/config"
	"github.com/mmcdole/overscroll/internal/feed"
	"github.com/mmcdole/overscroll/internal/tui/styles"
	"github.com/mmcdole/overscroll/refresh"
	"github.com/sahilm/fuzzy"
)

// Layout constants
const (
	// One scroll row expressed in geometry units. The default threshold of
	// 68 units then comes out to a handful of overscroll nudges.
	unitsPerRow = 10.0

	// Geometry units added per overscroll key/wheel input
	pullStep = 22.0

	// Header, two indicator regions, status bar, spare line
	chromeRows = 5
)

// Model is the demo application: a dispatch feed inside a pull-to-refresh
// container. Pull down past the threshold to fetch newer items, scroll past
// half the remaining slack and back to load older ones.
type Model struct {
	svc    *feed.Service
	logger *slog.Logger
	cfg    config.RefreshConfig

	container *refresh.Container
	settler   *refresh.Settler
	spin      spinner.Model

	items       []feed.Item
	cursor      int
	scroll      int
	pull        float64
	width       int
	height      int
	status      string
	statusError bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filteredIdx  []int // indices into items

	prevTop    refresh.State
	prevBottom refresh.State
}

// armNotifier is the haptic stand-in: it flashes the status bar and logs.
type armNotifier struct {
	m *Model
}

func (n armNotifier) Primed(edge refresh.Edge) {
	n.m.status = fmt.Sprintf("%s edge armed", edge)
	n.m.statusError = false
	n.m.logger.Debug("refresh edge armed", "edge", edge.String())
}

// NewModel creates the demo model.
func NewModel(svc *feed.Service, logger *slog.Logger, cfg config.RefreshConfig) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	m := &Model{
		svc:         svc,
		logger:      logger,
		cfg:         cfg,
		settler:     refresh.NewSettler(),
		spin:        sp,
		filterInput: ti,
	}

	m.container = refresh.New(
		refresh.WithThreshold(cfg.Threshold),
		refresh.WithBottomThreshold(cfg.BottomThreshold),
		refresh.WithSucceededDelay(time.Duration(cfg.SucceededDelayMS)*time.Millisecond),
		refresh.WithFailedDelay(time.Duration(cfg.FailedDelayMS)*time.Millisecond),
		refresh.WithBottomPadding(cfg.BottomPadding),
		refresh.WithNotifier(armNotifier{m: m}),
		refresh.WithTopRefresh(func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			_, err := svc.RefreshNewest(ctx)
			return err
		}),
		refresh.WithBottomRefresh(func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			_, err := svc.LoadOlder(ctx)
			return err
		}),
		refresh.WithTopIndicator(m.topIndicator),
		refresh.WithBottomIndicator(m.bottomIndicator),
	)

	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.container.Init(),
		m.spin.Tick,
		RestoreFeedCmd(m.svc),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.container.SetViewport(refresh.Rect{
			Top:    0,
			Height: float64(m.visibleRows()) * unitsPerRow,
		})
		m.ensureVisible()
		m.publishGeometry()

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			cmds = append(cmds, m.moveCursor(-1))
		case tea.MouseButtonWheelDown:
			cmds = append(cmds, m.moveCursor(1))
		}

	case refresh.SettleMsg:
		if offset, cmd, ok := m.settler.Step(msg); ok {
			m.pull = offset
			m.publishGeometry()
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case FeedRestoredMsg:
		m.syncItems()
		m.status = fmt.Sprintf("%d items", msg.Count)
		m.statusError = false

	case ErrMsg:
		m.status = msg.Error()
		m.statusError = true
		m.logger.Error("demo error", "error", msg.Err, "context", msg.Context)
	}

	// The container consumes geometry snapshots and its own lifecycle
	// messages; everything else passes through untouched.
	var cmd tea.Cmd
	m.container, cmd = m.container.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.observeTransitions()

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Typing mode: route keys to the filter input.
	if m.filterActive && m.filterInput.Focused() {
		switch msg.String() {
		case "esc":
			m.clearFilter()
			return nil
		case "enter":
			m.filterInput.Blur()
			return nil
		case "backspace":
			if m.filterInput.Value() == "" {
				m.clearFilter()
				return nil
			}
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		return cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "/":
		m.filterActive = true
		m.filterInput.Focus()
		return textinput.Blink
	case "esc":
		if m.filterActive {
			m.clearFilter()
		}
	case "j", "down":
		return m.moveCursor(1)
	case "k", "up":
		return m.moveCursor(-1)
	case "g":
		m.cursor = 0
		m.scroll = 0
		m.publishGeometry()
	case "G":
		m.cursor = m.itemCount() - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureVisible()
		m.publishGeometry()
	case "ctrl+d":
		return m.pageCursor(m.visibleRows() / 2)
	case "ctrl+u":
		return m.pageCursor(-m.visibleRows() / 2)
	}
	return nil
}

// moveCursor moves the selection, turning movement past either end of the
// list into an overscroll pull on that edge.
func (m *Model) moveCursor(delta int) tea.Cmd {
	count := m.itemCount()
	if count == 0 {
		return nil
	}

	next := m.cursor + delta
	if next < 0 {
		return m.tug(pullStep)
	}
	if next >= count {
		return m.tug(-pullStep)
	}

	m.cursor = next
	m.ensureVisible()
	m.publishGeometry()
	return nil
}

func (m *Model) pageCursor(delta int) tea.Cmd {
	count := m.itemCount()
	if count == 0 {
		return nil
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= count {
		m.cursor = count - 1
	}
	m.ensureVisible()
	m.publishGeometry()
	return nil
}

// tug applies one overscroll input and lets the spring carry the offset
// back toward rest, producing the release half of the gesture.
func (m *Model) tug(delta float64) tea.Cmd {
	if m.settler.Active() {
		m.settler.Nudge(delta)
		m.pull = m.settler.Offset()
		m.publishGeometry()
		return nil
	}
	m.pull += delta
	m.publishGeometry()
	return m.settler.Release(m.pull)
}

// publishGeometry reports the content bound to the container's probe, in
// geometry units. The moving top combines the scroll position with any
// overscroll pull.
func (m *Model) publishGeometry() {
	rows := m.itemCount()
	m.container.Probe().Publish(refresh.Rect{
		Top:    m.pull - float64(m.scroll)*unitsPerRow,
		Height: float64(rows) * unitsPerRow,
	})
}

// observeTransitions re-reads the feed when an edge finishes loading.
func (m *Model) observeTransitions() {
	top := m.container.State(refresh.EdgeTop)
	bottom := m.container.State(refresh.EdgeBottom)

	if m.prevTop == refresh.StateLoading && top != refresh.StateLoading {
		m.syncItems()
		if top == refresh.StateFailed {
			m.status = "refresh failed"
			m.statusError = true
		}
	}
	if m.prevBottom == refresh.StateLoading && bottom != refresh.StateLoading {
		m.syncItems()
		if bottom == refresh.StateFailed {
			m.status = "load more failed"
			m.statusError = true
		}
	}

	m.prevTop = top
	m.prevBottom = bottom
}

func (m *Model) syncItems() {
	m.items = m.svc.Items()
	m.applyFilter()
	if count := m.itemCount(); m.cursor >= count && count > 0 {
		m.cursor = count - 1
	}
	m.ensureVisible()
	m.publishGeometry()
}

// Filter

func (m *Model) applyFilter() {
	query := m.filterInput.Value()
	if !m.filterActive || query == "" {
		m.filteredIdx = nil
		return
	}

	titles := make([]string, len(m.items))
	for i, item := range m.items {
		titles[i] = strings.ToLower(item.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), titles)
	m.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		m.filteredIdx[i] = match.Index
	}

	m.cursor = 0
	m.scroll = 0
	m.publishGeometry()
}

func (m *Model) clearFilter() {
	m.filterActive = false
	m.filteredIdx = nil
	m.filterInput.SetValue("")
	m.filterInput.Blur()
	m.cursor = 0
	m.scroll = 0
	m.publishGeometry()
}

func (m *Model) itemCount() int {
	if m.filteredIdx != nil {
		return len(m.filteredIdx)
	}
	return len(m.items)
}

func (m *Model) itemAt(i int) feed.Item {
	if m.filteredIdx != nil {
		return m.items[m.filteredIdx[i]]
	}
	return m.items[i]
}

// Scrolling

func (m *Model) visibleRows() int {
	rows := m.height - chromeRows
	if m.filterActive {
		rows--
	}
	if m.cfg.BottomPadding > 0 {
		rows -= m.cfg.BottomPadding
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) ensureVisible() {
	vis := m.visibleRows()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+vis {
		m.scroll = m.cursor - vis + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// Rendering

func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	m.container.SetContent(m.renderList())
	b.WriteString(m.container.View())
	b.WriteString("\n")

	if m.filterActive {
		b.WriteString(m.filterInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("overscroll dispatch")
	count := styles.DimStyle.Render(fmt.Sprintf("  %d items", m.itemCount()))
	return title + count
}

func (m *Model) renderList() string {
	count := m.itemCount()
	if count == 0 {
		if m.filterActive && m.filterInput.Value() != "" {
			return styles.DimStyle.Render("No matches")
		}
		return styles.DimStyle.Render("No items — pull down to refresh")
	}

	vis := m.visibleRows()
	end := m.scroll + vis
	if end > count {
		end = count
	}

	now := time.Now()
	width := m.width
	if width < 20 {
		width = 20
	}

	var lines []string
	for i := m.scroll; i < end; i++ {
		item := m.itemAt(i)
		meta := fmt.Sprintf(" · %s, %s", item.Author, item.Age(now))
		title := styles.Truncate(item.Title, width-len(meta)-4)

		if i == m.cursor {
			lines = append(lines, styles.SelectedStyle.Render(title)+styles.DimStyle.Render(meta))
		} else {
			lines = append(lines, " "+title+styles.DimStyle.Render(meta))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatusBar() string {
	topState := m.container.State(refresh.EdgeTop)
	bottomState := m.container.State(refresh.EdgeBottom)

	left := fmt.Sprintf("top:%s bottom:%s", topState, bottomState)
	hint := styles.DimStyle.Render("  j/k scroll · / filter · q quit")

	status := m.status
	if status != "" {
		if m.statusError {
			status = styles.ErrorStyle.Render("  " + status)
		} else {
			status = styles.SubtleStyle.Render("  " + status)
		}
	}
	return styles.StatusBarStyle.Render(left) + status + hint
}

// Indicator builders

func (m *Model) topIndicator(state refresh.State, offset float64) string {
	if state == refresh.StateLoading {
		return m.spin.View() + styles.AccentStyle.Render("refreshing feed…")
	}
	return refresh.DefaultTopIndicator(state, offset)
}

func (m *Model) bottomIndicator(state refresh.State, offset float64) string {
	if state == refresh.StateLoading {
		return m.spin.View() + styles.AccentStyle.Render("loading older items…")
	}
	return refresh.DefaultBottomIndicator(state, offset)
}
