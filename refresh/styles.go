package refresh

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// IndicatorBuilder renders one edge's indicator region for the current
// state and offset. Builders must be pure: same inputs, same output, no
// side effects beyond the returned content.
type IndicatorBuilder func(state State, offset float64) string

// Indicator color palette
var (
	indicatorDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	indicatorAccent  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5A00D"))
	indicatorSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	indicatorError   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// DefaultTopIndicator renders the stock pull-down indicator line.
func DefaultTopIndicator(state State, offset float64) string {
	switch state {
	case StatePrimed:
		return indicatorAccent.Render("↑ release to refresh")
	case StateLoading:
		return indicatorAccent.Render("↻ refreshing…")
	case StateSucceeded:
		return indicatorSuccess.Render("✓ refreshed")
	case StateFailed:
		return indicatorError.Render("✗ refresh failed")
	default:
		if offset > 0 {
			return indicatorDim.Render(fmt.Sprintf("↓ pull to refresh (%.0f)", offset))
		}
		return ""
	}
}

// DefaultBottomIndicator renders the stock pull-up indicator line.
func DefaultBottomIndicator(state State, offset float64) string {
	switch state {
	case StatePrimed:
		return indicatorAccent.Render("↓ release to load more")
	case StateLoading:
		return indicatorAccent.Render("↻ loading more…")
	case StateSucceeded:
		return indicatorSuccess.Render("✓ loaded")
	case StateFailed:
		return indicatorError.Render("✗ load failed")
	default:
		if offset < 0 {
			return indicatorDim.Render(fmt.Sprintf("↑ pull to load more (%.0f)", -offset))
		}
		return ""
	}
}
