package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/overscroll/internal/feed"
)

// Command factories for async operations

// RestoreFeedCmd loads the cached feed (or fetches a first page).
func RestoreFeedCmd(svc *feed.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.Restore(ctx); err != nil {
			return ErrMsg{Err: err, Context: "restoring feed"}
		}
		return FeedRestoredMsg{Count: len(svc.Items())}
	}
}
