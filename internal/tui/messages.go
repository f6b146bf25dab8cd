package tui

// Message types for the demo TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// FeedRestoredMsg signals that the cached feed has been loaded
type FeedRestoredMsg struct {
	Count int
}
