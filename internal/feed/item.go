package feed

import (
	"fmt"
	"time"
)

// Item is one entry in the demo dispatch feed.
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Published time.Time `json:"published"`
}

// Age renders how long ago the item was published, newspaper style.
func (i Item) Age(now time.Time) string {
	d := now.Sub(i.Published)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
