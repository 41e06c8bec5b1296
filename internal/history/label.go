package history

import (
	"fmt"
	"time"
)

// RelativeLabel describes ts relative to now the way the history list shows
// it: "Just now", "5m ago", "3h ago", "2d ago", then a plain date after a
// week.
func RelativeLabel(ts, now time.Time) string {
	d := now.Sub(ts)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return ts.Format("Jan 2, 2006")
	}
}
