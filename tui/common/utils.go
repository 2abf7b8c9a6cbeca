package common

import (
	"fmt"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// FormatRelativeTime renders how long ago ts was, relative to now:
// minutes under an hour, hours under a day, days under a week, then
// the absolute date. Counts are floored, singular at exactly one.
// Timestamps ahead of now (clock skew on remote posts) count as zero.
func FormatRelativeTime(ts, now time.Time) string {
	diff := now.Sub(ts)
	if diff < 0 {
		diff = 0
	}

	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	case hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case days < 7:
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return ts.Format("Jan 2, 2006")
	}
}

// CountLabel pluralizes a noun for a count, e.g. "1 Like", "3 Likes".
func CountLabel(n int, noun string) string {
	return fmt.Sprintf("%d %s%s", n, noun, plural(n))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Truncate clips text to at most max display cells with an ellipsis.
// Styled text keeps its escape sequences intact.
func Truncate(text string, max int) string {
	if max < 4 {
		max = 4
	}
	return ansi.Truncate(text, max, "...")
}
