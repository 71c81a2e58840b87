package ui

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// formatBytes renders a byte count in a compact human form.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncateName fits a file name into width terminal cells, appending an
// ellipsis when it had to cut.
func truncateName(name string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(name) <= width {
		return name
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(name, width-1, "") + "…"
}

// padRight pads s with spaces to exactly width cells, truncating first
// when it is too wide.
func padRight(s string, width int) string {
	s = truncateName(s, width)
	return s + spaces(width-runewidth.StringWidth(s))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = ' '
	}
	return string(buf)
}

// humanizeModTime renders a modification time relative to now for recent
// files and as a date for older ones.
func humanizeModTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	age := now.Sub(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
