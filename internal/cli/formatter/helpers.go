package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded border with a bold title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(0, 1)
	return box.Render(Bold(title) + "\n\n" + strings.TrimRight(content, "\n"))
}

// TruncID shortens a run id to its first 8 characters.
func TruncID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// Truncate cuts s to n visible runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// RelativeDateFrom describes t relative to now ("today", "3d ago").
func RelativeDateFrom(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days < 0:
		return t.Format("2006-01-02")
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 30:
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

// FormatEffort renders an optional task effort in days.
func FormatEffort(effort *int) string {
	if effort == nil {
		return ""
	}
	return fmt.Sprintf("%dd", *effort)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("-")
	}
	return s
}
