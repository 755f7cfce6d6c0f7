package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatePill renders a work item state with its color.
func StatePill(state string) string {
	switch domain.State(state) {
	case domain.StateNew:
		return StyleBlue.Render("○ " + state)
	case domain.StateActive:
		return StyleGreen.Render("● " + state)
	case domain.StateResolved:
		return StylePurple.Render("◆ " + state)
	case domain.StateClosed:
		return StyleDim.Render("✔ " + state)
	case domain.StateRemoved:
		return StyleDim.Render("✖ " + state)
	default:
		return StyleDim.Render(state)
	}
}

// TypeBadge renders a short work item type label.
func TypeBadge(t domain.WorkItemType) string {
	switch t {
	case domain.TypeEpic:
		return StyleRed.Render("EPIC")
	case domain.TypeFeature:
		return StylePurple.Render("FEATURE")
	case domain.TypePBI:
		return StyleBlue.Render("PBI")
	case domain.TypeTask:
		return StyleYellow.Render("TASK")
	default:
		return StyleDim.Render(strings.ToUpper(string(t)))
	}
}

// RunStatusPill renders a journal run outcome.
func RunStatusPill(s domain.RunStatus) string {
	switch s {
	case domain.RunComplete:
		return StyleGreen.Render("✔ complete")
	case domain.RunPartial:
		return StyleYellow.Render("◐ partial")
	case domain.RunFailed:
		return StyleRed.Render("✖ failed")
	default:
		return StyleDim.Render(string(s))
	}
}

// Header renders an uppercased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string { return StyleDim.Render(text) }

func Bold(text string) string { return StyleBold.Render(text) }

// Success and Failure prefix a one-line outcome message.
func Success(text string) string { return StyleGreen.Render("✔ ") + text }

func Failure(text string) string { return StyleRed.Render("✖ ") + text }

func Warning(text string) string { return StyleYellow.Render("! ") + text }
