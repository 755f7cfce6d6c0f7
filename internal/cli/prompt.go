package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/wisync/internal/cli/formatter"
	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// ErrCancelled is returned when the user backs out of a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompter is the interactive surface used by commands.
type Prompter interface {
	Confirm(title string) (bool, error)
	EditConfig(cfg *domain.Config) error
}

// HuhPrompter prompts on the terminal with huh forms.
type HuhPrompter struct{}

func NewHuhPrompter() HuhPrompter { return HuhPrompter{} }

func (HuhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(wisyncHuhTheme()).WithShowHelp(false).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, ErrCancelled
	}
	return ok, err
}

// EditConfig fills cfg from a settings form seeded with its current values.
func (HuhPrompter) EditConfig(cfg *domain.Config) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Organization URL").
				Placeholder("https://dev.azure.com/your-org").
				Value(&cfg.OrgURL).
				Validate(required("organization URL")),
			huh.NewInput().Title("Project").
				Value(&cfg.Project).
				Validate(required("project")),
			huh.NewInput().Title("Assigned to").
				Placeholder("you@example.com").
				Value(&cfg.AssignedTo).
				Validate(required("assignee")),
		),
		huh.NewGroup(
			huh.NewInput().Title("Area path").
				Value(&cfg.AreaPath).
				Validate(required("area path")),
			huh.NewInput().Title("Iteration path").
				Value(&cfg.IterationPath).
				Validate(required("iteration path")),
			huh.NewInput().Title("Auth helper").
				Description("Path to the ado token helper; blank uses PATH").
				Value(&cfg.AuthHelperPath),
		),
	).WithTheme(wisyncHuhTheme()).WithShowHelp(false).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

// wisyncHuhTheme styles huh forms with the formatter palette.
func wisyncHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirm asks title unless yes is set. Without a terminal the caller must
// pass --yes.
func confirm(app *App, title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if app.Prompter == nil || !app.interactive() {
		return false, domain.Errorf(domain.KindValidation, "confirm", "confirmation required; rerun with --yes")
	}
	return app.Prompter.Confirm(title)
}

// spin shows a spinner on stderr while interactive.
func spin(cmd *cobra.Command, app *App, msg string) func() {
	if !app.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), msg)
}
