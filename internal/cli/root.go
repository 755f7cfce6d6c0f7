package cli

import (
	"time"

	"github.com/alexanderramin/wisync/internal/gateway"
	"github.com/alexanderramin/wisync/internal/service"
	"github.com/spf13/cobra"
)

// App holds everything the commands need. Structured is the gateway used
// for `plan --structured`; when nil, Gateway is used.
type App struct {
	Gateway    gateway.Gateway
	Structured gateway.Gateway
	History    service.HistoryService
	Observer   service.UseCaseObserver

	// Prompter asks for confirmations and edits settings. Nil means
	// prompting is unavailable and --yes is required.
	Prompter      Prompter
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "wisync" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "wisync",
		Short:         "Turn plans into Azure DevOps work item hierarchies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newConfigCmd(app),
		newPlanCmd(app),
		newItemCmd(app),
		newDeleteCmd(app),
		newFeaturesCmd(app),
		newHistoryCmd(app),
	)

	return root
}
