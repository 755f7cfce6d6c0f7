package cli

import (
	"fmt"

	"github.com/alexanderramin/wisync/internal/cli/formatter"
	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/spf13/cobra"
)

func newFeaturesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List features created by wisync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := spin(cmd, app, "Loading features...")
			features, err := app.Gateway.ListFeatures(cmd.Context())
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeatures(features, app.now()))
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [RUN]",
		Short: "Show recorded create runs, or the items of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.History == nil {
				return domain.Errorf(domain.KindValidation, "history", "create history is unavailable")
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				run, err := app.History.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.FormatRun(run))
				return nil
			}

			runs, err := app.History.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatRuns(runs, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show (0 for all)")

	return cmd
}
