package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wisync/internal/cli/formatter"
	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/workflow"
	"github.com/spf13/cobra"
)

func newDeleteCmd(app *App) *cobra.Command {
	var (
		yes   bool
		runID string
	)

	cmd := &cobra.Command{
		Use:   "delete [IDS...]",
		Short: "Move work items to the recycle bin",
		Long: `Deletes every listed id. Ids may be separated by spaces or commas; anything
that is not a positive integer is ignored. With --run, the ids created by a
recorded create run are used instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if runID != "" {
				if len(args) > 0 {
					return domain.Errorf(domain.KindValidation, "delete", "pass ids or --run, not both")
				}
				ids, err := runItemIDs(cmd, app, runID)
				if err != nil {
					return err
				}
				text = ids
			}

			wf := workflow.NewDeleteWorkflow(app.Gateway, app.Observer)
			ids := wf.SetInput(text)
			if err := wf.Arm(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ok, err := confirm(app, fmt.Sprintf("Delete %d work items (%s)?", len(ids), joinIDs(ids)), yes)
			if err != nil {
				return err
			}
			if !ok {
				wf.Disarm()
				fmt.Fprintln(out, formatter.Dim("Nothing deleted"))
				return nil
			}

			stop := spin(cmd, app, "Deleting...")
			res, err := wf.Confirm(cmd.Context())
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatDeleteResult(res))
			if n := res.FailedCount(); n > 0 {
				return fmt.Errorf("%d of %d deletes failed", n, len(ids))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	cmd.Flags().StringVar(&runID, "run", "", "delete the items created by a recorded run (id or prefix)")

	return cmd
}

func runItemIDs(cmd *cobra.Command, app *App, runID string) (string, error) {
	if app.History == nil {
		return "", domain.Errorf(domain.KindValidation, "delete", "create history is unavailable")
	}
	run, err := app.History.Get(cmd.Context(), runID)
	if err != nil {
		return "", err
	}
	ids := run.RemoteIDs()
	if len(ids) == 0 {
		return "", domain.Errorf(domain.KindValidation, "delete", "run %s created no items", formatter.TruncID(run.ID))
	}
	return joinIDs(ids), nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
