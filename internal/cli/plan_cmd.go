package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/wisync/internal/cli/formatter"
	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/workflow"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	var (
		structured, yes, dryRun bool
		assignee, area, iter    string
		epic                    string
	)

	cmd := &cobra.Command{
		Use:   "plan [FILE|-]",
		Short: "Parse a plan, preview it and create the hierarchy",
		Long: `Reads a plan from FILE, or from stdin when FILE is "-" or omitted, turns it
into one Feature with PBIs and Tasks, previews it and creates it remotely.

By default the plan is free text read by the language model. With --structured
it must be a YAML or JSON plan document.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readPlan(cmd, args)
			if err != nil {
				return err
			}

			gw := app.Gateway
			if structured && app.Structured != nil {
				gw = app.Structured
			}
			wf := workflow.NewCreateWorkflow(gw, app.Observer)
			ctx := cmd.Context()

			stop := spin(cmd, app, "Reading plan...")
			_, err = wf.Parse(ctx, text)
			stop()
			if err != nil {
				return err
			}

			ov := wf.State().Overrides
			flags := cmd.Flags()
			if flags.Changed("assignee") {
				ov.AssignedTo = assignee
			}
			if flags.Changed("area") {
				ov.AreaPath = area
			}
			if flags.Changed("iteration") {
				ov.IterationPath = iter
			}
			if err := wf.SetOverrides(ov); err != nil {
				return err
			}
			if err := wf.SetEpicID(epic); err != nil {
				return err
			}

			st := wf.State()
			out := cmd.OutOrStdout()
			if epic != "" && st.EpicID == nil {
				fmt.Fprintln(out, formatter.Warning(fmt.Sprintf("Ignoring epic %q: not a work item id", epic)))
			}
			fmt.Fprint(out, formatter.FormatPreview(st.Hierarchy, st.Overrides, st.EpicID))
			if dryRun {
				return nil
			}

			total := 1 + len(st.Hierarchy.PBIs) + st.Hierarchy.TaskCount()
			ok, err := confirm(app, fmt.Sprintf("Create %d work items?", total), yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, formatter.Dim("Nothing created"))
				return nil
			}

			stop = spin(cmd, app, "Creating work items...")
			res, err := wf.Create(ctx)
			stop()
			if err != nil {
				var partial *domain.PartialCreateError
				if errors.As(err, &partial) {
					fmt.Fprint(out, formatter.FormatPartial(wf.State().Partial))
				}
				return err
			}
			fmt.Fprint(out, formatter.FormatCreateResult(res))
			return nil
		},
	}

	cmd.Flags().BoolVar(&structured, "structured", false, "read FILE as a YAML/JSON plan document instead of free text")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee for every item (default from settings)")
	cmd.Flags().StringVar(&area, "area", "", "area path for every item (default from settings)")
	cmd.Flags().StringVar(&iter, "iteration", "", "iteration path for every item (default from settings)")
	cmd.Flags().StringVar(&epic, "epic", "", "id of an Epic to parent the Feature under")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "create without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and preview only")

	return cmd
}

func readPlan(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", domain.NewError(domain.KindValidation, "read plan", err)
	}
	return string(b), nil
}
