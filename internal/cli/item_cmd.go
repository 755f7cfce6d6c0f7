package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/wisync/internal/cli/formatter"
	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/service"
	"github.com/alexanderramin/wisync/internal/workflow"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Create, show or update a single work item",
	}

	cmd.AddCommand(
		newItemCreateCmd(app),
		newItemShowCmd(app),
		newItemUpdateCmd(app),
	)

	return cmd
}

func newItemCreateCmd(app *App) *cobra.Command {
	var (
		typeStr, title, description string
		assignee, area, iter        string
		effort, parent              optionalInt
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create one Feature, PBI or Task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			t, err := domain.ParseWorkItemType(typeStr)
			if err != nil {
				return err
			}
			req := domain.SingleItemRequest{
				Type:          t,
				Title:         title,
				Description:   description,
				AssignedTo:    assignee,
				AreaPath:      area,
				IterationPath: iter,
				Effort:        effort.Ptr(),
				ParentID:      parent.Ptr(),
			}
			if err := req.Validate(); err != nil {
				return err
			}

			done := service.Track(cmd.Context(), app.Observer, "create-single", map[string]any{"type": t.Short()})
			defer func() { done(err) }()

			item, err := app.Gateway.CreateSingle(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCreatedItem(item))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeStr, "type", "t", "task", "feature, pbi or task")
	cmd.Flags().StringVar(&title, "title", "", "item title")
	cmd.Flags().StringVar(&description, "description", "", "item description")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee (default from settings)")
	cmd.Flags().StringVar(&area, "area", "", "area path (default from settings)")
	cmd.Flags().StringVar(&iter, "iteration", "", "iteration path (default from settings)")
	cmd.Flags().Var(&effort, "effort", "task effort in days")
	cmd.Flags().Var(&parent, "parent", "id of the parent work item")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newItemShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a work item's editable fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			wf := workflow.NewUpdateWorkflow(app.Gateway, app.Observer)
			wi, err := wf.Fetch(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkItem(wi))
			return nil
		},
	}
}

var updateFields = []struct {
	flag  string
	field domain.Field
	usage string
}{
	{"title", domain.FieldTitle, "new title"},
	{"state", domain.FieldState, "new state (New, Active, Resolved, Closed, Removed)"},
	{"assignee", domain.FieldAssignedTo, "new assignee"},
	{"area", domain.FieldAreaPath, "new area path"},
	{"iteration", domain.FieldIterationPath, "new iteration path"},
}

func newItemUpdateCmd(app *App) *cobra.Command {
	var dryRun bool
	values := make([]string, len(updateFields))

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a work item; only real changes are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			wf := workflow.NewUpdateWorkflow(app.Gateway, app.Observer)
			snap, err := wf.Fetch(cmd.Context(), id)
			if err != nil {
				return err
			}

			for i, f := range updateFields {
				if !cmd.Flags().Changed(f.flag) {
					continue
				}
				if err := wf.Edit(f.field, values[i]); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatChanges(snap.WorkItemFields, wf.Pending()))
			if dryRun {
				return nil
			}

			res, err := wf.Save(cmd.Context())
			if err != nil {
				return err
			}
			if res.NothingToSave {
				fmt.Fprintln(out, formatter.Dim("Nothing to save"))
				return nil
			}
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Updated #%d (%d fields)", id, len(res.Changes))))
			return nil
		},
	}

	for i, f := range updateFields {
		cmd.Flags().StringVar(&values[i], f.flag, "", f.usage)
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the diff without saving")

	return cmd
}

func parseItemID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, domain.Errorf(domain.KindValidation, "parse id", "work item id must be a positive integer, got %q", s)
	}
	return id, nil
}
