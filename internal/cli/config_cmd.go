package cli

import (
	"fmt"

	"github.com/alexanderramin/wisync/internal/cli/formatter"
	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change connection settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(app),
		newConfigSetCmd(app),
		newConfigEditCmd(app),
	)

	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Gateway.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatConfig(cfg))
			return nil
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	var org, project, assignee, area, iteration, helper string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings; unset flags keep their stored value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Gateway.GetConfig(cmd.Context())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			set := func(name string, dst *string, v string) {
				if flags.Changed(name) {
					*dst = v
				}
			}
			set("org", &cfg.OrgURL, org)
			set("project", &cfg.Project, project)
			set("assignee", &cfg.AssignedTo, assignee)
			set("area", &cfg.AreaPath, area)
			set("iteration", &cfg.IterationPath, iteration)
			set("auth-helper", &cfg.AuthHelperPath, helper)

			return saveConfig(cmd, app, cfg)
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organization URL (https://dev.azure.com/<org>)")
	cmd.Flags().StringVar(&project, "project", "", "project name")
	cmd.Flags().StringVar(&assignee, "assignee", "", "default assignee")
	cmd.Flags().StringVar(&area, "area", "", "default area path")
	cmd.Flags().StringVar(&iteration, "iteration", "", "default iteration path")
	cmd.Flags().StringVar(&helper, "auth-helper", "", "path to the ado token helper")

	return cmd
}

func newConfigEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit settings in an interactive form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Prompter == nil || !app.interactive() {
				return domain.Errorf(domain.KindValidation, "edit config", "config edit needs a terminal; use `wisync config set`")
			}
			cfg, err := app.Gateway.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.Prompter.EditConfig(&cfg); err != nil {
				return err
			}
			return saveConfig(cmd, app, cfg)
		},
	}
}

func saveConfig(cmd *cobra.Command, app *App, cfg domain.Config) error {
	if err := app.Gateway.SaveConfig(cmd.Context(), cfg); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Settings saved"))
	return nil
}
