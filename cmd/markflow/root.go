package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() (*cobra.Command, *commandContext) {
	var flags rootFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "markflow",
		Short:         "Workflow manager CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipService(cmd) {
				return nil
			}
			_, err := ctx.ensureService(cmd.Context())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&flags.workflows, "workflows", "w", "workflows.yaml", "Workflow configuration document")
	rootCmd.PersistentFlags().StringVarP(&flags.elements, "elements", "e", "elements", "Element storage directory")
	rootCmd.PersistentFlags().StringVar(&flags.state, "state", "", "State table database path, overrides configuration")
	rootCmd.PersistentFlags().StringVar(&flags.locale, "locale", "", "Locale used for labels")

	rootCmd.AddCommand(newWorkflowsCommand(ctx))
	rootCmd.AddCommand(newPlacesCommand(ctx))
	rootCmd.AddCommand(newActionsCommand(ctx))
	rootCmd.AddCommand(newElementCommand(ctx))
	rootCmd.AddCommand(newMarkingCommand(ctx))
	rootCmd.AddCommand(newInitCommand(ctx))
	rootCmd.AddCommand(newApplyCommand(ctx))
	rootCmd.AddCommand(newActionCommand(ctx))
	rootCmd.AddCommand(newNotesCommand(ctx))

	return rootCmd, ctx
}
