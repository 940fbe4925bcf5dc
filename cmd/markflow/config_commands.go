package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newWorkflowsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "workflows",
		Short: "List registered workflows in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			requestCtx := ctx.requestContext(cmd.Context())
			var rows [][]string
			for _, config := range srv.Manager().AllWorkflows() {
				rows = append(rows, []string{
					config.Name,
					config.Type,
					strconv.Itoa(config.Priority),
					srv.Label(requestCtx, config.DisplayLabel()),
					joinOrDash(config.Supports),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workflows registered")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Type", "Priority", "Label", "Supports"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newPlacesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "places <workflow>",
		Short: "List place configuration of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			if _, err = srv.Manager().WorkflowConfig(args[0]); err != nil {
				return err
			}
			requestCtx := ctx.requestContext(cmd.Context())
			var rows [][]string
			for _, config := range srv.Manager().PlaceConfigsByWorkflowName(args[0]) {
				rows = append(rows, []string{
					config.Place,
					srv.Label(requestCtx, config.DisplayLabel()),
					config.BackgroundColor(),
					yesNo(config.VisibleInHeader),
					strconv.Itoa(len(config.Permissions)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Place", "Label", "Color", "In header", "Permissions"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newActionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "actions <workflow>",
		Short: "List global actions of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			if _, err = srv.Manager().WorkflowConfig(args[0]); err != nil {
				return err
			}
			requestCtx := ctx.requestContext(cmd.Context())
			var rows [][]string
			for _, action := range srv.Manager().GlobalActions(args[0]) {
				guard := action.Guard
				if guard == "" {
					guard = "-"
				}
				rows = append(rows, []string{
					action.Name,
					srv.Label(requestCtx, action.DisplayLabel()),
					joinOrDash(action.Tos),
					guard,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Action", "Label", "To", "Guard"},
				rows,
				nil,
			))
			return nil
		},
	}
}
