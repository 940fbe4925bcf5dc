package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const noteTimeLayout = "2006-01-02 15:04:05"

func newNotesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <element-id> [workflow]",
		Short: "List audit notes recorded for an element",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			item, err := ctx.loadElement(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			notes, err := srv.Notes().Notes(cmd.Context(), item, optionalArg(args, 1))
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No notes for %s\n", item.ID)
				return nil
			}
			rows := make([][]string, 0, len(notes))
			for _, note := range notes {
				origin := note.Transition
				if note.GlobalAction != "" {
					origin = note.GlobalAction + " (global)"
				}
				rows = append(rows, []string{
					note.CreatedAt.Local().Format(noteTimeLayout),
					note.Workflow,
					origin,
					note.Title,
					note.Description,
					joinOrDash(note.Places),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Time", "Workflow", "Origin", "Title", "Comment", "Places"},
				rows,
				nil,
			))
			return nil
		},
	}
}
