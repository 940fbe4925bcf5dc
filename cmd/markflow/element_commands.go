package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/markflow/model/element"
)

func newElementCommand(ctx *commandContext) *cobra.Command {
	elementCmd := &cobra.Command{
		Use:   "element",
		Short: "Manage content elements",
	}
	elementCmd.AddCommand(newElementCreateCommand(ctx))
	elementCmd.AddCommand(newElementShowCommand(ctx))
	return elementCmd
}

func newElementCreateCommand(ctx *commandContext) *cobra.Command {
	var fields []string
	var mandatory []string
	var key string
	var published bool
	cmd := &cobra.Command{
		Use:   "create <id> <type>",
		Short: "Create or replace an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureService(cmd.Context()); err != nil {
				return err
			}
			values, err := parseAssignments(fields)
			if err != nil {
				return err
			}
			item := element.New(args[0], args[1]).WithMandatory(mandatory...)
			item.Key = key
			item.Published = published
			for name, value := range values {
				item.WithField(name, value)
			}
			if err = ctx.elements.Save(cmd.Context(), item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Element %s (%s) saved\n", item.ID, item.Type)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Field assignment key=value")
	cmd.Flags().StringSliceVar(&mandatory, "mandatory", nil, "Mandatory field names")
	cmd.Flags().StringVar(&key, "key", "", "Element key")
	cmd.Flags().BoolVar(&published, "published", false, "Mark element as published")
	return cmd
}

func newElementShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show element fields and stored places",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureService(cmd.Context()); err != nil {
				return err
			}
			item, err := ctx.loadElement(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %s\n", item.ID)
			fmt.Fprintf(out, "Type:      %s\n", item.Type)
			if item.Key != "" {
				fmt.Fprintf(out, "Key:       %s\n", item.Key)
			}
			fmt.Fprintf(out, "Published: %s\n", yesNo(item.Published))
			if len(item.Mandatory) > 0 {
				fmt.Fprintf(out, "Mandatory: %s\n", strings.Join(item.Mandatory, ", "))
			}
			names := make([]string, 0, len(item.Fields))
			for name := range item.Fields {
				names = append(names, name)
			}
			sort.Strings(names)
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, formatValue(item.Fields[name])})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			}
			return nil
		},
	}
}
