package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/markflow"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/model/element"
	"github.com/viant/markflow/runtime/engine"
)

func newMarkingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "marking <element-id> [workflow]",
		Short: "Show element marking, enabled transitions and allowed global actions",
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
			workflows, err := applicableWorkflows(srv, item, optionalArg(args, 1))
			if err != nil {
				return err
			}
			requestCtx := ctx.requestContext(cmd.Context())
			var rows [][]string
			for _, wf := range workflows {
				row, err := markingRow(requestCtx, srv, wf, item)
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No workflow applies to %s\n", item.ID)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Workflow", "Places", "Transitions", "Global actions", "Permissions"},
				rows,
				nil,
			))
			return nil
		},
	}
}

func markingRow(ctx context.Context, srv *markflow.Service, wf *engine.Workflow, item *element.Element) ([]string, error) {
	mgr := srv.Manager()
	marking, err := wf.Marking(ctx, item)
	if err != nil {
		return nil, err
	}
	if marking.IsUninitialized() {
		return []string{wf.Name(), "(not initialised)", "-", "-", "-"}, nil
	}
	var places []string
	for _, config := range mgr.OrderedPlaceConfigs(wf.Name(), marking) {
		places = append(places, srv.Label(ctx, config.DisplayLabel()))
	}
	if len(places) == 0 {
		places = marking.Places()
	}
	transitions, err := wf.EnabledTransitions(ctx, item)
	if err != nil {
		return nil, err
	}
	var transitionNames []string
	for _, transition := range transitions {
		transitionNames = append(transitionNames, transition.Name)
	}
	actions, err := mgr.AllowedGlobalActions(ctx, wf, item)
	if err != nil {
		return nil, err
	}
	var actionNames []string
	for _, action := range actions {
		actionNames = append(actionNames, action.Name)
	}
	permissions, err := mgr.PlacePermissions(ctx, wf, item)
	if err != nil {
		return nil, err
	}
	var rules []string
	for rule, allowed := range permissions {
		rules = append(rules, rule+"="+yesNo(allowed))
	}
	sort.Strings(rules)
	return []string{wf.Name(), strings.Join(places, ", "), joinOrDash(transitionNames), joinOrDash(actionNames), joinOrDash(rules)}, nil
}

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init <element-id> [workflow]",
		Short: "Place a never initialised element into initial places",
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
			workflows, err := applicableWorkflows(srv, item, optionalArg(args, 1))
			if err != nil {
				return err
			}
			for _, wf := range workflows {
				applied, err := srv.Manager().EnsureInitialPlace(cmd.Context(), wf.Name(), item)
				if err != nil {
					return err
				}
				if applied {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: placed into %s\n", wf.Name(), strings.Join(srv.Manager().InitialPlacesForWorkflow(wf), ", "))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: already initialised\n", wf.Name())
			}
			return nil
		},
	}
}

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var note string
	var data []string
	cmd := &cobra.Command{
		Use:   "apply <element-id> <workflow> <transition>",
		Short: "Apply a transition and save the element",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			item, wf, err := resolve(cmd.Context(), ctx, srv, args[0], args[1])
			if err != nil {
				return err
			}
			additionalData, err := additionalData(data, note)
			if err != nil {
				return err
			}
			marking, err := srv.Manager().ApplyWithAdditionalData(cmd.Context(), wf, item, args[2], additionalData)
			if err != nil {
				return err
			}
			if err = item.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s applied, marking %s\n", wf.Name(), args[2], marking)
			return nil
		},
	}
	cmd.Flags().StringVarP(&note, "note", "n", "", "Note comment")
	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "Additional data key=value")
	return cmd
}

func newActionCommand(ctx *commandContext) *cobra.Command {
	var note string
	var data []string
	var save bool
	cmd := &cobra.Command{
		Use:   "action <element-id> <workflow> <action>",
		Short: "Apply a global action",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			item, wf, err := resolve(cmd.Context(), ctx, srv, args[0], args[1])
			if err != nil {
				return err
			}
			additionalData, err := additionalData(data, note)
			if err != nil {
				return err
			}
			marking, err := srv.Manager().ApplyGlobalAction(cmd.Context(), wf, item, args[2], additionalData, save)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s applied, marking %s\n", wf.Name(), args[2], marking)
			return nil
		},
	}
	cmd.Flags().StringVarP(&note, "note", "n", "", "Note comment")
	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "Additional data key=value")
	cmd.Flags().BoolVar(&save, "save", true, "Save the element after the action")
	return cmd
}

func resolve(ctx context.Context, cmdCtx *commandContext, srv *markflow.Service, id, workflow string) (*element.Element, *engine.Workflow, error) {
	item, err := cmdCtx.loadElement(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	wf, err := srv.Manager().WorkflowIfExists(item, workflow)
	if err != nil {
		return nil, nil, err
	}
	if wf == nil {
		return nil, nil, fmt.Errorf("workflow %v does not apply to %v %v", workflow, item.Type, item.ID)
	}
	return item, wf, nil
}

func applicableWorkflows(srv *markflow.Service, item *element.Element, workflow string) ([]*engine.Workflow, error) {
	if workflow == "" {
		return srv.Manager().AllWorkflowsForSubject(item)
	}
	wf, err := srv.Manager().WorkflowIfExists(item, workflow)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, fmt.Errorf("workflow %v does not apply to %v %v", workflow, item.Type, item.ID)
	}
	return []*engine.Workflow{wf}, nil
}

func additionalData(assignments []string, note string) (map[string]interface{}, error) {
	ret, err := parseAssignments(assignments)
	if err != nil {
		return nil, err
	}
	if note != "" {
		if ret == nil {
			ret = map[string]interface{}{}
		}
		ret[model.NotesKey] = note
	}
	return ret, nil
}

func optionalArg(args []string, index int) string {
	if index < len(args) {
		return args[index]
	}
	return ""
}
