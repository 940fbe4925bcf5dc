package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func shouldSkipService(cmd *cobra.Command) bool {
	if cmd == nil || !cmd.HasParent() {
		return true
	}
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

// parseAssignments parses key=value pairs; numbers and booleans keep their type
func parseAssignments(assignments []string) (map[string]interface{}, error) {
	if len(assignments) == 0 {
		return nil, nil
	}
	ret := make(map[string]interface{}, len(assignments))
	for _, assignment := range assignments {
		key, value, ok := strings.Cut(assignment, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", assignment)
		}
		ret[key] = parseValue(value)
	}
	return ret, nil
}

func parseValue(value string) interface{} {
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func formatValue(value interface{}) string {
	switch actual := value.(type) {
	case nil:
		return ""
	case map[string]interface{}:
		keys := make([]string, 0, len(actual))
		for key := range actual {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+"="+formatValue(actual[key]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(actual)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
