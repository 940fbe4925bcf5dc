package meta

import (
	"os"
	"regexp"
)

var envExpr = regexp.MustCompile(`\$\{env\.([\p{L}\p{N}_]*)\}`)

// expandEnvExpr replaces ${env.KEY} with the KEY environment variable, unset
// variables expand to empty. Malformed expressions are left as is.
func expandEnvExpr(value string) string {
	return expand(value, os.Getenv)
}

func expand(value string, lookup func(string) string) string {
	return envExpr.ReplaceAllStringFunc(value, func(match string) string {
		return lookup(envExpr.FindStringSubmatch(match)[1])
	})
}
