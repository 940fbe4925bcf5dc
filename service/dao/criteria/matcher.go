package criteria

import (
	"github.com/viant/markflow/service/dao"
)

// Fields returns entity values addressed by parameter name
type Fields func(name string) (string, bool)

// Match returns true when every parameter addressing a known field matches;
// parameters naming unknown fields are ignored
func Match(fields Fields, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		actual, ok := fields(parameter.Name)
		if !ok {
			continue
		}
		if !matchValue(actual, parameter.Value) {
			return false
		}
	}
	return true
}

func matchValue(actual string, expected interface{}) bool {
	switch candidate := expected.(type) {
	case string:
		return actual == candidate
	case []string:
		for _, item := range candidate {
			if actual == item {
				return true
			}
		}
		return false
	}
	return true
}
