// Package element provides stores for content elements.
package element

import (
	"github.com/viant/markflow/model/element"
	"github.com/viant/markflow/service/dao"
	"github.com/viant/markflow/service/dao/criteria"
)

// Fields exposes element values to dao.Parameter filters
func Fields(e *element.Element) criteria.Fields {
	return func(name string) (string, bool) {
		switch name {
		case dao.ParameterSubjectType:
			return e.Type, true
		case dao.ParameterSubjectID:
			return e.ID, true
		}
		return "", false
	}
}
