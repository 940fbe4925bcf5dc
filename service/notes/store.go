package notes

import (
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/service/dao"
	"github.com/viant/markflow/service/dao/criteria"
	"github.com/viant/markflow/service/dao/store"
)

// Fields exposes note values to dao.Parameter filters
func Fields(note *model.Note) criteria.Fields {
	return func(name string) (string, bool) {
		switch name {
		case dao.ParameterSubjectType:
			return note.SubjectType, true
		case dao.ParameterSubjectID:
			return note.SubjectID, true
		case dao.ParameterWorkflow:
			return note.Workflow, true
		}
		return "", false
	}
}

// NewMemoryStore creates an in-memory note store
func NewMemoryStore() *store.MemoryStore[string, model.Note] {
	return store.NewMemoryStore[string, model.Note](
		func(note *model.Note) string { return note.ID },
		store.WithFields[string, model.Note](Fields),
	)
}
