package dao

// Parameter names understood by List implementations
const (
	ParameterSubjectType = "SubjectType"
	ParameterSubjectID   = "SubjectID"
	ParameterWorkflow    = "Workflow"
)

// Parameter represents a List filter
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a parameter with a single value or a value list
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
