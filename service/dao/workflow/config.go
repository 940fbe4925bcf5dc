package workflow

import "github.com/viant/markflow/model"

// Marking store types
const (
	MarkingStoreStateTable    = "state_table"
	MarkingStoreSingleState   = "single_state"
	MarkingStoreMultipleState = "multiple_state"
)

// MarkingStore represents marking store configuration
type MarkingStore struct {
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Place represents a configured place
type Place struct {
	Name    string
	Options model.PlaceOptions
}

// GlobalAction represents a configured global action
type GlobalAction struct {
	Name    string
	Options model.GlobalActionOptions
}

// Workflow represents a workflow configuration entry
type Workflow struct {
	Name          string
	Enabled       bool
	Options       model.WorkflowOptions
	MarkingStore  MarkingStore
	Definition    *model.Definition
	Places        []*Place
	GlobalActions []*GlobalAction
}

// MarkingStoreType returns configured marking store type or the type default
func (w *Workflow) MarkingStoreType() string {
	if w.MarkingStore.Type != "" {
		return w.MarkingStore.Type
	}
	if w.Options.Type == model.TypeStateMachine {
		return MarkingStoreSingleState
	}
	return MarkingStoreMultipleState
}
