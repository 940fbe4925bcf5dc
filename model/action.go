package model

// GlobalActionOptions represents a global action as declared in configuration
type GlobalActionOptions struct {
	Label     string        `json:"label,omitempty" yaml:"label,omitempty"`
	IconClass string        `json:"iconClass,omitempty" yaml:"iconClass,omitempty"`
	Guard     string        `json:"guard,omitempty" yaml:"guard,omitempty"`
	To        []string      `json:"to,omitempty" yaml:"to,omitempty"`
	Notes     *NotesOptions `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// GlobalAction represents an action not tied to a transition; firing it moves
// a subject unconditionally to Tos
type GlobalAction struct {
	Workflow  string        `json:"workflow"`
	Name      string        `json:"name"`
	Label     string        `json:"label,omitempty"`
	IconClass string        `json:"iconClass,omitempty"`
	Guard     string        `json:"guard,omitempty"`
	Tos       []string      `json:"tos,omitempty"`
	Notes     *NotesOptions `json:"notes,omitempty"`
}

// NewGlobalAction creates a global action
func NewGlobalAction(workflow, name string, options GlobalActionOptions) *GlobalAction {
	return &GlobalAction{
		Workflow:  workflow,
		Name:      name,
		Label:     options.Label,
		IconClass: options.IconClass,
		Guard:     options.Guard,
		Tos:       append([]string(nil), options.To...),
		Notes:     options.Notes,
	}
}

// DisplayLabel returns label or action name when label is not set
func (a *GlobalAction) DisplayLabel() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Name
}
