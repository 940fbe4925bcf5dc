package model

import "fmt"

// Workflow engine types
const (
	TypeWorkflow     = "workflow"
	TypeStateMachine = "state_machine"
)

// WorkflowOptions represents static workflow settings as declared in configuration
type WorkflowOptions struct {
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Priority int      `json:"priority,omitempty" yaml:"priority,omitempty"`
	Supports []string `json:"supports,omitempty" yaml:"supports,omitempty"`
}

// WorkflowConfig identifies a registered workflow
type WorkflowConfig struct {
	Name     string   `json:"name" yaml:"name"`
	Type     string   `json:"type" yaml:"type"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Priority int      `json:"priority" yaml:"priority"`
	Supports []string `json:"supports,omitempty" yaml:"supports,omitempty"`
}

// NewWorkflowConfig creates a workflow config, type defaults to TypeWorkflow
func NewWorkflowConfig(name string, options WorkflowOptions) *WorkflowConfig {
	ret := &WorkflowConfig{
		Name:     name,
		Type:     options.Type,
		Label:    options.Label,
		Priority: options.Priority,
		Supports: append([]string(nil), options.Supports...),
	}
	if ret.Type == "" {
		ret.Type = TypeWorkflow
	}
	return ret
}

// ServiceID returns the id used to look the workflow up in a container
func (c *WorkflowConfig) ServiceID() string {
	return ServiceID(c.Type, c.Name)
}

// ServiceID returns container id for a workflow type and name
func ServiceID(workflowType, name string) string {
	return workflowType + "." + name
}

// DisplayLabel returns label or name when label is not set
func (c *WorkflowConfig) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// NotesOptions controls audit note creation for a transition or global action
type NotesOptions struct {
	CommentEnabled  bool   `json:"commentEnabled,omitempty" yaml:"commentEnabled,omitempty"`
	CommentRequired bool   `json:"commentRequired,omitempty" yaml:"commentRequired,omitempty"`
	Type            string `json:"type,omitempty" yaml:"type,omitempty"`
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Transition represents a guarded move between sets of places
type Transition struct {
	Name      string        `json:"name" yaml:"name"`
	From      []string      `json:"from" yaml:"from"`
	To        []string      `json:"to" yaml:"to"`
	Guard     string        `json:"guard,omitempty" yaml:"guard,omitempty"`
	Label     string        `json:"label,omitempty" yaml:"label,omitempty"`
	IconClass string        `json:"iconClass,omitempty" yaml:"iconClass,omitempty"`
	Notes     *NotesOptions `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewTransition creates a transition
func NewTransition(name string, from []string, to []string) *Transition {
	return &Transition{Name: name, From: from, To: to}
}

// WithGuard sets guard expression
func (t *Transition) WithGuard(guard string) *Transition {
	t.Guard = guard
	return t
}

// WithNotes sets notes options
func (t *Transition) WithNotes(notes *NotesOptions) *Transition {
	t.Notes = notes
	return t
}

// Definition represents places and transitions of a workflow
type Definition struct {
	Places        []string      `json:"places" yaml:"places"`
	Transitions   []*Transition `json:"transitions" yaml:"transitions"`
	InitialPlaces []string      `json:"initialPlaces,omitempty" yaml:"initialPlaces,omitempty"`
}

// NewDefinition creates a definition; when no initial place is given the first place is used
func NewDefinition(places []string, transitions []*Transition, initialPlaces ...string) *Definition {
	ret := &Definition{Places: places, Transitions: transitions, InitialPlaces: initialPlaces}
	if len(ret.InitialPlaces) == 0 && len(places) > 0 {
		ret.InitialPlaces = []string{places[0]}
	}
	return ret
}

// HasPlace returns true if place is defined
func (d *Definition) HasPlace(place string) bool {
	for _, candidate := range d.Places {
		if candidate == place {
			return true
		}
	}
	return false
}

// TransitionsNamed returns all transitions with the given name (a workflow
// may declare the same name several times with distinct from places)
func (d *Definition) TransitionsNamed(name string) []*Transition {
	var ret []*Transition
	for _, transition := range d.Transitions {
		if transition.Name == name {
			ret = append(ret, transition)
		}
	}
	return ret
}

// Validate performs structural validation of the definition
func (d *Definition) Validate(workflowType string) []error {
	var issues []error
	seen := map[string]bool{}
	for _, place := range d.Places {
		if place == UninitializedPlace {
			issues = append(issues, fmt.Errorf("place name cannot be empty"))
			continue
		}
		if seen[place] {
			issues = append(issues, fmt.Errorf("duplicate place %s", place))
		}
		seen[place] = true
	}
	for _, place := range d.InitialPlaces {
		if !seen[place] {
			issues = append(issues, fmt.Errorf("initial place %s is not defined", place))
		}
	}
	if workflowType == TypeStateMachine && len(d.InitialPlaces) > 1 {
		issues = append(issues, fmt.Errorf("state machine can have only one initial place"))
	}
	for _, transition := range d.Transitions {
		if transition.Name == "" {
			issues = append(issues, fmt.Errorf("transition name cannot be empty"))
		}
		for _, place := range append(append([]string{}, transition.From...), transition.To...) {
			if !seen[place] {
				issues = append(issues, fmt.Errorf("transition %s refers to unknown place %s", transition.Name, place))
			}
		}
		if workflowType == TypeStateMachine && len(transition.To) != 1 {
			issues = append(issues, fmt.Errorf("state machine transition %s must have exactly one output", transition.Name))
		}
	}
	return issues
}
