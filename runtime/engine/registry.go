package engine

import (
	"fmt"
	"sync"

	"github.com/viant/markflow/model"
)

// SupportStrategy decides whether a workflow applies to a subject
type SupportStrategy interface {
	Supports(workflow *Workflow, subject model.Subject) bool
}

// SupportedTypes supports subjects whose SubjectType is listed, an empty list supports every subject
type SupportedTypes []string

// Supports returns true if subject type is supported
func (s SupportedTypes) Supports(_ *Workflow, subject model.Subject) bool {
	if len(s) == 0 {
		return true
	}
	for _, candidate := range s {
		if candidate == subject.SubjectType() {
			return true
		}
	}
	return false
}

// SupportFunc adapts a function to SupportStrategy
type SupportFunc func(workflow *Workflow, subject model.Subject) bool

// Supports calls f
func (f SupportFunc) Supports(workflow *Workflow, subject model.Subject) bool {
	return f(workflow, subject)
}

type registration struct {
	workflow *Workflow
	strategy SupportStrategy
}

// Registry holds workflows and resolves the ones applicable to a subject
type Registry struct {
	mux           sync.RWMutex
	registrations []*registration
	byID          map[string]*Workflow
}

// Add registers workflow, a workflow with the same service id is replaced
func (r *Registry) Add(workflow *Workflow, strategy SupportStrategy) {
	if strategy == nil {
		strategy = SupportedTypes(nil)
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	id := workflow.ServiceID()
	if _, ok := r.byID[id]; ok {
		for i, candidate := range r.registrations {
			if candidate.workflow.ServiceID() == id {
				r.registrations[i] = &registration{workflow: workflow, strategy: strategy}
			}
		}
	} else {
		r.registrations = append(r.registrations, &registration{workflow: workflow, strategy: strategy})
	}
	r.byID[id] = workflow
}

// Get returns the workflow applicable to subject; name narrows the lookup
// when non empty. ErrNotApplicable is returned when none matches.
func (r *Registry) Get(subject model.Subject, name string) (*Workflow, error) {
	var matched []*Workflow
	for _, candidate := range r.matching(subject) {
		if name == "" || candidate.Name() == name {
			matched = append(matched, candidate)
		}
	}
	switch len(matched) {
	case 0:
		if name == "" {
			return nil, fmt.Errorf("%w: no workflow for subject %v (%v)", ErrNotApplicable, subject.SubjectID(), subject.SubjectType())
		}
		return nil, fmt.Errorf("%w: workflow %v does not support subject %v (%v)", ErrNotApplicable, name, subject.SubjectID(), subject.SubjectType())
	case 1:
		return matched[0], nil
	}
	return nil, fmt.Errorf("too many workflows (%d) match subject %v (%v), specify a name", len(matched), subject.SubjectID(), subject.SubjectType())
}

// Has returns true if any workflow supports subject
func (r *Registry) Has(subject model.Subject, name string) bool {
	_, err := r.Get(subject, name)
	return err == nil
}

// All returns every workflow applicable to subject in registration order
func (r *Registry) All(subject model.Subject) []*Workflow {
	return r.matching(subject)
}

// Workflow returns workflow by service id, i.e. "workflow.review"
func (r *Registry) Workflow(id string) (*Workflow, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret, ok := r.byID[id]
	if !ok {
		return nil, model.NewNotFoundError("workflow service", id)
	}
	return ret, nil
}

func (r *Registry) matching(subject model.Subject) []*Workflow {
	r.mux.RLock()
	defer r.mux.RUnlock()
	var ret []*Workflow
	for _, candidate := range r.registrations {
		if candidate.strategy.Supports(candidate.workflow, subject) {
			ret = append(ret, candidate.workflow)
		}
	}
	return ret
}

// NewRegistry creates a registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Workflow)}
}
