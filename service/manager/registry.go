package manager

import (
	"errors"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/engine"
)

// WorkflowIfExists returns the named workflow if it applies to subject, nil otherwise
func (m *Manager) WorkflowIfExists(subject model.Subject, name string) (*engine.Workflow, error) {
	wf, err := m.registry.Get(subject, name)
	if errors.Is(err, engine.ErrNotApplicable) {
		return nil, nil
	}
	return wf, err
}

// AllWorkflowsForSubject returns applicable workflows in priority order
func (m *Manager) AllWorkflowsForSubject(subject model.Subject) ([]*engine.Workflow, error) {
	var ret []*engine.Workflow
	for _, config := range m.AllWorkflows() {
		wf, err := m.WorkflowIfExists(subject, config.Name)
		if err != nil {
			return nil, err
		}
		if wf != nil {
			ret = append(ret, wf)
		}
	}
	return ret, nil
}

// WorkflowByName returns workflow by registered name
func (m *Manager) WorkflowByName(name string) (*engine.Workflow, error) {
	config, err := m.WorkflowConfig(name)
	if err != nil {
		return nil, err
	}
	return m.registry.Workflow(config.ServiceID())
}

// TransitionByName returns the first transition with the name, nil when none matches
func (m *Manager) TransitionByName(workflow, transition string) (*model.Transition, error) {
	wf, err := m.WorkflowByName(workflow)
	if err != nil {
		return nil, err
	}
	for _, candidate := range wf.Definition().Transitions {
		if candidate.Name == transition {
			return candidate, nil
		}
	}
	return nil, nil
}
