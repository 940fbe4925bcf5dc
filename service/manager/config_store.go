package manager

import (
	"sort"

	"github.com/viant/markflow/model"
)

// RegisterWorkflow registers or replaces a workflow config; workflows are
// kept by descending priority, equal priorities in first registration order.
func (m *Manager) RegisterWorkflow(name string, options model.WorkflowOptions) *model.WorkflowConfig {
	config := model.NewWorkflowConfig(name, options)
	m.mux.Lock()
	defer m.mux.Unlock()
	replaced := false
	for _, candidate := range m.workflows {
		if candidate.config.Name == name {
			candidate.config = config
			replaced = true
			break
		}
	}
	if !replaced {
		m.sequence++
		m.workflows = append(m.workflows, &registeredWorkflow{config: config, sequence: m.sequence})
	}
	sort.SliceStable(m.workflows, func(i, j int) bool {
		if m.workflows[i].config.Priority != m.workflows[j].config.Priority {
			return m.workflows[i].config.Priority > m.workflows[j].config.Priority
		}
		return m.workflows[i].sequence < m.workflows[j].sequence
	})
	return config
}

// AllWorkflows returns workflow configs in priority order
func (m *Manager) AllWorkflows() []*model.WorkflowConfig {
	m.mux.RLock()
	defer m.mux.RUnlock()
	ret := make([]*model.WorkflowConfig, 0, len(m.workflows))
	for _, candidate := range m.workflows {
		ret = append(ret, candidate.config)
	}
	return ret
}

// WorkflowConfig returns workflow config or model.NotFoundError
func (m *Manager) WorkflowConfig(name string) (*model.WorkflowConfig, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	for _, candidate := range m.workflows {
		if candidate.config.Name == name {
			return candidate.config, nil
		}
	}
	return nil, model.NewNotFoundError("workflow", name)
}

// AddPlaceConfig adds or replaces place config, the workflow does not need to be registered
func (m *Manager) AddPlaceConfig(workflow, place string, options model.PlaceOptions) *model.PlaceConfig {
	config := model.NewPlaceConfig(workflow, place, options)
	m.mux.Lock()
	defer m.mux.Unlock()
	configs, ok := m.placeConfigs[workflow]
	if !ok {
		configs = &ordered[model.PlaceConfig]{}
		m.placeConfigs[workflow] = configs
	}
	configs.put(place, config)
	return config
}

// PlaceConfig returns place config or nil
func (m *Manager) PlaceConfig(workflow, place string) *model.PlaceConfig {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return m.placeConfigs[workflow].get(place)
}

// PlaceConfigsByWorkflowName returns workflow place configs in configuration order
func (m *Manager) PlaceConfigsByWorkflowName(workflow string) []*model.PlaceConfig {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return m.placeConfigs[workflow].values()
}

// OrderedPlaceConfigs returns place configs in configuration order, restricted to
// places active in marking unless marking is nil
func (m *Manager) OrderedPlaceConfigs(workflow string, marking *model.Marking) []*model.PlaceConfig {
	configs := m.PlaceConfigsByWorkflowName(workflow)
	if marking == nil {
		return configs
	}
	ret := make([]*model.PlaceConfig, 0, len(configs))
	for _, config := range configs {
		if marking.Has(config.Place) {
			ret = append(ret, config)
		}
	}
	return ret
}

// AddGlobalAction adds or replaces global action
func (m *Manager) AddGlobalAction(workflow, name string, options model.GlobalActionOptions) *model.GlobalAction {
	action := model.NewGlobalAction(workflow, name, options)
	m.mux.Lock()
	defer m.mux.Unlock()
	actions, ok := m.globalActions[workflow]
	if !ok {
		actions = &ordered[model.GlobalAction]{}
		m.globalActions[workflow] = actions
	}
	actions.put(name, action)
	return action
}

// GlobalAction returns global action or nil
func (m *Manager) GlobalAction(workflow, name string) *model.GlobalAction {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return m.globalActions[workflow].get(name)
}

// GlobalActions returns workflow global actions in configuration order
func (m *Manager) GlobalActions(workflow string) []*model.GlobalAction {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return m.globalActions[workflow].values()
}
