package manager

import (
	"context"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/engine"
)

// AllowedGlobalActions returns global actions whose guard holds for the subject
func (m *Manager) AllowedGlobalActions(ctx context.Context, wf *engine.Workflow, subject model.Subject) ([]*model.GlobalAction, error) {
	marking, err := wf.Marking(ctx, subject)
	if err != nil {
		return nil, err
	}
	variables := engine.Variables(wf.Name(), subject, marking, nil)
	var ret []*model.GlobalAction
	for _, action := range m.GlobalActions(wf.Name()) {
		ok, err := m.evaluator.IsTrue(action.Guard, variables)
		if err != nil {
			m.logger.Warn("invalid global action guard", "workflow", wf.Name(), "action", action.Name, "error", err)
			continue
		}
		if ok {
			ret = append(ret, action)
		}
	}
	return ret, nil
}

// PlacePermissions resolves permission rules of the active places: per place
// the first permission whose condition holds applies, a denial from any place wins.
func (m *Manager) PlacePermissions(ctx context.Context, wf *engine.Workflow, subject model.Subject) (map[string]bool, error) {
	marking, err := wf.Marking(ctx, subject)
	if err != nil {
		return nil, err
	}
	variables := engine.Variables(wf.Name(), subject, marking, nil)
	ret := map[string]bool{}
	for _, config := range m.OrderedPlaceConfigs(wf.Name(), marking) {
		for _, permission := range config.Permissions {
			ok, err := m.evaluator.IsTrue(permission.Condition, variables)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			for rule, allowed := range permission.Rules {
				if current, seen := ret[rule]; seen && !current {
					continue
				}
				ret[rule] = allowed
			}
			break
		}
	}
	return ret, nil
}
