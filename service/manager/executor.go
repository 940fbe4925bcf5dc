package manager

import (
	"context"
	"fmt"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/engine"
	"github.com/viant/markflow/service/event"
	"github.com/viant/markflow/tracing"
)

// ApplyWithAdditionalData applies transition, additional data is passed to every transition event
func (m *Manager) ApplyWithAdditionalData(ctx context.Context, wf *engine.Workflow, subject model.Subject, transition string, additionalData map[string]interface{}) (marking *model.Marking, err error) {
	ctx, span := tracing.StartSpan(ctx, "markflow.apply", append(tracing.Subject(wf.Name(), subject), tracing.AttrTransition.String(transition))...)
	defer func() { tracing.EndSpan(span, err) }()

	marking, err = wf.Apply(ctx, subject, transition, engine.WithContext(additionalData))
	if err != nil {
		m.logger.Debug("transition rejected", "workflow", wf.Name(), "transition", transition, "subject", subject.SubjectID(), "error", err)
		return nil, err
	}
	tracing.SetMarking(span, marking)
	m.logger.Info("transition applied", "workflow", wf.Name(), "transition", transition, "subject", subject.SubjectID(), "marking", marking.String())
	return marking, nil
}

// ApplyGlobalAction fires a global action: the subject is moved to the action
// target places (if any) without guard evaluation. Listener failures are logged only.
func (m *Manager) ApplyGlobalAction(ctx context.Context, wf *engine.Workflow, subject model.Subject, action string, additionalData map[string]interface{}, save bool) (marking *model.Marking, err error) {
	ctx, span := tracing.StartSpan(ctx, "markflow.globalAction", append(tracing.Subject(wf.Name(), subject), tracing.AttrGlobalAction.String(action))...)
	defer func() { tracing.EndSpan(span, err) }()

	globalAction := m.GlobalAction(wf.Name(), action)
	if globalAction == nil {
		return nil, model.NewNotFoundError("global action", action)
	}
	definition := wf.Definition()
	for _, place := range globalAction.Tos {
		if !definition.HasPlace(place) {
			return nil, fmt.Errorf("workflow %v: global action %v: place %q is not defined", wf.Name(), action, place)
		}
	}
	payload := &model.EventData{Workflow: wf.Name(), Subject: subject, GlobalAction: globalAction, AdditionalData: additionalData}
	m.notify(ctx, EventPreGlobalAction, payload)

	if len(globalAction.Tos) > 0 {
		tokens := make(map[string]int, len(globalAction.Tos))
		for _, place := range globalAction.Tos {
			tokens[place] = 1
		}
		if err = wf.MarkingStore().SetMarking(ctx, subject, model.NewMarkingFromTokens(tokens)); err != nil {
			return nil, fmt.Errorf("global action %v: failed to set marking: %w", action, err)
		}
	}
	if marking, err = wf.MarkingStore().Marking(ctx, subject); err != nil {
		return nil, fmt.Errorf("global action %v: failed to read marking: %w", action, err)
	}
	payload.Marking = marking
	m.notify(ctx, EventPostGlobalAction, payload)

	if save {
		if persistable, ok := subject.(model.Persistable); ok {
			if err = persistable.Save(ctx); err != nil {
				return nil, fmt.Errorf("global action %v: failed to save subject %v: %w", action, subject.SubjectID(), err)
			}
		}
	}
	tracing.SetMarking(span, marking)
	m.logger.Info("global action applied", "workflow", wf.Name(), "action", action, "subject", subject.SubjectID(), "marking", marking.String())
	return marking, nil
}

func (m *Manager) notify(ctx context.Context, name string, payload *model.EventData) {
	if err := m.dispatcher.Dispatch(ctx, event.NewEvent(name, payload)); err != nil {
		m.logger.Warn("global action listener failed", "event", name, "workflow", payload.Workflow, "error", err)
	}
}
