// Package engine implements workflow and state machine nets: marking
// resolution, guard evaluation, transition application and event dispatch.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/evaluator"
	"github.com/viant/markflow/service/event"
	"github.com/viant/markflow/service/markingstore"
)

// Event names, dispatched as workflow.<event>, workflow.<name>.<event> and
// workflow.<name>.<event>.<transition or place>
const (
	EventGuard      = "guard"
	EventLeave      = "leave"
	EventTransition = "transition"
	EventEnter      = "enter"
	EventEntered    = "entered"
	EventCompleted  = "completed"
)

// EventNames returns dispatch names of a workflow event, most generic first
func EventNames(workflow, eventType, specific string) []string {
	ret := []string{"workflow." + eventType, "workflow." + workflow + "." + eventType}
	if specific != "" {
		ret = append(ret, "workflow."+workflow+"."+eventType+"."+specific)
	}
	return ret
}

// Workflow represents a workflow or state machine bound to a marking store
type Workflow struct {
	name       string
	kind       string
	definition *model.Definition
	store      markingstore.Store
	dispatcher *event.Dispatcher[*model.EventData]
	evaluator  *evaluator.Evaluator
	logger     *slog.Logger
}

// Name returns workflow name
func (w *Workflow) Name() string { return w.name }

// Type returns workflow type
func (w *Workflow) Type() string { return w.kind }

// ServiceID returns container id
func (w *Workflow) ServiceID() string { return model.ServiceID(w.kind, w.name) }

// Definition returns workflow definition
func (w *Workflow) Definition() *model.Definition { return w.definition }

// MarkingStore returns marking store
func (w *Workflow) MarkingStore() markingstore.Store { return w.store }

// Dispatcher returns event dispatcher
func (w *Workflow) Dispatcher() *event.Dispatcher[*model.EventData] { return w.dispatcher }

// Marking returns subject marking; an empty marking is populated with the
// initial places and written back to the store.
func (w *Workflow) Marking(ctx context.Context, subject model.Subject) (*model.Marking, error) {
	marking, err := w.store.Marking(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("workflow %v: failed to read marking: %w", w.name, err)
	}
	if marking == nil {
		marking = model.NewMarking()
	}
	if marking.IsEmpty() && len(w.definition.InitialPlaces) > 0 {
		for _, place := range w.definition.InitialPlaces {
			marking.Mark(place)
		}
		if err = w.store.SetMarking(ctx, subject, marking); err != nil {
			return nil, fmt.Errorf("workflow %v: failed to set initial marking: %w", w.name, err)
		}
	}
	for _, place := range marking.Places() {
		if place != model.UninitializedPlace && !w.definition.HasPlace(place) {
			return nil, fmt.Errorf("workflow %v: place %q of subject %v is not defined", w.name, place, subject.SubjectID())
		}
	}
	return marking, nil
}

// Can returns true if the named transition can be applied
func (w *Workflow) Can(ctx context.Context, subject model.Subject, name string) (bool, error) {
	marking, err := w.Marking(ctx, subject)
	if err != nil {
		return false, err
	}
	for _, transition := range w.definition.TransitionsNamed(name) {
		blockers, err := w.blockers(ctx, subject, marking, transition, nil)
		if err != nil {
			return false, err
		}
		if len(blockers) == 0 {
			return true, nil
		}
	}
	return false, nil
}

// EnabledTransitions returns transitions applicable in the current marking
func (w *Workflow) EnabledTransitions(ctx context.Context, subject model.Subject) ([]*model.Transition, error) {
	marking, err := w.Marking(ctx, subject)
	if err != nil {
		return nil, err
	}
	var ret []*model.Transition
	for _, transition := range w.definition.Transitions {
		blockers, err := w.blockers(ctx, subject, marking, transition, nil)
		if err != nil {
			return nil, err
		}
		if len(blockers) == 0 {
			ret = append(ret, transition)
		}
	}
	return ret, nil
}

// Apply applies every enabled transition with the given name and returns the resulting marking
func (w *Workflow) Apply(ctx context.Context, subject model.Subject, name string, opts ...ApplyOption) (*model.Marking, error) {
	options := &applyOptions{}
	for _, opt := range opts {
		opt(options)
	}
	marking, err := w.Marking(ctx, subject)
	if err != nil {
		return nil, err
	}
	invalid := &InvalidTransitionError{Workflow: w.name, Transition: name, SubjectID: subject.SubjectID()}
	candidates := w.definition.TransitionsNamed(name)
	if len(candidates) == 0 {
		invalid.Reasons = append(invalid.Reasons, "transition is not defined")
		return nil, invalid
	}
	var approved []*model.Transition
	for _, transition := range candidates {
		blockers, err := w.blockers(ctx, subject, marking, transition, options.additionalData)
		if err != nil {
			return nil, err
		}
		if len(blockers) > 0 {
			invalid.Reasons = append(invalid.Reasons, blockers...)
			continue
		}
		approved = append(approved, transition)
		if w.kind == model.TypeStateMachine {
			break
		}
	}
	if len(approved) == 0 {
		return nil, invalid
	}
	for _, transition := range approved {
		if err = w.fire(ctx, subject, marking, transition, options.additionalData); err != nil {
			return nil, err
		}
	}
	w.logger.Debug("transition applied", "workflow", w.name, "transition", name, "subject", subject.SubjectID(), "marking", marking.String())
	return marking, nil
}

func (w *Workflow) fire(ctx context.Context, subject model.Subject, marking *model.Marking, transition *model.Transition, data map[string]interface{}) error {
	payload := func(place string) *model.EventData {
		return &model.EventData{Workflow: w.name, Subject: subject, Marking: marking, Transition: transition, Place: place, AdditionalData: data}
	}
	for _, place := range transition.From {
		if !marking.Has(place) {
			continue
		}
		if err := w.dispatch(ctx, EventLeave, place, payload(place)); err != nil {
			return err
		}
		marking.Unmark(place)
	}
	if err := w.dispatch(ctx, EventTransition, transition.Name, payload("")); err != nil {
		return err
	}
	for _, place := range transition.To {
		if err := w.dispatch(ctx, EventEnter, place, payload(place)); err != nil {
			return err
		}
		marking.Mark(place)
	}
	if err := w.store.SetMarking(ctx, subject, marking); err != nil {
		return fmt.Errorf("workflow %v: failed to set marking: %w", w.name, err)
	}
	for _, place := range transition.To {
		if err := w.dispatch(ctx, EventEntered, place, payload(place)); err != nil {
			return err
		}
	}
	return w.dispatch(ctx, EventCompleted, transition.Name, payload(""))
}

func (w *Workflow) blockers(ctx context.Context, subject model.Subject, marking *model.Marking, transition *model.Transition, data map[string]interface{}) ([]string, error) {
	var ret []string
	if !w.isEnabled(marking, transition) {
		return append(ret, fmt.Sprintf("subject is not in place(s) %v", transition.From)), nil
	}
	if transition.Guard != "" {
		variables := Variables(w.name, subject, marking, data)
		variables["transition"] = transition.Name
		ok, err := w.evaluator.IsTrue(transition.Guard, variables)
		switch {
		case err != nil:
			ret = append(ret, fmt.Sprintf("guard %q failed: %v", transition.Guard, err))
		case !ok:
			ret = append(ret, fmt.Sprintf("guard %q is not satisfied", transition.Guard))
		}
	}
	evt := event.NewEvent(EventGuard, &model.EventData{Workflow: w.name, Subject: subject, Marking: marking, Transition: transition, AdditionalData: data})
	if err := w.dispatcher.Dispatch(ctx, evt, EventNames(w.name, EventGuard, transition.Name)...); err != nil {
		return nil, fmt.Errorf("workflow %v: guard listener failed: %w", w.name, err)
	}
	return append(ret, evt.Blockers...), nil
}

func (w *Workflow) isEnabled(marking *model.Marking, transition *model.Transition) bool {
	if w.kind == model.TypeStateMachine {
		for _, place := range transition.From {
			if marking.Has(place) {
				return true
			}
		}
		return false
	}
	for _, place := range transition.From {
		if !marking.Has(place) {
			return false
		}
	}
	return true
}

func (w *Workflow) dispatch(ctx context.Context, eventType, specific string, data *model.EventData) error {
	evt := event.NewEvent(eventType, data)
	if err := w.dispatcher.Dispatch(ctx, evt, EventNames(w.name, eventType, specific)...); err != nil {
		return fmt.Errorf("workflow %v: %v listener failed: %w", w.name, eventType, err)
	}
	return nil
}

// Variables returns expression variables for a subject
func Variables(workflow string, subject model.Subject, marking *model.Marking, data map[string]interface{}) map[string]interface{} {
	var properties interface{} = subject
	if source, ok := subject.(model.PropertySource); ok {
		properties = source.Properties()
	}
	return map[string]interface{}{
		"workflow": workflow,
		"subject":  properties,
		"marking":  marking.Places(),
		"data":     data,
	}
}

// New creates a workflow, the definition is validated against the workflow type
func New(name string, definition *model.Definition, store markingstore.Store, opts ...Option) (*Workflow, error) {
	if name == "" {
		return nil, fmt.Errorf("workflow name was empty")
	}
	if definition == nil {
		return nil, fmt.Errorf("workflow %v: definition was nil", name)
	}
	if store == nil {
		return nil, fmt.Errorf("workflow %v: marking store was nil", name)
	}
	ret := &Workflow{name: name, kind: model.TypeWorkflow, definition: definition, store: store}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.kind != model.TypeWorkflow && ret.kind != model.TypeStateMachine {
		return nil, fmt.Errorf("workflow %v: unsupported type %q", name, ret.kind)
	}
	if issues := definition.Validate(ret.kind); len(issues) > 0 {
		return nil, fmt.Errorf("workflow %v: invalid definition: %w", name, errors.Join(issues...))
	}
	if ret.dispatcher == nil {
		ret.dispatcher = event.NewDispatcher[*model.EventData]()
	}
	if ret.evaluator == nil {
		ret.evaluator = evaluator.New()
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret, nil
}
