package manager

import (
	"context"
	"fmt"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/engine"
	"github.com/viant/markflow/service/markingstore"
	"github.com/viant/markflow/tracing"
)

// EnsureInitialPlace moves a never placed subject into the workflow initial
// places without transition validation. It returns false when the workflow
// does not apply or the subject was already placed. When saving the subject
// fails the previous marking is restored, so a retry bootstraps again.
func (m *Manager) EnsureInitialPlace(ctx context.Context, workflowName string, subject model.Subject) (applied bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "markflow.ensureInitialPlace", tracing.Subject(workflowName, subject)...)
	defer func() { tracing.EndSpan(span, err) }()

	wf, err := m.WorkflowIfExists(subject, workflowName)
	if err != nil || wf == nil {
		return false, err
	}
	store := wf.MarkingStore()
	if store == nil {
		return false, nil
	}
	marking, err := store.Marking(ctx, subject)
	if err != nil {
		return false, err
	}
	if !marking.Has(model.UninitializedPlace) {
		return false, nil
	}
	previous := marking.Clone()
	for marking.Has(model.UninitializedPlace) {
		marking.Unmark(model.UninitializedPlace)
	}
	for _, place := range m.InitialPlacesForWorkflow(wf) {
		marking.Mark(place)
	}
	if err = store.SetMarking(ctx, subject, marking); err != nil {
		return false, fmt.Errorf("workflow %v: failed to set initial marking: %w", workflowName, err)
	}
	if !markingstore.IsSelfPersisting(store) {
		if err = saveWithoutMandatoryCheck(ctx, subject); err != nil {
			if restoreErr := store.SetMarking(ctx, subject, previous); restoreErr != nil {
				m.logger.Warn("failed to restore marking", "workflow", workflowName, "subject", subject.SubjectID(), "error", restoreErr)
			}
			return false, fmt.Errorf("workflow %v: failed to save subject %v: %w", workflowName, subject.SubjectID(), err)
		}
	}
	tracing.SetMarking(span, marking)
	m.logger.Info("initial place set", "workflow", workflowName, "subject", subject.SubjectID(), "marking", marking.String())
	return true, nil
}

// InitialPlacesForWorkflow returns workflow initial places, never nil
func (m *Manager) InitialPlacesForWorkflow(wf *engine.Workflow) []string {
	return append([]string{}, wf.Definition().InitialPlaces...)
}

func saveWithoutMandatoryCheck(ctx context.Context, subject model.Subject) error {
	persistable, ok := subject.(model.Persistable)
	if !ok {
		return nil
	}
	if toggler, ok := subject.(model.MandatoryCheckToggler); ok {
		previous := toggler.OmitMandatoryCheck()
		toggler.SetOmitMandatoryCheck(true)
		defer toggler.SetOmitMandatoryCheck(previous)
	}
	return persistable.Save(ctx)
}
