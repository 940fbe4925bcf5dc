// Package notes records an audit note for every completed transition and
// global action, and blocks transitions whose comment is required but missing.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/viant/markflow/internal/clock"
	"github.com/viant/markflow/internal/idgen"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/engine"
	"github.com/viant/markflow/service/dao"
	"github.com/viant/markflow/service/event"
	"github.com/viant/markflow/service/manager"
)

// DefaultType is the note type used when notes options do not set one
const DefaultType = "Status update"

// ReasonCommentRequired is the block reason for transitions missing a required comment
const ReasonCommentRequired = "comment is required"

// Subscriber records notes
type Subscriber struct {
	dao    dao.Service[string, model.Note]
	logger *slog.Logger
}

// Register subscribes to the dispatcher
func (s *Subscriber) Register(dispatcher *event.Dispatcher[*model.EventData]) {
	dispatcher.AddListener("workflow."+engine.EventGuard, s.onGuard)
	dispatcher.AddListener("workflow."+engine.EventCompleted, s.onCompleted)
	dispatcher.AddListener(manager.EventPreGlobalAction, s.onPreGlobalAction)
	dispatcher.AddListener(manager.EventPostGlobalAction, s.onPostGlobalAction)
}

func (s *Subscriber) onGuard(_ context.Context, evt *event.Event[*model.EventData]) error {
	transition := evt.Data.Transition
	if transition == nil || transition.Notes == nil || !transition.Notes.CommentRequired {
		return nil
	}
	if evt.Data.Comment() == "" {
		evt.Block(ReasonCommentRequired)
	}
	return nil
}

func (s *Subscriber) onPreGlobalAction(_ context.Context, evt *event.Event[*model.EventData]) error {
	action := evt.Data.GlobalAction
	if action == nil || action.Notes == nil || !action.Notes.CommentRequired || evt.Data.Comment() != "" {
		return nil
	}
	s.logger.Warn("global action applied without required comment", "workflow", evt.Data.Workflow, "action", action.Name)
	return nil
}

func (s *Subscriber) onCompleted(ctx context.Context, evt *event.Event[*model.EventData]) error {
	transition := evt.Data.Transition
	if transition == nil {
		return nil
	}
	note := s.newNote(evt.Data, transition.Notes, transition.Label, transition.Name)
	note.Transition = transition.Name
	return s.save(ctx, note)
}

func (s *Subscriber) onPostGlobalAction(ctx context.Context, evt *event.Event[*model.EventData]) error {
	action := evt.Data.GlobalAction
	if action == nil {
		return nil
	}
	note := s.newNote(evt.Data, action.Notes, action.Label, action.Name)
	note.GlobalAction = action.Name
	return s.save(ctx, note)
}

func (s *Subscriber) newNote(data *model.EventData, options *model.NotesOptions, label, name string) *model.Note {
	note := &model.Note{
		ID:             idgen.New(),
		Workflow:       data.Workflow,
		Type:           DefaultType,
		Title:          label,
		Description:    data.Comment(),
		AdditionalData: data.AdditionalData,
		CreatedAt:      clock.Now(),
	}
	if note.Title == "" {
		note.Title = name
	}
	if data.Subject != nil {
		note.SubjectID = data.Subject.SubjectID()
		note.SubjectType = data.Subject.SubjectType()
	}
	if data.Marking != nil {
		note.Places = data.Marking.Places()
	}
	if options != nil {
		if options.Type != "" {
			note.Type = options.Type
		}
		if options.Title != "" {
			note.Title = options.Title
		}
	}
	return note
}

func (s *Subscriber) save(ctx context.Context, note *model.Note) error {
	if err := s.dao.Save(ctx, note); err != nil {
		return fmt.Errorf("failed to save note for %v/%v: %w", note.SubjectType, note.SubjectID, err)
	}
	s.logger.Debug("note recorded", "workflow", note.Workflow, "subject", note.SubjectID, "title", note.Title)
	return nil
}

// Notes returns subject notes, oldest first
func (s *Subscriber) Notes(ctx context.Context, subject model.Subject, workflow string) ([]*model.Note, error) {
	parameters := []*dao.Parameter{
		dao.NewParameter(dao.ParameterSubjectType, subject.SubjectType()),
		dao.NewParameter(dao.ParameterSubjectID, subject.SubjectID()),
	}
	if workflow != "" {
		parameters = append(parameters, dao.NewParameter(dao.ParameterWorkflow, workflow))
	}
	ret, err := s.dao.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].CreatedAt.Before(ret[j].CreatedAt) })
	return ret, nil
}

// New creates a subscriber backed by the note store
func New(store dao.Service[string, model.Note], logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{dao: store, logger: logger}
}
