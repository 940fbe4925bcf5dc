// Package property keeps workflow markings on the subject itself
package property

import (
	"context"
	"fmt"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/service/markingstore"
)

// Store stores places on subjects implementing model.MarkingHolder
type Store struct {
	workflow string
	single   bool
}

// Option customises store
type Option func(s *Store)

// WithSingleState restricts marking to one place, used by state machines
func WithSingleState() Option {
	return func(s *Store) {
		s.single = true
	}
}

// Marking returns subject marking
func (s *Store) Marking(ctx context.Context, subject model.Subject) (*model.Marking, error) {
	holder, err := s.holder(subject)
	if err != nil {
		return nil, err
	}
	places, ok := holder.WorkflowPlaces(s.workflow)
	if !ok {
		return markingstore.Uninitialized(), nil
	}
	return model.NewMarking(places...), nil
}

// SetMarking stores marking places on the subject
func (s *Store) SetMarking(ctx context.Context, subject model.Subject, marking *model.Marking) error {
	holder, err := s.holder(subject)
	if err != nil {
		return err
	}
	places := marking.Places()
	if s.single && len(places) > 1 {
		return fmt.Errorf("workflow %v: single state store cannot hold %d places %v", s.workflow, len(places), marking)
	}
	holder.SetWorkflowPlaces(s.workflow, places)
	return nil
}

// Workflow returns workflow name
func (s *Store) Workflow() string {
	return s.workflow
}

func (s *Store) holder(subject model.Subject) (model.MarkingHolder, error) {
	holder, ok := subject.(model.MarkingHolder)
	if !ok {
		return nil, fmt.Errorf("workflow %v: subject %T does not hold markings", s.workflow, subject)
	}
	return holder, nil
}

// New creates a property store for the workflow
func New(workflow string, opts ...Option) *Store {
	ret := &Store{workflow: workflow}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

var _ markingstore.Store = (*Store)(nil)
