package statetable

import (
	"context"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/service/markingstore"
)

// Store represents a per workflow view of the state table
type Store struct {
	db       *DB
	workflow string
}

// Marking returns stored marking, subjects without a row report the uninitialized sentinel
func (s *Store) Marking(ctx context.Context, subject model.Subject) (*model.Marking, error) {
	marking, ok, err := s.db.load(ensureContext(ctx), s.workflow, subject)
	if err != nil {
		return nil, err
	}
	if !ok {
		return markingstore.Uninitialized(), nil
	}
	return marking, nil
}

// SetMarking upserts subject state row
func (s *Store) SetMarking(ctx context.Context, subject model.Subject, marking *model.Marking) error {
	return s.db.save(ensureContext(ctx), s.workflow, subject, marking)
}

// SelfPersisting returns true, rows are written on SetMarking
func (s *Store) SelfPersisting() bool {
	return true
}

var (
	_ markingstore.Store          = (*Store)(nil)
	_ markingstore.SelfPersisting = (*Store)(nil)
)
