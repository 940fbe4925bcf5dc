package memory

import (
	"context"

	"github.com/viant/markflow/model/element"
	"github.com/viant/markflow/service/dao"
	delement "github.com/viant/markflow/service/dao/element"
	"github.com/viant/markflow/service/dao/store"
)

// Service implements an in-memory element store; loaded elements are attached
// to the store so that element.Save persists back into it.
type Service struct {
	*store.MemoryStore[string, element.Element]
}

var _ dao.Service[string, element.Element] = (*Service)(nil)

// Save stores the element and attaches the store as its saver
func (s *Service) Save(ctx context.Context, e *element.Element) error {
	if e == nil {
		return dao.ErrNilEntity
	}
	if e.ID == "" {
		return dao.ErrInvalidID
	}
	e.Attach(s)
	return s.MemoryStore.Save(ctx, e)
}

// New creates an in-memory element store
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[string, element.Element](
		func(e *element.Element) string { return e.ID },
		store.WithFields[string, element.Element](delement.Fields),
	)}
}
