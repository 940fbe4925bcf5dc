// Package markingstore defines how workflow markings are read from and
// written to subjects.
package markingstore

import (
	"context"

	"github.com/viant/markflow/model"
)

// Store reads and writes the marking of a subject for one workflow
type Store interface {
	// Marking returns the current marking; subjects never placed into the
	// workflow report the model.UninitializedPlace sentinel.
	Marking(ctx context.Context, subject model.Subject) (*model.Marking, error)

	// SetMarking replaces the stored marking
	SetMarking(ctx context.Context, subject model.Subject, marking *model.Marking) error
}

// SelfPersisting is implemented by stores that persist SetMarking
// themselves, subjects do not need to be saved afterwards.
type SelfPersisting interface {
	SelfPersisting() bool
}

// IsSelfPersisting returns true if the store persists markings on its own
func IsSelfPersisting(store Store) bool {
	if persisting, ok := store.(SelfPersisting); ok {
		return persisting.SelfPersisting()
	}
	return false
}

// Uninitialized returns the sentinel marking
func Uninitialized() *model.Marking {
	return model.NewMarking(model.UninitializedPlace)
}
