package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a workflow, global action or transition does not exist
var ErrNotFound = errors.New("not found")

// NotFoundError describes which kind of entity is missing
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Name)
}

// Is reports ErrNotFound equivalence
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates not found error
func NewNotFoundError(kind, name string) error {
	return &NotFoundError{Kind: kind, Name: name}
}
