// Package dao defines storage abstractions shared by element, note and
// translation stores.
package dao

import (
	"context"
)

// Service represents a generic keyed store
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
