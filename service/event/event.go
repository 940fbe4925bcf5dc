package event

import (
	"time"

	"github.com/viant/markflow/internal/clock"
)

// Event represents a named occurrence with typed payload
type Event[T any] struct {
	Name      string                 `json:"name"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
	Blockers  []string               `json:"blockers,omitempty"`
}

// NewEvent creates an event
func NewEvent[T any](name string, data T) *Event[T] {
	return &Event[T]{
		Name:      name,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

// Block marks the event as blocked, only guard listeners are expected to block
func (e *Event[T]) Block(reason string) {
	e.Blockers = append(e.Blockers, reason)
}

// Blocked returns true if any listener blocked the event
func (e *Event[T]) Blocked() bool {
	return len(e.Blockers) > 0
}
