// Package messaging defines the queue abstraction used to stream workflow
// events to asynchronous consumers.
package messaging

import (
	"context"
	"errors"
)

// ErrClosed is returned when publishing to or consuming from a closed queue
var ErrClosed = errors.New("queue closed")

// Queue represents a message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue, blocking until one is available
	Consume(ctx context.Context) (Message[T], error)

	// Close stops accepting messages
	Close() error
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// ID returns message identifier
	ID() string

	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}
