// Package memory provides a channel backed messaging.Queue
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/markflow/internal/clock"
	"github.com/viant/markflow/internal/idgen"
	"github.com/viant/markflow/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	Buffer     int           `json:"buffer,omitempty" yaml:"buffer,omitempty"`
	MaxRetries int           `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
	RetryDelay time.Duration `json:"retryDelay,omitempty" yaml:"retryDelay,omitempty"`
}

// DefaultConfig returns default queue configuration
func DefaultConfig() Config {
	return Config{
		Buffer:     256,
		MaxRetries: 3,
		RetryDelay: 50 * time.Millisecond,
	}
}

// Message represents queued payload
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	attempt    int
	enqueuedAt time.Time
	mux        sync.Mutex
	done       bool
	failure    error
}

// ID returns message id
func (m *Message[T]) ID() string { return m.id }

// T returns message payload
func (m *Message[T]) T() *T { return &m.payload }

// Attempt returns number of failed deliveries so far
func (m *Message[T]) Attempt() int { return m.attempt }

// Err returns the last processing error, set for dead letters
func (m *Message[T]) Err() error { return m.failure }

// Ack marks message as processed
func (m *Message[T]) Ack() error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.done {
		return fmt.Errorf("message %v already processed", m.id)
	}
	m.done = true
	return nil
}

// Nack marks message as failed; it is redelivered until MaxRetries is exceeded, then moved to dead letters
func (m *Message[T]) Nack(err error) error {
	m.mux.Lock()
	if m.done {
		m.mux.Unlock()
		return fmt.Errorf("message %v already processed", m.id)
	}
	m.done = true
	m.failure = err
	m.mux.Unlock()

	if m.attempt >= m.queue.config.MaxRetries {
		m.queue.deadLetter(m)
		return nil
	}
	retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, attempt: m.attempt + 1, enqueuedAt: clock.Now()}
	time.AfterFunc(m.queue.config.RetryDelay, func() {
		if err := m.queue.enqueue(context.Background(), retry); err != nil {
			m.queue.deadLetter(retry)
		}
	})
	return nil
}

// Queue implements messaging.Queue over a buffered channel
type Queue[T any] struct {
	config   Config
	messages chan *Message[T]
	closed   chan struct{}
	once     sync.Once
	mux      sync.Mutex
	dead     []*Message[T]
}

// NewQueue creates a memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	return &Queue[T]{
		config:   config,
		messages: make(chan *Message[T], config.Buffer),
		closed:   make(chan struct{}),
	}
}

// Publish enqueues a copy of the payload
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("payload was nil")
	}
	return q.enqueue(ctx, &Message[T]{id: idgen.New(), payload: *t, queue: q, enqueuedAt: clock.Now()})
}

func (q *Queue[T]) enqueue(ctx context.Context, msg *Message[T]) error {
	select {
	case <-q.closed:
		return messaging.ErrClosed
	default:
	}
	select {
	case q.messages <- msg:
		return nil
	case <-q.closed:
		return messaging.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns the next message
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-q.closed:
		return nil, messaging.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes the queue, pending messages are discarded
func (q *Queue[T]) Close() error {
	q.once.Do(func() { close(q.closed) })
	return nil
}

// Size returns number of pending messages
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadLetters returns messages that exceeded retries
func (q *Queue[T]) DeadLetters() []*Message[T] {
	q.mux.Lock()
	defer q.mux.Unlock()
	return append([]*Message[T](nil), q.dead...)
}

func (q *Queue[T]) deadLetter(msg *Message[T]) {
	q.mux.Lock()
	q.dead = append(q.dead, msg)
	q.mux.Unlock()
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
