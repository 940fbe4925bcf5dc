package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Handler handles dispatched event
type Handler[T any] func(ctx context.Context, event *Event[T]) error

// Dispatcher synchronously notifies listeners registered by event name
type Dispatcher[T any] struct {
	mux       sync.RWMutex
	listeners map[string][]Handler[T]
	publisher *Publisher[T]
	logger    *slog.Logger
}

// AddListener registers a handler for the event name
func (d *Dispatcher[T]) AddListener(name string, handler Handler[T]) {
	d.mux.Lock()
	defer d.mux.Unlock()
	d.listeners[name] = append(d.listeners[name], handler)
}

// HasListeners returns true if any handler is registered for the name
func (d *Dispatcher[T]) HasListeners(name string) bool {
	d.mux.RLock()
	defer d.mux.RUnlock()
	return len(d.listeners[name]) > 0
}

// Dispatch notifies listeners of every supplied name in order, the same event
// instance is passed to all of them so blocks accumulate. Handler errors are
// joined and returned after all listeners ran.
func (d *Dispatcher[T]) Dispatch(ctx context.Context, evt *Event[T], names ...string) error {
	if len(names) == 0 {
		names = []string{evt.Name}
	}
	var errs []error
	for _, name := range names {
		d.mux.RLock()
		handlers := append([]Handler[T](nil), d.listeners[name]...)
		d.mux.RUnlock()
		for _, handler := range handlers {
			if err := handler(ctx, evt); err != nil {
				errs = append(errs, fmt.Errorf("listener %v failed: %w", name, err))
			}
		}
	}
	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, evt); err != nil {
			d.logger.Warn("failed to publish event", "event", evt.Name, "error", err)
		}
	}
	return errors.Join(errs...)
}

// NewDispatcher creates a dispatcher
func NewDispatcher[T any](opts ...Option[T]) *Dispatcher[T] {
	ret := &Dispatcher[T]{listeners: make(map[string][]Handler[T])}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}
