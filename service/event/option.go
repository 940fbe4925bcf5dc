package event

import "log/slog"

// Option customises dispatcher
type Option[T any] func(d *Dispatcher[T])

// WithPublisher streams every dispatched event to the publisher queue
func WithPublisher[T any](publisher *Publisher[T]) Option[T] {
	return func(d *Dispatcher[T]) {
		d.publisher = publisher
	}
}

// WithLogger sets logger
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(d *Dispatcher[T]) {
		d.logger = logger
	}
}
