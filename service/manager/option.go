package manager

import (
	"log/slog"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/evaluator"
	"github.com/viant/markflow/service/event"
)

// Option customises manager
type Option func(m *Manager)

// WithDispatcher sets dispatcher for global action events
func WithDispatcher(dispatcher *event.Dispatcher[*model.EventData]) Option {
	return func(m *Manager) {
		m.dispatcher = dispatcher
	}
}

// WithEvaluator sets condition evaluator
func WithEvaluator(evaluator *evaluator.Evaluator) Option {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}
