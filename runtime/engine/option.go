package engine

import (
	"log/slog"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/evaluator"
	"github.com/viant/markflow/service/event"
)

// Option customises workflow
type Option func(w *Workflow)

// WithType sets workflow type, model.TypeWorkflow or model.TypeStateMachine
func WithType(workflowType string) Option {
	return func(w *Workflow) {
		w.kind = workflowType
	}
}

// WithDispatcher sets event dispatcher
func WithDispatcher(dispatcher *event.Dispatcher[*model.EventData]) Option {
	return func(w *Workflow) {
		w.dispatcher = dispatcher
	}
}

// WithEvaluator sets guard expression evaluator
func WithEvaluator(evaluator *evaluator.Evaluator) Option {
	return func(w *Workflow) {
		w.evaluator = evaluator
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// ApplyOption customises a single Apply call
type ApplyOption func(o *applyOptions)

type applyOptions struct {
	additionalData map[string]interface{}
}

// WithContext passes additional data to every event of the transition
func WithContext(data map[string]interface{}) ApplyOption {
	return func(o *applyOptions) {
		o.additionalData = data
	}
}
