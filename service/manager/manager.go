// Package manager keeps per workflow configuration (workflows, place
// configs, global actions) and drives transitions, global actions and
// initial place bootstrapping against the workflow engine.
package manager

import (
	"log/slog"
	"sync"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/engine"
	"github.com/viant/markflow/runtime/evaluator"
	"github.com/viant/markflow/service/event"
)

// Global action event names
const (
	EventPreGlobalAction  = "markflow.preGlobalAction"
	EventPostGlobalAction = "markflow.postGlobalAction"
)

type registeredWorkflow struct {
	config   *model.WorkflowConfig
	sequence int
}

// Manager represents workflow manager, safe for concurrent use once configured
type Manager struct {
	mux           sync.RWMutex
	workflows     []*registeredWorkflow
	sequence      int
	placeConfigs  map[string]*ordered[model.PlaceConfig]
	globalActions map[string]*ordered[model.GlobalAction]
	registry      *engine.Registry
	dispatcher    *event.Dispatcher[*model.EventData]
	evaluator     *evaluator.Evaluator
	logger        *slog.Logger
}

// Registry returns engine registry
func (m *Manager) Registry() *engine.Registry {
	return m.registry
}

// Dispatcher returns event dispatcher used for global action events
func (m *Manager) Dispatcher() *event.Dispatcher[*model.EventData] {
	return m.dispatcher
}

// New creates a manager
func New(registry *engine.Registry, opts ...Option) *Manager {
	ret := &Manager{
		registry:      registry,
		placeConfigs:  make(map[string]*ordered[model.PlaceConfig]),
		globalActions: make(map[string]*ordered[model.GlobalAction]),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.registry == nil {
		ret.registry = engine.NewRegistry()
	}
	if ret.dispatcher == nil {
		ret.dispatcher = event.NewDispatcher[*model.EventData]()
	}
	if ret.evaluator == nil {
		ret.evaluator = evaluator.New()
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}
