package markflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/markflow/internal/logging"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/runtime/engine"
	"github.com/viant/markflow/runtime/evaluator"
	"github.com/viant/markflow/service/dao"
	"github.com/viant/markflow/service/dao/workflow"
	"github.com/viant/markflow/service/event"
	"github.com/viant/markflow/service/manager"
	"github.com/viant/markflow/service/markingstore"
	"github.com/viant/markflow/service/markingstore/property"
	"github.com/viant/markflow/service/markingstore/statetable"
	"github.com/viant/markflow/service/messaging/memory"
	"github.com/viant/markflow/service/meta"
	"github.com/viant/markflow/service/notes"
	"github.com/viant/markflow/service/translation"
	"github.com/viant/markflow/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Service wires the workflow manager with its engine registry, marking
// stores, note subscriber and translation lookup.
type Service struct {
	config             *Config
	logger             *slog.Logger
	fs                 afs.Service
	metaBaseURL        string
	metaService        *meta.Service
	workflowDAO        *workflow.Service
	evaluator          *evaluator.Evaluator
	dispatcher         *event.Dispatcher[*model.EventData]
	publisher          *event.Publisher[*model.EventData]
	listener           *event.Listener[*model.EventData]
	registry           *engine.Registry
	manager            *manager.Manager
	stateDB            *statetable.DB
	ownsStateDB        bool
	noteDAO            dao.Service[string, model.Note]
	notes              *notes.Subscriber
	translationDAO     dao.Service[string, translation.Translation]
	translationOptions []translation.Option
	translation        *translation.Service
	traceExporter      sdktrace.SpanExporter
}

// Config returns effective configuration
func (s *Service) Config() *Config { return s.config }

// Logger returns service logger
func (s *Service) Logger() *slog.Logger { return s.logger }

// Manager returns workflow manager
func (s *Service) Manager() *manager.Manager { return s.manager }

// Registry returns engine registry
func (s *Service) Registry() *engine.Registry { return s.registry }

// Dispatcher returns workflow event dispatcher
func (s *Service) Dispatcher() *event.Dispatcher[*model.EventData] { return s.dispatcher }

// Notes returns note subscriber
func (s *Service) Notes() *notes.Subscriber { return s.notes }

// Translation returns translation service
func (s *Service) Translation() *translation.Service { return s.translation }

// StateTable returns state table or nil when disabled
func (s *Service) StateTable() *statetable.DB { return s.stateDB }

// LoadWorkflows loads workflow configuration document from URL and registers enabled workflows
func (s *Service) LoadWorkflows(ctx context.Context, URL string) ([]*workflow.Workflow, error) {
	workflows, err := s.workflowDAO.Load(ctx, URL)
	if err != nil {
		return nil, err
	}
	if err = s.Register(ctx, workflows...); err != nil {
		return nil, err
	}
	return workflows, nil
}

// Register builds engine workflows and registers them with their places and global actions
func (s *Service) Register(ctx context.Context, workflows ...*workflow.Workflow) error {
	for _, wf := range workflows {
		if !wf.Enabled {
			s.logger.DebugContext(ctx, "workflow disabled", "workflow", wf.Name)
			continue
		}
		for _, action := range wf.GlobalActions {
			for _, place := range action.Options.To {
				if !wf.Definition.HasPlace(place) {
					return fmt.Errorf("workflow %v: global action %v: place %q is not defined", wf.Name, action.Name, place)
				}
			}
		}
		store, err := s.markingStore(wf)
		if err != nil {
			return fmt.Errorf("workflow %v: %w", wf.Name, err)
		}
		engineWorkflow, err := engine.New(wf.Name, wf.Definition, store,
			engine.WithType(wf.Options.Type),
			engine.WithDispatcher(s.dispatcher),
			engine.WithEvaluator(s.evaluator),
			engine.WithLogger(s.logger))
		if err != nil {
			return err
		}
		s.registry.Add(engineWorkflow, engine.SupportedTypes(wf.Options.Supports))
		s.manager.RegisterWorkflow(wf.Name, wf.Options)
		for _, place := range wf.Places {
			s.manager.AddPlaceConfig(wf.Name, place.Name, place.Options)
		}
		for _, action := range wf.GlobalActions {
			s.manager.AddGlobalAction(wf.Name, action.Name, action.Options)
		}
		s.logger.DebugContext(ctx, "workflow registered", "workflow", wf.Name, "type", engineWorkflow.Type(), "markingStore", wf.MarkingStoreType())
	}
	return nil
}

// Label returns label translated into the request language, the label itself when untranslated
func (s *Service) Label(ctx context.Context, label string) string {
	if label == "" {
		return label
	}
	ret, err := s.translation.ByKeyLocalized(ctx, label, false, true)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to translate label", "label", label, "error", err)
		return label
	}
	return ret
}

func (s *Service) markingStore(wf *workflow.Workflow) (markingstore.Store, error) {
	switch storeType := wf.MarkingStoreType(); storeType {
	case workflow.MarkingStoreStateTable:
		if s.stateDB == nil {
			return nil, fmt.Errorf("marking store %v requires stateTable.dsn", storeType)
		}
		return s.stateDB.Store(wf.Name), nil
	case workflow.MarkingStoreSingleState:
		return property.New(wf.Name, property.WithSingleState()), nil
	case workflow.MarkingStoreMultipleState:
		return property.New(wf.Name), nil
	default:
		return nil, fmt.Errorf("unsupported marking store %q", storeType)
	}
}

// Close stops event streaming and closes owned resources
func (s *Service) Close() error {
	var errs []error
	if s.listener != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.listener.Stop()
	}
	if s.ownsStateDB && s.stateDB != nil {
		if err := s.stateDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) init(ctx context.Context) error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.logger == nil {
		logger, err := logging.New(logging.Options{Level: s.config.Logging.Level, Format: s.config.Logging.Format})
		if err != nil {
			return err
		}
		s.logger = logger
	}
	if err := s.initTracing(); err != nil {
		return err
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	s.metaService = meta.New(s.fs, s.metaBaseURL)
	s.workflowDAO = workflow.New(s.metaService)
	s.evaluator = evaluator.New()
	s.initEvents(ctx)
	s.registry = engine.NewRegistry()
	s.manager = manager.New(s.registry,
		manager.WithDispatcher(s.dispatcher),
		manager.WithEvaluator(s.evaluator),
		manager.WithLogger(s.logger))
	if s.stateDB == nil && s.config.StateTable.DSN != "" {
		db, err := statetable.Open(ctx, s.config.StateTable.DSN)
		if err != nil {
			return err
		}
		s.stateDB = db
		s.ownsStateDB = true
	}
	if s.noteDAO == nil {
		if s.stateDB != nil {
			s.noteDAO = s.stateDB.Notes()
		} else {
			s.noteDAO = notes.NewMemoryStore()
		}
	}
	s.notes = notes.New(s.noteDAO, s.logger)
	s.notes.Register(s.dispatcher)
	if s.translationDAO == nil {
		s.translationDAO = translation.NewMemoryStore()
	}
	options := append([]translation.Option{translation.WithDefaultLanguage(s.config.DefaultLanguage)}, s.translationOptions...)
	s.translation = translation.New(s.translationDAO, options...)
	return nil
}

func (s *Service) initTracing() error {
	tracingConfig := s.config.Tracing
	switch {
	case s.traceExporter != nil:
		return tracing.InitWithExporter(tracingConfig.ServiceName, tracingConfig.Version, s.traceExporter)
	case tracingConfig.Enabled:
		return tracing.Init(tracingConfig.ServiceName, tracingConfig.Version, tracingConfig.OutputFile)
	}
	return nil
}

func (s *Service) initEvents(ctx context.Context) {
	options := []event.Option[*model.EventData]{event.WithLogger[*model.EventData](s.logger)}
	if s.config.Events.Stream {
		config := memory.DefaultConfig()
		config.Buffer = s.config.Events.Buffer
		queue := memory.NewQueue[event.Event[*model.EventData]](config)
		s.publisher = event.NewPublisher[*model.EventData](queue)
		s.listener = event.NewListener[*model.EventData](s.publisher, s.logEvent, s.logger)
		s.listener.Start(context.WithoutCancel(ctx))
		options = append(options, event.WithPublisher[*model.EventData](s.publisher))
	}
	s.dispatcher = event.NewDispatcher[*model.EventData](options...)
}

func (s *Service) logEvent(evt *event.Event[*model.EventData]) {
	attrs := []any{"event", evt.Name, "blocked", evt.Blocked()}
	if data := evt.Data; data != nil {
		attrs = append(attrs, "workflow", data.Workflow)
		if data.Subject != nil {
			attrs = append(attrs, "subjectType", data.Subject.SubjectType(), "subjectId", data.Subject.SubjectID())
		}
		if data.Transition != nil {
			attrs = append(attrs, "transition", data.Transition.Name)
		}
		if data.GlobalAction != nil {
			attrs = append(attrs, "globalAction", data.GlobalAction.Name)
		}
	}
	s.logger.Info("workflow event", attrs...)
}

// New creates a service
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(ctx); err != nil {
		_ = ret.Close()
		return nil, err
	}
	return ret, nil
}
