package markflow

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/service/dao"
	"github.com/viant/markflow/service/markingstore/statetable"
	"github.com/viant/markflow/service/translation"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises Service
type Option func(s *Service)

// WithConfig sets service configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger, overriding logging configuration
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetaBaseURL sets the base URL relative workflow locations resolve against
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithFileSystem sets the afs service used to load workflow documents
func WithFileSystem(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithStateTable sets an opened state table; the caller keeps ownership
func WithStateTable(db *statetable.DB) Option {
	return func(s *Service) {
		s.stateDB = db
	}
}

// WithNoteStore sets the note store
func WithNoteStore(store dao.Service[string, model.Note]) Option {
	return func(s *Service) {
		s.noteDAO = store
	}
}

// WithTranslationStore sets the translation store
func WithTranslationStore(store dao.Service[string, translation.Translation]) Option {
	return func(s *Service) {
		s.translationDAO = store
	}
}

// WithTranslationOptions appends translation service options
func WithTranslationOptions(options ...translation.Option) Option {
	return func(s *Service) {
		s.translationOptions = append(s.translationOptions, options...)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. The first
// successful initialisation wins.
func WithTracingExporter(exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.traceExporter = exporter
	}
}
