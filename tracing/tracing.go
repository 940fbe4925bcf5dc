package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/viant/markflow/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/viant/markflow"

// Span attribute keys
const (
	AttrWorkflow     = attribute.Key("markflow.workflow")
	AttrSubjectID    = attribute.Key("markflow.subject.id")
	AttrSubjectType  = attribute.Key("markflow.subject.type")
	AttrTransition   = attribute.Key("markflow.transition")
	AttrGlobalAction = attribute.Key("markflow.global_action")
	AttrMarking      = attribute.Key("markflow.marking")
)

var (
	providerOnce sync.Once
	providerErr  error
)

// Init installs a provider with the stdout exporter writing to outputFile,
// or os.Stdout when empty. Only the first installation takes effect.
func Init(serviceName, serviceVersion, outputFile string) error {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("trace output %v: %w", outputFile, err)
		}
		w = f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return err
	}
	return InitWithExporter(serviceName, serviceVersion, exporter)
}

// InitWithExporter installs a provider exporting through exporter. Only the
// first installation takes effect.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	providerOnce.Do(func() {
		res, err := resource.New(context.Background(), resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		))
		if err != nil {
			providerErr = err
			return
		}
		otel.SetTracerProvider(sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
			sdktrace.WithResource(res),
		))
	})
	return providerErr
}

// Subject returns workflow and subject attributes
func Subject(workflow string, subject model.Subject) []attribute.KeyValue {
	ret := []attribute.KeyValue{AttrWorkflow.String(workflow)}
	if subject != nil {
		ret = append(ret, AttrSubjectType.String(subject.SubjectType()), AttrSubjectID.String(subject.SubjectID()))
	}
	return ret
}

// StartSpan starts an internal span, a child of the span carried by ctx
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentation).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...))
}

// EndSpan records err (or OK status) and ends the span
func EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// SetMarking records resulting marking on the span
func SetMarking(span trace.Span, marking *model.Marking) {
	if span == nil || marking == nil {
		return
	}
	span.SetAttributes(AttrMarking.StringSlice(marking.Places()))
}
