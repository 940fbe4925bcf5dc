// Package tracing wraps OpenTelemetry so that workflow operations can be
// traced without importing the SDK directly. Spans are no-op until Init or
// InitWithExporter installs a provider.
package tracing
