package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Init installs a tracer provider for serviceName and returns a shutdown
// func plus the tracer callers should use for spans around the facade's
// entry points (create_event, run_etl). No exporter is wired: spans are
// created and propagated in-process but not shipped anywhere until an
// operator configures one, matching the reference node's opt-in collector
// wiring without carrying its OTLP dependency surface.
func Init(serviceName string) (trace.Tracer, func(context.Context) error) {
	provider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(provider)
	return provider.Tracer(serviceName), provider.Shutdown
}
