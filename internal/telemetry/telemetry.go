// Package telemetry configures OpenTelemetry trace export for the
// preview server. Setup installs a global tracer provider backed by an
// OTLP HTTP exporter; the spans recorded per live event and per HTTP
// request flow through it.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Provider owns the tracer provider lifecycle. A nil Provider is valid
// and means tracing is disabled.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// Setup configures OTLP trace export and installs the global tracer
// provider. An empty endpoint falls back to OTEL_EXPORTER_OTLP_ENDPOINT;
// if that is also empty, tracing stays disabled and Setup returns nil.
func Setup(ctx context.Context, endpoint, serviceName string) (*Provider, error) {
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return &Provider{provider: provider}, nil
}

// Shutdown flushes pending spans and closes the exporter. Calling it on
// a nil Provider is a no-op.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
