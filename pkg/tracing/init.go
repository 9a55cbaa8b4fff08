package tracing

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/azalea/pkg/tracing/exporters"
)

// InitConfig configures process-wide trace export.
type InitConfig struct {
	ServiceName string
	Environment string
	OTLP        *exporters.OTLPConfig
}

// Init builds the tracer provider, registers it globally and points
// the package tracer at it. With no OTLP config spans go to the no-op
// console exporter. The returned shutdown function flushes pending
// spans and must be called on exit.
func Init(ctx context.Context, config InitConfig) (func(context.Context) error, error) {
	var exporter sdktrace.SpanExporter
	if config.OTLP != nil {
		var err error
		exporter, err = exporters.NewOTLPExporter(ctx, *config.OTLP)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create OTLP exporter")
		}
	} else {
		exporter = &exporters.ConsoleExporter{}
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", config.ServiceName),
		attribute.String("deployment.environment", config.Environment),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	SetTracer(provider.Tracer(config.ServiceName))

	return provider.Shutdown, nil
}
