// Package telemetry wires OpenTelemetry tracing and metrics for the
// pattern engine. Telemetry is optional; when the endpoint is empty the
// engine runs with a no-op tracer.
package telemetry

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	// Global tracer for the application
	Tracer trace.Tracer

	// Global meter for custom metrics
	Meter metric.Meter

	// Custom metrics
	EventsRecorded  metric.Int64Counter
	AnalysesRun     metric.Int64Counter
	PatternsActive  metric.Int64UpDownCounter
	AnalysisLatency metric.Float64Histogram
)

// The instruments are bound at package load against the global
// provider, so callers can record without checking whether Init ran.
// Before Init installs the SDK they are no-ops.
func init() {
	Tracer = otel.Tracer("dayflow")
	Meter = otel.Meter("dayflow")
	if err := initMetrics(); err != nil {
		log.Printf("[Telemetry] Failed to create instruments: %v", err)
	}
}

// Init initializes OpenTelemetry tracing and metrics, returning a
// shutdown function.
func Init(ctx context.Context, serviceName, otelEndpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion("1.0.0"),
			attribute.String("environment", "development"),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(otelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	Tracer = otel.Tracer(serviceName)
	Meter = otel.Meter(serviceName)

	if err := initMetrics(); err != nil {
		return nil, err
	}

	log.Printf("[Telemetry] Initialized with endpoint %s", otelEndpoint)

	return func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return traceProvider.Shutdown(shutdownCtx)
	}, nil
}

// initMetrics creates all custom metrics
func initMetrics() error {
	var err error

	EventsRecorded, err = Meter.Int64Counter(
		"dayflow.events.recorded",
		metric.WithDescription("Behavior events recorded"),
	)
	if err != nil {
		return err
	}

	AnalysesRun, err = Meter.Int64Counter(
		"dayflow.analyses.run",
		metric.WithDescription("Analysis passes completed"),
	)
	if err != nil {
		return err
	}

	PatternsActive, err = Meter.Int64UpDownCounter(
		"dayflow.patterns.active",
		metric.WithDescription("Patterns in the current set"),
	)
	if err != nil {
		return err
	}

	AnalysisLatency, err = Meter.Float64Histogram(
		"dayflow.analysis.latency",
		metric.WithDescription("Analysis pass latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}
