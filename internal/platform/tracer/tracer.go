package tracer

import (
	"context"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const setupTimeout = 10 * time.Second

// InitTracer installs the global tracer provider. With no endpoint, spans are
// recorded by a provider without exporters and go nowhere.
func InitTracer(serviceName, otlpEndpoint string, log logger.Logger) *sdktrace.TracerProvider {
	if otlpEndpoint == "" {
		log.Info("OpenTelemetry tracing is disabled: tracing endpoint is not set")
		return sdktrace.NewTracerProvider()
	}

	log.Infof("Initializing OpenTelemetry tracer: service=%s, endpoint=%s", serviceName, otlpEndpoint)

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(otlpEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		log.Errorf("Failed to create OTLP trace exporter: %v", err)
		return sdktrace.NewTracerProvider()
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		log.Errorf("Failed to create OpenTelemetry resource: %v", err)
		_ = traceExporter.Shutdown(ctx)
		return sdktrace.NewTracerProvider()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Infof("OpenTelemetry tracer initialized for %s", serviceName)
	return tp
}
