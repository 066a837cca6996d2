package tracer

import (
	"context"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Init sets up the global OTLP tracer provider. A misconfigured or
// unreachable collector degrades to a no-op provider instead of failing
// startup.
func Init(serviceName, otlpEndpoint string, log logger.Logger) *sdktrace.TracerProvider {
	if otlpEndpoint == "" {
		log.Info("tracing disabled: OTLP endpoint is not set")
		return sdktrace.NewTracerProvider()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(otlpEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		log.Errorf("failed to create OTLP trace exporter: %v", err)
		return sdktrace.NewTracerProvider()
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		log.Errorf("failed to create tracing resource: %v", err)
		_ = exporter.Shutdown(ctx)
		return sdktrace.NewTracerProvider()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Infof("tracing initialized: exporting to %s", otlpEndpoint)
	return tp
}
