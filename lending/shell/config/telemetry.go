package config

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore/oteladapters"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

const instrumentationName = "github.com/AntonStoeckl/item-lending-reservations"

var ErrTelemetrySetupFailed = errors.New("setting up telemetry failed")

// Telemetry holds the OpenTelemetry providers. The zero value is disabled telemetry.
type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// NewTelemetry creates OTLP/gRPC exporting providers and registers them globally.
// It returns disabled telemetry if no endpoint is configured.
func NewTelemetry(ctx context.Context, cfg TelemetryConfig) (Telemetry, error) {
	if cfg.Endpoint == "" {
		return Telemetry{}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(cfg.ServiceName)),
	)
	if err != nil {
		return Telemetry{}, errors.Join(ErrTelemetrySetupFailed, err)
	}

	traceExporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return Telemetry{}, errors.Join(ErrTelemetrySetupFailed, err)
	}

	metricExporter, err := otlpmetricgrpc.New(
		ctx,
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		return Telemetry{}, errors.Join(ErrTelemetrySetupFailed, err)
	}

	t := Telemetry{
		tracerProvider: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
		),
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
				sdkmetric.WithInterval(cfg.MetricInterval))),
			sdkmetric.WithResource(res),
		),
	}

	otel.SetTracerProvider(t.tracerProvider)
	otel.SetMeterProvider(t.meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return t, nil
}

// Enabled reports whether telemetry is exported.
func (t Telemetry) Enabled() bool {
	return t.tracerProvider != nil
}

// MetricsCollector returns nil when telemetry is disabled.
func (t Telemetry) MetricsCollector() shell.MetricsCollector {
	if t.meterProvider == nil {
		return nil
	}

	return oteladapters.NewMetricsCollector(t.meterProvider.Meter(instrumentationName))
}

// TracingCollector returns nil when telemetry is disabled.
func (t Telemetry) TracingCollector() shell.TracingCollector {
	if t.tracerProvider == nil {
		return nil
	}

	return oteladapters.NewTracingCollector(t.tracerProvider.Tracer(instrumentationName))
}

// Shutdown flushes and stops the providers.
func (t Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.tracerProvider != nil {
		errs = append(errs, t.tracerProvider.Shutdown(ctx))
	}

	if t.meterProvider != nil {
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}

	return errors.Join(errs...)
}
