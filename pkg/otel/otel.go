package otel

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mpapenbr/minisector-dominance/version"
)

// Telemetry holds the providers installed by SetupTelemetry.
type Telemetry struct {
	tp       *sdktrace.TracerProvider
	mp       *sdkmetric.MeterProvider
	exporter string
}

type config struct {
	writer         io.Writer
	endpoint       string
	runtimeMetrics bool
}

type Option func(*config)

// WithEndpoint sends traces and metrics via OTLP/gRPC to endpoint (host:port)
// instead of writing them to the writer.
func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
	}
}

// WithRuntimeMetrics adds go runtime metrics (memory, gc, goroutines).
func WithRuntimeMetrics(enabled bool) Option {
	return func(c *config) {
		c.runtimeMetrics = enabled
	}
}

// SetupTelemetry installs global trace and meter providers. They export to the
// OTLP endpoint if one is given, otherwise to w. Data is flushed on Shutdown.
func SetupTelemetry(ctx context.Context, w io.Writer, opts ...Option) (*Telemetry, error) {
	cfg := &config{writer: w}
	for _, opt := range opts {
		opt(cfg)
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", "msd"),
		attribute.String("service.version", version.Version),
	)

	traceExporter, metricExporter, err := newExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ret := &Telemetry{
		exporter: exporterName(cfg),
		tp: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res)),
		mp: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
				sdkmetric.WithInterval(time.Minute))),
			sdkmetric.WithResource(res)),
	}
	gootel.SetTracerProvider(ret.tp)
	gootel.SetMeterProvider(ret.mp)

	if cfg.runtimeMetrics {
		if err := runtime.Start(
			runtime.WithMeterProvider(ret.mp),
			runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
			return nil, errors.Join(err, ret.Shutdown(ctx))
		}
	}
	return ret, nil
}

func newExporters(ctx context.Context, cfg *config) (
	sdktrace.SpanExporter, sdkmetric.Exporter, error,
) {
	if cfg.endpoint != "" {
		traceExporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.endpoint),
			otlptracegrpc.WithInsecure())
		if err != nil {
			return nil, nil, err
		}
		metricExporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.endpoint),
			otlpmetricgrpc.WithInsecure())
		if err != nil {
			return nil, nil, errors.Join(err, traceExporter.Shutdown(ctx))
		}
		return traceExporter, metricExporter, nil
	}

	traceExporter, err := stdouttrace.New(
		stdouttrace.WithWriter(cfg.writer),
		stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, nil, err
	}
	metricExporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(cfg.writer),
		stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, nil, err
	}
	return traceExporter, metricExporter, nil
}

func exporterName(cfg *config) string {
	if cfg.endpoint != "" {
		return "otlp"
	}
	return "stdout"
}

// Exporter returns "otlp" or "stdout".
func (t *Telemetry) Exporter() string {
	return t.exporter
}

// Shutdown flushes and stops both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(t.tp.Shutdown(ctx), t.mp.Shutdown(ctx))
}
