// Package telemetry wires OpenTelemetry trace and metric providers.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"gitlab.com/yelinaung/pgconnect/internal/config"
)

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(context.Context) error

// Setup installs global tracer and meter providers according to rt.
// Exporters set to "none" leave the corresponding no-op provider in place.
// stdout exporters write to w, or os.Stdout when w is nil.
func Setup(ctx context.Context, rt config.Runtime, w io.Writer) (ShutdownFunc, error) {
	if w == nil {
		w = os.Stdout
	}

	res := resource.NewSchemaless(attribute.String("service.name", rt.ServiceName))

	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	spanExporter, err := newSpanExporter(ctx, rt, w)
	if err != nil {
		return nil, err
	}
	if spanExporter != nil {
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(spanExporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	metricExporter, err := newMetricExporter(ctx, rt, w)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	if metricExporter != nil {
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	return shutdown, nil
}

func newSpanExporter(ctx context.Context, rt config.Runtime, w io.Writer) (sdktrace.SpanExporter, error) {
	switch rt.TracesExporter {
	case config.ExporterNone, "":
		return nil, nil
	case config.ExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(w))
	case config.ExporterOTLP:
		if rt.OTLPProtocol == config.ProtocolHTTP {
			return otlptracehttp.New(ctx)
		}
		return otlptracegrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unknown traces exporter %q", rt.TracesExporter)
	}
}

func newMetricExporter(ctx context.Context, rt config.Runtime, w io.Writer) (sdkmetric.Exporter, error) {
	switch rt.MetricsExporter {
	case config.ExporterNone, "":
		return nil, nil
	case config.ExporterStdout:
		return stdoutmetric.New(stdoutmetric.WithWriter(w))
	case config.ExporterOTLP:
		if rt.OTLPProtocol == config.ProtocolHTTP {
			return otlpmetrichttp.New(ctx)
		}
		return otlpmetricgrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unknown metrics exporter %q", rt.MetricsExporter)
	}
}
