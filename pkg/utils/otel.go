// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/propagators/jaeger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// OTLP protocols
const (
	OTelProtocolGRPC = "grpc"
	OTelProtocolHTTP = "http"
)

// Exporter selections
const (
	OTelExporterOTLP = "otlp"
	OTelExporterNone = "none"
)

// OTelDefaultPropagators is used when OTEL_PROPAGATORS is unset
const OTelDefaultPropagators = "tracecontext,baggage,jaeger"

const defaultOTelServiceName = "lfx-v2-newsletter-service"

// OTelConfig holds the OpenTelemetry SDK configuration
type OTelConfig struct {
	ServiceName       string
	ServiceVersion    string
	Protocol          string
	Endpoint          string
	Insecure          bool
	TracesExporter    string
	TracesSampleRatio float64
	MetricsExporter   string
	LogsExporter      string
	Propagators       string
}

// OTelConfigFromEnv reads the OTEL_* environment variables.
// Exporters default to "none" so a bare deployment emits no telemetry.
func OTelConfigFromEnv() OTelConfig {
	cfg := OTelConfig{
		ServiceName:       defaultOTelServiceName,
		ServiceVersion:    os.Getenv("OTEL_SERVICE_VERSION"),
		Protocol:          OTelProtocolGRPC,
		Endpoint:          os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure:          os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
		TracesExporter:    OTelExporterNone,
		TracesSampleRatio: 1.0,
		MetricsExporter:   OTelExporterNone,
		LogsExporter:      OTelExporterNone,
		Propagators:       OTelDefaultPropagators,
	}

	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		cfg.ServiceName = name
	}
	if protocol := os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"); protocol == OTelProtocolHTTP {
		cfg.Protocol = OTelProtocolHTTP
	}
	if exporter := os.Getenv("OTEL_TRACES_EXPORTER"); exporter != "" {
		cfg.TracesExporter = exporter
	}
	if exporter := os.Getenv("OTEL_METRICS_EXPORTER"); exporter != "" {
		cfg.MetricsExporter = exporter
	}
	if exporter := os.Getenv("OTEL_LOGS_EXPORTER"); exporter != "" {
		cfg.LogsExporter = exporter
	}
	if propagators := os.Getenv("OTEL_PROPAGATORS"); propagators != "" {
		cfg.Propagators = propagators
	}
	if ratioStr := os.Getenv("OTEL_TRACES_SAMPLE_RATIO"); ratioStr != "" {
		ratio, err := strconv.ParseFloat(ratioStr, 64)
		if err == nil && ratio >= 0 && ratio <= 1 {
			cfg.TracesSampleRatio = ratio
		} else {
			slog.Warn("invalid OTEL_TRACES_SAMPLE_RATIO, using 1.0", "value", ratioStr)
		}
	}

	return cfg
}

// SetupOTelSDK bootstraps the OpenTelemetry pipeline from the environment.
// The returned function flushes and stops every provider that was started.
func SetupOTelSDK(ctx context.Context) (func(context.Context) error, error) {
	return SetupOTelSDKWithConfig(ctx, OTelConfigFromEnv())
}

// SetupOTelSDKWithConfig bootstraps the OpenTelemetry pipeline from cfg.
func SetupOTelSDKWithConfig(ctx context.Context, cfg OTelConfig) (func(context.Context) error, error) {
	var shutdownFuncs []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	handleErr := func(inErr error) (func(context.Context) error, error) {
		return shutdown, errors.Join(inErr, shutdown(ctx))
	}

	prop, err := newPropagator(cfg)
	if err != nil {
		return handleErr(err)
	}
	otel.SetTextMapPropagator(prop)

	res, err := newResource(cfg)
	if err != nil {
		return handleErr(err)
	}

	if isExporterEnabled(cfg.TracesExporter) {
		exporter, err := newTraceExporter(ctx, cfg)
		if err != nil {
			return handleErr(err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TracesSampleRatio))),
		)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
		otel.SetTracerProvider(tp)
	}

	if isExporterEnabled(cfg.MetricsExporter) {
		exporter, err := newMetricExporter(ctx, cfg)
		if err != nil {
			return handleErr(err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
		otel.SetMeterProvider(mp)
	}

	if isExporterEnabled(cfg.LogsExporter) {
		exporter, err := newLogExporter(ctx, cfg)
		if err != nil {
			return handleErr(err)
		}
		lp := sdklog.NewLoggerProvider(
			sdklog.WithResource(res),
			sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		)
		shutdownFuncs = append(shutdownFuncs, lp.Shutdown)
		global.SetLoggerProvider(lp)
	}

	return shutdown, nil
}

// isExporterEnabled treats "" and "none" as disabled
func isExporterEnabled(exporter string) bool {
	return exporter != "" && exporter != OTelExporterNone
}

// endpointURL prepends a scheme to bare host[:port] endpoints
func endpointURL(raw string, insecure bool) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if insecure {
		return "http://" + raw
	}
	return "https://" + raw
}

func newResource(cfg OTelConfig) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		attribute.String("service.name", cfg.ServiceName),
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", cfg.ServiceVersion))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

func newPropagator(cfg OTelConfig) (propagation.TextMapPropagator, error) {
	var propagators []propagation.TextMapPropagator

	for _, name := range strings.Split(cfg.Propagators, ",") {
		switch strings.TrimSpace(name) {
		case "":
			continue
		case "tracecontext":
			propagators = append(propagators, propagation.TraceContext{})
		case "baggage":
			propagators = append(propagators, propagation.Baggage{})
		case "jaeger":
			propagators = append(propagators, jaeger.Jaeger{})
		default:
			return nil, fmt.Errorf("unsupported propagator: %q", name)
		}
	}

	return propagation.NewCompositeTextMapPropagator(propagators...), nil
}

func newTraceExporter(ctx context.Context, cfg OTelConfig) (sdktrace.SpanExporter, error) {
	if cfg.Protocol == OTelProtocolHTTP {
		var opts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(endpointURL(cfg.Endpoint, cfg.Insecure)))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}

	var opts []otlptracegrpc.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpointURL(endpointURL(cfg.Endpoint, cfg.Insecure)))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return otlptracegrpc.New(ctx, opts...)
}

func newMetricExporter(ctx context.Context, cfg OTelConfig) (sdkmetric.Exporter, error) {
	if cfg.Protocol == OTelProtocolHTTP {
		var opts []otlpmetrichttp.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpointURL(endpointURL(cfg.Endpoint, cfg.Insecure)))
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	}

	var opts []otlpmetricgrpc.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlpmetricgrpc.WithEndpointURL(endpointURL(cfg.Endpoint, cfg.Insecure)))
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	return otlpmetricgrpc.New(ctx, opts...)
}

func newLogExporter(ctx context.Context, cfg OTelConfig) (sdklog.Exporter, error) {
	if cfg.Protocol == OTelProtocolHTTP {
		var opts []otlploghttp.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlploghttp.WithEndpointURL(endpointURL(cfg.Endpoint, cfg.Insecure)))
		}
		if cfg.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		}
		return otlploghttp.New(ctx, opts...)
	}

	var opts []otlploggrpc.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlploggrpc.WithEndpointURL(endpointURL(cfg.Endpoint, cfg.Insecure)))
	}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	return otlploggrpc.New(ctx, opts...)
}
