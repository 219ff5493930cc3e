package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "focusd"
	serviceVersion = "1.0.0"
)

// Exporter mirrors flush counters to an OTEL Collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	meter            metric.Meter
	keystrokesTotal  metric.Int64Counter
	clicksTotal      metric.Int64Counter
	flushesTotal     metric.Int64Counter
	flushErrorsTotal metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	keystrokesTotal, err := meter.Int64Counter(
		"focusd_keystrokes_total",
		metric.WithDescription("Total keystrokes flushed"),
		metric.WithUnit("{keystroke}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating keystrokes counter: %w", err)
	}

	clicksTotal, err := meter.Int64Counter(
		"focusd_clicks_total",
		metric.WithDescription("Total pointer clicks flushed"),
		metric.WithUnit("{click}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating clicks counter: %w", err)
	}

	flushesTotal, err := meter.Int64Counter(
		"focusd_flushes_total",
		metric.WithDescription("Total successful bucket flushes"),
		metric.WithUnit("{flush}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flushes counter: %w", err)
	}

	flushErrorsTotal, err := meter.Int64Counter(
		"focusd_flush_errors_total",
		metric.WithDescription("Total flush write failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flush errors counter: %w", err)
	}

	return &Exporter{
		provider:         provider,
		meter:            meter,
		keystrokesTotal:  keystrokesTotal,
		clicksTotal:      clicksTotal,
		flushesTotal:     flushesTotal,
		flushErrorsTotal: flushErrorsTotal,
	}, nil
}

// RecordFlush records the counters of one flushed bucket.
func (e *Exporter) RecordFlush(ctx context.Context, keystrokes, clicks int64) {
	e.keystrokesTotal.Add(ctx, keystrokes)
	e.clicksTotal.Add(ctx, clicks)
	e.flushesTotal.Add(ctx, 1)
}

// RecordFlushError counts a failed flush write.
func (e *Exporter) RecordFlushError(ctx context.Context) {
	e.flushErrorsTotal.Add(ctx, 1)
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
