package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
)

const (
	// ServiceName identifies this service in exported metrics.
	ServiceName = "craneview"
	// MeterName scopes the pipeline instruments.
	MeterName = "craneview"
)

// MetricsProvider bundles the OpenTelemetry meter provider with the
// Prometheus scrape handler the HTTP router mounts at /metrics.
type MetricsProvider struct {
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Pipeline       *PipelineMetrics
}

// PipelineMetrics carries the instruments the work order pipeline records.
// A nil *PipelineMetrics is valid and records nothing, so callers never need
// to guard their instrumentation sites.
type PipelineMetrics struct {
	rowsIn          metric.Int64Counter
	ordersOut       metric.Int64Counter
	loadDuration    metric.Float64Histogram
	analyzeDuration metric.Float64Histogram
	analyzeRuns     metric.Int64Counter
	populationSize  metric.Int64Histogram
}

// InitializeMetrics sets up the OTel meter provider with a Prometheus
// exporter and registers the pipeline instruments.
func InitializeMetrics(serviceVersion string) (*MetricsProvider, error) {
	registry := promclient.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(MeterName)
	pipeline, err := newPipelineMetrics(meter)
	if err != nil {
		return nil, err
	}

	return &MetricsProvider{
		MeterProvider:  provider,
		Meter:          meter,
		PrometheusHTTP: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Pipeline:       pipeline,
	}, nil
}

func newPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	var pm PipelineMetrics
	var err error

	if pm.rowsIn, err = meter.Int64Counter("craneview_rows_ingested_total",
		metric.WithDescription("Raw rows handed to the normalizer")); err != nil {
		return nil, err
	}
	if pm.ordersOut, err = meter.Int64Counter("craneview_work_orders_total",
		metric.WithDescription("Work orders surviving normalization")); err != nil {
		return nil, err
	}
	if pm.loadDuration, err = meter.Float64Histogram("craneview_load_duration_seconds",
		metric.WithDescription("Dataset load duration")); err != nil {
		return nil, err
	}
	if pm.analyzeDuration, err = meter.Float64Histogram("craneview_analyze_duration_seconds",
		metric.WithDescription("Filter+aggregate recomputation duration")); err != nil {
		return nil, err
	}
	if pm.analyzeRuns, err = meter.Int64Counter("craneview_analyze_runs_total",
		metric.WithDescription("Analysis recomputations by view")); err != nil {
		return nil, err
	}
	if pm.populationSize, err = meter.Int64Histogram("craneview_analyze_population_size",
		metric.WithDescription("Work orders in the filtered population per run")); err != nil {
		return nil, err
	}

	return &pm, nil
}

// RecordLoad records one dataset load.
func (pm *PipelineMetrics) RecordLoad(ctx context.Context, rowsIn, ordersOut int, elapsed time.Duration) {
	if pm == nil {
		return
	}
	pm.rowsIn.Add(ctx, int64(rowsIn))
	pm.ordersOut.Add(ctx, int64(ordersOut))
	pm.loadDuration.Record(ctx, elapsed.Seconds())
}

// RecordAnalyze records one recomputation run.
func (pm *PipelineMetrics) RecordAnalyze(ctx context.Context, view string, population int, elapsed time.Duration) {
	if pm == nil {
		return
	}
	pm.analyzeRuns.Add(ctx, 1, metric.WithAttributes(attrView(view)))
	pm.analyzeDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrView(view)))
	pm.populationSize.Record(ctx, int64(population), metric.WithAttributes(attrView(view)))
}

func attrView(v string) attribute.KeyValue {
	return attribute.String("view", v)
}

// Shutdown flushes and stops the meter provider.
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	if mp == nil || mp.MeterProvider == nil {
		return nil
	}
	return mp.MeterProvider.Shutdown(ctx)
}
