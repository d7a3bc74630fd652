package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zatekoja/nursinghomefinder"

// StoreMetrics holds the facility store instruments
type StoreMetrics struct {
	FetchCount    metric.Int64Counter
	FetchDuration metric.Float64Histogram
	StaleCount    metric.Int64Counter
	PersistErrors metric.Int64Counter
}

// Setup initializes OpenTelemetry tracing, metrics and runtime instrumentation
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace exporter
	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Set up metric exporter
	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		_ = tracerProvider.Shutdown(ctx)
		_ = meterProvider.Shutdown(ctx)
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitStoreMetrics creates the facility store instruments on the global meter
// provider. Without Setup the instruments are no-ops.
func InitStoreMetrics() (*StoreMetrics, error) {
	meter := otel.Meter(instrumentationName)

	fetchCount, err := meter.Int64Counter(
		"facility.fetch.count",
		metric.WithDescription("Number of facility fetches by outcome"),
	)
	if err != nil {
		return nil, err
	}

	fetchDuration, err := meter.Float64Histogram(
		"facility.fetch.duration",
		metric.WithDescription("Facility fetch duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	staleCount, err := meter.Int64Counter(
		"facility.fetch.stale",
		metric.WithDescription("Number of facility responses discarded as stale"),
	)
	if err != nil {
		return nil, err
	}

	persistErrors, err := meter.Int64Counter(
		"facility.persist.errors",
		metric.WithDescription("Number of failed state persistence writes"),
	)
	if err != nil {
		return nil, err
	}

	return &StoreMetrics{
		FetchCount:    fetchCount,
		FetchDuration: fetchDuration,
		StaleCount:    staleCount,
		PersistErrors: persistErrors,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordFetch records a completed facility fetch
func RecordFetch(ctx context.Context, metrics *StoreMetrics, outcome string, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("fetch.outcome", outcome))
	metrics.FetchCount.Add(ctx, 1, attrs)
	metrics.FetchDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordStale records a discarded out-of-order response
func RecordStale(ctx context.Context, metrics *StoreMetrics) {
	if metrics == nil {
		return
	}
	metrics.StaleCount.Add(ctx, 1)
}

// RecordPersistError records a failed storage write
func RecordPersistError(ctx context.Context, metrics *StoreMetrics, key string) {
	if metrics == nil {
		return
	}
	metrics.PersistErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("storage.key", key)))
}
