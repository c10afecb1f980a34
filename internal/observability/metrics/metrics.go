package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	kpiComputations   metric.Int64Counter
	kpiCacheHits      metric.Int64Counter
	ingestedRows      metric.Int64Counter
	ingestionRuns     metric.Int64Counter
	reportsGenerated  metric.Int64Counter
	narrativeFallback metric.Int64Counter
	rateLimitDenied   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "workforcekpi"
	}
	meter := provider.Meter(name)

	kpiComputations, err := meter.Int64Counter("workforcekpi_kpi_computations_total")
	if err != nil {
		return nil, err
	}
	kpiCacheHits, err := meter.Int64Counter("workforcekpi_kpi_cache_hits_total")
	if err != nil {
		return nil, err
	}
	ingestedRows, err := meter.Int64Counter("workforcekpi_ingested_rows_total")
	if err != nil {
		return nil, err
	}
	ingestionRuns, err := meter.Int64Counter("workforcekpi_ingestion_runs_total")
	if err != nil {
		return nil, err
	}
	reportsGenerated, err := meter.Int64Counter("workforcekpi_reports_generated_total")
	if err != nil {
		return nil, err
	}
	narrativeFallback, err := meter.Int64Counter("workforcekpi_narrative_fallbacks_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("workforcekpi_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		kpiComputations:   kpiComputations,
		kpiCacheHits:      kpiCacheHits,
		ingestedRows:      ingestedRows,
		ingestionRuns:     ingestionRuns,
		reportsGenerated:  reportsGenerated,
		narrativeFallback: narrativeFallback,
		rateLimitDenied:   rateLimitDenied,
	}, nil
}

// RecordKPIComputation increments KPI computation counts by outcome.
func (m *Metrics) RecordKPIComputation(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.kpiComputations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordKPICacheHit increments result cache hits.
func (m *Metrics) RecordKPICacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.kpiCacheHits.Add(ctx, 1)
}

// RecordIngestedRows adds the number of rows written to a fact table.
func (m *Metrics) RecordIngestedRows(ctx context.Context, table string, rows int) {
	if m == nil || rows <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("table", strings.TrimSpace(table)))
	m.ingestedRows.Add(ctx, int64(rows), metric.WithAttributes(attrs...))
}

// RecordIngestionRun increments ingestion run counts by outcome.
func (m *Metrics) RecordIngestionRun(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.ingestionRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordReport increments generated report counts by file format.
func (m *Metrics) RecordReport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("format", strings.TrimSpace(format)))
	m.reportsGenerated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordNarrativeFallback increments sections that fell back to template text.
func (m *Metrics) RecordNarrativeFallback(ctx context.Context, section string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("section", strings.TrimSpace(section)))
	m.narrativeFallback.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"endpoint":    {},
	"status_code": {},
	"outcome":     {},
	"table":       {},
	"format":      {},
	"section":     {},
	"reason":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
