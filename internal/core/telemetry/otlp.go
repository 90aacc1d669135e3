package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/aki/hookrunner/internal/core/hooks"
)

const (
	serviceName    = "hookrunner"
	serviceVersion = "1.0.0"
)

// otlpRecorder exports pipeline metrics to an OTel collector
type otlpRecorder struct {
	provider       *sdkmetric.MeterProvider
	checksTotal    metric.Int64Counter
	decisionsTotal metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// newOTLPRecorder builds the gRPC exporter and the instruments
func newOTLPRecorder(ctx context.Context, cfg Config) (Recorder, error) {
	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	checksTotal, err := meter.Int64Counter(
		"hookrunner.checks",
		metric.WithDescription("Finished checks by classification"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create checks counter: %w", err)
	}

	decisionsTotal, err := meter.Int64Counter(
		"hookrunner.decisions",
		metric.WithDescription("Gate decisions by overall verdict"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decisions counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"hookrunner.decision.duration",
		metric.WithDescription("Wall time from event receipt to decision"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &otlpRecorder{
		provider:       provider,
		checksTotal:    checksTotal,
		decisionsTotal: decisionsTotal,
		durationHist:   durationHist,
	}, nil
}

func (r *otlpRecorder) RecordCheck(ctx context.Context, result hooks.CheckResult) {
	r.checksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("classification", string(result.Classification)),
		attribute.String("hook", result.HookName),
	))
}

func (r *otlpRecorder) RecordDecision(ctx context.Context, decision hooks.Decision, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("overall", string(decision.Overall)),
	)
	r.decisionsTotal.Add(ctx, 1, attrs)
	r.durationHist.Record(ctx, duration.Seconds(), attrs)
}

func (r *otlpRecorder) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}
