package observability

import (
	"context"
	"fmt"
	"time"

	"acc-notifications/internal/common/config"
	"acc-notifications/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Tracing owns the process-wide tracer provider.
type Tracing struct {
	provider *sdktrace.TracerProvider
	logger   logger.Logger
}

// NewTracing installs a jaeger-backed tracer provider. With no endpoint configured it
// returns a Tracing whose Shutdown is a no-op and leaves the global no-op provider in place.
func NewTracing(serviceName string, cfg config.TracingConfig, log logger.Logger) (*Tracing, error) {
	t := &Tracing{logger: log}
	if cfg.Endpoint == "" {
		log.Info("Tracing disabled", nil)
		return t, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.Endpoint)))
	if err != nil {
		return nil, fmt.Errorf("create jaeger exporter: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(t.provider)

	log.Info("Tracing enabled", map[string]interface{}{
		"endpoint":    cfg.Endpoint,
		"sampleRatio": ratio,
	})
	return t, nil
}

// Shutdown flushes buffered spans.
func (t *Tracing) Shutdown() {
	if t == nil || t.provider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.provider.Shutdown(ctx); err != nil {
		t.logger.Warn("Tracer provider shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
