// Package opentelemetry sets up the global trace provider.
package opentelemetry

import (
	"context"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InitTracer exports spans to the configured otel collector and returns the cleanup func
// that flushes them. On failure the global no-op provider is kept.
func InitTracer(ctx context.Context, cfg *config.Config, logger lumber.Logger) func(context.Context) error {
	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.Tracing.OtelEndpoint),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		logger.Errorf("failed to create otel exporter %v", err)
		return func(context.Context) error { return nil }
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(newResource(cfg)),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	logger.Infof("Tracing enabled, exporting to %s", cfg.Tracing.OtelEndpoint)

	return provider.Shutdown
}

func newResource(cfg *config.Config) *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", constants.ServiceName),
		attribute.String("service.version", constants.BinaryVersion),
		attribute.String("deployment.environment", cfg.Env),
	)
}
