// Package observability provides OpenTelemetry integration for distributed
// tracing.
//
// Traces go to the local Datadog Agent for OTLP ingestion instead of the
// direct API endpoint: the agent buffers and retries locally, handles
// authentication, and keeps DD_API_KEY out of the app's request path.
//
// Prerequisites: a running Datadog Agent with the OTLP receiver enabled on
// localhost:4318 (otlp_config.receiver.protocols.http in datadog.yaml).
//
// Configuration (~/.faqpilot/config.yaml):
//
//	datadog:
//	  agent_host: "localhost:4318"
//	  environment: "dev"
//	  service_name: "faqpilot"
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config for Datadog OTEL setup.
type Config struct {
	// AgentHost is the Datadog Agent OTLP endpoint (default: localhost:4318)
	AgentHost string
	// Environment is the deployment environment (dev, staging, prod)
	Environment string
	// ServiceName is the service name shown in Datadog APM
	ServiceName string
}

// DefaultAgentHost is the default Datadog Agent OTLP HTTP endpoint.
const DefaultAgentHost = "localhost:4318"

// SetupDatadog registers a Datadog Agent exporter with Genkit's
// TracerProvider, so every flow and model call span reaches Datadog APM.
//
// Returns a shutdown function that flushes pending spans. An unreachable
// exporter disables tracing rather than failing startup.
func SetupDatadog(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	agentHost := cfg.AgentHost
	if agentHost == "" {
		agentHost = DefaultAgentHost
	}

	// Genkit's TracerProvider reads the service identity from the OTEL
	// environment at span export time.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(agentHost),
		otlptracehttp.WithInsecure(), // localhost doesn't need TLS
	)
	if err != nil {
		slog.Warn("failed to create datadog exporter, tracing disabled", "error", err)
		return func(context.Context) error { return nil }, nil
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	slog.Debug("datadog tracing enabled",
		"agent", agentHost,
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	// A startup span verifies the pipeline end to end.
	tracer := tracing.TracerProvider().Tracer("faqpilot-init")
	_, span := tracer.Start(ctx, "faqpilot.init")
	span.End()

	return tracing.TracerProvider().Shutdown, nil
}
