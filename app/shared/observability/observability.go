// Package observability bundles the logger, tracer, and metrics handed to
// every module.
package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability carries the shared telemetry components.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
	Metrics  OperationMetrics
}

// Init builds the production observability stack: JSON slog to stdout, the
// global otel tracer, and a prometheus registry with process collectors.
func Init(serviceName, environment string) *Observability {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(
		slog.String("service", serviceName),
		slog.String("environment", environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(serviceName),
		Registry: registry,
		Metrics:  NewPrometheusMetrics(registry),
	}
}

// NoOpLogger discards everything. Used in tests.
var NoOpLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ForTesting returns an Observability with no-op components.
func ForTesting() *Observability {
	return &Observability{
		Logger:   NoOpLogger,
		Tracer:   noop.NewTracerProvider().Tracer("test"),
		Registry: prometheus.NewRegistry(),
		Metrics:  NoOpMetrics{},
	}
}
