// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for the bstindex CLI.
package observability

import (
	"io"
	"log/slog"
	"os"
	"time"
)

const (
	// defaultServiceName is the default OTel service name.
	defaultServiceName = "bstindex"

	// defaultShutdownTimeout bounds the flush on shutdown.
	defaultShutdownTimeout = 5 * time.Second
)

// Config holds all observability configuration.
type Config struct {
	// LogOutput receives log records. Nil means stderr.
	LogOutput io.Writer

	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "production", "dev").
	Environment string

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export: tracing becomes no-op and metrics are only
	// available through the Prometheus registry.
	OTLPEndpoint string

	// SampleRatio is the trace sampling ratio (0.0 to 1.0).
	// Zero samples every root span.
	SampleRatio float64

	// ShutdownTimeout is the maximum time to wait for flush on shutdown.
	ShutdownTimeout time.Duration

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// LogJSON enables JSON-formatted log output.
	LogJSON bool
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		LogOutput:       os.Stderr,
		ServiceName:     defaultServiceName,
		LogLevel:        slog.LevelInfo,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}
