// Package telemetry records pipeline metrics. Without an OTLP
// endpoint configured it stays a no-op, so one-shot check runs pay
// nothing for it.
package telemetry

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/aki/hookrunner/internal/core/hooks"
)

// Environment variables configuring the exporter. The endpoint
// variable doubles as the on/off switch.
const (
	EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
	InsecureEnv = "OTEL_EXPORTER_OTLP_INSECURE"
)

// Config holds exporter configuration
type Config struct {
	Endpoint string
	Insecure bool
}

// LoadConfig reads exporter configuration from the environment
func LoadConfig() Config {
	insecure, _ := strconv.ParseBool(os.Getenv(InsecureEnv))
	return Config{
		Endpoint: os.Getenv(EndpointEnv),
		Insecure: insecure,
	}
}

// Enabled reports whether an exporter endpoint is configured
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}

// Recorder receives pipeline measurements. Implementations must be
// safe for concurrent use; the MCP surface gates events from parallel
// tool calls.
type Recorder interface {
	// RecordCheck counts one finished check by classification
	RecordCheck(ctx context.Context, result hooks.CheckResult)
	// RecordDecision counts one decision by overall verdict and
	// records how long the event took end to end.
	RecordDecision(ctx context.Context, decision hooks.Decision, duration time.Duration)
	// Shutdown flushes pending measurements
	Shutdown(ctx context.Context) error
}

// NewRecorder returns an exporting recorder when cfg names an
// endpoint, a no-op recorder otherwise.
func NewRecorder(ctx context.Context, cfg Config) (Recorder, error) {
	if !cfg.Enabled() {
		return NewNopRecorder(), nil
	}
	return newOTLPRecorder(ctx, cfg)
}
