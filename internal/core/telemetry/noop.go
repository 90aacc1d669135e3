package telemetry

import (
	"context"
	"time"

	"github.com/aki/hookrunner/internal/core/hooks"
)

// nopRecorder discards every measurement
type nopRecorder struct{}

// NewNopRecorder returns a recorder that does nothing. It is the
// default when no exporter endpoint is configured.
func NewNopRecorder() Recorder {
	return nopRecorder{}
}

func (nopRecorder) RecordCheck(context.Context, hooks.CheckResult) {}

func (nopRecorder) RecordDecision(context.Context, hooks.Decision, time.Duration) {}

func (nopRecorder) Shutdown(context.Context) error { return nil }
