package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/hookrunner/internal/core/hooks"
	"github.com/aki/hookrunner/internal/core/telemetry"
)

func TestLoadConfig(t *testing.T) {
	t.Run("unset environment disables export", func(t *testing.T) {
		t.Setenv(telemetry.EndpointEnv, "")
		t.Setenv(telemetry.InsecureEnv, "")

		cfg := telemetry.LoadConfig()
		assert.False(t, cfg.Enabled())
		assert.False(t, cfg.Insecure)
	})

	t.Run("endpoint enables export", func(t *testing.T) {
		t.Setenv(telemetry.EndpointEnv, "collector:4317")
		t.Setenv(telemetry.InsecureEnv, "true")

		cfg := telemetry.LoadConfig()
		assert.True(t, cfg.Enabled())
		assert.Equal(t, "collector:4317", cfg.Endpoint)
		assert.True(t, cfg.Insecure)
	})
}

func TestNewRecorderWithoutEndpoint(t *testing.T) {
	rec, err := telemetry.NewRecorder(context.Background(), telemetry.Config{})
	require.NoError(t, err)
	require.NotNil(t, rec)

	// The noop recorder absorbs everything without side effects
	ctx := context.Background()
	rec.RecordCheck(ctx, hooks.CheckResult{HookName: "lint", Classification: hooks.ClassPass})
	rec.RecordDecision(ctx, hooks.Decision{Overall: hooks.Allow}, 120*time.Millisecond)
	assert.NoError(t, rec.Shutdown(ctx))
}

func TestNopRecorder(t *testing.T) {
	rec := telemetry.NewNopRecorder()
	ctx := context.Background()

	rec.RecordCheck(ctx, hooks.CheckResult{Classification: hooks.ClassBlock})
	rec.RecordDecision(ctx, hooks.Decision{Overall: hooks.Deny}, time.Second)
	assert.NoError(t, rec.Shutdown(ctx))
}
