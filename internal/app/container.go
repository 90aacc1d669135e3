// Package app wires the pipeline together for the CLI and MCP
// surfaces: settings, trust, registry, runner, audit and telemetry in
// dependency order.
package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/aki/hookrunner/internal/core/audit"
	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/git"
	"github.com/aki/hookrunner/internal/core/hooks"
	"github.com/aki/hookrunner/internal/core/logger"
	"github.com/aki/hookrunner/internal/core/telemetry"
)

// Container holds the assembled pipeline for one project
type Container struct {
	// ProjectRoot is the root directory of the hookrunner project
	ProjectRoot string

	ConfigManager *config.Manager
	Settings      *config.Settings
	TrustStore    *hooks.TrustStore
	Runner        *hooks.Runner
	AuditLog      *audit.Log
	GitOps        *git.Operations
	Recorder      telemetry.Recorder
	Logger        logger.Logger

	provider   hooks.RegistryProvider
	dispatcher *hooks.Dispatcher
}

// NewContainer loads the project settings and assembles the pipeline.
// Settings are validated here; trust is checked separately so
// inspection commands can look at an unapproved configuration.
func NewContainer(projectRoot string, log logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}

	c := &Container{
		ProjectRoot: projectRoot,
		Logger:      log,
	}

	c.ConfigManager = config.NewManager(projectRoot)

	settings, err := c.ConfigManager.Load()
	if err != nil {
		return nil, err
	}
	c.Settings = settings

	c.TrustStore = hooks.NewTrustStore(c.ConfigManager.GetTrustPath())

	registry, err := hooks.NewRegistry(settings)
	if err != nil {
		return nil, err
	}
	c.provider = registry

	executor := hooks.NewExecutor(projectRoot).WithLogger(log)
	c.dispatcher = hooks.NewDispatcher(executor).WithLogger(log)
	c.Runner = hooks.NewRunner(registry, c.dispatcher).WithLogger(log)

	c.AuditLog = audit.NewLog(filepath.Join(c.ConfigManager.GetAuditDir(), audit.LogFile))
	c.GitOps = git.NewOperations(projectRoot)
	c.Recorder = telemetry.NewNopRecorder()

	return c, nil
}

// Registry returns the current registry, following reloads when watch
// is enabled.
func (c *Container) Registry() *hooks.Registry {
	return c.provider.Registry()
}

// VerifyTrust checks that the loaded settings are approved for
// execution.
func (c *Container) VerifyTrust() error {
	return c.TrustStore.Verify(c.Settings)
}

// EnableTelemetry builds an exporting recorder when the environment
// configures one. Without an endpoint the container keeps its no-op
// recorder.
func (c *Container) EnableTelemetry(ctx context.Context) error {
	cfg := telemetry.LoadConfig()
	if !cfg.Enabled() {
		return nil
	}

	rec, err := telemetry.NewRecorder(ctx, cfg)
	if err != nil {
		return err
	}
	c.Recorder = rec
	return nil
}

// EnableWatch replaces the static registry with a reloader following
// the settings files on disk. Reloaded settings pass through the same
// validation and trust gate; a failing reload keeps the running
// registry. The caller starts the returned reloader's Watch loop.
func (c *Container) EnableWatch() (*hooks.Reloader, error) {
	reloader, err := hooks.NewReloader(c.loadVerified, c.ConfigManager.SettingsPaths())
	if err != nil {
		return nil, err
	}
	reloader.WithLogger(c.Logger)

	c.provider = reloader
	c.Runner = hooks.NewRunner(reloader, c.dispatcher).WithLogger(c.Logger)
	return reloader, nil
}

// loadVerified is the reload path: parse, validate, verify trust,
// build.
func (c *Container) loadVerified() (*hooks.Registry, error) {
	settings, err := c.ConfigManager.Load()
	if err != nil {
		return nil, err
	}
	if err := c.TrustStore.Verify(settings); err != nil {
		return nil, err
	}
	return hooks.NewRegistry(settings)
}

// Gate asks the pipeline whether the event may proceed and records
// the outcome. Audit and telemetry failures never change a decision;
// they are logged and the decision stands.
func (c *Container) Gate(ctx context.Context, ev *event.Event) (hooks.Decision, error) {
	decision, err := c.Runner.Run(ctx, ev)
	if err != nil {
		return hooks.Decision{}, err
	}

	for _, res := range decision.Results {
		c.Recorder.RecordCheck(ctx, res)
	}
	c.Recorder.RecordDecision(ctx, decision, time.Since(ev.ReceivedAt))

	if err := c.AuditLog.Append(ctx, audit.NewRecord(ev, decision)); err != nil {
		c.Logger.Warn("failed to append audit record",
			"error", err,
			"event_id", ev.ID,
		)
	}

	return decision, nil
}

// Shutdown flushes telemetry. Long-running surfaces call this on the
// way out; one-shot commands with the no-op recorder pay nothing.
func (c *Container) Shutdown(ctx context.Context) error {
	return c.Recorder.Shutdown(ctx)
}
