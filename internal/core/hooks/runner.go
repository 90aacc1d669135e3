package hooks

import (
	"context"

	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/logger"
)

// RegistryProvider yields the registry to run against. A *Registry
// provides itself; a Reloader provides whatever was last loaded.
type RegistryProvider interface {
	Registry() *Registry
}

// Runner ties dispatch and aggregation together into the single
// question the gate asks: given this event, may it proceed?
type Runner struct {
	provider   RegistryProvider
	dispatcher *Dispatcher
	logger     logger.Logger
}

// NewRunner creates a runner over the given registry source
func NewRunner(provider RegistryProvider, dispatcher *Dispatcher) *Runner {
	return &Runner{
		provider:   provider,
		dispatcher: dispatcher,
		logger:     logger.Nop(),
	}
}

// WithLogger sets the runner logger
func (r *Runner) WithLogger(log logger.Logger) *Runner {
	r.logger = log
	return r
}

// Run executes every hook matching the event and aggregates their
// results. Events with no matching hooks are allowed.
func (r *Runner) Run(ctx context.Context, ev *event.Event) (Decision, error) {
	registry := r.provider.Registry()

	results := r.dispatcher.Dispatch(ctx, registry, ev)
	decision, err := registry.Aggregate(ev.Kind, results)
	if err != nil {
		return Decision{}, err
	}

	passed, warned, blocked := decision.Counts()
	r.logger.Info("event decided",
		"event", string(ev.Kind),
		"event_id", ev.ID,
		"overall", string(decision.Overall),
		"passed", passed,
		"warned", warned,
		"blocked", blocked,
	)

	return decision, nil
}
