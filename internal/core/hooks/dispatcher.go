package hooks

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/logger"
)

// DefaultConcurrency bounds parallel hook execution when the settings
// do not set their own width.
const DefaultConcurrency = 4

// Dispatcher fans an event out to its matching hooks. Hooks run
// concurrently up to the configured width, but results always come
// back in declaration order and one hook's outcome never cancels its
// siblings.
type Dispatcher struct {
	executor    *Executor
	concurrency int
	logger      logger.Logger
}

// NewDispatcher creates a dispatcher running hooks on executor
func NewDispatcher(executor *Executor) *Dispatcher {
	return &Dispatcher{
		executor: executor,
		logger:   logger.Nop(),
	}
}

// WithConcurrency overrides the dispatch width. Width 1 runs hooks
// sequentially.
func (d *Dispatcher) WithConcurrency(n int) *Dispatcher {
	d.concurrency = n
	return d
}

// WithLogger sets the dispatcher logger
func (d *Dispatcher) WithLogger(log logger.Logger) *Dispatcher {
	d.logger = log
	return d
}

// Dispatch runs every hook matching the event and returns their
// results in declaration order. No matching hooks yields no results.
func (d *Dispatcher) Dispatch(ctx context.Context, registry *Registry, ev *event.Event) []CheckResult {
	defs := registry.Query(ev.Kind, ev.ToolName, ev.FilePath)
	if len(defs) == 0 {
		return nil
	}

	width := d.concurrency
	if width <= 0 {
		width = registry.Concurrency()
	}
	if width <= 0 {
		width = DefaultConcurrency
	}

	d.logger.Debug("dispatching hooks",
		"event", string(ev.Kind),
		"matched", len(defs),
		"concurrency", width,
	)

	results := make([]CheckResult, len(defs))

	var g errgroup.Group
	g.SetLimit(width)
	for i, def := range defs {
		g.Go(func() error {
			results[i] = d.executor.Execute(ctx, def, ev)
			return nil
		})
	}
	// Execute never returns an error; results carry all outcomes
	_ = g.Wait()

	return results
}
