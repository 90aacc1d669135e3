package hooks

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aki/hookrunner/internal/core/logger"
)

// reloadDebounce coalesces the burst of filesystem events an editor
// save produces into one reload.
const reloadDebounce = 200 * time.Millisecond

// Reloader keeps a registry current while settings files change on
// disk. Lookups are wait-free via an atomic pointer; a failed reload
// keeps the last good registry so a half-saved file never drops the
// gate's configuration.
type Reloader struct {
	current atomic.Pointer[Registry]
	load    func() (*Registry, error)
	paths   []string
	logger  logger.Logger
}

// NewReloader creates a reloader over the given settings paths. The
// initial load must succeed.
func NewReloader(load func() (*Registry, error), paths []string) (*Reloader, error) {
	registry, err := load()
	if err != nil {
		return nil, err
	}

	r := &Reloader{
		load:   load,
		paths:  paths,
		logger: logger.Nop(),
	}
	r.current.Store(registry)
	return r, nil
}

// WithLogger sets the reloader logger
func (r *Reloader) WithLogger(log logger.Logger) *Reloader {
	r.logger = log
	return r
}

// Registry returns the most recently loaded registry
func (r *Reloader) Registry() *Registry {
	return r.current.Load()
}

// Watch follows the settings files until the context ends. Watching
// the parent directories rather than the files themselves survives
// the rename-over-save editors do.
func (r *Reloader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	names := make(map[string]bool)
	for _, p := range r.paths {
		names[filepath.Base(p)] = true
		dir := filepath.Dir(p)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watched[dir] = true
	}

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !names[filepath.Base(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
				fire = debounce.C
			} else {
				debounce.Reset(reloadDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("settings watcher error", "error", err)

		case <-fire:
			debounce = nil
			fire = nil
			r.reload()
		}
	}
}

// reload swaps in a fresh registry, keeping the old one on failure
func (r *Reloader) reload() {
	registry, err := r.load()
	if err != nil {
		r.logger.Warn("settings reload failed, keeping previous registry", "error", err)
		return
	}

	r.current.Store(registry)
	r.logger.Info("settings reloaded", "hooks", registry.Len())
}
