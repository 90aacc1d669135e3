// Package filemanager provides process-safe reads and writes for the
// small YAML records hookrunner keeps next to its settings. Multiple
// runner processes are the normal case (one per gated tool call), so
// every access takes a file lock and writes replace atomically.
package filemanager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrLockTimeout is returned when acquiring a file lock times out
var ErrLockTimeout = errors.New("timeout acquiring file lock")

// lockRetryInterval is how often lock acquisition retries while
// waiting for a holder to release.
const lockRetryInterval = 100 * time.Millisecond

// Manager reads and writes one YAML-encoded record type under file
// locks. The zero timeout constructor waits up to five seconds for a
// contended lock.
type Manager[T any] struct {
	lockTimeout time.Duration
}

// NewManager creates a file manager with the default lock timeout
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{
		lockTimeout: 5 * time.Second,
	}
}

// NewManagerWithTimeout creates a file manager with a custom lock timeout
func NewManagerWithTimeout[T any](timeout time.Duration) *Manager[T] {
	return &Manager[T]{
		lockTimeout: timeout,
	}
}

// Read loads the record at path under a shared lock. Missing files
// surface the os.IsNotExist error unchanged so callers can treat
// absence as a normal state.
func (m *Manager[T]) Read(ctx context.Context, path string) (*T, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	lock := createLock(path)

	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	locked, err := lock.TryRLockContext(lockCtx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	data, err := readFileWithRetry(path)
	if err != nil {
		return nil, err
	}

	var result T
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &result, nil
}

// Write stores the record at path under an exclusive lock. The bytes
// land in a temp file first and replace the target via atomic rename,
// so a reader never observes a half-written record.
func (m *Manager[T]) Write(ctx context.Context, path string, data *T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	lock := createLock(path)

	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() {
		_ = lock.Unlock()
		cleanupLockFile(path)
	}()

	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}

	// Unique temp name keeps concurrent writers from clobbering each
	// other's staging file
	tempFile := fmt.Sprintf("%s.%d.%d.tmp", path, os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tempFile, yamlData, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if f, err := os.OpenFile(tempFile, os.O_RDWR, 0o644); err == nil {
		_ = f.Sync()
		_ = f.Close()
	}

	if err := atomicRename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
