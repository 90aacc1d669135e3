package tail_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/hookrunner/internal/core/tail"
)

// lineCollector gathers followed lines across goroutines
type lineCollector struct {
	mu    sync.Mutex
	lines []string
}

func (c *lineCollector) add(line []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, string(line))
	return nil
}

func (c *lineCollector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func fastOptions() tail.Options {
	return tail.Options{PollInterval: 10 * time.Millisecond}
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestFollowerReceivesAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	appendLine(t, path, "existing")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var collector lineCollector
	done := make(chan error, 1)
	go func() {
		done <- tail.New(path, fastOptions()).Follow(ctx, collector.add)
	}()

	// Give the follower a moment to record the starting offset
	time.Sleep(50 * time.Millisecond)

	appendLine(t, path, "first")
	appendLine(t, path, "second")

	require.Eventually(t, func() bool {
		return len(collector.snapshot()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// Existing content was skipped
	assert.Equal(t, []string{"first", "second"}, collector.snapshot())

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFollowerWaitsForCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var collector lineCollector
	go func() {
		_ = tail.New(path, fastOptions()).Follow(ctx, collector.add)
	}()

	time.Sleep(50 * time.Millisecond)
	appendLine(t, path, "born")

	require.Eventually(t, func() bool {
		lines := collector.snapshot()
		return len(lines) == 1 && lines[0] == "born"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFollowerResetsOnTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	appendLine(t, path, "old history")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var collector lineCollector
	go func() {
		_ = tail.New(path, fastOptions()).Follow(ctx, collector.add)
	}()

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.Truncate(path, 0))
	appendLine(t, path, "fresh")

	require.Eventually(t, func() bool {
		lines := collector.snapshot()
		return len(lines) == 1 && lines[0] == "fresh"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFollowerAssemblesTornLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var collector lineCollector
	go func() {
		_ = tail.New(path, fastOptions()).Follow(ctx, collector.add)
	}()

	time.Sleep(50 * time.Millisecond)

	// Write half a line, let a poll pass, then finish it
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"id":"par`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, collector.snapshot())

	appendLine(t, path, `tial"}`)

	require.Eventually(t, func() bool {
		lines := collector.snapshot()
		return len(lines) == 1 && lines[0] == `{"id":"partial"}`
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFollowerStopsOnHandlerError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	handlerErr := errors.New("handler rejected line")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- tail.New(path, fastOptions()).Follow(ctx, func([]byte) error {
			return handlerErr
		})
	}()

	time.Sleep(50 * time.Millisecond)
	appendLine(t, path, "anything")

	select {
	case err := <-done:
		assert.ErrorIs(t, err, handlerErr)
	case <-time.After(2 * time.Second):
		t.Fatal("Follow did not stop on handler error")
	}
}
