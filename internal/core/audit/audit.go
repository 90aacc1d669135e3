// Package audit persists gate decisions as an append-only JSONL log.
// One runner process per tool call is the normal case, so appends take
// an exclusive file lock; each line is a self-contained Record and the
// log never rewrites history.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/hooks"
)

// LogFile is the decision log filename inside the audit directory
const LogFile = "decisions.jsonl"

// ErrLockTimeout is returned when acquiring the log lock times out
var ErrLockTimeout = errors.New("timeout acquiring audit log lock")

// lockRetryInterval is how often lock acquisition retries while
// waiting for a holder to release.
const lockRetryInterval = 100 * time.Millisecond

// maxLineBytes bounds a single scanned record line
const maxLineBytes = 1024 * 1024

// Record is one logged decision
type Record struct {
	// ID is the event ID the decision belongs to
	ID string `json:"id"`
	// Timestamp is when the decision was recorded
	Timestamp time.Time `json:"timestamp"`
	// Event is the lifecycle kind that was gated
	Event event.Kind `json:"event"`
	// ToolName is the tool the event carried, when applicable
	ToolName string `json:"tool_name,omitempty"`
	// FilePath is the file the event carried, when applicable
	FilePath string `json:"file_path,omitempty"`
	// SessionID identifies the agent session, when reported
	SessionID string `json:"session_id,omitempty"`
	// Overall is the gate verdict
	Overall hooks.Overall `json:"overall"`
	// Results lists the per-check outcomes without captured output
	Results []hooks.CheckResult `json:"results,omitempty"`
	// DurationMs is the wall time from event receipt to decision
	DurationMs int64 `json:"duration_ms"`
}

// NewRecord builds the audit record for a finished decision. Captured
// hook output stays out of the log; the record keeps classifications,
// exit codes and durations only.
func NewRecord(evt *event.Event, decision hooks.Decision) Record {
	results := make([]hooks.CheckResult, len(decision.Results))
	for i, res := range decision.Results {
		res.Stdout = ""
		res.Stderr = ""
		results[i] = res
	}

	return Record{
		ID:         evt.ID,
		Timestamp:  time.Now().UTC(),
		Event:      evt.Kind,
		ToolName:   evt.ToolName,
		FilePath:   evt.FilePath,
		SessionID:  evt.SessionID,
		Overall:    decision.Overall,
		Results:    results,
		DurationMs: time.Since(evt.ReceivedAt).Milliseconds(),
	}
}

// Log appends and reads decision records at a fixed path. Failures
// here must never change a decision; callers log them and move on.
type Log struct {
	path        string
	lockTimeout time.Duration
}

// NewLog creates a decision log stored at path
func NewLog(path string) *Log {
	return &Log{
		path:        path,
		lockTimeout: 5 * time.Second,
	}
}

// Path returns the log file path
func (l *Log) Path() string {
	return l.path
}

// Append writes one record as a JSON line under an exclusive lock
func (l *Log) Append(ctx context.Context, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	unlock, err := l.lock(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first. A missing log yields
// no records; malformed lines are skipped so one bad write cannot
// poison the whole history.
func (l *Log) Recent(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		return nil, nil
	}
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return nil, nil
	}

	unlock, err := l.lock(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
		if len(records) > n {
			records = records[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan audit log: %w", err)
	}

	// Newest first for display
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// lock takes the sidecar lock for the log. The data file itself is
// never locked so appends and platform rename semantics stay out of
// each other's way.
func (l *Log) lock(ctx context.Context, shared bool) (func(), error) {
	lock := flock.New(l.path + ".lock")

	lockCtx, cancel := context.WithTimeout(ctx, l.lockTimeout)
	defer cancel()

	var locked bool
	var err error
	if shared {
		locked, err = lock.TryRLockContext(lockCtx, lockRetryInterval)
	} else {
		locked, err = lock.TryLockContext(lockCtx, lockRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire audit lock: %w", err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	return func() { _ = lock.Unlock() }, nil
}
