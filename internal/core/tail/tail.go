// Package tail follows append-only files by polling. The audit log is
// written by short-lived runner processes, so there is no session to
// subscribe to; polling the file is the reliable way to stream it.
package tail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Options configures the follow behavior
type Options struct {
	// PollInterval is how often to check for appended data
	PollInterval time.Duration
}

// DefaultOptions returns default follow options
func DefaultOptions() Options {
	return Options{
		PollInterval: 500 * time.Millisecond,
	}
}

// LineFunc handles one complete line, without its trailing newline
type LineFunc func(line []byte) error

// Follower streams lines appended to a file
type Follower struct {
	path string
	opts Options
}

// New creates a Follower for the file at path. The file does not need
// to exist yet; Follow waits for it to appear.
func New(path string, opts Options) *Follower {
	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	return &Follower{
		path: path,
		opts: opts,
	}
}

// Follow invokes fn for every line appended after the call, until the
// context is cancelled or fn returns an error. Existing content is
// skipped; a shrinking file resets the follower to the new start.
func (f *Follower) Follow(ctx context.Context, fn LineFunc) error {
	var offset int64
	if info, err := os.Stat(f.path); err == nil {
		offset = info.Size()
	}

	var pending []byte

	ticker := time.NewTicker(f.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			next, err := f.drain(offset, &pending, fn)
			if err != nil {
				return err
			}
			offset = next
		}
	}
}

// drain reads everything appended since offset and feeds complete
// lines to fn, carrying a torn final line over to the next poll.
func (f *Follower) drain(offset int64, pending *[]byte, fn LineFunc) (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Not created yet, or removed; start from the top when it
			// appears
			return 0, nil
		}
		return offset, fmt.Errorf("failed to stat followed file: %w", err)
	}

	size := info.Size()
	if size < offset {
		offset = 0
		*pending = nil
	}
	if size == offset {
		return offset, nil
	}

	file, err := os.Open(f.path)
	if err != nil {
		return offset, fmt.Errorf("failed to open followed file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("failed to seek followed file: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(file, size-offset))
	if err != nil {
		return offset, fmt.Errorf("failed to read followed file: %w", err)
	}
	offset += int64(len(data))

	buf := append(*pending, data...)
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}
		line := buf[:idx]
		buf = buf[idx+1:]
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return offset, err
		}
	}
	*pending = append([]byte(nil), buf...)

	return offset, nil
}
