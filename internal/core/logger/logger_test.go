package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		if New() == nil {
			t.Fatal("expected logger, got nil")
		}
	})

	t.Run("respects log level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(
			WithOutput(&buf),
			WithLevel(slog.LevelWarn),
		)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		if strings.Contains(output, "debug message") {
			t.Error("debug message should not appear with warn level")
		}
		if strings.Contains(output, "info message") {
			t.Error("info message should not appear with warn level")
		}
		if !strings.Contains(output, "warn message") {
			t.Error("warn message should appear with warn level")
		}
		if !strings.Contains(output, "error message") {
			t.Error("error message should appear with warn level")
		}
	})

	t.Run("structured fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(
			WithOutput(&buf),
			WithDebug(),
			WithFormat(FormatText),
		)

		logger.Debug("hook executed", "hook", "gofmt-check", "exit_code", 0)
		output := buf.String()

		if !strings.Contains(output, "hook executed") {
			t.Errorf("expected message in output, got: %s", output)
		}
		if !strings.Contains(output, "hook=gofmt-check") {
			t.Errorf("expected hook field in output, got: %s", output)
		}
	})
}

func TestNop(t *testing.T) {
	logger := Nop()
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	// Must not panic when called
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := New(
		WithOutput(&buf),
		WithFormat(FormatText),
	)

	eventLogger := logger.With("event", "PreToolUse")
	eventLogger.Info("dispatching")

	output := buf.String()
	if !strings.Contains(output, "event=PreToolUse") {
		t.Errorf("expected output to contain 'event=PreToolUse', got: %s", output)
	}
}

func TestWithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := New(
		WithOutput(&buf),
		WithFormat(FormatJSON),
	)

	groupLogger := logger.WithGroup("executor")
	groupLogger.Info("spawned", "pid", 42)

	output := buf.String()
	if !strings.Contains(output, `"executor":{`) {
		t.Errorf("expected output to contain executor group, got: %s", output)
	}
}

func TestContext(t *testing.T) {
	t.Run("WithContext and FromContext", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(WithOutput(&buf))

		ctx := WithContext(context.Background(), logger)

		FromContext(ctx).Info("test message")
		if !strings.Contains(buf.String(), "test message") {
			t.Error("expected message from context logger")
		}
	})

	t.Run("FromContext returns Nop when no logger", func(t *testing.T) {
		logger := FromContext(context.Background())

		// Should not panic
		logger.Info("test message")
	})
}

func TestFormats(t *testing.T) {
	t.Run("JSON format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(
			WithOutput(&buf),
			WithFormat(FormatJSON),
		)

		logger.Info("test message", "key", "value")
		output := buf.String()

		if !strings.Contains(output, `"msg":"test message"`) {
			t.Errorf("expected JSON format, got: %s", output)
		}
		if !strings.Contains(output, `"key":"value"`) {
			t.Errorf("expected JSON key-value, got: %s", output)
		}
	})

	t.Run("quiet suppresses info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(
			WithOutput(&buf),
			WithQuiet(),
		)

		logger.Info("info message")
		logger.Warn("warn message")

		output := buf.String()
		if strings.Contains(output, "info message") {
			t.Error("WithQuiet should suppress info messages")
		}
		if !strings.Contains(output, "warn message") {
			t.Error("WithQuiet should allow warn messages")
		}
	})
}
