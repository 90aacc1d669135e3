package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/hooks"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX sh")
	}
}

func testDefinition(name, command string, timeoutMs int) *hooks.Definition {
	return &hooks.Definition{
		Name:      name,
		Event:     event.PreToolUse,
		Command:   command,
		TimeoutMs: timeoutMs,
		Timeout:   time.Duration(timeoutMs) * time.Millisecond,
	}
}

func TestExecutorExecute(t *testing.T) {
	skipOnWindows(t)
	tmpDir := t.TempDir()
	executor := hooks.NewExecutor(tmpDir)

	t.Run("passing command", func(t *testing.T) {
		def := testDefinition("ok", "echo hello", 5000)
		ev := event.New(event.PreToolUse, event.Options{ToolName: "Write"})

		res := executor.Execute(context.Background(), def, ev)

		assert.Equal(t, "ok", res.HookName)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, hooks.ClassPass, res.Classification)
		assert.Contains(t, res.Stdout, "hello")
		assert.False(t, res.TimedOut())
	})

	t.Run("blocking exit code", func(t *testing.T) {
		def := testDefinition("block", `sh -c "echo violation >&2; exit 2"`, 5000)
		ev := event.New(event.PreToolUse, event.Options{ToolName: "Write"})

		res := executor.Execute(context.Background(), def, ev)

		assert.Equal(t, 2, res.ExitCode)
		assert.Equal(t, hooks.ClassBlock, res.Classification)
		assert.Contains(t, res.Stderr, "violation")
	})

	t.Run("other exit codes warn", func(t *testing.T) {
		def := testDefinition("warn", `sh -c "exit 3"`, 5000)
		ev := event.New(event.PreToolUse, event.Options{ToolName: "Write"})

		res := executor.Execute(context.Background(), def, ev)

		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, hooks.ClassWarn, res.Classification)
	})

	t.Run("event payload arrives on stdin", func(t *testing.T) {
		def := testDefinition("stdin", "cat", 5000)
		ev := event.New(event.PreToolUse, event.Options{
			ToolName: "Edit",
			FilePath: "/work/main.go",
		})

		res := executor.Execute(context.Background(), def, ev)

		require.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stdout, `"hook_event_name":"PreToolUse"`)
		assert.Contains(t, res.Stdout, `"tool_name":"Edit"`)
		assert.Contains(t, res.Stdout, `"file_path":"/work/main.go"`)
	})

	t.Run("environment carries event fields", func(t *testing.T) {
		def := testDefinition("env", `sh -c 'echo "$TOOL_NAME>$FILE_PATH>$HOOK_EVENT"'`, 5000)
		ev := event.New(event.PreToolUse, event.Options{
			ToolName: "Write",
			FilePath: "app.py",
		})

		res := executor.Execute(context.Background(), def, ev)

		require.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stdout, "Write>app.py>PreToolUse")
	})

	t.Run("shell syntax goes through the shell", func(t *testing.T) {
		def := testDefinition("pipe", "printf 'a\nb\nc\n' | wc -l", 5000)
		ev := event.New(event.PreToolUse, event.Options{})

		res := executor.Execute(context.Background(), def, ev)

		require.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stdout, "3")
	})

	t.Run("runs in the configured working directory", func(t *testing.T) {
		marker := filepath.Join(tmpDir, "marker-file.txt")
		require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))

		def := testDefinition("wd", "ls", 5000)
		ev := event.New(event.PreToolUse, event.Options{})

		res := executor.Execute(context.Background(), def, ev)

		require.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stdout, "marker-file.txt")
	})

	t.Run("timeout yields the sentinel and warns", func(t *testing.T) {
		def := testDefinition("slow", "sleep 5", 200)
		ev := event.New(event.PreToolUse, event.Options{})

		fast := hooks.NewExecutor(tmpDir).WithGracePeriod(500 * time.Millisecond)

		start := time.Now()
		res := fast.Execute(context.Background(), def, ev)
		elapsed := time.Since(start)

		assert.Equal(t, hooks.ExitCodeTimeout, res.ExitCode)
		assert.Equal(t, hooks.ClassWarn, res.Classification)
		assert.True(t, res.TimedOut())
		assert.Less(t, elapsed, 3*time.Second)
	})

	t.Run("spawn failure blocks with synthesized stderr", func(t *testing.T) {
		def := testDefinition("missing", "/no/such/binary-anywhere", 5000)
		ev := event.New(event.PreToolUse, event.Options{})

		res := executor.Execute(context.Background(), def, ev)

		assert.Equal(t, hooks.ExitCodeSpawnFailure, res.ExitCode)
		assert.Equal(t, hooks.ClassBlock, res.Classification)
		assert.Contains(t, res.Stderr, "failed to start hook command")
	})

	t.Run("caps captured output", func(t *testing.T) {
		def := testDefinition("chatty", `awk 'BEGIN { for (i = 0; i < 70000; i++) print "xxxxxxxx" }'`, 10000)
		ev := event.New(event.PreToolUse, event.Options{})

		res := executor.Execute(context.Background(), def, ev)

		require.Equal(t, 0, res.ExitCode)
		assert.LessOrEqual(t, len(res.Stdout), hooks.MaxCaptureBytes+64)
		assert.True(t, strings.HasSuffix(res.Stdout, "[output truncated]"))
	})

	t.Run("extra env vars reach the hook", func(t *testing.T) {
		withEnv := hooks.NewExecutor(tmpDir).WithEnv(map[string]string{"GATE_MODE": "strict"})
		def := testDefinition("extra-env", `sh -c 'echo "$GATE_MODE"'`, 5000)
		ev := event.New(event.PreToolUse, event.Options{})

		res := withEnv.Execute(context.Background(), def, ev)

		require.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stdout, "strict")
	})

	t.Run("duration is recorded", func(t *testing.T) {
		def := testDefinition("timed", "sleep 0.1", 5000)
		ev := event.New(event.PreToolUse, event.Options{})

		res := executor.Execute(context.Background(), def, ev)

		require.Equal(t, 0, res.ExitCode)
		assert.GreaterOrEqual(t, res.DurationMs, int64(90))
	})
}

func TestExecutorProcessGroupCleanup(t *testing.T) {
	skipOnWindows(t)

	// A hook that spawns a child must not leave the child holding the
	// pipe open past the deadline; the group signal reaches it.
	tmpDir := t.TempDir()
	executor := hooks.NewExecutor(tmpDir).WithGracePeriod(500 * time.Millisecond)

	def := testDefinition("spawner", `sh -c 'sleep 30 & wait'`, 300)
	ev := event.New(event.PreToolUse, event.Options{})

	start := time.Now()
	res := executor.Execute(context.Background(), def, ev)
	elapsed := time.Since(start)

	assert.True(t, res.TimedOut())
	assert.Less(t, elapsed, 5*time.Second)
}
