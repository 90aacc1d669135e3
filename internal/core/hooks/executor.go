package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/logger"
)

// DefaultGracePeriod is how long a timed-out hook gets between the
// stop signal and the hard kill.
const DefaultGracePeriod = 2 * time.Second

// shellMetaChars force a command through the shell. Quoting alone
// does not: the shellwords parser handles quoted arguments without
// spawning a shell.
const shellMetaChars = "|&;<>()$`*?[]{}~#\n"

// Executor runs hook commands as isolated subprocesses. Each hook
// gets the event payload on stdin, FILE_PATH and TOOL_NAME in its
// environment, its own process group and a deadline.
type Executor struct {
	workingDir string
	env        map[string]string
	grace      time.Duration
	logger     logger.Logger
}

// NewExecutor creates an executor running hooks in workingDir
func NewExecutor(workingDir string) *Executor {
	return &Executor{
		workingDir: workingDir,
		grace:      DefaultGracePeriod,
		logger:     logger.Nop(),
	}
}

// WithEnv adds environment variables to every hook execution
func (e *Executor) WithEnv(env map[string]string) *Executor {
	e.env = env
	return e
}

// WithGracePeriod sets the stop-to-kill grace period
func (e *Executor) WithGracePeriod(grace time.Duration) *Executor {
	e.grace = grace
	return e
}

// WithLogger sets the executor logger
func (e *Executor) WithLogger(log logger.Logger) *Executor {
	e.logger = log
	return e
}

// Execute runs one hook for one event and always returns a result.
// Failures to even start the command come back as a blocking result
// with a synthesized stderr rather than an error, so one broken hook
// cannot silently open the gate.
func (e *Executor) Execute(ctx context.Context, def *Definition, ev *event.Event) CheckResult {
	res := CheckResult{HookName: def.Name}

	payload, err := ev.MarshalStdin()
	if err != nil {
		return e.spawnFailure(res, 0, err)
	}

	timeout := def.Timeout
	if timeout <= 0 {
		timeout = time.Duration(def.TimeoutMs) * time.Millisecond
	}
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultTimeoutMs) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := e.buildCommand(ctx, def.Command)
	cmd.Stdin = bytes.NewReader(payload)

	stdout := newCaptureBuffer(MaxCaptureBytes)
	stderr := newCaptureBuffer(MaxCaptureBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if e.workingDir != "" {
		cmd.Dir = e.workingDir
	} else if ev.Cwd != "" {
		cmd.Dir = ev.Cwd
	}

	cmd.Env = os.Environ()
	for k, v := range e.env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Env,
		fmt.Sprintf("FILE_PATH=%s", ev.FilePath),
		fmt.Sprintf("TOOL_NAME=%s", ev.ToolName),
		fmt.Sprintf("HOOK_EVENT=%s", ev.Kind),
	)

	// Own process group so the stop signal reaches the hook's children
	configureProcessGroup(cmd)
	cmd.Cancel = func() error {
		return signalStop(cmd)
	}
	cmd.WaitDelay = e.grace

	start := time.Now()
	runErr := cmd.Run()
	res.DurationMs = time.Since(start).Milliseconds()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		res.ExitCode = ExitCodePass
		res.Classification = ClassPass

	case ctx.Err() == context.DeadlineExceeded:
		res.ExitCode = ExitCodeTimeout
		res.Classification = Classify(ExitCodeTimeout)
		e.logger.Warn("hook timed out",
			"hook", def.Name,
			"timeout_ms", def.TimeoutMs,
		)

	case errors.As(runErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		res.Classification = Classify(res.ExitCode)

	default:
		return e.spawnFailure(res, res.DurationMs, runErr)
	}

	e.logger.Debug("hook executed",
		"hook", def.Name,
		"event", string(ev.Kind),
		"exit_code", res.ExitCode,
		"classification", string(res.Classification),
		"duration_ms", res.DurationMs,
	)

	return res
}

// spawnFailure fills in the result for a hook that never ran
func (e *Executor) spawnFailure(res CheckResult, durationMs int64, err error) CheckResult {
	res.ExitCode = ExitCodeSpawnFailure
	res.Classification = ClassBlock
	res.DurationMs = durationMs
	res.Stderr = appendLine(res.Stderr, fmt.Sprintf("failed to start hook command: %v", err))

	e.logger.Error("hook spawn failed",
		"hook", res.HookName,
		"error", err,
	)

	return res
}

// buildCommand turns a configured command string into an exec.Cmd.
// Plain invocations run directly via shellwords so no shell sits
// between the runner and the hook; commands using shell syntax run
// through the platform shell.
func (e *Executor) buildCommand(ctx context.Context, command string) *exec.Cmd {
	if !strings.ContainsAny(command, shellMetaChars) {
		if argv, err := shellwords.Parse(command); err == nil && len(argv) > 0 {
			return exec.CommandContext(ctx, argv[0], argv[1:]...)
		}
	}
	return shellCommand(ctx, command)
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s + line
}
