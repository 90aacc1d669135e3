// Package hooks implements the validation hook pipeline: matching
// configured hooks to lifecycle events, executing them as isolated
// subprocesses, classifying their exit codes and aggregating the
// classifications into a single gate decision.
package hooks

import (
	"time"

	"github.com/aki/hookrunner/internal/core/event"
)

// Exit code contract shared with hook commands. A hook signals a
// blocking violation by exiting 2; any other non-zero exit is advisory.
const (
	// ExitCodePass is the exit code for a passing check
	ExitCodePass = 0
	// ExitCodeBlock is the exit code for a blocking violation
	ExitCodeBlock = 2
	// ExitCodeTimeout is the sentinel recorded when the deadline kills
	// a hook. Processes killed by signals surface the same value
	// through the exec layer.
	ExitCodeTimeout = -1
	// ExitCodeSpawnFailure is the sentinel recorded when the hook
	// command cannot be started at all.
	ExitCodeSpawnFailure = -2
)

// MaxCaptureBytes caps how much stdout and stderr each hook may
// contribute to a result. Output beyond the cap is dropped and the
// capture ends with a truncation marker.
const MaxCaptureBytes = 64 * 1024

// Classification is the per-check verdict derived from an exit code
type Classification string

const (
	// ClassPass marks a check that found nothing wrong
	ClassPass Classification = "pass"
	// ClassWarn marks an advisory finding
	ClassWarn Classification = "warn"
	// ClassBlock marks a violation that can deny the event
	ClassBlock Classification = "block"
)

// Overall is the aggregated decision for one event
type Overall string

const (
	// Allow lets the event proceed untouched
	Allow Overall = "allow"
	// AllowWithWarnings lets the event proceed but carries findings
	AllowWithWarnings Overall = "allow_with_warnings"
	// Deny stops the event
	Deny Overall = "deny"
)

// Classify maps a hook exit code to its classification. The mapping
// is total: exit 0 passes, exit 2 blocks, everything else (including
// the timeout sentinel) warns. Spawn failures never reach Classify;
// the executor records them as blocking directly.
func Classify(exitCode int) Classification {
	switch exitCode {
	case ExitCodePass:
		return ClassPass
	case ExitCodeBlock:
		return ClassBlock
	default:
		return ClassWarn
	}
}

// Definition is one runnable hook bound to a lifecycle event
type Definition struct {
	// Name identifies the hook within its event
	Name string `json:"name"`
	// Event is the lifecycle point the hook fires on
	Event event.Kind `json:"event"`
	// Matcher is the raw pattern the hook was configured with
	Matcher string `json:"matcher,omitempty"`
	// Command is the subprocess invocation
	Command string `json:"command"`
	// Timeout bounds a single execution
	Timeout time.Duration `json:"-"`
	// TimeoutMs mirrors Timeout for serialized forms
	TimeoutMs int `json:"timeoutMs"`
	// Blocking lets a block classification deny the event
	Blocking bool `json:"blocking"`

	matcher *Matcher
}

// Matches reports whether the hook applies to the given tool and file
func (d *Definition) Matches(toolName, filePath string) bool {
	if d.matcher == nil {
		return true
	}
	return d.matcher.Matches(toolName, filePath)
}

// CheckResult is the outcome of one hook execution
type CheckResult struct {
	// HookName references the definition that produced this result
	HookName string `json:"hook_name"`
	// Classification is the verdict derived from the exit code
	Classification Classification `json:"classification"`
	// ExitCode is the subprocess exit code or a sentinel
	ExitCode int `json:"exit_code"`
	// Stdout holds the captured standard output, capped
	Stdout string `json:"stdout,omitempty"`
	// Stderr holds the captured standard error, capped
	Stderr string `json:"stderr,omitempty"`
	// DurationMs is the wall time the execution took
	DurationMs int64 `json:"duration_ms"`
}

// TimedOut reports whether the runner's deadline ended the execution
func (r CheckResult) TimedOut() bool {
	return r.ExitCode == ExitCodeTimeout
}

// Decision is the aggregated outcome for one event
type Decision struct {
	// Overall is the gate verdict
	Overall Overall `json:"overall"`
	// Results lists per-check outcomes in declaration order
	Results []CheckResult `json:"results"`
}

// Blocked reports whether the decision denies the event
func (d Decision) Blocked() bool {
	return d.Overall == Deny
}

// Counts returns how many results passed, warned and blocked
func (d Decision) Counts() (passed, warned, blocked int) {
	for _, res := range d.Results {
		switch res.Classification {
		case ClassPass:
			passed++
		case ClassWarn:
			warned++
		case ClassBlock:
			blocked++
		}
	}
	return passed, warned, blocked
}
