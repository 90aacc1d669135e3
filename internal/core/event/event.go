// Package event defines the lifecycle events that drive hook dispatch.
// An event names the point in an agent session where validation hooks
// fire (before a tool call, after it, before a commit) together with
// the tool and file the hooks should inspect.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies a lifecycle event.
type Kind string

// Recognized lifecycle events. PreToolUse, PostToolUse and PreCommit
// drive the validation pipeline; the remaining kinds are accepted so a
// host can route its full event stream through one configuration file.
const (
	PreToolUse       Kind = "PreToolUse"
	PostToolUse      Kind = "PostToolUse"
	PreCommit        Kind = "PreCommit"
	UserPromptSubmit Kind = "UserPromptSubmit"
	SessionStart     Kind = "SessionStart"
	SessionEnd       Kind = "SessionEnd"
	Stop             Kind = "Stop"
	SubagentStop     Kind = "SubagentStop"
	Notification     Kind = "Notification"
)

// kinds lists every recognized Kind in a stable order
var kinds = []Kind{
	PreToolUse,
	PostToolUse,
	PreCommit,
	UserPromptSubmit,
	SessionStart,
	SessionEnd,
	Stop,
	SubagentStop,
	Notification,
}

// Kinds returns all recognized event kinds
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k is a recognized event kind
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind converts a string to a Kind, validating it against the
// recognized set.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", ErrUnknownKind{Name: s}
	}
	return k, nil
}

// Event is a single lifecycle occurrence to validate. ToolName and
// FilePath are optional depending on the kind: PreCommit events carry
// a file but no tool, session events may carry neither.
type Event struct {
	// ID uniquely identifies this occurrence across logs and audit records
	ID string
	// Kind is the lifecycle point this event represents
	Kind Kind
	// ToolName is the tool being invoked, when applicable
	ToolName string
	// FilePath is the file under consideration, when applicable
	FilePath string
	// SessionID identifies the agent session that produced the event
	SessionID string
	// Cwd is the working directory the host reported
	Cwd string
	// Extra carries host payload fields forwarded verbatim to hooks
	Extra map[string]any
	// ReceivedAt records when the runner accepted the event
	ReceivedAt time.Time
}

// Options carries the optional fields for New
type Options struct {
	ToolName  string
	FilePath  string
	SessionID string
	Cwd       string
	Extra     map[string]any
}

// New creates an Event of the given kind with a fresh ID
func New(kind Kind, opts Options) *Event {
	return &Event{
		ID:         uuid.New().String(),
		Kind:       kind,
		ToolName:   opts.ToolName,
		FilePath:   opts.FilePath,
		SessionID:  opts.SessionID,
		Cwd:        opts.Cwd,
		Extra:      opts.Extra,
		ReceivedAt: time.Now(),
	}
}
