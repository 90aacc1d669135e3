package hooks

import (
	"fmt"

	"github.com/aki/hookrunner/internal/core/event"
)

// ErrDuplicateHook is returned when two hooks on the same event
// resolve to the same name
type ErrDuplicateHook struct {
	Event event.Kind
	Name  string
}

func (e ErrDuplicateHook) Error() string {
	return fmt.Sprintf("duplicate hook %q on event %s", e.Name, e.Event)
}

// ErrInvalidMatcher is returned when a matcher pattern cannot be
// compiled
type ErrInvalidMatcher struct {
	Event   event.Kind
	Pattern string
	Reason  string
}

func (e ErrInvalidMatcher) Error() string {
	return fmt.Sprintf("invalid matcher %q on event %s: %s", e.Pattern, e.Event, e.Reason)
}

// ErrUnknownHook is returned when a result references a hook the
// registry does not know, which indicates results and registry are
// out of sync
type ErrUnknownHook struct {
	Event event.Kind
	Name  string
}

func (e ErrUnknownHook) Error() string {
	return fmt.Sprintf("unknown hook %q on event %s", e.Name, e.Event)
}

// ErrUntrustedSettings is returned when hooks are configured but the
// settings file has not been approved, or changed since approval
type ErrUntrustedSettings struct {
	Status TrustStatus
}

func (e ErrUntrustedSettings) Error() string {
	switch e.Status {
	case TrustStatusDrifted:
		return "hook settings changed since they were approved; review and re-run 'hookrunner hooks trust'"
	default:
		return "hook settings are not approved; review and run 'hookrunner hooks trust'"
	}
}
