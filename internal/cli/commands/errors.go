package commands

import (
	"fmt"

	"github.com/aki/hookrunner/internal/core/event"
)

// DeniedError reports that hooks denied the event. The entry point
// maps it to exit code 1 so callers can tell a deny from a runner
// failure, which exits 2.
type DeniedError struct {
	Event event.Kind
}

func (e DeniedError) Error() string {
	return fmt.Sprintf("%s denied by hooks", e.Event)
}

// ExitCode returns the process exit code for a denied event
func (e DeniedError) ExitCode() int {
	return 1
}
