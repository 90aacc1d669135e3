package config

import "fmt"

// ErrInvalidSettings is returned when a settings document fails
// schema or semantic validation. The file path is included so a
// merged load can point at the layer that failed.
type ErrInvalidSettings struct {
	File   string
	Reason string
}

func (e ErrInvalidSettings) Error() string {
	if e.File == "" {
		return fmt.Sprintf("invalid settings: %s", e.Reason)
	}
	return fmt.Sprintf("invalid settings in %s: %s", e.File, e.Reason)
}
