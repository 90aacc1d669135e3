package config

import (
	"fmt"
	"strings"

	"github.com/aki/hookrunner/internal/core/event"
)

// ValidateSettings applies the semantic rules the JSON schema cannot
// express: recognized event names, non-blank commands and hook name
// uniqueness within an event.
func ValidateSettings(s *Settings) error {
	if s == nil {
		return fmt.Errorf("settings is nil")
	}

	if s.Concurrency < 0 || s.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 0 and %d, got %d", MaxConcurrency, s.Concurrency)
	}

	for eventName, groups := range s.Hooks {
		if _, err := event.ParseKind(eventName); err != nil {
			return fmt.Errorf("invalid event %q: %w", eventName, err)
		}

		seen := make(map[string]bool)
		for gi, group := range groups {
			if err := validateGroup(eventName, gi, &group, seen); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateGroup(eventName string, index int, group *MatcherGroup, seen map[string]bool) error {
	if len(group.Hooks) == 0 {
		return fmt.Errorf("event %q group %d: at least one hook is required", eventName, index)
	}

	for _, spec := range group.Hooks {
		if spec.Type != "command" {
			return fmt.Errorf("event %q group %d: unsupported hook type %q", eventName, index, spec.Type)
		}
		if strings.TrimSpace(spec.Command) == "" {
			return fmt.Errorf("event %q group %d: command must not be blank", eventName, index)
		}
		if spec.TimeoutMs < 0 {
			return fmt.Errorf("event %q group %d: timeoutMs must be positive", eventName, index)
		}
		if spec.Name != "" {
			if seen[spec.Name] {
				return fmt.Errorf("event %q: duplicate hook name %q", eventName, spec.Name)
			}
			seen[spec.Name] = true
		}
	}

	return nil
}
