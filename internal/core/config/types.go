package config

import (
	"encoding/json"
	"fmt"
)

// DefaultTimeoutMs is applied to hook commands that do not set their
// own timeout.
const DefaultTimeoutMs = 10000

// MaxConcurrency caps the concurrency setting
const MaxConcurrency = 64

// Settings is the typed model of a hookrunner settings document.
// Hooks are keyed by lifecycle event name; each event carries matcher
// groups evaluated in declaration order.
type Settings struct {
	Hooks       map[string][]MatcherGroup `json:"hooks,omitempty"`
	Concurrency int                       `json:"concurrency,omitempty"`
}

// MatcherGroup binds a matcher pattern to one or more hook commands.
// Blocking marks every command in the group as able to deny the event.
type MatcherGroup struct {
	Matcher  string        `json:"matcher,omitempty"`
	Blocking bool          `json:"blocking,omitempty"`
	Hooks    []CommandSpec `json:"hooks"`
}

// CommandSpec describes a single hook command
type CommandSpec struct {
	Type      string `json:"type"`
	Name      string `json:"name,omitempty"`
	Command   string `json:"command"`
	TimeoutMs int    `json:"timeoutMs,omitempty"`
}

// DefaultSettings returns empty settings
func DefaultSettings() *Settings {
	return &Settings{
		Hooks: make(map[string][]MatcherGroup),
	}
}

// MergeSettings layers overlay on top of base. Hook groups for the
// same event concatenate with the base entries first, so shared hooks
// keep running ahead of per-developer additions. A non-zero overlay
// concurrency wins.
func MergeSettings(base, overlay *Settings) *Settings {
	merged := &Settings{
		Hooks:       make(map[string][]MatcherGroup, len(base.Hooks)+len(overlay.Hooks)),
		Concurrency: base.Concurrency,
	}

	for eventName, groups := range base.Hooks {
		merged.Hooks[eventName] = append(merged.Hooks[eventName], groups...)
	}
	for eventName, groups := range overlay.Hooks {
		merged.Hooks[eventName] = append(merged.Hooks[eventName], groups...)
	}

	if overlay.Concurrency != 0 {
		merged.Concurrency = overlay.Concurrency
	}

	return merged
}

// CanonicalJSON serializes settings deterministically. Event keys are
// map keys, which encoding/json emits in sorted order, so equal
// settings always produce identical bytes. The trust hash is computed
// over this form.
func (s *Settings) CanonicalJSON() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize settings: %w", err)
	}
	return data, nil
}

// MarshalIndentJSON serializes settings for writing to disk
func (s *Settings) MarshalIndentJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize settings: %w", err)
	}
	return append(data, '\n'), nil
}

// applyDefaults fills in per-command defaults after validation
func applyDefaults(s *Settings) {
	for eventName, groups := range s.Hooks {
		for gi := range groups {
			for hi := range groups[gi].Hooks {
				if groups[gi].Hooks[hi].TimeoutMs == 0 {
					groups[gi].Hooks[hi].TimeoutMs = DefaultTimeoutMs
				}
			}
		}
		s.Hooks[eventName] = groups
	}
}
