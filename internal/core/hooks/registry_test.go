package hooks_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/hooks"
)

func registrySettings() *config.Settings {
	return &config.Settings{
		Concurrency: 3,
		Hooks: map[string][]config.MatcherGroup{
			"PreToolUse": {
				{
					Matcher:  "Write|Edit",
					Blocking: true,
					Hooks: []config.CommandSpec{
						{Type: "command", Name: "fmt-gate", Command: "gofmt -l .", TimeoutMs: 5000},
						{Type: "command", Name: "vet-gate", Command: "go vet ./...", TimeoutMs: 8000},
					},
				},
				{
					Matcher: "*.py",
					Hooks: []config.CommandSpec{
						{Type: "command", Command: "ruff check", TimeoutMs: 4000},
					},
				},
			},
			"PreCommit": {
				{
					Hooks: []config.CommandSpec{
						{Type: "command", Name: "secrets-scan", Command: "detect-secrets scan"},
					},
				},
			},
		},
	}
}

func TestNewRegistry(t *testing.T) {
	t.Run("flattens groups into definitions", func(t *testing.T) {
		registry, err := hooks.NewRegistry(registrySettings())
		require.NoError(t, err)

		assert.Equal(t, 4, registry.Len())
		assert.Equal(t, 3, registry.Concurrency())

		defs := registry.Definitions(event.PreToolUse)
		require.Len(t, defs, 3)
		assert.Equal(t, "fmt-gate", defs[0].Name)
		assert.Equal(t, "vet-gate", defs[1].Name)
		assert.True(t, defs[0].Blocking)
		assert.True(t, defs[1].Blocking)
		assert.False(t, defs[2].Blocking)
		assert.Equal(t, 5*time.Second, defs[0].Timeout)
	})

	t.Run("derives names for unnamed hooks", func(t *testing.T) {
		registry, err := hooks.NewRegistry(registrySettings())
		require.NoError(t, err)

		defs := registry.Definitions(event.PreToolUse)
		derived := defs[2].Name
		assert.NotEmpty(t, derived)
		assert.Contains(t, derived, "ruff")

		// Derivation is stable across loads
		again, err := hooks.NewRegistry(registrySettings())
		require.NoError(t, err)
		assert.Equal(t, derived, again.Definitions(event.PreToolUse)[2].Name)
	})

	t.Run("applies default timeout", func(t *testing.T) {
		registry, err := hooks.NewRegistry(registrySettings())
		require.NoError(t, err)

		def, ok := registry.Lookup(event.PreCommit, "secrets-scan")
		require.True(t, ok)
		assert.Equal(t, config.DefaultTimeoutMs, def.TimeoutMs)
	})

	t.Run("rejects duplicate names on one event", func(t *testing.T) {
		settings := registrySettings()
		settings.Hooks["PreToolUse"] = append(settings.Hooks["PreToolUse"], config.MatcherGroup{
			Hooks: []config.CommandSpec{
				{Type: "command", Name: "fmt-gate", Command: "echo dup"},
			},
		})

		_, err := hooks.NewRegistry(settings)
		require.Error(t, err)

		var dupErr hooks.ErrDuplicateHook
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "fmt-gate", dupErr.Name)
		assert.Equal(t, event.PreToolUse, dupErr.Event)
	})

	t.Run("rejects identical unnamed hooks", func(t *testing.T) {
		settings := &config.Settings{
			Hooks: map[string][]config.MatcherGroup{
				"PreCommit": {
					{Hooks: []config.CommandSpec{{Type: "command", Command: "make lint"}}},
					{Hooks: []config.CommandSpec{{Type: "command", Command: "make lint"}}},
				},
			},
		}

		_, err := hooks.NewRegistry(settings)
		var dupErr hooks.ErrDuplicateHook
		require.ErrorAs(t, err, &dupErr)
	})

	t.Run("rejects invalid matcher", func(t *testing.T) {
		settings := &config.Settings{
			Hooks: map[string][]config.MatcherGroup{
				"PreToolUse": {
					{Matcher: "Write(", Hooks: []config.CommandSpec{{Type: "command", Command: "echo hi"}}},
				},
			},
		}

		_, err := hooks.NewRegistry(settings)
		var matcherErr hooks.ErrInvalidMatcher
		require.ErrorAs(t, err, &matcherErr)
		assert.Equal(t, "Write(", matcherErr.Pattern)
	})

	t.Run("rejects unknown event", func(t *testing.T) {
		settings := &config.Settings{
			Hooks: map[string][]config.MatcherGroup{
				"AfterLunch": {
					{Hooks: []config.CommandSpec{{Type: "command", Command: "echo hi"}}},
				},
			},
		}

		_, err := hooks.NewRegistry(settings)
		assert.Error(t, err)
	})
}

func TestRegistryQuery(t *testing.T) {
	registry, err := hooks.NewRegistry(registrySettings())
	require.NoError(t, err)

	t.Run("matches by tool name", func(t *testing.T) {
		defs := registry.Query(event.PreToolUse, "Write", "")
		require.Len(t, defs, 2)
		assert.Equal(t, "fmt-gate", defs[0].Name)
		assert.Equal(t, "vet-gate", defs[1].Name)
	})

	t.Run("matches by file path", func(t *testing.T) {
		defs := registry.Query(event.PreToolUse, "", "scripts/deploy.py")
		require.Len(t, defs, 1)
		assert.Contains(t, defs[0].Name, "ruff")
	})

	t.Run("tool and path matchers combine", func(t *testing.T) {
		defs := registry.Query(event.PreToolUse, "Edit", "app/main.py")
		assert.Len(t, defs, 3)
	})

	t.Run("no match yields empty", func(t *testing.T) {
		assert.Empty(t, registry.Query(event.PreToolUse, "Bash", "main.go"))
	})

	t.Run("unconfigured event yields empty", func(t *testing.T) {
		assert.Empty(t, registry.Query(event.SessionStart, "Write", ""))
	})

	t.Run("wildcard event hooks fire for any tool", func(t *testing.T) {
		defs := registry.Query(event.PreCommit, "", "anything.txt")
		require.Len(t, defs, 1)
		assert.Equal(t, "secrets-scan", defs[0].Name)
	})
}

func TestRegistryEvents(t *testing.T) {
	registry, err := hooks.NewRegistry(registrySettings())
	require.NoError(t, err)

	events := registry.Events()
	require.Len(t, events, 2)
	assert.Equal(t, event.PreToolUse, events[0])
	assert.Equal(t, event.PreCommit, events[1])
}

func TestRegistryRoundTrip(t *testing.T) {
	// Serializing settings and loading them back must yield a registry
	// that matches the same events the same way.
	settings := registrySettings()

	data, err := json.Marshal(settings)
	require.NoError(t, err)

	var reloaded config.Settings
	require.NoError(t, json.Unmarshal(data, &reloaded))

	original, err := hooks.NewRegistry(settings)
	require.NoError(t, err)
	rebuilt, err := hooks.NewRegistry(&reloaded)
	require.NoError(t, err)

	probes := []struct {
		tool string
		file string
	}{
		{"Write", ""},
		{"Edit", "main.py"},
		{"Bash", ""},
		{"", "scripts/run.py"},
		{"", "README.md"},
	}

	for _, kind := range []event.Kind{event.PreToolUse, event.PreCommit} {
		for _, probe := range probes {
			a := original.Query(kind, probe.tool, probe.file)
			b := rebuilt.Query(kind, probe.tool, probe.file)
			require.Len(t, b, len(a))
			for i := range a {
				assert.Equal(t, a[i].Name, b[i].Name)
				assert.Equal(t, a[i].Blocking, b[i].Blocking)
				assert.Equal(t, a[i].TimeoutMs, b[i].TimeoutMs)
			}
		}
	}
}
