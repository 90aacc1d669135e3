package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/hookrunner/internal/core/config"
)

func writeSettings(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, config.ProjectDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestManagerLoad(t *testing.T) {
	t.Run("returns empty settings when no file exists", func(t *testing.T) {
		manager := config.NewManager(t.TempDir())

		settings, err := manager.Load()
		require.NoError(t, err)
		assert.NotNil(t, settings)
		assert.Empty(t, settings.Hooks)
	})

	t.Run("loads valid settings", func(t *testing.T) {
		root := t.TempDir()
		writeSettings(t, root, config.SettingsFile, `{
			"hooks": {
				"PreToolUse": [
					{
						"matcher": "Write|Edit",
						"blocking": true,
						"hooks": [
							{"type": "command", "name": "gofmt-check", "command": "gofmt -l .", "timeoutMs": 5000}
						]
					}
				]
			}
		}`)

		settings, err := config.NewManager(root).Load()
		require.NoError(t, err)

		groups := settings.Hooks["PreToolUse"]
		require.Len(t, groups, 1)
		assert.Equal(t, "Write|Edit", groups[0].Matcher)
		assert.True(t, groups[0].Blocking)
		require.Len(t, groups[0].Hooks, 1)
		assert.Equal(t, "gofmt-check", groups[0].Hooks[0].Name)
		assert.Equal(t, 5000, groups[0].Hooks[0].TimeoutMs)
	})

	t.Run("applies default timeout", func(t *testing.T) {
		root := t.TempDir()
		writeSettings(t, root, config.SettingsFile, `{
			"hooks": {
				"PreCommit": [
					{"hooks": [{"type": "command", "command": "make lint"}]}
				]
			}
		}`)

		settings, err := config.NewManager(root).Load()
		require.NoError(t, err)
		assert.Equal(t, config.DefaultTimeoutMs, settings.Hooks["PreCommit"][0].Hooks[0].TimeoutMs)
	})

	t.Run("accepts json5 with comments", func(t *testing.T) {
		root := t.TempDir()
		writeSettings(t, root, "settings.json5", `{
			// shared validation hooks
			hooks: {
				"PostToolUse": [
					{hooks: [{type: "command", command: "echo ok"},]},
				],
			},
		}`)

		settings, err := config.NewManager(root).Load()
		require.NoError(t, err)
		require.Len(t, settings.Hooks["PostToolUse"], 1)
	})

	t.Run("merges local settings after shared", func(t *testing.T) {
		root := t.TempDir()
		writeSettings(t, root, config.SettingsFile, `{
			"concurrency": 2,
			"hooks": {
				"PreToolUse": [
					{"matcher": "Write", "hooks": [{"type": "command", "name": "shared", "command": "echo shared"}]}
				]
			}
		}`)
		writeSettings(t, root, config.LocalSettingsFile, `{
			"concurrency": 8,
			"hooks": {
				"PreToolUse": [
					{"matcher": "Edit", "hooks": [{"type": "command", "name": "local", "command": "echo local"}]}
				]
			}
		}`)

		settings, err := config.NewManager(root).Load()
		require.NoError(t, err)

		groups := settings.Hooks["PreToolUse"]
		require.Len(t, groups, 2)
		assert.Equal(t, "Write", groups[0].Matcher)
		assert.Equal(t, "Edit", groups[1].Matcher)
		assert.Equal(t, 8, settings.Concurrency)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		root := t.TempDir()
		writeSettings(t, root, config.SettingsFile, `{"hooks": `)

		_, err := config.NewManager(root).Load()
		require.Error(t, err)

		var invalidErr config.ErrInvalidSettings
		require.ErrorAs(t, err, &invalidErr)
		assert.Contains(t, invalidErr.File, config.SettingsFile)
	})

	t.Run("rejects unknown event names", func(t *testing.T) {
		root := t.TempDir()
		writeSettings(t, root, config.SettingsFile, `{
			"hooks": {
				"OnSave": [{"hooks": [{"type": "command", "command": "echo hi"}]}]
			}
		}`)

		_, err := config.NewManager(root).Load()
		var invalidErr config.ErrInvalidSettings
		require.ErrorAs(t, err, &invalidErr)
	})

	t.Run("rejects missing hook type", func(t *testing.T) {
		root := t.TempDir()
		writeSettings(t, root, config.SettingsFile, `{
			"hooks": {
				"PreToolUse": [{"hooks": [{"command": "echo hi"}]}]
			}
		}`)

		_, err := config.NewManager(root).Load()
		var invalidErr config.ErrInvalidSettings
		require.ErrorAs(t, err, &invalidErr)
	})
}

func TestManagerSave(t *testing.T) {
	root := t.TempDir()
	manager := config.NewManager(root)

	settings := config.DefaultSettings()
	settings.Hooks["PreCommit"] = []config.MatcherGroup{
		{Hooks: []config.CommandSpec{{Type: "command", Command: "make test"}}},
	}

	require.NoError(t, manager.Save(settings))
	assert.True(t, manager.IsInitialized())

	loaded, err := manager.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Hooks["PreCommit"], 1)
	assert.Equal(t, "make test", loaded.Hooks["PreCommit"][0].Hooks[0].Command)
}

func TestFindProjectRoot(t *testing.T) {
	t.Run("finds root from nested directory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, config.ProjectDir), 0o755))

		nested := filepath.Join(root, "src", "pkg", "deep")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		found, err := config.FindProjectRootFrom(nested)
		require.NoError(t, err)
		assert.Equal(t, root, found)
	})

	t.Run("errors when no project directory exists", func(t *testing.T) {
		_, err := config.FindProjectRootFrom(t.TempDir())
		assert.Error(t, err)
	})
}

func TestSettingsPaths(t *testing.T) {
	root := t.TempDir()
	manager := config.NewManager(root)
	assert.Empty(t, manager.SettingsPaths())

	writeSettings(t, root, config.SettingsFile, `{}`)
	writeSettings(t, root, config.LocalSettingsFile, `{}`)

	paths := manager.SettingsPaths()
	require.Len(t, paths, 2)
	assert.Equal(t, manager.GetSettingsPath(), paths[0])
	assert.Equal(t, manager.GetLocalSettingsPath(), paths[1])
}
