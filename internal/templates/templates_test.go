package templates_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/templates"
)

func TestStarterSettingsAreValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte(templates.StarterSettings), 0o644))

	settings, err := config.LoadWithValidation(path)
	require.NoError(t, err)

	assert.Contains(t, settings.Hooks, "PreToolUse")
	assert.Contains(t, settings.Hooks, "PreCommit")
}

func TestWriteStarterSettings(t *testing.T) {
	projectRoot := t.TempDir()

	path, err := templates.WriteStarterSettings(projectRoot)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(projectRoot, config.ProjectDir, config.SettingsFile), path)

	// The written file loads through the normal settings path
	settings, err := config.NewManager(projectRoot).Load()
	require.NoError(t, err)
	assert.NotEmpty(t, settings.Hooks)
}

func TestWriteStarterSettingsRefusesOverwrite(t *testing.T) {
	projectRoot := t.TempDir()

	_, err := templates.WriteStarterSettings(projectRoot)
	require.NoError(t, err)

	_, err = templates.WriteStarterSettings(projectRoot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exist")
}

func TestEnsureGitignore(t *testing.T) {
	projectRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectRoot, config.ProjectDir), 0o755))

	require.NoError(t, templates.EnsureGitignore(projectRoot))

	data, err := os.ReadFile(filepath.Join(projectRoot, config.ProjectDir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), config.AuditDirName)
	assert.Contains(t, string(data), config.TrustFile)

	// Existing files are left alone
	require.NoError(t, os.WriteFile(filepath.Join(projectRoot, config.ProjectDir, ".gitignore"), []byte("custom\n"), 0o644))
	require.NoError(t, templates.EnsureGitignore(projectRoot))
	data, err = os.ReadFile(filepath.Join(projectRoot, config.ProjectDir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "custom\n", string(data))
}
