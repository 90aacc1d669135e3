// Package templates provides the starter files hooks init writes into
// a fresh project.
package templates

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aki/hookrunner/internal/core/config"
)

// StarterSettings is the settings document a new project starts with:
// a harmless PreToolUse echo and a formatting gate on committed Go
// files, showing the matcher, blocking and timeout knobs.
//
//go:embed settings.json
var StarterSettings string

// WriteStarterSettings creates the project directory and writes the
// starter settings file. It refuses to overwrite existing settings.
func WriteStarterSettings(projectRoot string) (string, error) {
	manager := config.NewManager(projectRoot)
	if manager.IsInitialized() {
		return "", fmt.Errorf("settings already exist at %s", manager.GetSettingsPath())
	}

	if err := os.MkdirAll(manager.GetProjectDir(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}

	path := manager.GetSettingsPath()
	if err := os.WriteFile(path, []byte(StarterSettings), 0o644); err != nil {
		return "", fmt.Errorf("failed to write starter settings: %w", err)
	}

	return path, nil
}

// EnsureGitignore appends the runner's generated files to the project
// .hookrunner/.gitignore so audit history and trust records stay local.
func EnsureGitignore(projectRoot string) error {
	dir := filepath.Join(projectRoot, config.ProjectDir)
	path := filepath.Join(dir, ".gitignore")

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content := fmt.Sprintf("%s/\n%s\n%s\n", config.AuditDirName, config.TrustFile, config.LocalSettingsFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write gitignore: %w", err)
	}
	return nil
}
