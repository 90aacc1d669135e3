// Package config provides settings management for hookrunner projects.
// Settings live in a .hookrunner directory at the project root as a
// declarative JSON document mapping lifecycle events to hook commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ProjectDir is the directory name for hookrunner metadata
	ProjectDir = ".hookrunner"
	// SettingsFile is the filename for the shared hook settings
	SettingsFile = "settings.json"
	// LocalSettingsFile is the filename for per-developer overrides
	LocalSettingsFile = "settings.local.json"
	// TrustFile records content hashes of approved settings
	TrustFile = ".hooks-trust.yaml"
	// AuditDirName holds the decision audit log
	AuditDirName = "audit"
)

// json5 variants are accepted when the plain JSON file is absent
const (
	settingsJSON5File      = "settings.json5"
	localSettingsJSON5File = "settings.local.json5"
)

// Manager handles hookrunner settings for one project
type Manager struct {
	projectRoot string
}

// NewManager creates a settings manager rooted at projectRoot
func NewManager(projectRoot string) *Manager {
	return &Manager{projectRoot: projectRoot}
}

// Load reads, validates and merges the project settings. A missing
// settings file yields empty settings so projects without hooks pass
// every event through.
func (m *Manager) Load() (*Settings, error) {
	settings := DefaultSettings()

	path, ok := m.resolveSettingsPath()
	if ok {
		loaded, err := LoadWithValidation(path)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if localPath, ok := m.resolveLocalSettingsPath(); ok {
		local, err := LoadWithValidation(localPath)
		if err != nil {
			return nil, err
		}
		settings = MergeSettings(settings, local)
	}

	applyDefaults(settings)
	return settings, nil
}

// Save writes settings to the shared settings file
func (m *Manager) Save(settings *Settings) error {
	if err := os.MkdirAll(m.GetProjectDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := settings.MarshalIndentJSON()
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.GetSettingsPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// IsInitialized checks whether a settings file exists for the project
func (m *Manager) IsInitialized() bool {
	_, ok := m.resolveSettingsPath()
	return ok
}

// GetProjectRoot returns the project root directory
func (m *Manager) GetProjectRoot() string {
	return m.projectRoot
}

// GetProjectDir returns the .hookrunner directory path
func (m *Manager) GetProjectDir() string {
	return filepath.Join(m.projectRoot, ProjectDir)
}

// GetSettingsPath returns the shared settings file path
func (m *Manager) GetSettingsPath() string {
	return filepath.Join(m.GetProjectDir(), SettingsFile)
}

// GetLocalSettingsPath returns the per-developer settings file path
func (m *Manager) GetLocalSettingsPath() string {
	return filepath.Join(m.GetProjectDir(), LocalSettingsFile)
}

// GetTrustPath returns the trust record file path
func (m *Manager) GetTrustPath() string {
	return filepath.Join(m.GetProjectDir(), TrustFile)
}

// GetAuditDir returns the audit log directory path
func (m *Manager) GetAuditDir() string {
	return filepath.Join(m.GetProjectDir(), AuditDirName)
}

// SettingsPaths returns every settings file currently present, shared
// first. Watchers use this to know which files to follow.
func (m *Manager) SettingsPaths() []string {
	var paths []string
	if p, ok := m.resolveSettingsPath(); ok {
		paths = append(paths, p)
	}
	if p, ok := m.resolveLocalSettingsPath(); ok {
		paths = append(paths, p)
	}
	return paths
}

func (m *Manager) resolveSettingsPath() (string, bool) {
	return firstExisting(
		filepath.Join(m.GetProjectDir(), SettingsFile),
		filepath.Join(m.GetProjectDir(), settingsJSON5File),
	)
}

func (m *Manager) resolveLocalSettingsPath() (string, bool) {
	return firstExisting(
		filepath.Join(m.GetProjectDir(), LocalSettingsFile),
		filepath.Join(m.GetProjectDir(), localSettingsJSON5File),
	)
}

func firstExisting(paths ...string) (string, bool) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// FindProjectRoot searches for the project root by walking up from the
// working directory looking for a .hookrunner directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindProjectRootFrom(cwd)
}

// FindProjectRootFrom walks up from dir looking for a .hookrunner
// directory.
func FindProjectRootFrom(dir string) (string, error) {
	for {
		if info, err := os.Stat(filepath.Join(dir, ProjectDir)); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("not in a hookrunner project (no %s directory found)", ProjectDir)
}
