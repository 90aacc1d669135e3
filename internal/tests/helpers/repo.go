// Package helpers provides shared test fixtures. Repository setup
// shells out to the git binary so fixtures match what a developer's
// working copy actually looks like.
package helpers

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// CreateTestRepo creates a temporary git repository with one commit
// and returns its path.
func CreateTestRepo(t *testing.T) string {
	t.Helper()

	// Clear git environment variables for test isolation; restore after
	origGitDir := os.Getenv("GIT_DIR")
	origGitWorkTree := os.Getenv("GIT_WORK_TREE")
	origGitIndexFile := os.Getenv("GIT_INDEX_FILE")

	os.Unsetenv("GIT_DIR")
	os.Unsetenv("GIT_WORK_TREE")
	os.Unsetenv("GIT_INDEX_FILE")

	t.Cleanup(func() {
		if origGitDir != "" {
			os.Setenv("GIT_DIR", origGitDir)
		}
		if origGitWorkTree != "" {
			os.Setenv("GIT_WORK_TREE", origGitWorkTree)
		}
		if origGitIndexFile != "" {
			os.Setenv("GIT_INDEX_FILE", origGitIndexFile)
		}
	})

	// Create under the system temp dir so the fixture is never nested
	// inside an existing repository
	tmpDir, err := os.MkdirTemp(os.TempDir(), "hookrunner-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	runGit(t, tmpDir, "init", "--initial-branch=main")
	runGit(t, tmpDir, "config", "user.email", "test@example.com")
	runGit(t, tmpDir, "config", "user.name", "Test User")

	readmePath := filepath.Join(tmpDir, "README.md")
	if err := os.WriteFile(readmePath, []byte("# Test Repository\n"), 0o644); err != nil {
		t.Fatalf("Failed to create README: %v", err)
	}
	runGit(t, tmpDir, "add", "README.md")
	runGit(t, tmpDir, "commit", "-m", "Initial commit")

	return tmpDir
}

// StageFile writes content to name inside the repository and stages it
func StageFile(t *testing.T, repoDir, name, content string) {
	t.Helper()

	path := filepath.Join(repoDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create parent dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	runGit(t, repoDir, "add", name)
}

// WriteFile writes content to name inside the repository without
// staging it.
func WriteFile(t *testing.T, repoDir, name, content string) {
	t.Helper()

	path := filepath.Join(repoDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create parent dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v, output: %s", args, err, output)
	}
}

// RunGit runs a git command inside the repository, failing the test on
// error.
func RunGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	runGit(t, dir, args...)
}
