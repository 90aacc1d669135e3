//go:build windows

package filemanager

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// createLock creates a file lock for the given path. Windows locks a
// sidecar file so the atomic rename over the record never collides
// with the lock handle.
func createLock(path string) *flock.Flock {
	lockPath := getLockPath(path)

	dir := filepath.Dir(lockPath)
	_ = os.MkdirAll(dir, 0o755)

	return flock.New(lockPath)
}

// cleanupLockFile removes a stale sidecar lock. Fresh locks are left
// alone; another process may still hold them.
func cleanupLockFile(path string) {
	lockPath := getLockPath(path)

	info, err := os.Stat(lockPath)
	if err == nil && time.Since(info.ModTime()) > 5*time.Second {
		_ = os.Remove(lockPath)
	}
}

// getLockPath returns the sidecar lock file path for a record file
func getLockPath(path string) string {
	return path + ".lock"
}
