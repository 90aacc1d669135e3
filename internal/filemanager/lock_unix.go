//go:build !windows

package filemanager

import "github.com/gofrs/flock"

// createLock creates a file lock for the given path. Unix flock works
// on the record file itself.
func createLock(path string) *flock.Flock {
	return flock.New(path)
}

// cleanupLockFile is a no-op on Unix since the record file is the lock
func cleanupLockFile(path string) {
}
