package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aki/hookrunner/internal/app"
	"github.com/aki/hookrunner/internal/core/config"
)

// projectRoot resolves the project root: --dir when given, otherwise
// the nearest ancestor with a .hookrunner directory.
func projectRoot() (string, error) {
	if flagDir != "" {
		abs, err := filepath.Abs(flagDir)
		if err != nil {
			return "", fmt.Errorf("invalid --dir: %w", err)
		}
		return abs, nil
	}
	return config.FindProjectRoot()
}

// projectRootOrCwd resolves the project root, falling back to the
// working directory when no project marker exists. Gate commands use
// this so a host can call them unconditionally: no configuration means
// no hooks, and no hooks allow everything.
func projectRootOrCwd() (string, error) {
	root, err := projectRoot()
	if err == nil {
		return root, nil
	}
	cwd, cwdErr := os.Getwd()
	if cwdErr != nil {
		return "", cwdErr
	}
	return cwd, nil
}

// newContainer assembles the pipeline for the resolved project root
func newContainer(root string) (*app.Container, error) {
	return app.NewContainer(root, createLogger())
}
