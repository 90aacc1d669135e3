package hooks

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/core/config"
)

// resolveRoot resolves the project root for a hooks subcommand: the
// inherited --dir flag when given, otherwise the nearest ancestor with
// a .hookrunner directory.
func resolveRoot(cmd *cobra.Command) (string, error) {
	if dir, err := cmd.Flags().GetString("dir"); err == nil && dir != "" {
		return filepath.Abs(dir)
	}
	return config.FindProjectRoot()
}

// resolveRootOrCwd falls back to the working directory so init can
// bootstrap a project that does not exist yet.
func resolveRootOrCwd(cmd *cobra.Command) (string, error) {
	root, err := resolveRoot(cmd)
	if err == nil {
		return root, nil
	}
	return os.Getwd()
}
