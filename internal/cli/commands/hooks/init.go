package hooks

import (
	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/cli/ui"
	"github.com/aki/hookrunner/internal/templates"
)

var hooksInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter hooks configuration",
	Long: `Initialize a hooks configuration with example hooks.

This creates a .hookrunner/settings.json file showing how to bind
commands to lifecycle events. Edit it, then run 'hookrunner hooks
trust' to approve it for execution.`,
	RunE: initHooks,
}

func initHooks(cmd *cobra.Command, args []string) error {
	// Inside an existing project init targets its root; otherwise the
	// working directory becomes a new project.
	root, err := resolveRootOrCwd(cmd)
	if err != nil {
		return err
	}

	path, err := templates.WriteStarterSettings(root)
	if err != nil {
		return err
	}
	if err := templates.EnsureGitignore(root); err != nil {
		return err
	}

	ui.OutputLine("Created hooks configuration at %s", path)
	ui.OutputLine("Edit this file to configure your hooks, then run 'hookrunner hooks trust' to enable them.")

	return nil
}
