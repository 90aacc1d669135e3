// Package hooks provides CLI commands for managing hookrunner hooks.
package hooks

import (
	"github.com/spf13/cobra"
)

// Cmd is the main hooks command.
var Cmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage validation hooks",
	Long: `Manage the hooks that validate lifecycle events.

Hooks are shell commands bound to events like PreToolUse or PreCommit.
They pass, warn or block by exit code, and blocking hooks can deny the
event. For safety, edited hook settings must be trusted before they
execute.`,
}

func init() {
	Cmd.AddCommand(hooksInitCmd)
	Cmd.AddCommand(hooksTrustCmd)
	Cmd.AddCommand(hooksListCmd)
	Cmd.AddCommand(hooksTestCmd)
}
