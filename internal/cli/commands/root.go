// Package commands implements the hookrunner CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/cli/commands/hooks"
	"github.com/aki/hookrunner/internal/cli/ui"
)

// Global flags shared by every command
var (
	flagJSON  bool
	flagQuiet bool
	flagDebug bool
	flagDir   string
)

var rootCmd = &cobra.Command{
	Use:   "hookrunner",
	Short: "Validation gate for agent tool calls and commits",
	Long: `Hookrunner runs the validation hooks a project configures for agent
lifecycle events. Hosts submit an event (a tool call about to happen, a
commit being prepared), hookrunner executes the matching checks and
answers with a single decision: allow, allow with warnings, or deny.

Exit codes: 0 allows the event (warnings included), 1 denies it,
2 reports a usage or configuration error.`,

	// Errors are printed once by the entry point with the right exit
	// code; cobra must not add its own copies.
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format := ui.FormatPretty
		if flagJSON {
			format = ui.FormatJSON
		}
		return ui.SetGlobalFormatter(format)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output machine-readable JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Project root (default: walk up to the .hookrunner directory)")

	rootCmd.AddCommand(hooks.Cmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
