package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/cli/ui"
)

// Set at build time via -ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ui.GlobalFormatter.IsJSON() {
			return ui.GlobalFormatter.Output(map[string]string{
				"version":   Version,
				"gitCommit": GitCommit,
				"buildDate": BuildDate,
				"goVersion": runtime.Version(),
				"os":        runtime.GOOS,
				"arch":      runtime.GOARCH,
			})
		}

		ui.OutputLine("hookrunner %s (%s, %s)", Version, GitCommit, BuildDate)
		ui.OutputLine("  %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
