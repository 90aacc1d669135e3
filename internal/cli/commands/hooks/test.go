package hooks

import (
	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/cli/ui"
	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/hooks"
)

var (
	testTool string
	testFile string
)

var hooksTestCmd = &cobra.Command{
	Use:   "test <event>",
	Short: "Show which hooks an event would run",
	Long: `Test hooks for a specific event without actually running them.

This shows the hooks that would execute for the event, the environment
they would receive and the payload that would arrive on their stdin,
but spawns nothing. Use --tool and --file to narrow matching the way a
real event would.`,
	Args: cobra.ExactArgs(1),
	RunE: testHooks,
}

func init() {
	hooksTestCmd.Flags().StringVarP(&testTool, "tool", "t", "", "Tool name the simulated event carries")
	hooksTestCmd.Flags().StringVarP(&testFile, "file", "f", "", "File path the simulated event carries")
}

func testHooks(cmd *cobra.Command, args []string) error {
	kind, err := event.ParseKind(args[0])
	if err != nil {
		return err
	}

	root, err := resolveRoot(cmd)
	if err != nil {
		return err
	}

	manager := config.NewManager(root)
	settings, err := manager.Load()
	if err != nil {
		return err
	}
	registry, err := hooks.NewRegistry(settings)
	if err != nil {
		return err
	}

	ev := event.New(kind, event.Options{
		ToolName: testTool,
		FilePath: testFile,
		Cwd:      root,
	})

	matched := registry.Query(kind, testTool, testFile)
	if len(matched) == 0 {
		if configured := registry.Definitions(kind); len(configured) > 0 {
			ui.OutputLine("No hooks match this event (%d configured for '%s' but none match tool=%q file=%q)",
				len(configured), kind, testTool, testFile)
			return nil
		}
		ui.OutputLine("No hooks configured for event '%s'", kind)
		return nil
	}

	ui.OutputLine("Hooks that would run for '%s':", kind)
	for i, def := range matched {
		ui.OutputLine("  %d. %q", i+1, def.Name)
		ui.OutputLine("     Would execute: %s", def.Command)
		if def.Matcher != "" {
			ui.OutputLine("     Matcher: %s", def.Matcher)
		}
		ui.OutputLine("     Timeout: %s", ui.FormatMillis(int64(def.TimeoutMs)))
		if def.Blocking {
			ui.OutputLine("     Blocking: exit 2 would deny the event")
		} else {
			ui.OutputLine("     Advisory: exit 2 would warn, not deny")
		}
	}

	ui.OutputLine("")
	ui.OutputLine("Environment variables that would be set:")
	ui.OutputLine("  HOOK_EVENT=%s", ev.Kind)
	ui.OutputLine("  TOOL_NAME=%s", ev.ToolName)
	ui.OutputLine("  FILE_PATH=%s", ev.FilePath)

	payload, err := ev.MarshalStdin()
	if err != nil {
		return err
	}
	ui.OutputLine("")
	ui.OutputLine("Payload that would arrive on stdin:")
	ui.OutputLine("  %s", payload)

	return nil
}
