package hooks

import (
	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/cli/ui"
	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/hooks"
)

var hooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured hooks",
	Long:  `List all hooks configured in this project, grouped by event.`,
	RunE:  listHooks,
}

// listedHook is the JSON shape of one configured hook
type listedHook struct {
	Event     event.Kind `json:"event"`
	Name      string     `json:"name"`
	Matcher   string     `json:"matcher,omitempty"`
	Command   string     `json:"command"`
	TimeoutMs int        `json:"timeoutMs"`
	Blocking  bool       `json:"blocking"`
}

type listReport struct {
	Trust hooks.TrustStatus `json:"trust"`
	Hooks []listedHook      `json:"hooks"`
}

func listHooks(cmd *cobra.Command, args []string) error {
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

	trust := hooks.NewTrustStore(manager.GetTrustPath())
	status, err := trust.Status(settings)
	if err != nil {
		return err
	}

	if ui.GlobalFormatter.IsJSON() {
		report := listReport{Trust: status, Hooks: []listedHook{}}
		for _, kind := range registry.Events() {
			for _, def := range registry.Definitions(kind) {
				report.Hooks = append(report.Hooks, listedHook{
					Event:     def.Event,
					Name:      def.Name,
					Matcher:   def.Matcher,
					Command:   def.Command,
					TimeoutMs: def.TimeoutMs,
					Blocking:  def.Blocking,
				})
			}
		}
		return ui.GlobalFormatter.Output(report)
	}

	if registry.Len() == 0 {
		ui.OutputLine("No hooks configured.")
		ui.OutputLine("Run 'hookrunner hooks init' to create a starter configuration.")
		return nil
	}

	ui.OutputLine("Hooks configuration (%s):", status)
	ui.OutputLine("")

	for _, kind := range registry.Events() {
		ui.OutputLine("%s:", kind)
		for i, def := range registry.Definitions(kind) {
			mode := "advisory"
			if def.Blocking {
				mode = "blocking"
			}
			ui.OutputLine("  %d. %s %s", i+1, def.Name, ui.DimStyle.Render("("+mode+")"))
			ui.OutputLine("     Command: %s", def.Command)
			if def.Matcher != "" {
				ui.OutputLine("     Matcher: %s", def.Matcher)
			}
			ui.OutputLine("     Timeout: %s", ui.FormatMillis(int64(def.TimeoutMs)))
		}
		ui.OutputLine("")
	}

	switch status {
	case hooks.TrustStatusTrusted:
		// Nothing to warn about
	case hooks.TrustStatusDrifted:
		ui.Warning("Hook settings changed since they were trusted")
		ui.OutputLine("")
		ui.OutputLine("Run 'hookrunner hooks trust' to review and re-approve them.")
	default:
		ui.Warning("Hooks are configured but not trusted")
		ui.OutputLine("")
		ui.OutputLine("Run 'hookrunner hooks trust' to enable them.")
	}

	return nil
}
