package hooks

import (
	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/cli/ui"
	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/core/hooks"
)

var trustYes bool

var hooksTrustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Trust the hooks in this project",
	Long: `Trust the hooks configured in this project.

Hook commands run with your credentials, so settings must be
explicitly trusted before they execute. This command shows every
configured hook and asks for confirmation, then records a hash of the
approved settings. Editing the settings invalidates the approval.`,
	RunE: trustHooks,
}

func init() {
	hooksTrustCmd.Flags().BoolVarP(&trustYes, "yes", "y", false, "Approve without prompting")
}

func trustHooks(cmd *cobra.Command, args []string) error {
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
	if registry.Len() == 0 {
		ui.Warning("No hooks are configured in %s", manager.GetSettingsPath())
		return nil
	}

	trust := hooks.NewTrustStore(manager.GetTrustPath())
	status, err := trust.Status(settings)
	if err != nil {
		return err
	}
	if status == hooks.TrustStatusTrusted {
		ui.Success("Hooks are already trusted")
		return nil
	}

	ui.OutputLine("Review the following hooks before trusting:")
	ui.OutputLine("")
	for _, kind := range registry.Events() {
		ui.OutputLine("%s:", kind)
		for i, def := range registry.Definitions(kind) {
			ui.OutputLine("  %d. %q - %s", i+1, def.Name, ui.Truncate(def.Command, 70))
		}
		ui.OutputLine("")
	}

	if !trustYes && !ui.Confirm("Trust these hooks?") {
		ui.OutputLine("Hooks not trusted.")
		return nil
	}

	record, err := trust.Approve(settings)
	if err != nil {
		return err
	}

	ui.Success("Hooks trusted by %s. They will now run on matching events.", record.TrustedBy)
	return nil
}
