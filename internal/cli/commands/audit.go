package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/cli/ui"
	"github.com/aki/hookrunner/internal/core/audit"
	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/core/hooks"
	"github.com/aki/hookrunner/internal/core/tail"
)

var (
	auditLimit  int
	auditFollow bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recorded hook decisions",
	Long: `Audit shows the decisions hookrunner has recorded for this project,
newest first. Use --follow to stream decisions as other processes
record them.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "Number of decisions to show")
	auditCmd.Flags().BoolVar(&auditFollow, "follow", false, "Stream new decisions as they are recorded")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	root, err := projectRootOrCwd()
	if err != nil {
		return err
	}

	// The log is opened directly rather than through the container so
	// history stays readable while the settings are broken or untrusted.
	manager := config.NewManager(root)
	log := audit.NewLog(filepath.Join(manager.GetAuditDir(), audit.LogFile))

	if auditFollow {
		return followAudit(cmd.Context(), log)
	}

	records, err := log.Recent(cmd.Context(), auditLimit)
	if err != nil {
		return err
	}

	if ui.GlobalFormatter.IsJSON() {
		if records == nil {
			records = []audit.Record{}
		}
		return ui.GlobalFormatter.Output(records)
	}

	if len(records) == 0 {
		ui.OutputLine("No decisions recorded yet")
		return nil
	}

	ui.PrintSectionHeader(ui.AuditIcon, "Recent decisions", len(records))

	tbl := ui.NewTable("EVENT", "OVERALL", "TOOL", "FILE", "CHECKS", "DURATION", "WHEN")
	for _, rec := range records {
		_, render := overallBadge(rec.Overall)
		tbl.AddRow(
			string(rec.Event),
			render(string(rec.Overall)),
			orDash(rec.ToolName),
			orDash(ui.Truncate(rec.FilePath, 40)),
			len(rec.Results),
			ui.FormatMillis(rec.DurationMs),
			ui.FormatTime(rec.Timestamp),
		)
	}
	tbl.Print()

	return nil
}

// followAudit tails the decision log until interrupted. Records written
// by concurrent processes show up as they land.
func followAudit(ctx context.Context, log *audit.Log) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !ui.GlobalFormatter.IsJSON() {
		ui.OutputLine("%s Watching %s", ui.AuditIcon, ui.DimStyle.Render(log.Path()))
	}

	follower := tail.New(log.Path(), tail.Options{})
	err := follower.Follow(ctx, func(line []byte) error {
		var rec audit.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			// Torn or malformed lines are not worth stopping the stream
			return nil
		}
		if ui.GlobalFormatter.IsJSON() {
			// The stored line is already one compact JSON document
			_, err := fmt.Printf("%s\n", line)
			return err
		}
		printAuditRecord(rec)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printAuditRecord(rec audit.Record) {
	icon, render := overallBadge(rec.Overall)

	target := rec.ToolName
	if rec.FilePath != "" {
		if target != "" {
			target += " "
		}
		target += rec.FilePath
	}
	if target == "" {
		target = "-"
	}

	detail := fmt.Sprintf("(%d checks, %s)", len(rec.Results), ui.FormatMillis(rec.DurationMs))
	ui.OutputLine("%s %s %s %s %s",
		ui.DimStyle.Render(rec.Timestamp.Format("15:04:05")),
		icon,
		render(string(rec.Event)),
		target,
		ui.DimStyle.Render(detail),
	)
}

func overallBadge(o hooks.Overall) (string, func(...string) string) {
	switch o {
	case hooks.Deny:
		return ui.ErrorIcon, ui.BlockStyle.Render
	case hooks.AllowWithWarnings:
		return ui.WarningIcon, ui.WarningStyle.Render
	default:
		return ui.SuccessIcon, ui.SuccessStyle.Render
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
