package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/app"
	"github.com/aki/hookrunner/internal/cli/ui"
	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/hooks"
)

var (
	checkEvent   string
	checkTool    string
	checkFile    string
	checkSession string
	checkPayload string
	checkStdin   bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the hooks matching a lifecycle event",
	Long: `Check runs every hook configured for a lifecycle event and reports
the aggregate decision.

The event comes from flags, an inline --payload document, or stdin:

  hookrunner check --event PreToolUse --tool Write --file main.go
  hookrunner check --stdin < event.json
  hookrunner check --event PreCommit

A PreCommit check without --file fans out over the staged files.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkEvent, "event", "e", "", "Lifecycle event name (PreToolUse, PostToolUse, PreCommit, ...)")
	checkCmd.Flags().StringVarP(&checkTool, "tool", "t", "", "Tool name the event carries")
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "File path the event carries")
	checkCmd.Flags().StringVar(&checkSession, "session", "", "Session identifier recorded with the decision")
	checkCmd.Flags().StringVar(&checkPayload, "payload", "", "Inline JSON event document")
	checkCmd.Flags().BoolVar(&checkStdin, "stdin", false, "Read the JSON event document from stdin")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	root, err := projectRootOrCwd()
	if err != nil {
		return err
	}

	ev, err := buildCheckEvent(root)
	if err != nil {
		return err
	}

	container, err := newContainer(root)
	if err != nil {
		return err
	}
	if err := container.VerifyTrust(); err != nil {
		return err
	}
	if err := container.EnableTelemetry(cmd.Context()); err != nil {
		container.Logger.Warn("telemetry disabled", "error", err)
	}
	defer flushTelemetry(container)

	// Interrupts cancel running hooks; their results come back as
	// timeouts and the decision still completes.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ev.Kind == event.PreCommit && ev.FilePath == "" {
		return runCommitCheck(ctx, container, ev)
	}

	decision, err := container.Gate(ctx, ev)
	if err != nil {
		return err
	}
	return reportDecision(ev, decision)
}

// buildCheckEvent assembles the event from stdin, an inline payload,
// or flags, in that order of precedence.
func buildCheckEvent(root string) (*event.Event, error) {
	if checkStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read event from stdin: %w", err)
		}
		return event.ParseInput(data)
	}

	if checkPayload != "" {
		return event.ParseInput([]byte(checkPayload))
	}

	if checkEvent == "" {
		return nil, fmt.Errorf("--event is required unless --stdin or --payload supplies the event")
	}
	kind, err := event.ParseKind(checkEvent)
	if err != nil {
		return nil, err
	}

	return event.New(kind, event.Options{
		ToolName:  checkTool,
		FilePath:  checkFile,
		SessionID: checkSession,
		Cwd:       root,
	}), nil
}

// checkReport is the JSON shape of one decided event
type checkReport struct {
	Event   event.Kind          `json:"event"`
	EventID string              `json:"event_id"`
	Overall hooks.Overall       `json:"overall"`
	Results []hooks.CheckResult `json:"results"`
}

// reportDecision displays the decision and converts a deny into the
// exit-code-1 error.
func reportDecision(ev *event.Event, decision hooks.Decision) error {
	if ui.GlobalFormatter.IsJSON() {
		report := checkReport{
			Event:   ev.Kind,
			EventID: ev.ID,
			Overall: decision.Overall,
			Results: decision.Results,
		}
		if err := ui.GlobalFormatter.Output(report); err != nil {
			return err
		}
	} else {
		ui.PrintDecision(decision)
	}

	if decision.Blocked() {
		return DeniedError{Event: ev.Kind}
	}
	return nil
}

// commitReport is the JSON shape of a staged-file fan-out
type commitReport struct {
	Event   event.Kind    `json:"event"`
	Overall hooks.Overall `json:"overall"`
	Files   []fileReport  `json:"files"`
}

type fileReport struct {
	Path    string              `json:"path"`
	Overall hooks.Overall       `json:"overall"`
	Results []hooks.CheckResult `json:"results,omitempty"`
}

// runCommitCheck gates a commit by running the PreCommit hooks once
// per staged file. Any denied file denies the commit.
func runCommitCheck(ctx context.Context, container *app.Container, base *event.Event) error {
	if !container.GitOps.IsGitRepository() {
		// Nothing to discover staged files in; gate the bare event
		decision, err := container.Gate(ctx, base)
		if err != nil {
			return err
		}
		return reportDecision(base, decision)
	}

	staged, err := container.GitOps.StagedFiles()
	if err != nil {
		return err
	}
	if len(staged) == 0 {
		if ui.GlobalFormatter.IsJSON() {
			return ui.GlobalFormatter.Output(commitReport{Event: event.PreCommit, Overall: hooks.Allow, Files: []fileReport{}})
		}
		ui.Info("No staged files to check")
		return nil
	}

	overall := hooks.Allow
	files := make([]fileReport, 0, len(staged))

	for _, path := range staged {
		ev := event.New(event.PreCommit, event.Options{
			FilePath:  path,
			SessionID: base.SessionID,
			Cwd:       base.Cwd,
		})

		decision, err := container.Gate(ctx, ev)
		if err != nil {
			return err
		}

		overall = worseOverall(overall, decision.Overall)
		files = append(files, fileReport{Path: path, Overall: decision.Overall, Results: decision.Results})

		if !ui.GlobalFormatter.IsJSON() && len(decision.Results) > 0 {
			ui.OutputLine("%s", ui.BoldStyle.Render(path))
			ui.PrintDecision(decision)
		}
	}

	if ui.GlobalFormatter.IsJSON() {
		if err := ui.GlobalFormatter.Output(commitReport{Event: event.PreCommit, Overall: overall, Files: files}); err != nil {
			return err
		}
	} else {
		summary := fmt.Sprintf("%d staged files checked", len(staged))
		switch overall {
		case hooks.Deny:
			ui.OutputLine("%s %s %s", ui.ErrorIcon, ui.BlockStyle.Render("Commit denied"), ui.DimStyle.Render("("+summary+")"))
		case hooks.AllowWithWarnings:
			ui.OutputLine("%s %s %s", ui.WarningIcon, ui.WarningStyle.Render("Commit allowed with warnings"), ui.DimStyle.Render("("+summary+")"))
		default:
			ui.OutputLine("%s %s %s", ui.SuccessIcon, ui.SuccessStyle.Render("Commit allowed"), ui.DimStyle.Render("("+summary+")"))
		}
	}

	if overall == hooks.Deny {
		return DeniedError{Event: event.PreCommit}
	}
	return nil
}

// worseOverall folds two verdicts, deny winning over warnings over
// allow.
func worseOverall(a, b hooks.Overall) hooks.Overall {
	if a == hooks.Deny || b == hooks.Deny {
		return hooks.Deny
	}
	if a == hooks.AllowWithWarnings || b == hooks.AllowWithWarnings {
		return hooks.AllowWithWarnings
	}
	return hooks.Allow
}

// flushTelemetry gives a configured exporter a bounded window to
// deliver before the process exits.
func flushTelemetry(container *app.Container) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := container.Shutdown(ctx); err != nil {
		container.Logger.Warn("telemetry flush failed", "error", err)
	}
}
