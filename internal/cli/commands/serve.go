package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aki/hookrunner/internal/cli/ui"
	"github.com/aki/hookrunner/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve exposes the hook pipeline over the Model Context Protocol so
agent hosts can gate tool calls without shelling out.

Tools: hooks_check runs the hooks for an event and returns the
decision, hooks_list shows the registered hooks, hooks_audit returns
recent decisions.`,
	RunE: runServe,
}

var (
	serveTransport string
	servePort      int
	serveWatch     bool
)

func init() {
	serveCmd.Flags().StringVarP(&serveTransport, "transport", "t", "stdio", "Transport type (stdio, http)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "Port for HTTP transport")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload settings when they change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	root, err := projectRootOrCwd()
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := container.EnableTelemetry(ctx); err != nil {
		container.Logger.Warn("telemetry disabled", "error", err)
	}
	defer flushTelemetry(container)

	if serveWatch {
		reloader, err := container.EnableWatch()
		if err != nil {
			return err
		}
		go func() {
			if err := reloader.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				container.Logger.Error("settings watcher stopped", "error", err)
			}
		}()
	}

	server, err := mcp.NewServer(container, serveTransport, servePort)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// stdio transport owns stdout for the protocol, so status lines go
	// to stderr there
	if serveTransport == "stdio" {
		fmt.Fprintf(os.Stderr, "Starting MCP server with stdio transport\n")
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n")
	} else {
		ui.Info("Starting MCP server on port %d", servePort)
	}

	if err := server.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			if serveTransport == "stdio" {
				fmt.Fprintf(os.Stderr, "MCP server stopped\n")
			} else {
				ui.Success("MCP server stopped")
			}
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
