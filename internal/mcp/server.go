// Package mcp exposes the hook pipeline over the Model Context
// Protocol so agent hosts can gate tool calls without shelling out.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aki/hookrunner/internal/app"
)

// Server implements the MCP server using mcp-go
type Server struct {
	mcpServer *server.MCPServer
	container *app.Container
	transport string
	port      int
}

// NewServer creates an MCP server bound to an assembled container.
// The container's registry, runner and audit log back the tools, so a
// watch-enabled container serves reloaded settings transparently.
func NewServer(container *app.Container, transport string, port int) (*Server, error) {
	switch transport {
	case "stdio", "http":
	default:
		return nil, fmt.Errorf("unsupported transport: %s", transport)
	}

	mcpServer := server.NewMCPServer(
		"hookrunner",
		"1.0.0",
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		container: container,
		transport: transport,
		port:      port,
	}

	// Register all tools
	s.registerTools()

	return s, nil
}

// registerTools registers the hook pipeline tools
func (s *Server) registerTools() {
	// hooks_check tool
	s.mcpServer.AddTool(mcp.NewTool("hooks_check",
		mcp.WithDescription("Run the validation hooks for a lifecycle event and return the decision"),
		mcp.WithString("event",
			mcp.Description("Lifecycle event name (PreToolUse, PostToolUse, PreCommit, ...)"),
		),
		mcp.WithString("tool",
			mcp.Description("Tool name the event carries (optional)"),
		),
		mcp.WithString("file",
			mcp.Description("File path the event carries (optional)"),
		),
		mcp.WithString("session",
			mcp.Description("Session identifier recorded with the decision (optional)"),
		),
		mcp.WithString("payload",
			mcp.Description("Full JSON event document; overrides the other arguments (optional)"),
		),
	), s.handleCheck)

	// hooks_list tool
	s.mcpServer.AddTool(mcp.NewTool("hooks_list",
		mcp.WithDescription("List the hooks configured for this project"),
		mcp.WithString("event",
			mcp.Description("Only show hooks for this event (optional)"),
		),
	), s.handleList)

	// hooks_audit tool
	s.mcpServer.AddTool(mcp.NewTool("hooks_audit",
		mcp.WithDescription("Return recent hook decisions, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of decisions to return (default 20)"),
		),
	), s.handleAudit)
}

// Start starts the MCP server
func (s *Server) Start(ctx context.Context) error {
	switch s.transport {
	case "stdio":
		return server.ServeStdio(s.mcpServer)
	case "http":
		return s.startHTTPServer(ctx)
	default:
		return fmt.Errorf("unsupported transport: %s", s.transport)
	}
}

// startHTTPServer starts the HTTP/SSE server
func (s *Server) startHTTPServer(ctx context.Context) error {
	sseServer := server.NewSSEServer(s.mcpServer)

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: corsMiddleware(mux),
	}

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shutdown server: %v\n", err)
		}
	}()

	fmt.Printf("MCP server listening on http://localhost:%d\n", s.port)
	fmt.Printf("SSE endpoint: http://localhost:%d/sse\n", s.port)
	fmt.Printf("Message endpoint: http://localhost:%d/message\n", s.port)

	if err := httpServer.ListenAndServe(); err != nil {
		if ctx.Err() != nil {
			// Shutdown was requested; report the cancellation instead
			return ctx.Err()
		}
		return err
	}
	return nil
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
