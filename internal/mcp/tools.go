package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aki/hookrunner/internal/core/audit"
	"github.com/aki/hookrunner/internal/core/event"
	"github.com/aki/hookrunner/internal/core/hooks"
)

// defaultAuditLimit bounds hooks_audit responses when the host does
// not ask for a specific number.
const defaultAuditLimit = 20

// Tool handlers

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ev, err := eventFromArgs(args, s.container.ProjectRoot)
	if err != nil {
		return nil, err
	}

	decision, err := s.container.Gate(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("failed to gate event: %w", err)
	}

	return jsonResult(map[string]any{
		"event":    ev.Kind,
		"event_id": ev.ID,
		"overall":  decision.Overall,
		"results":  decision.Results,
	})
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	registry := s.container.Registry()

	kinds := registry.Events()
	if name, ok := args["event"].(string); ok && name != "" {
		kind, err := event.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = []event.Kind{kind}
	}

	defs := make([]*hooks.Definition, 0)
	for _, kind := range kinds {
		defs = append(defs, registry.Definitions(kind)...)
	}

	return jsonResult(map[string]any{"hooks": defs})
}

func (s *Server) handleAudit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	limit := defaultAuditLimit
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}

	records, err := s.container.AuditLog.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	if records == nil {
		records = []audit.Record{}
	}

	return jsonResult(map[string]any{"decisions": records})
}

// eventFromArgs assembles the event from tool arguments. A payload
// argument carries a complete wire document and wins over the
// individual fields.
func eventFromArgs(args map[string]any, root string) (*event.Event, error) {
	if payload, ok := args["payload"].(string); ok && payload != "" {
		return event.ParseInput([]byte(payload))
	}

	name, _ := args["event"].(string)
	if name == "" {
		return nil, fmt.Errorf("invalid or missing event argument")
	}
	kind, err := event.ParseKind(name)
	if err != nil {
		return nil, err
	}

	opts := event.Options{Cwd: root}
	if v, ok := args["tool"].(string); ok {
		opts.ToolName = v
	}
	if v, ok := args["file"].(string); ok {
		opts.FilePath = v
	}
	if v, ok := args["session"].(string); ok {
		opts.SessionID = v
	}

	return event.New(kind, opts), nil
}

// jsonResult wraps a document as the text content of a tool result
func jsonResult(doc any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
	}, nil
}
