package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lucasreb/healthflow/internal/metrics"
	"github.com/lucasreb/healthflow/internal/store"
)

// ListContentRunsTool handles the list_content_runs MCP tool.
type ListContentRunsTool struct {
	runs *store.Store
}

// NewListContentRunsTool creates a ListContentRunsTool with the given store.
func NewListContentRunsTool(runs *store.Store) *ListContentRunsTool {
	return &ListContentRunsTool{runs: runs}
}

// Definition returns the MCP tool definition for registration.
func (t *ListContentRunsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_content_runs",
		mcp.WithDescription(
			"List recent content pipeline runs, newest first. Returns run "+
				"summaries without article bodies; use get_content_run for full content.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to return (default 10, max 100)"),
		),
	)
}

// Handle processes the list_content_runs tool call.
func (t *ListContentRunsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := t.runs.ListRuns(intArg(req, "limit", 0))
	if err != nil {
		metrics.ToolCalls.WithLabelValues("list_content_runs", metrics.OutcomeError).Inc()
		return mcp.NewToolResultError(fmt.Sprintf("listing runs: %v", err)), nil
	}

	metrics.ToolCalls.WithLabelValues("list_content_runs", metrics.OutcomeOK).Inc()
	return jsonResult(map[string]any{
		"count": len(summaries),
		"runs":  summaries,
	})
}
