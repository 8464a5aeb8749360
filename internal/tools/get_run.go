package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lucasreb/healthflow/internal/metrics"
	"github.com/lucasreb/healthflow/internal/store"
)

// GetContentRunTool handles the get_content_run MCP tool.
type GetContentRunTool struct {
	runs *store.Store
}

// NewGetContentRunTool creates a GetContentRunTool with the given store.
func NewGetContentRunTool(runs *store.Store) *GetContentRunTool {
	return &GetContentRunTool{runs: runs}
}

// Definition returns the MCP tool definition for registration.
func (t *GetContentRunTool) Definition() mcp.Tool {
	return mcp.NewTool("get_content_run",
		mcp.WithDescription(
			"Fetch a content pipeline run by ID, including the research brief, "+
				"the article, and the illustration if one was generated.",
		),
		mcp.WithString("run_id",
			mcp.Required(),
			mcp.Description("The run ID returned by create_content or list_content_runs"),
		),
	)
}

// Handle processes the get_content_run tool call.
func (t *GetContentRunTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runID := strings.TrimSpace(req.GetString("run_id", ""))
	if runID == "" {
		metrics.ToolCalls.WithLabelValues("get_content_run", metrics.OutcomeInvalid).Inc()
		return mcp.NewToolResultError("'run_id' is required"), nil
	}

	run, err := t.runs.GetRun(runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.ToolCalls.WithLabelValues("get_content_run", metrics.OutcomeInvalid).Inc()
			return mcp.NewToolResultError(fmt.Sprintf("no run with ID %q", runID)), nil
		}
		metrics.ToolCalls.WithLabelValues("get_content_run", metrics.OutcomeError).Inc()
		return mcp.NewToolResultError(fmt.Sprintf("fetching run: %v", err)), nil
	}

	metrics.ToolCalls.WithLabelValues("get_content_run", metrics.OutcomeOK).Inc()
	return jsonResult(run)
}
