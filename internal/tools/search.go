package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lucasreb/healthflow/internal/metrics"
	"github.com/lucasreb/healthflow/internal/store"
)

// SearchContentTool handles the search_content MCP tool. It queries the
// full-text index over run topics, titles, and article bodies.
type SearchContentTool struct {
	runs *store.Store
}

// NewSearchContentTool creates a SearchContentTool with the given store.
func NewSearchContentTool(runs *store.Store) *SearchContentTool {
	return &SearchContentTool{runs: runs}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchContentTool) Definition() mcp.Tool {
	return mcp.NewTool("search_content",
		mcp.WithDescription(
			"Full-text search over recorded content runs (topics, titles, and "+
				"article bodies). All query words must match. Returns run summaries "+
				"ranked by relevance.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Words to search for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 10, max 100)"),
		),
	)
}

// Handle processes the search_content tool call.
func (t *SearchContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(req.GetString("query", ""))
	if query == "" {
		metrics.ToolCalls.WithLabelValues("search_content", metrics.OutcomeInvalid).Inc()
		return mcp.NewToolResultError("'query' is required"), nil
	}

	results, err := t.runs.SearchRuns(query, intArg(req, "limit", 0))
	if err != nil {
		metrics.ToolCalls.WithLabelValues("search_content", metrics.OutcomeError).Inc()
		return mcp.NewToolResultError(fmt.Sprintf("searching runs: %v", err)), nil
	}

	metrics.ToolCalls.WithLabelValues("search_content", metrics.OutcomeOK).Inc()
	return jsonResult(map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}
