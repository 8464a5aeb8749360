package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lucasreb/healthflow/internal/agent"
	"github.com/lucasreb/healthflow/internal/metrics"
)

// ResearchTopicTool handles the research_topic MCP tool. It runs only
// the research stage, without writing or persisting anything.
type ResearchTopicTool struct {
	research *agent.ResearchAgent
}

// NewResearchTopicTool creates a ResearchTopicTool with the given agent.
func NewResearchTopicTool(research *agent.ResearchAgent) *ResearchTopicTool {
	return &ResearchTopicTool{research: research}
}

// Definition returns the MCP tool definition for registration.
func (t *ResearchTopicTool) Definition() mcp.Tool {
	return mcp.NewTool("research_topic",
		mcp.WithDescription(
			"Research a topic and return a structured brief: title, executive "+
				"summary, key points, keywords, and a confidence score. Runs only "+
				"the research stage; use create_content for a full article.",
		),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("The topic to research"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Research depth from 1 (shallow) to 3 (thorough). Default 2."),
		),
	)
}

// Handle processes the research_topic tool call.
func (t *ResearchTopicTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := strings.TrimSpace(req.GetString("topic", ""))
	if topic == "" {
		metrics.ToolCalls.WithLabelValues("research_topic", metrics.OutcomeInvalid).Inc()
		return mcp.NewToolResultError("'topic' is required"), nil
	}

	brief, err := t.research.Research(ctx, agent.ResearchRequest{
		Topic: topic,
		Depth: intArg(req, "depth", 2),
	})
	if err != nil {
		metrics.ToolCalls.WithLabelValues("research_topic", metrics.OutcomeInvalid).Inc()
		return mcp.NewToolResultError(fmt.Sprintf("research failed: %v", err)), nil
	}

	metrics.ToolCalls.WithLabelValues("research_topic", metrics.OutcomeOK).Inc()
	return jsonResult(brief)
}
