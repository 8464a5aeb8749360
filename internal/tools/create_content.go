package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lucasreb/healthflow/internal/agent"
	"github.com/lucasreb/healthflow/internal/metrics"
	"github.com/lucasreb/healthflow/internal/workflow"
)

// CreateContentTool handles the create_content MCP tool. It runs the
// full pipeline: research, writing, and optionally an illustration.
type CreateContentTool struct {
	engine *workflow.Engine
}

// NewCreateContentTool creates a CreateContentTool with the given engine.
func NewCreateContentTool(engine *workflow.Engine) *CreateContentTool {
	return &CreateContentTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateContentTool) Definition() mcp.Tool {
	return mcp.NewTool("create_content",
		mcp.WithDescription(
			"Run the full content pipeline for a topic: research it, write an "+
				"HTML article from the research brief, and optionally generate a "+
				"cover illustration. The run is recorded and can be retrieved "+
				"later with get_content_run.",
		),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("The topic to research and write about"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Research depth from 1 (shallow) to 3 (thorough). Default 2."),
		),
		mcp.WithString("tone",
			mcp.Description("Writing tone, e.g. professional, conversational, technical. Default professional."),
			mcp.DefaultString(agent.DefaultTone),
		),
		mcp.WithBoolean("generate_image",
			mcp.Description("Also generate a cover illustration. Default false."),
		),
		mcp.WithString("image_style",
			mcp.Description("Illustration style when generate_image is set"),
			mcp.Enum("professional", "modern", "artistic", "minimalist"),
		),
	)
}

// Handle processes the create_content tool call.
func (t *CreateContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := strings.TrimSpace(req.GetString("topic", ""))
	if topic == "" {
		metrics.ToolCalls.WithLabelValues("create_content", metrics.OutcomeInvalid).Inc()
		return mcp.NewToolResultError("'topic' is required"), nil
	}

	res, err := t.engine.Run(ctx, workflow.Request{
		Topic:         topic,
		Depth:         intArg(req, "depth", 2),
		Tone:          req.GetString("tone", agent.DefaultTone),
		GenerateImage: boolArg(req, "generate_image", false),
		ImageStyle:    req.GetString("image_style", ""),
	})
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, agent.ErrInvalidRequest) {
			outcome = metrics.OutcomeInvalid
		}
		metrics.ToolCalls.WithLabelValues("create_content", outcome).Inc()
		return mcp.NewToolResultError(fmt.Sprintf("content pipeline failed: %v", err)), nil
	}

	metrics.ToolCalls.WithLabelValues("create_content", metrics.OutcomeOK).Inc()
	return jsonResult(res)
}
