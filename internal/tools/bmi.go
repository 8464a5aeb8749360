package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lucasreb/healthflow/internal/health"
	"github.com/lucasreb/healthflow/internal/metrics"
)

// CalculateBMITool handles the calculate_bmi MCP tool.
type CalculateBMITool struct{}

// NewCalculateBMITool creates a CalculateBMITool.
func NewCalculateBMITool() *CalculateBMITool {
	return &CalculateBMITool{}
}

// Definition returns the MCP tool definition for registration.
func (t *CalculateBMITool) Definition() mcp.Tool {
	return mcp.NewTool("calculate_bmi",
		mcp.WithDescription(
			"Calculate the body mass index for a given weight and height "+
				"and classify it (Underweight, Normal weight, Overweight, Obese). "+
				"The index is rounded to two decimals before classification.",
		),
		mcp.WithNumber(health.ParamWeight,
			mcp.Required(),
			mcp.Description("Body mass in kilograms. Must be greater than zero."),
		),
		mcp.WithNumber(health.ParamHeight,
			mcp.Required(),
			mcp.Description("Height in meters. Must be greater than zero."),
		),
	)
}

// Handle processes the calculate_bmi tool call. Invalid input is
// reported as a tool error naming the offending parameter, not as a
// protocol error.
func (t *CalculateBMITool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight := req.GetFloat(health.ParamWeight, 0)
	height := req.GetFloat(health.ParamHeight, 0)

	assessment, err := health.Assess(weight, height)
	if err != nil {
		metrics.BMIRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		metrics.ToolCalls.WithLabelValues("calculate_bmi", metrics.OutcomeInvalid).Inc()
		return mcp.NewToolResultError(err.Error()), nil
	}

	metrics.BMIRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.ToolCalls.WithLabelValues("calculate_bmi", metrics.OutcomeOK).Inc()
	return jsonResult(assessment)
}
