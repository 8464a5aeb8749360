// Package resources implements the MCP resource handlers.
//
// Resources provide read-only data the host can consume for context,
// addressed by healthflow:// URIs.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lucasreb/healthflow/internal/health"
	"github.com/lucasreb/healthflow/internal/store"
)

// Handler manages the resource endpoints.
type Handler struct {
	runs *store.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(runs *store.Store) *Handler {
	return &Handler{runs: runs}
}

// CategoriesResource returns the resource definition for the BMI
// classification bands.
func (h *Handler) CategoriesResource() mcp.Resource {
	return mcp.NewResource(
		"healthflow://bmi/categories",
		"BMI Categories",
		mcp.WithResourceDescription("The BMI classification bands and their boundaries"),
		mcp.WithMIMEType("application/json"),
	)
}

// categoryBand documents one classification band. Bounds are inclusive
// on the rounded two-decimal index; Min or Max is omitted for the open
// ends.
type categoryBand struct {
	Assessment string   `json:"assessment"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
}

func f(v float64) *float64 { return &v }

var categoryBands = []categoryBand{
	{Assessment: health.Underweight.String(), Max: f(18.49)},
	{Assessment: health.NormalWeight.String(), Min: f(18.5), Max: f(24.9)},
	{Assessment: health.Overweight.String(), Min: f(24.91), Max: f(29.9)},
	{Assessment: health.Obese.String(), Min: f(29.91)},
}

// HandleCategories returns the classification bands as JSON.
func (h *Handler) HandleCategories(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(categoryBands, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling categories: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// RecentRunsResource returns the resource definition for recent
// content runs.
func (h *Handler) RecentRunsResource() mcp.Resource {
	return mcp.NewResource(
		"healthflow://runs/recent",
		"Recent Content Runs",
		mcp.WithResourceDescription("Summaries of the most recent content pipeline runs"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleRecentRuns returns recent run summaries as JSON.
func (h *Handler) HandleRecentRuns(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summaries, err := h.runs.ListRuns(0)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling runs: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource carrying an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
