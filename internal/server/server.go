// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts, and resources that depend on
// them. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/agent"
	"github.com/lucasreb/healthflow/internal/config"
	"github.com/lucasreb/healthflow/internal/llm"
	"github.com/lucasreb/healthflow/internal/prompts"
	"github.com/lucasreb/healthflow/internal/resources"
	"github.com/lucasreb/healthflow/internal/store"
	"github.com/lucasreb/healthflow/internal/tools"
	"github.com/lucasreb/healthflow/internal/workflow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the run store and must be called
// on shutdown (typically via defer). It is always non-nil.
func New(cfg *config.Config, log *zap.Logger) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	runs, err := store.New(cfg.Store.Path)
	if err != nil {
		return nil, noop, fmt.Errorf("opening run store: %w", err)
	}
	cleanup := func() {
		if err := runs.Close(); err != nil {
			log.Warn("closing run store", zap.Error(err))
		}
	}

	// A nil client keeps every agent in simulation mode.
	var client llm.Client
	if cfg.AI.RealAI() {
		client = llm.NewOpenAI(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIBaseURL)
		log.Info("real AI provider enabled", zap.String("provider", string(cfg.AI.Provider)))
	} else {
		log.Info("running in simulation mode")
	}

	research := agent.NewResearchAgent(cfg.AI.Research, client, log.Named("research"))
	writer := agent.NewWriterAgent(cfg.AI.Writing, client, log.Named("writer"))
	image := agent.NewImageAgent(cfg.AI.Image, client, log.Named("image"))

	engine := workflow.New(research, writer, image, runs, log.Named("workflow"))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"healthflow",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	bmiTool := tools.NewCalculateBMITool()
	s.AddTool(bmiTool.Definition(), bmiTool.Handle)

	createTool := tools.NewCreateContentTool(engine)
	s.AddTool(createTool.Definition(), createTool.Handle)

	researchTool := tools.NewResearchTopicTool(research)
	s.AddTool(researchTool.Definition(), researchTool.Handle)

	listTool := tools.NewListContentRunsTool(runs)
	s.AddTool(listTool.Definition(), listTool.Handle)

	getTool := tools.NewGetContentRunTool(runs)
	s.AddTool(getTool.Definition(), getTool.Handle)

	searchTool := tools.NewSearchContentTool(runs)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	// --- Register prompts ---

	articlePrompt := prompts.NewArticlePrompt()
	s.AddPrompt(articlePrompt.Definition(), articlePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(runs)
	s.AddResource(resourceHandler.CategoriesResource(), resourceHandler.HandleCategories)
	s.AddResource(resourceHandler.RecentRunsResource(), resourceHandler.HandleRecentRuns)

	return s, cleanup, nil
}

// noop is the default cleanup when initialization fails early.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use the server effectively.
func serverInstructions() string {
	return `You have access to HealthFlow, a health assessment and content pipeline MCP server.

## BMI Assessment

Use calculate_bmi when the user asks about body mass index, weight
classification, or healthy weight ranges. It takes weight_kg and
height_m, both required and strictly positive, and returns the index
rounded to two decimals plus one of four assessments: Underweight,
Normal weight, Overweight, Obese. The classification bands are
published as the healthflow://bmi/categories resource.

If the tool returns a validation error, it names the offending
parameter — relay that to the user instead of guessing values.

## Content Pipeline

The pipeline researches a topic, writes an HTML article from the
research brief, and can generate a cover illustration.

- research_topic: research only, returns a structured brief. Use it
  when the user wants findings, not prose.
- create_content: the full pipeline. Every run is recorded with an ID.
  Set generate_image only when the user wants an illustration.
- list_content_runs / get_content_run: browse and fetch recorded runs.
- search_content: full-text search over topics, titles, and article
  bodies. All query words must match.

## Important Rules

- Pass the user's actual topic to the pipeline tools — never a
  placeholder.
- Depth ranges 1 to 3; out-of-range values are clamped.
- When a run completes, tell the user its run ID so they can retrieve
  it later.
- Without an API key the server runs in simulation mode: outputs are
  deterministic stand-ins, clearly attributed to the
  enhanced-simulation model. Do not present simulated content as real
  research.`
}
