package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/config"
	"github.com/lucasreb/healthflow/internal/llm"
)

const (
	minDepth = 1
	maxDepth = 3
)

const researchSystemPrompt = "You are a research analysis AI that returns data in JSON format. " +
	"Always return valid JSON without any other text."

// ResearchRequest asks for an analysis of a topic. Depth scales how many
// key insights are requested; zero means the default depth.
type ResearchRequest struct {
	Topic string `json:"topic"`
	Depth int    `json:"depth,omitempty"`
}

// Validate normalizes and checks the request in place.
func (r *ResearchRequest) Validate() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return fmt.Errorf("%w: topic must not be empty", ErrInvalidRequest)
	}
	if r.Depth == 0 {
		r.Depth = minDepth
	}
	if r.Depth < minDepth || r.Depth > maxDepth {
		return fmt.Errorf("%w: depth must be between %d and %d", ErrInvalidRequest, minDepth, maxDepth)
	}
	return nil
}

// ResearchBrief is the structured output of the research stage.
type ResearchBrief struct {
	Title            string   `json:"title"`
	ExecutiveSummary string   `json:"executive_summary"`
	KeyPoints        []string `json:"key_points"`
	Keywords         []string `json:"keywords"`
	Confidence       float64  `json:"research_confidence"`
	Methodology      string   `json:"methodology"`
	ModelUsed        string   `json:"model_used,omitempty"`
}

// Validate checks the brief's structural requirements: a title and
// summary, at least three key points, at least one keyword, and a
// confidence score in [0, 1].
func (b *ResearchBrief) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("brief title must not be empty")
	}
	if strings.TrimSpace(b.ExecutiveSummary) == "" {
		return fmt.Errorf("brief executive summary must not be empty")
	}
	if len(b.KeyPoints) < 3 {
		return fmt.Errorf("brief needs at least 3 key points, got %d", len(b.KeyPoints))
	}
	if len(b.Keywords) < 1 {
		return fmt.Errorf("brief needs at least 1 keyword")
	}
	if b.Confidence < 0 || b.Confidence > 1 {
		return fmt.Errorf("brief confidence %v out of range [0, 1]", b.Confidence)
	}
	return nil
}

// ResearchAgent analyzes topics. With a nil client, or when its model
// config sets Simulation, it produces deterministic simulated briefs.
type ResearchAgent struct {
	cfg    config.ModelConfig
	client llm.Client
	log    *zap.Logger
}

// NewResearchAgent creates a research agent. client may be nil to force
// simulation mode.
func NewResearchAgent(cfg config.ModelConfig, client llm.Client, log *zap.Logger) *ResearchAgent {
	return &ResearchAgent{cfg: cfg, client: client, log: log}
}

// Name returns the agent identifier used in logs and run records.
func (a *ResearchAgent) Name() string { return "research_agent" }

// Research produces a brief for the topic. A failed model call is logged
// and answered from simulation rather than surfaced; only an invalid
// request is an error.
func (a *ResearchAgent) Research(ctx context.Context, req ResearchRequest) (ResearchBrief, error) {
	if err := req.Validate(); err != nil {
		return ResearchBrief{}, err
	}

	if !a.cfg.Simulation && a.client != nil {
		brief, err := a.generate(ctx, req)
		if err == nil {
			a.log.Info("research complete",
				zap.String("topic", req.Topic),
				zap.String("model", brief.ModelUsed),
				zap.Float64("confidence", brief.Confidence))
			return brief, nil
		}
		a.log.Warn("research model call failed, falling back to simulation",
			zap.String("topic", req.Topic), zap.Error(err))
	}

	brief := simulatedBrief(req.Topic, req.Depth)
	a.log.Info("research complete",
		zap.String("topic", req.Topic),
		zap.String("model", brief.ModelUsed),
		zap.Float64("confidence", brief.Confidence))
	return brief, nil
}

func (a *ResearchAgent) generate(ctx context.Context, req ResearchRequest) (ResearchBrief, error) {
	out, err := a.client.Complete(ctx, llm.CompletionRequest{
		System:      researchSystemPrompt,
		Prompt:      researchPrompt(req),
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		JSONMode:    true,
	})
	if err != nil {
		return ResearchBrief{}, err
	}

	var brief ResearchBrief
	if err := json.Unmarshal([]byte(out), &brief); err != nil {
		return ResearchBrief{}, fmt.Errorf("parsing model response as JSON: %w", err)
	}
	if err := brief.Validate(); err != nil {
		return ResearchBrief{}, fmt.Errorf("model returned malformed brief: %w", err)
	}
	brief.ModelUsed = a.cfg.Model
	return brief, nil
}

func researchPrompt(req ResearchRequest) string {
	insights := 3 + req.Depth
	return fmt.Sprintf(`Analyze the topic %q and provide comprehensive research insights.

Return a JSON object with:
- title: Comprehensive analysis title
- executive_summary: 2-3 sentence overview
- key_points: Array of %d key insights
- keywords: Array of relevant keywords
- research_confidence: Confidence score (0.0-1.0)
- methodology: Brief description of analysis approach

Focus on technological, business, and strategic implications.

IMPORTANT: Return ONLY the JSON object, no other text.`, req.Topic, insights)
}
