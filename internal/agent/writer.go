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

// DefaultTone is used when a write request does not name one.
const DefaultTone = "professional"

// WriteRequest asks for an article based on a research brief.
type WriteRequest struct {
	Title            string   `json:"title"`
	ExecutiveSummary string   `json:"executive_summary"`
	KeyPoints        []string `json:"key_points"`
	Keywords         []string `json:"keywords,omitempty"`
	Tone             string   `json:"tone,omitempty"`
}

// WriteRequestFromBrief seeds a write request from a research brief.
func WriteRequestFromBrief(b ResearchBrief, tone string) WriteRequest {
	return WriteRequest{
		Title:            b.Title,
		ExecutiveSummary: b.ExecutiveSummary,
		KeyPoints:        b.KeyPoints,
		Keywords:         b.Keywords,
		Tone:             tone,
	}
}

// Validate normalizes and checks the request in place.
func (r *WriteRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidRequest)
	}
	r.ExecutiveSummary = strings.TrimSpace(r.ExecutiveSummary)
	if r.ExecutiveSummary == "" {
		return fmt.Errorf("%w: executive summary must not be empty", ErrInvalidRequest)
	}
	if len(r.KeyPoints) < 1 {
		return fmt.Errorf("%w: at least one key point is required", ErrInvalidRequest)
	}
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	return nil
}

// Article is the output of the writing stage.
type Article struct {
	HTML      string   `json:"article_text"`
	Keywords  []string `json:"keywords"`
	WordCount int      `json:"word_count"`
	Style     string   `json:"writing_style"`
	ModelUsed string   `json:"model_used,omitempty"`
}

// WriterAgent turns research briefs into articles.
type WriterAgent struct {
	cfg    config.ModelConfig
	client llm.Client
	log    *zap.Logger
}

// NewWriterAgent creates a writer agent. client may be nil to force
// simulation mode.
func NewWriterAgent(cfg config.ModelConfig, client llm.Client, log *zap.Logger) *WriterAgent {
	return &WriterAgent{cfg: cfg, client: client, log: log}
}

// Name returns the agent identifier used in logs and run records.
func (a *WriterAgent) Name() string { return "writer_agent" }

// Write produces an article for the request. A failed model call falls
// back to simulation; only an invalid request is an error.
func (a *WriterAgent) Write(ctx context.Context, req WriteRequest) (Article, error) {
	if err := req.Validate(); err != nil {
		return Article{}, err
	}

	if !a.cfg.Simulation && a.client != nil {
		html, err := a.client.Complete(ctx, llm.CompletionRequest{
			Prompt:      writingPrompt(req),
			Model:       a.cfg.Model,
			MaxTokens:   a.cfg.MaxTokens,
			Temperature: a.cfg.Temperature,
		})
		if err == nil && strings.TrimSpace(html) != "" {
			article := newArticle(html, req, a.cfg.Model)
			a.log.Info("article complete",
				zap.String("title", req.Title),
				zap.String("model", article.ModelUsed),
				zap.Int("word_count", article.WordCount))
			return article, nil
		}
		if err == nil {
			err = fmt.Errorf("model returned empty article")
		}
		a.log.Warn("writer model call failed, falling back to simulation",
			zap.String("title", req.Title), zap.Error(err))
	}

	article := newArticle(simulatedArticle(req), req, SimulationModel)
	a.log.Info("article complete",
		zap.String("title", req.Title),
		zap.String("model", article.ModelUsed),
		zap.Int("word_count", article.WordCount))
	return article, nil
}

func newArticle(html string, req WriteRequest, model string) Article {
	return Article{
		HTML:      html,
		Keywords:  req.Keywords,
		WordCount: len(strings.Fields(html)),
		Style:     req.Tone,
		ModelUsed: model,
	}
}

func writingPrompt(req WriteRequest) string {
	points, _ := json.Marshal(req.KeyPoints)
	return fmt.Sprintf(`Create a professional article based on this research brief:

Title: %s
Executive Summary: %s
Key Points: %s
Writing Style: %s

Create a well-structured HTML article with:
- Professional introduction
- Detailed sections covering key points
- Strategic recommendations
- Compelling conclusion

Target length: 400-600 words. Use %s writing style.`,
		req.Title, req.ExecutiveSummary, points, req.Tone, req.Tone)
}
