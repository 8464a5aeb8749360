// Package workflow orchestrates the content pipeline: research a topic,
// write an article from the brief, optionally illustrate it, and record
// the run.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/agent"
	"github.com/lucasreb/healthflow/internal/metrics"
	"github.com/lucasreb/healthflow/internal/store"
)

// Request describes one pipeline run.
type Request struct {
	Topic         string
	Depth         int
	Tone          string
	GenerateImage bool
	ImageStyle    string
}

// Result is the outcome of a completed run. The same data is persisted
// as a store.Run.
type Result struct {
	RunID    string              `json:"run_id"`
	Topic    string              `json:"topic"`
	Brief    agent.ResearchBrief `json:"brief"`
	Article  agent.Article       `json:"article"`
	Image    *agent.Illustration `json:"image,omitempty"`
	Duration time.Duration       `json:"-"`
}

// Engine runs the pipeline. The store is required; every run, failed or
// not, leaves a record.
type Engine struct {
	research *agent.ResearchAgent
	writer   *agent.WriterAgent
	image    *agent.ImageAgent
	runs     *store.Store
	log      *zap.Logger
}

// New creates an engine from its three agents and the run store.
func New(research *agent.ResearchAgent, writer *agent.WriterAgent, image *agent.ImageAgent,
	runs *store.Store, log *zap.Logger) *Engine {
	return &Engine{
		research: research,
		writer:   writer,
		image:    image,
		runs:     runs,
		log:      log,
	}
}

// Run executes the pipeline for the request. Stage validation failures
// abort the run; the failed run is still recorded. Model failures never
// abort a run because every agent falls back to simulation.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	started := time.Now()

	e.log.Info("workflow run starting",
		zap.String("run_id", runID),
		zap.String("topic", req.Topic),
		zap.Bool("generate_image", req.GenerateImage))

	brief, err := e.researchStage(ctx, req)
	if err != nil {
		e.recordFailure(runID, req, started, fmt.Errorf("research stage: %w", err))
		return nil, fmt.Errorf("research stage: %w", err)
	}

	article, err := e.writeStage(ctx, brief, req.Tone)
	if err != nil {
		e.recordFailure(runID, req, started, fmt.Errorf("writing stage: %w", err))
		return nil, fmt.Errorf("writing stage: %w", err)
	}

	var illustration *agent.Illustration
	if req.GenerateImage {
		illustration, err = e.imageStage(ctx, brief, req.ImageStyle)
		if err != nil {
			e.recordFailure(runID, req, started, fmt.Errorf("image stage: %w", err))
			return nil, fmt.Errorf("image stage: %w", err)
		}
	}

	finished := time.Now()
	run := store.Run{
		ID:         runID,
		Topic:      req.Topic,
		Tone:       article.Style,
		Status:     store.StatusCompleted,
		StartedAt:  store.FormatTime(started),
		FinishedAt: store.FormatTime(finished),
		Brief:      &brief,
		Article:    &article,
		Image:      illustration,
	}
	if err := e.runs.SaveRun(run); err != nil {
		// The content was produced; losing the record is worth
		// surfacing but not worth discarding the result.
		e.log.Error("recording workflow run failed",
			zap.String("run_id", runID), zap.Error(err))
	}
	metrics.WorkflowRuns.WithLabelValues(store.StatusCompleted).Inc()

	e.log.Info("workflow run complete",
		zap.String("run_id", runID),
		zap.String("title", brief.Title),
		zap.Int("word_count", article.WordCount),
		zap.Duration("duration", finished.Sub(started)))

	return &Result{
		RunID:    runID,
		Topic:    req.Topic,
		Brief:    brief,
		Article:  article,
		Image:    illustration,
		Duration: finished.Sub(started),
	}, nil
}

func (e *Engine) researchStage(ctx context.Context, req Request) (agent.ResearchBrief, error) {
	timer := time.Now()
	brief, err := e.research.Research(ctx, agent.ResearchRequest{Topic: req.Topic, Depth: req.Depth})
	metrics.AgentDuration.WithLabelValues(e.research.Name()).Observe(time.Since(timer).Seconds())
	return brief, err
}

func (e *Engine) writeStage(ctx context.Context, brief agent.ResearchBrief, tone string) (agent.Article, error) {
	timer := time.Now()
	article, err := e.writer.Write(ctx, agent.WriteRequestFromBrief(brief, tone))
	metrics.AgentDuration.WithLabelValues(e.writer.Name()).Observe(time.Since(timer).Seconds())
	return article, err
}

func (e *Engine) imageStage(ctx context.Context, brief agent.ResearchBrief, style string) (*agent.Illustration, error) {
	timer := time.Now()
	illustration, err := e.image.Illustrate(ctx, agent.IllustrationRequest{
		Prompt: imagePrompt(brief),
		Style:  style,
	})
	metrics.AgentDuration.WithLabelValues(e.image.Name()).Observe(time.Since(timer).Seconds())
	if err != nil {
		return nil, err
	}
	return &illustration, nil
}

func (e *Engine) recordFailure(runID string, req Request, started time.Time, cause error) {
	metrics.WorkflowRuns.WithLabelValues(store.StatusFailed).Inc()
	run := store.Run{
		ID:         runID,
		Topic:      req.Topic,
		Tone:       req.Tone,
		Status:     store.StatusFailed,
		Error:      cause.Error(),
		StartedAt:  store.FormatTime(started),
		FinishedAt: store.Now(),
	}
	if run.Tone == "" {
		run.Tone = agent.DefaultTone
	}
	if err := e.runs.SaveRun(run); err != nil {
		e.log.Error("recording failed workflow run",
			zap.String("run_id", runID), zap.Error(err))
	}
	e.log.Warn("workflow run failed",
		zap.String("run_id", runID),
		zap.String("topic", req.Topic),
		zap.Error(cause))
}

func imagePrompt(brief agent.ResearchBrief) string {
	return fmt.Sprintf("An illustration for an article titled %q. Themes: %s.",
		brief.Title, joinKeywords(brief.Keywords))
}

func joinKeywords(keywords []string) string {
	const max = 5
	if len(keywords) > max {
		keywords = keywords[:max]
	}
	out := ""
	for i, k := range keywords {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}
