// Package llm abstracts the model provider behind a small client
// interface so agents can run against a real API, or be handed a fake
// in tests, without knowing the difference.
package llm

import "context"

// CompletionRequest describes one chat completion.
type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
	// JSONMode forces the provider to emit a single JSON object.
	JSONMode bool
}

// ImageRequest describes one image generation.
type ImageRequest struct {
	Prompt  string
	Model   string
	Size    string
	Quality string
}

// Client is implemented by model providers.
type Client interface {
	// Complete returns the text of the first completion choice.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// GenerateImage returns base64-encoded image data.
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}
