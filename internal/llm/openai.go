package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAI implements Client against the OpenAI API. Chat completions go
// through langchaingo; image generation talks to the images endpoint
// directly since langchaingo does not cover it.
type OpenAI struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewOpenAI creates a client. baseURL may be empty for the public API;
// setting it allows pointing at OpenAI-compatible gateways.
func NewOpenAI(apiKey, baseURL string) *OpenAI {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Complete sends a chat completion request and returns the first choice.
func (c *OpenAI) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model, err := openai.New(
		openai.WithToken(c.apiKey),
		openai.WithModel(req.Model),
		openai.WithBaseURL(c.baseURL),
	)
	if err != nil {
		return "", fmt.Errorf("initializing openai client: %w", err)
	}

	var messages []llms.MessageContent
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	opts := []llms.CallOption{
		llms.WithTemperature(req.Temperature),
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.JSONMode {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices returned")
	}
	return resp.Choices[0].Content, nil
}

type imageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type imageGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateImage calls POST /images/generations and returns the base64
// payload of the first image.
func (c *OpenAI) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	body, err := json.Marshal(imageGenerationRequest{
		Model:          req.Model,
		Prompt:         req.Prompt,
		N:              1,
		Size:           req.Size,
		Quality:        req.Quality,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return "", fmt.Errorf("encoding image request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building image request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", fmt.Errorf("reading image response: %w", err)
	}

	var decoded imageGenerationResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("decoding image response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if decoded.Error != nil {
			msg = decoded.Error.Message
		}
		return "", fmt.Errorf("image generation failed (status %d): %s", resp.StatusCode, msg)
	}
	if len(decoded.Data) == 0 {
		return "", errors.New("image generation: no image data returned")
	}
	return decoded.Data[0].B64JSON, nil
}
