package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/config"
	"github.com/lucasreb/healthflow/internal/llm"
)

// DefaultStyle is used when an illustration request does not name one.
const DefaultStyle = "professional"

var validSizes = []string{"1024x1024", "1024x1792", "1792x1024"}

var validQualities = []string{"standard", "hd"}

var stylePrompts = map[string]string{
	"professional": "Create a professional, high-quality image suitable for business use.",
	"modern":       "Create a modern, sleek image with contemporary design elements.",
	"artistic":     "Create an artistic, creative image with unique visual elements.",
	"minimalist":   "Create a clean, minimalist image with essential elements only.",
}

// IllustrationRequest asks for an image. Size and Quality default from
// the agent's model config when empty.
type IllustrationRequest struct {
	Prompt  string `json:"prompt"`
	Style   string `json:"style,omitempty"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
}

// Illustration is the output of the image stage. Data is base64-encoded.
type Illustration struct {
	Data       string `json:"image_data"`
	PromptUsed string `json:"prompt_used"`
	StyleUsed  string `json:"style_used"`
	Dimensions string `json:"dimensions"`
	ModelUsed  string `json:"model_used,omitempty"`
}

// ImageAgent generates illustrations.
type ImageAgent struct {
	cfg    config.ImageModelConfig
	client llm.Client
	log    *zap.Logger
}

// NewImageAgent creates an image agent. client may be nil to force
// simulation mode.
func NewImageAgent(cfg config.ImageModelConfig, client llm.Client, log *zap.Logger) *ImageAgent {
	return &ImageAgent{cfg: cfg, client: client, log: log}
}

// Name returns the agent identifier used in logs and run records.
func (a *ImageAgent) Name() string { return "image_agent" }

func (a *ImageAgent) validate(req *IllustrationRequest) error {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return fmt.Errorf("%w: prompt must not be empty", ErrInvalidRequest)
	}
	if req.Style == "" {
		req.Style = DefaultStyle
	}
	if req.Size == "" {
		req.Size = a.cfg.Size
	}
	if !containsString(validSizes, req.Size) {
		return fmt.Errorf("%w: size must be one of %s", ErrInvalidRequest, strings.Join(validSizes, ", "))
	}
	if req.Quality == "" {
		req.Quality = a.cfg.Quality
	}
	if !containsString(validQualities, req.Quality) {
		return fmt.Errorf("%w: quality must be one of %s", ErrInvalidRequest, strings.Join(validQualities, ", "))
	}
	return nil
}

// Illustrate produces an image for the request. A failed model call
// falls back to a simulated placeholder; only an invalid request is an
// error.
func (a *ImageAgent) Illustrate(ctx context.Context, req IllustrationRequest) (Illustration, error) {
	if err := a.validate(&req); err != nil {
		return Illustration{}, err
	}

	if !a.cfg.Simulation && a.client != nil {
		data, err := a.client.GenerateImage(ctx, llm.ImageRequest{
			Prompt:  enhancePrompt(req),
			Model:   a.cfg.Model,
			Size:    req.Size,
			Quality: req.Quality,
		})
		if err == nil {
			a.log.Info("image generation complete",
				zap.String("model", a.cfg.Model),
				zap.String("size", req.Size))
			return Illustration{
				Data:       data,
				PromptUsed: req.Prompt,
				StyleUsed:  req.Style,
				Dimensions: req.Size,
				ModelUsed:  a.cfg.Model,
			}, nil
		}
		a.log.Warn("image model call failed, falling back to simulation", zap.Error(err))
	}

	a.log.Info("image generation complete",
		zap.String("model", SimulationModel),
		zap.String("size", req.Size))
	return Illustration{
		Data:       simulatedImageData,
		PromptUsed: req.Prompt,
		StyleUsed:  req.Style,
		Dimensions: req.Size,
		ModelUsed:  SimulationModel,
	}, nil
}

func enhancePrompt(req IllustrationRequest) string {
	stylePrompt, ok := stylePrompts[req.Style]
	if !ok {
		stylePrompt = stylePrompts[DefaultStyle]
	}
	return fmt.Sprintf(`%s

%s

Ensure the image is:
- High quality and well-composed
- Appropriate for professional use
- Clear and visually appealing
- Consistent with requested style (%s)`, stylePrompt, req.Prompt, req.Style)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
