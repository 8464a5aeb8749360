// Package prompts implements the MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ArticlePrompt handles the healthflow-article MCP prompt. It guides
// the AI through the content pipeline for a topic.
type ArticlePrompt struct{}

// NewArticlePrompt creates an ArticlePrompt.
func NewArticlePrompt() *ArticlePrompt {
	return &ArticlePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ArticlePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("healthflow-article",
		mcp.WithPromptDescription(
			"Produce a researched article on a topic. Runs the research "+
				"stage, writes the article, and offers a cover illustration.",
		),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("The topic to research and write about"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("tone",
			mcp.ArgumentDescription("Writing tone, e.g. professional, conversational, technical. Default: professional"),
		),
	)
}

// Handle processes the healthflow-article prompt request.
func (p *ArticlePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := ""
	tone := "professional"
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["topic"]; ok {
			topic = v
		}
		if v, ok := args["tone"]; ok && v != "" {
			tone = v
		}
	}
	if topic == "" {
		return nil, fmt.Errorf("prompt argument 'topic' is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Write an article about: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want a well-researched article about '%s' in a %s tone.\n\n"+
						"Please:\n"+
						"1. Run `research_topic` with topic='%s' and pick a depth that fits the subject\n"+
						"2. Show me the research brief and ask if I want any angle emphasized\n"+
						"3. Run `create_content` with topic='%s', tone='%s', and ask me whether to set generate_image\n"+
						"4. Present the article and tell me the run ID so I can fetch it later with `get_content_run`",
					topic, tone, topic, topic, tone,
				)),
			},
		},
	}, nil
}
