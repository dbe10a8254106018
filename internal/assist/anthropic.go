package assist

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient answers tutoring questions through the Anthropic
// Messages API.
type AnthropicClient struct {
	api   *anthropic.Client
	model string
}

var _ Client = (*AnthropicClient)(nil)

// NewAnthropicClient creates a client for the given key and model.
func NewAnthropicClient(apiKey, modelName string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		api:   &client,
		model: modelName,
	}, nil
}

// Ask sends the question and the student's ask as a single tutoring prompt.
func (c *AnthropicClient) Ask(ctx context.Context, req Request) (string, error) {
	prompt := fmt.Sprintf(
		"You are a helpful tutor. A student has this exam question:\n\n%s\n\nThe student asks: %s\n\nProvide a clear, helpful explanation.",
		contextText(req), req.UserQuestion,
	)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(prompt),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in anthropic response")
}
