package assist

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const tutorSystemPrompt = "You are a helpful tutor explaining exam questions to students."

// OpenAIClient answers tutoring questions through an OpenAI-compatible
// chat completion API.
type OpenAIClient struct {
	api   *openai.Client
	model string
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client for the given key and model. baseURL may
// be empty for the public API.
func NewOpenAIClient(apiKey, baseURL, modelName string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}, nil
}

// Ask sends the question and the student's ask as a tutoring exchange.
func (c *OpenAIClient) Ask(ctx context.Context, req Request) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: tutorSystemPrompt},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Question: %s\n\nStudent asks: %s", contextText(req), req.UserQuestion),
			},
		},
		MaxTokens: 500,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
