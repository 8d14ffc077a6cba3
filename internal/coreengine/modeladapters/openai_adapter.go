package modeladapters

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIAdapter implements ChatAdapter for OpenAI-compatible chat APIs.
type OpenAIAdapter struct {
	client *openai.Client
}

// NewOpenAIAdapter creates an adapter for the OpenAI API. baseURL overrides
// the default endpoint when non-empty, which also covers OpenAI-compatible
// local servers.
func NewOpenAIAdapter(apiKey, baseURL string) *OpenAIAdapter {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIAdapter{client: openai.NewClientWithConfig(config)}
}

// Name identifies the provider.
func (a *OpenAIAdapter) Name() string { return "openai" }

// Complete sends one chat completion request.
func (a *OpenAIAdapter) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	request := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	}
	if req.MaxTokens > 0 {
		request.MaxTokens = req.MaxTokens
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai completion returned no choices")
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		raw = nil
	}

	return &ChatResponse{
		Content: resp.Choices[0].Message.Content,
		Raw:     string(raw),
	}, nil
}
