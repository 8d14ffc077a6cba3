package modeladapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForModelPrefixDispatch(t *testing.T) {
	registry := NewRegistry(Config{
		OpenAIAPIKey:     "test-key",
		AnthropicAPIKey:  "test-key",
		HuggingFaceToken: "test-token",
	})

	tests := []struct {
		modelName string
		adapter   string
	}{
		{"gpt-4", "openai"},
		{"gpt-3.5-turbo", "openai"},
		{"claude-3-sonnet", "anthropic"},
		{"huggingface/gpt2", "huggingface"},
	}
	for _, tt := range tests {
		adapter, err := registry.ForModel(tt.modelName)
		require.NoError(t, err, tt.modelName)
		require.NotNil(t, adapter, tt.modelName)
		assert.Equal(t, tt.adapter, adapter.Name(), tt.modelName)
	}
}

func TestForModelUnknownNameIsFallback(t *testing.T) {
	registry := NewRegistry(Config{})

	for _, name := range []string{"mock-classifier", "local-llama", ""} {
		adapter, err := registry.ForModel(name)
		assert.NoError(t, err, name)
		assert.Nil(t, adapter, name)
	}
}

func TestForModelUnconfiguredProviderErrors(t *testing.T) {
	registry := NewRegistry(Config{})

	for _, name := range []string{"gpt-4", "claude-3-sonnet", "huggingface/gpt2"} {
		adapter, err := registry.ForModel(name)
		assert.Error(t, err, name)
		assert.Nil(t, adapter, name)
	}
}

func TestIsProviderModel(t *testing.T) {
	assert.True(t, IsProviderModel("gpt-4"))
	assert.True(t, IsProviderModel("claude-3-opus"))
	assert.True(t, IsProviderModel("huggingface/bert-base"))
	assert.False(t, IsProviderModel("mock-classifier"))
	assert.False(t, IsProviderModel("llama-local"))
}

func TestMockAdapter(t *testing.T) {
	mock := &MockAdapter{
		Responses:       map[string]string{"weather": "It is sunny."},
		DefaultResponse: "default reply",
	}

	resp, err := mock.Complete(context.Background(), ChatRequest{Prompt: "What is the Weather like?"})
	require.NoError(t, err)
	assert.Equal(t, "It is sunny.", resp.Content)

	resp, err = mock.Complete(context.Background(), ChatRequest{Prompt: "unrelated"})
	require.NoError(t, err)
	assert.Equal(t, "default reply", resp.Content)

	assert.Equal(t, 2, mock.Calls)
	assert.Equal(t, "unrelated", mock.LastRequest.Prompt)
}
