package modeladapters

import "context"

// ChatRequest is a provider-neutral completion request built by a task runner.
type ChatRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// ChatResponse holds the model's reply. Raw preserves the provider's exact
// response body for storage alongside the parsed output.
type ChatResponse struct {
	Content string
	Raw     string
}

// ChatAdapter is the interface every model provider implements.
type ChatAdapter interface {
	// Complete sends one completion request and returns the response.
	// Implementations make a single attempt and honor ctx cancellation.
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// Name identifies the provider for logging.
	Name() string
}
