package modeladapters

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Registry selects a ChatAdapter by model-name prefix: "gpt-*" routes to
// OpenAI, "claude-*" to Anthropic, "huggingface/*" to the HF Inference API.
// Any other model name gets nil, which task runners treat as a request for
// their deterministic built-in fallback.
type Registry struct {
	openai      ChatAdapter
	anthropic   ChatAdapter
	huggingface ChatAdapter
}

// Config carries provider credentials and endpoints for the registry.
type Config struct {
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AnthropicAPIKey   string
	AnthropicBaseURL  string
	HuggingFaceToken  string
	HuggingFaceAPIURL string
}

// ConfigFromEnv builds a Config from environment variables. Providers with
// no credentials configured are left unset; models routed to them fail at
// run time with a clear error.
func ConfigFromEnv() Config {
	return Config{
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:  os.Getenv("ANTHROPIC_BASE_URL"),
		HuggingFaceToken:  os.Getenv("HUGGINGFACE_API_TOKEN"),
		HuggingFaceAPIURL: os.Getenv("HUGGINGFACE_API_URL"),
	}
}

// NewRegistry creates a registry with adapters for every provider that has
// credentials configured.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{}

	if cfg.OpenAIAPIKey != "" {
		r.openai = NewOpenAIAdapter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	} else {
		log.Println("WARNING: OPENAI_API_KEY not set; gpt-* models will fail at run time")
	}

	if cfg.AnthropicAPIKey != "" {
		r.anthropic = NewAnthropicAdapter(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL)
	} else {
		log.Println("WARNING: ANTHROPIC_API_KEY not set; claude-* models will fail at run time")
	}

	if cfg.HuggingFaceToken != "" {
		r.huggingface = NewHuggingFaceAdapter(cfg.HuggingFaceToken, cfg.HuggingFaceAPIURL)
	}

	return r
}

// ForModel returns the adapter responsible for the given model name.
// A nil adapter with a nil error means the name matches no provider prefix
// and the caller should use its deterministic built-in fallback. A non-nil
// error means the name routes to a provider that is not configured.
func (r *Registry) ForModel(modelName string) (ChatAdapter, error) {
	switch {
	case strings.HasPrefix(modelName, "gpt-"):
		if r.openai == nil {
			return nil, fmt.Errorf("OpenAI API key not configured for model %s", modelName)
		}
		return r.openai, nil
	case strings.HasPrefix(modelName, "claude-"):
		if r.anthropic == nil {
			return nil, fmt.Errorf("Anthropic API key not configured for model %s", modelName)
		}
		return r.anthropic, nil
	case strings.HasPrefix(modelName, "huggingface/"):
		if r.huggingface == nil {
			return nil, fmt.Errorf("HuggingFace API token not configured for model %s", modelName)
		}
		return r.huggingface, nil
	}
	return nil, nil
}

// IsProviderModel reports whether the model name routes to a real provider,
// regardless of whether that provider is configured.
func IsProviderModel(modelName string) bool {
	return strings.HasPrefix(modelName, "gpt-") ||
		strings.HasPrefix(modelName, "claude-") ||
		strings.HasPrefix(modelName, "huggingface/")
}
