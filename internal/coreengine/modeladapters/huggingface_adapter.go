package modeladapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHuggingFaceAPIURL = "https://api-inference.huggingface.co/models"

// HuggingFaceAdapter implements ChatAdapter against the HuggingFace
// Inference API for text-generation models. Model names carry a
// "huggingface/" prefix that is stripped before the API call.
type HuggingFaceAdapter struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewHuggingFaceAdapter creates an adapter for the HF Inference API.
func NewHuggingFaceAdapter(token, apiURL string) *HuggingFaceAdapter {
	if apiURL == "" {
		apiURL = defaultHuggingFaceAPIURL
	}
	return &HuggingFaceAdapter{
		token:  token,
		apiURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name identifies the provider.
func (a *HuggingFaceAdapter) Name() string { return "huggingface" }

type huggingFaceRequest struct {
	Inputs     string                 `json:"inputs"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Complete sends one text-generation request.
func (a *HuggingFaceAdapter) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	modelID := strings.TrimPrefix(req.Model, "huggingface/")

	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + prompt
	}

	params := map[string]interface{}{
		"return_full_text": false,
	}
	if req.Temperature > 0 {
		params["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		params["max_new_tokens"] = req.MaxTokens
	}

	encoded, err := json.Marshal(huggingFaceRequest{Inputs: prompt, Parameters: params})
	if err != nil {
		return nil, fmt.Errorf("failed to encode huggingface request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL+"/"+modelID, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to build huggingface request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.token)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read huggingface response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("huggingface API error: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("huggingface API returned status %d", resp.StatusCode)
	}

	// Generation endpoints answer with a one-element array of generated texts.
	var generations []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(respBody, &generations); err != nil || len(generations) == 0 {
		return nil, fmt.Errorf("failed to decode huggingface response: %s", string(respBody))
	}

	return &ChatResponse{
		Content: generations[0].GeneratedText,
		Raw:     string(respBody),
	}, nil
}
