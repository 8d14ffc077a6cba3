package modeladapters

import (
	"context"
	"strings"
)

// MockAdapter is a configurable in-memory ChatAdapter used across test
// packages. Responses maps prompt substrings to canned replies.
type MockAdapter struct {
	// Responses maps a substring of the prompt to a canned response.
	Responses map[string]string

	// DefaultResponse is returned when no Responses key matches.
	DefaultResponse string

	// Err, when set, is returned by every Complete call.
	Err error

	// Calls counts Complete invocations.
	Calls int

	// LastRequest stores the most recent request for inspection.
	LastRequest ChatRequest
}

func (m *MockAdapter) Name() string { return "mock" }

func (m *MockAdapter) Complete(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	m.Calls++
	m.LastRequest = req

	if m.Err != nil {
		return nil, m.Err
	}

	prompt := strings.ToLower(req.Prompt)
	for key, resp := range m.Responses {
		if key != "" && strings.Contains(prompt, strings.ToLower(key)) {
			return &ChatResponse{Content: resp, Raw: resp}, nil
		}
	}

	if m.DefaultResponse != "" {
		return &ChatResponse{Content: m.DefaultResponse, Raw: m.DefaultResponse}, nil
	}
	return &ChatResponse{Content: "mock response", Raw: "mock response"}, nil
}
