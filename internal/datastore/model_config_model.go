package datastore

import (
	"encoding/json"
	"time"
)

// ModelConfig maps to the model_configs table. One row per registered model
// (a named external model endpoint plus its default parameters).
type ModelConfig struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	ModelType   string          `json:"model_type"` // openai, anthropic, huggingface, local
	Config      json.RawMessage `json:"config,omitempty"`
	APIEndpoint NullString      `json:"api_endpoint"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
