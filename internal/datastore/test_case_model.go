package datastore

import (
	"encoding/json"
	"time"
)

// TestCase maps to the test_cases table in the database.
// InputData and ExpectedOutput are task-type-specific JSON documents; their
// shapes are defined by the task catalog, not by the store.
type TestCase struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	TaskType       string          `json:"task_type"` // classification, correction, dialogue, rag, agent
	Description    NullString      `json:"description"`
	InputData      json.RawMessage `json:"input_data"`
	ExpectedOutput json.RawMessage `json:"expected_output"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	IsActive       bool            `json:"is_active"`
}
