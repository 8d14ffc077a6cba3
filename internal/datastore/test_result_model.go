package datastore

import (
	"encoding/json"
	"time"
)

// Test result statuses.
const (
	ResultStatusRunning   = "running"
	ResultStatusCompleted = "completed"
	ResultStatusFailed    = "failed"
)

// TestResult maps to the test_results table. One row per execution of a
// model against a test case. Score and Metrics are populated only when
// Status is "completed".
type TestResult struct {
	ID            int             `json:"id"`
	TestCaseID    int             `json:"test_case_id"`
	JobID         NullInt64       `json:"job_id"` // set for batch-job runs, NULL for single runs
	ModelName     string          `json:"model_name"`
	ActualOutput  json.RawMessage `json:"actual_output,omitempty"`
	Score         NullFloat64     `json:"score"`
	Metrics       json.RawMessage `json:"metrics,omitempty"`
	ExecutionTime NullFloat64     `json:"execution_time"` // seconds
	Status        string          `json:"status"`
	ErrorMessage  NullString      `json:"error_message"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MarshalIntSliceToJSON encodes a slice of IDs for a JSONB column.
func MarshalIntSliceToJSON(ids []int) (json.RawMessage, error) {
	if ids == nil {
		return json.RawMessage("[]"), nil
	}
	bytes, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bytes), nil
}

// UnmarshalJSONToIntSlice decodes a JSONB ID array column.
func UnmarshalJSONToIntSlice(data json.RawMessage) ([]int, error) {
	if data == nil || string(data) == "null" || string(data) == "" {
		return []int{}, nil
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// MarshalStringSliceToJSON encodes a slice of names for a JSONB column.
func MarshalStringSliceToJSON(names []string) (json.RawMessage, error) {
	if names == nil {
		return json.RawMessage("[]"), nil
	}
	bytes, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bytes), nil
}

// UnmarshalJSONToStringSlice decodes a JSONB name array column.
func UnmarshalJSONToStringSlice(data json.RawMessage) ([]string, error) {
	if data == nil || string(data) == "null" || string(data) == "" {
		return []string{}, nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	return names, nil
}
