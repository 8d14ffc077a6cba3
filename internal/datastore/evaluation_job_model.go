package datastore

import (
	"encoding/json"
	"time"
)

// Evaluation job statuses.
const (
	JobStatusPending   = "PENDING"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
)

// EvaluationJob maps to the evaluation_jobs table. A job is one batch run:
// every test case in TestCaseIDs executed against every model in ModelNames.
type EvaluationJob struct {
	ID          int             `json:"id"`
	JobName     NullString      `json:"job_name"`
	TaskType    string          `json:"task_type"` // classification, correction, dialogue, rag, agent
	Status      string          `json:"status"`
	ModelNames  json.RawMessage `json:"model_names"`   // JSONB array of model names
	TestCaseIDs json.RawMessage `json:"test_case_ids"` // JSONB array of test_case_id
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	StartedAt   NullTime        `json:"started_at"`
	CompletedAt NullTime        `json:"completed_at"`
}
