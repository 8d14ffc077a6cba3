package datastore

import (
	"encoding/json"
	"time"
)

// TestSuite maps to the test_suites table. A suite is a named group of test
// case IDs within one task type.
type TestSuite struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description NullString      `json:"description"`
	TaskType    string          `json:"task_type"`
	TestCaseIDs json.RawMessage `json:"test_case_ids"` // JSONB array of test_case_id
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	IsActive    bool            `json:"is_active"`
}
