package apiclient

import (
	"encoding/json"
	"time"
)

// TestCase is the client-side view of a stored test case. Nullable columns
// arrive as a bare value or JSON null, so they decode into pointers.
type TestCase struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	TaskType       string          `json:"task_type"`
	Description    *string         `json:"description"`
	InputData      json.RawMessage `json:"input_data"`
	ExpectedOutput json.RawMessage `json:"expected_output"`
	CreatedAt      time.Time       `json:"created_at"`
	IsActive       bool            `json:"is_active"`
}

// TestResult is the client-side view of one run's outcome.
type TestResult struct {
	ID            int             `json:"id"`
	TestCaseID    int             `json:"test_case_id"`
	ModelName     string          `json:"model_name"`
	ActualOutput  json.RawMessage `json:"actual_output,omitempty"`
	Score         *float64        `json:"score"`
	Metrics       json.RawMessage `json:"metrics,omitempty"`
	ExecutionTime *float64        `json:"execution_time"`
	Status        string          `json:"status"`
	ErrorMessage  *string         `json:"error_message"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Overview is the dashboard's headline numbers.
type Overview struct {
	TaskStatistics       map[string]int `json:"task_statistics"`
	ResultStatistics     map[string]int `json:"result_statistics"`
	RecentTestsCount     int            `json:"recent_tests_count"`
	AverageScore         float64        `json:"average_score"`
	AverageExecutionTime float64        `json:"average_execution_time"`
}

// ModelPerformance is one row of the per-model statistics table.
type ModelPerformance struct {
	ModelName            string  `json:"model_name"`
	TotalTests           int     `json:"total_tests"`
	AverageScore         float64 `json:"average_score"`
	AverageExecutionTime float64 `json:"average_execution_time"`
	SuccessRate          float64 `json:"success_rate"`
}

// RecentTest is one row of the recent-tests table.
type RecentTest struct {
	TestResultID  int       `json:"test_result_id"`
	TestCaseID    int       `json:"test_case_id"`
	TestCaseName  string    `json:"test_case_name"`
	TaskType      string    `json:"task_type"`
	ModelName     string    `json:"model_name"`
	Score         *float64  `json:"score"`
	Status        string    `json:"status"`
	ExecutionTime *float64  `json:"execution_time"`
	CreatedAt     time.Time `json:"created_at"`
}
