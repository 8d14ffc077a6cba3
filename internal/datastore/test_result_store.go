package datastore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const testResultColumns = `id, test_case_id, job_id, model_name, actual_output, score, metrics, execution_time, status, error_message, created_at`

// CreateTestResult inserts a new test result row. Callers typically insert
// with ResultStatusRunning and finish the row with CompleteTestResult or
// FailTestResult once execution resolves.
func CreateTestResult(result *TestResult) (int, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO test_results (test_case_id, job_id, model_name, actual_output, score, metrics, execution_time, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	result.CreatedAt = time.Now()

	var id int
	err := DB.QueryRow(
		query,
		result.TestCaseID,
		result.JobID,
		result.ModelName,
		rawOrNull(result.ActualOutput),
		result.Score,
		rawOrNull(result.Metrics),
		result.ExecutionTime,
		result.Status,
		result.ErrorMessage,
		result.CreatedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create test result: %w", err)
	}
	result.ID = id
	return id, nil
}

// CompleteTestResult finalizes a running result row with the execution
// outputs. Score and metrics become non-NULL only through this path.
func CompleteTestResult(id int, actualOutput json.RawMessage, score float64, metrics json.RawMessage, executionTime float64) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}

	query := `
		UPDATE test_results
		SET actual_output = $1, score = $2, metrics = $3, execution_time = $4, status = $5
		WHERE id = $6
	`
	result, err := DB.Exec(query,
		rawOrNull(actualOutput),
		sql.NullFloat64{Float64: score, Valid: true},
		rawOrNull(metrics),
		sql.NullFloat64{Float64: executionTime, Valid: true},
		ResultStatusCompleted,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete test result %d: %w", id, err)
	}
	return checkRowAffected(result, id, "test result")
}

// FailTestResult marks a running result row as failed. Score and metrics
// stay NULL.
func FailTestResult(id int, errorMessage string, executionTime float64) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}

	query := `
		UPDATE test_results
		SET status = $1, error_message = $2, execution_time = $3
		WHERE id = $4
	`
	result, err := DB.Exec(query,
		ResultStatusFailed,
		sql.NullString{String: errorMessage, Valid: errorMessage != ""},
		sql.NullFloat64{Float64: executionTime, Valid: true},
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark test result %d failed: %w", id, err)
	}
	return checkRowAffected(result, id, "test result")
}

// GetTestResult retrieves a test result by ID.
func GetTestResult(id int) (*TestResult, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	row := DB.QueryRow("SELECT "+testResultColumns+" FROM test_results WHERE id = $1", id)
	res, err := scanTestResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("test result %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}
	return res, nil
}

// GetTestResultsForTestCase retrieves all results for a test case, newest first.
func GetTestResultsForTestCase(testCaseID int) ([]*TestResult, error) {
	return queryTestResults(
		"SELECT "+testResultColumns+" FROM test_results WHERE test_case_id = $1 ORDER BY created_at DESC",
		testCaseID,
	)
}

// GetTestResultsForJob retrieves all results produced by a batch job, in
// insertion order.
func GetTestResultsForJob(jobID int) ([]*TestResult, error) {
	return queryTestResults(
		"SELECT "+testResultColumns+" FROM test_results WHERE job_id = $1 ORDER BY created_at ASC",
		jobID,
	)
}

// GetFailedTestResults retrieves failed results that carry an error message,
// newest first.
func GetFailedTestResults(limit int) ([]*TestResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return queryTestResults(
		"SELECT "+testResultColumns+" FROM test_results WHERE status = $1 AND error_message IS NOT NULL ORDER BY created_at DESC LIMIT $2",
		ResultStatusFailed, limit,
	)
}

func queryTestResults(query string, args ...interface{}) ([]*TestResult, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query test results: %w", err)
	}
	defer rows.Close()

	results := []*TestResult{}
	for rows.Next() {
		res, err := scanTestResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test result row: %w", err)
		}
		results = append(results, res)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for test results: %w", err)
	}

	return results, nil
}

// rowScanner lets scanTestResult work against both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTestResult(row rowScanner) (*TestResult, error) {
	res := &TestResult{}
	var actualJSON, metricsJSON []byte
	if err := row.Scan(
		&res.ID,
		&res.TestCaseID,
		&res.JobID,
		&res.ModelName,
		&actualJSON,
		&res.Score,
		&metricsJSON,
		&res.ExecutionTime,
		&res.Status,
		&res.ErrorMessage,
		&res.CreatedAt,
	); err != nil {
		return nil, err
	}
	res.ActualOutput = rawFromScan(actualJSON)
	res.Metrics = rawFromScan(metricsJSON)
	return res, nil
}

func checkRowAffected(result sql.Result, id int, kind string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s %d: %w", kind, id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}
