package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ModelPerformance is one aggregate row of per-model scoring statistics.
type ModelPerformance struct {
	ModelName            string  `json:"model_name"`
	TotalTests           int     `json:"total_tests"`
	AverageScore         float64 `json:"average_score"`
	AverageExecutionTime float64 `json:"average_execution_time"`
	SuccessRate          float64 `json:"success_rate"`
}

// RecentTest is one row of the recent-tests dashboard table: a test result
// joined with its test case's name and task type.
type RecentTest struct {
	TestResultID  int         `json:"test_result_id"`
	TestCaseID    int         `json:"test_case_id"`
	TestCaseName  string      `json:"test_case_name"`
	TaskType      string      `json:"task_type"`
	ModelName     string      `json:"model_name"`
	Score         NullFloat64 `json:"score"`
	Status        string      `json:"status"`
	ExecutionTime NullFloat64 `json:"execution_time"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TrendPoint is one day's test activity.
type TrendPoint struct {
	Date         string  `json:"date"`
	TestCount    int     `json:"test_count"`
	AverageScore float64 `json:"average_score"`
}

// CountTestCasesByTaskType returns a task_type -> count mapping over active
// test cases.
func CountTestCasesByTaskType() (map[string]int, error) {
	return countGrouped(`
		SELECT task_type, COUNT(id)
		FROM test_cases
		WHERE is_active = TRUE
		GROUP BY task_type
	`)
}

// CountTestResultsByStatus returns a status -> count mapping over all results.
func CountTestResultsByStatus() (map[string]int, error) {
	return countGrouped(`
		SELECT status, COUNT(id)
		FROM test_results
		GROUP BY status
	`)
}

func countGrouped(query string) (map[string]int, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query grouped counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan grouped count row: %w", err)
		}
		counts[key] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for grouped counts: %w", err)
	}
	return counts, nil
}

// CountRecentTestResults counts results created at or after the given time.
func CountRecentTestResults(since time.Time) (int, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}
	var count int
	err := DB.QueryRow("SELECT COUNT(id) FROM test_results WHERE created_at >= $1", since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent test results: %w", err)
	}
	return count, nil
}

// AverageScore returns the mean score over all scored results, 0 when none.
func AverageScore() (float64, error) {
	return nullableAvg("SELECT AVG(score) FROM test_results WHERE score IS NOT NULL")
}

// AverageExecutionTime returns the mean execution time in seconds over all
// timed results, 0 when none.
func AverageExecutionTime() (float64, error) {
	return nullableAvg("SELECT AVG(execution_time) FROM test_results WHERE execution_time IS NOT NULL")
}

func nullableAvg(query string) (float64, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}
	var avg sql.NullFloat64
	if err := DB.QueryRow(query).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to query average: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// GetModelPerformance aggregates per-model statistics over scored results,
// best average score first. taskType narrows to one task type when non-empty.
func GetModelPerformance(taskType string, limit int) ([]ModelPerformance, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}
	if limit <= 0 {
		limit = 10
	}

	var rows *sql.Rows
	var err error
	if taskType != "" {
		rows, err = DB.Query(`
			SELECT r.model_name,
			       COUNT(r.id),
			       COALESCE(AVG(r.score), 0),
			       COALESCE(AVG(r.execution_time), 0),
			       COALESCE(AVG(CASE WHEN r.status = 'completed' THEN 1.0 ELSE 0.0 END), 0)
			FROM test_results r
			JOIN test_cases c ON c.id = r.test_case_id
			WHERE r.score IS NOT NULL AND c.task_type = $1
			GROUP BY r.model_name
			ORDER BY AVG(r.score) DESC
			LIMIT $2
		`, taskType, limit)
	} else {
		rows, err = DB.Query(`
			SELECT model_name,
			       COUNT(id),
			       COALESCE(AVG(score), 0),
			       COALESCE(AVG(execution_time), 0),
			       COALESCE(AVG(CASE WHEN status = 'completed' THEN 1.0 ELSE 0.0 END), 0)
			FROM test_results
			WHERE score IS NOT NULL
			GROUP BY model_name
			ORDER BY AVG(score) DESC
			LIMIT $1
		`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model performance: %w", err)
	}
	defer rows.Close()

	performance := []ModelPerformance{}
	for rows.Next() {
		var p ModelPerformance
		if err := rows.Scan(&p.ModelName, &p.TotalTests, &p.AverageScore, &p.AverageExecutionTime, &p.SuccessRate); err != nil {
			return nil, fmt.Errorf("failed to scan model performance row: %w", err)
		}
		performance = append(performance, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for model performance: %w", err)
	}
	return performance, nil
}

// GetRecentTests returns the newest test results joined with their test case
// metadata. taskType narrows to one task type when non-empty.
func GetRecentTests(taskType string, limit int) ([]RecentTest, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	var rows *sql.Rows
	var err error
	baseQuery := `
		SELECT r.id, r.test_case_id, c.name, c.task_type, r.model_name, r.score, r.status, r.execution_time, r.created_at
		FROM test_results r
		JOIN test_cases c ON c.id = r.test_case_id
	`
	if taskType != "" {
		rows, err = DB.Query(baseQuery+" WHERE c.task_type = $1 ORDER BY r.created_at DESC LIMIT $2", taskType, limit)
	} else {
		rows, err = DB.Query(baseQuery+" ORDER BY r.created_at DESC LIMIT $1", limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recent tests: %w", err)
	}
	defer rows.Close()

	tests := []RecentTest{}
	for rows.Next() {
		var t RecentTest
		if err := rows.Scan(
			&t.TestResultID,
			&t.TestCaseID,
			&t.TestCaseName,
			&t.TaskType,
			&t.ModelName,
			&t.Score,
			&t.Status,
			&t.ExecutionTime,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent test row: %w", err)
		}
		tests = append(tests, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for recent tests: %w", err)
	}
	return tests, nil
}

// GetTestTrends returns daily test counts and average scores since the given
// number of days ago. taskType narrows to one task type when non-empty.
func GetTestTrends(days int, taskType string) ([]TrendPoint, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}
	if days <= 0 {
		days = 30
	}
	startDate := time.Now().AddDate(0, 0, -days)

	var rows *sql.Rows
	var err error
	if taskType != "" {
		rows, err = DB.Query(`
			SELECT DATE(r.created_at)::text, COUNT(r.id), COALESCE(AVG(r.score), 0)
			FROM test_results r
			JOIN test_cases c ON c.id = r.test_case_id
			WHERE r.created_at >= $1 AND c.task_type = $2
			GROUP BY DATE(r.created_at)
			ORDER BY DATE(r.created_at) ASC
		`, startDate, taskType)
	} else {
		rows, err = DB.Query(`
			SELECT DATE(created_at)::text, COUNT(id), COALESCE(AVG(score), 0)
			FROM test_results
			WHERE created_at >= $1
			GROUP BY DATE(created_at)
			ORDER BY DATE(created_at) ASC
		`, startDate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query test trends: %w", err)
	}
	defer rows.Close()

	trends := []TrendPoint{}
	for rows.Next() {
		var t TrendPoint
		if err := rows.Scan(&t.Date, &t.TestCount, &t.AverageScore); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		trends = append(trends, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for test trends: %w", err)
	}
	return trends, nil
}

// GetCompletedResultsForTaskType returns completed results joined with their
// test case, used for per-task performance summaries.
func GetCompletedResultsForTaskType(taskType string) ([]RecentTest, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	rows, err := DB.Query(`
		SELECT r.id, r.test_case_id, c.name, c.task_type, r.model_name, r.score, r.status, r.execution_time, r.created_at
		FROM test_results r
		JOIN test_cases c ON c.id = r.test_case_id
		WHERE c.task_type = $1 AND r.status = 'completed'
		ORDER BY r.created_at DESC
	`, taskType)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed results for task type %s: %w", taskType, err)
	}
	defer rows.Close()

	results := []RecentTest{}
	for rows.Next() {
		var t RecentTest
		if err := rows.Scan(
			&t.TestResultID,
			&t.TestCaseID,
			&t.TestCaseName,
			&t.TaskType,
			&t.ModelName,
			&t.Score,
			&t.Status,
			&t.ExecutionTime,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan completed result row: %w", err)
		}
		results = append(results, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for completed results: %w", err)
	}
	return results, nil
}
