package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const evaluationJobColumns = `id, job_name, task_type, status, model_names, test_case_ids, parameters, created_at, updated_at, started_at, completed_at`

// CreateEvaluationJob inserts a new evaluation job into the database.
func CreateEvaluationJob(job *EvaluationJob) (int, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO evaluation_jobs (job_name, task_type, status, model_names, test_case_ids, parameters, created_at, updated_at, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	job.CreatedAt = time.Now()
	job.UpdatedAt = time.Now()

	modelNamesJSON := job.ModelNames
	if modelNamesJSON == nil {
		modelNamesJSON = []byte("[]")
	}
	testCaseIDsJSON := job.TestCaseIDs
	if testCaseIDsJSON == nil {
		testCaseIDsJSON = []byte("[]")
	}

	var id int
	err := DB.QueryRow(
		query,
		job.JobName,
		job.TaskType,
		job.Status,
		[]byte(modelNamesJSON),
		[]byte(testCaseIDsJSON),
		rawOrNull(job.Parameters),
		job.CreatedAt,
		job.UpdatedAt,
		job.StartedAt,
		job.CompletedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create evaluation job: %w", err)
	}
	job.ID = id
	return id, nil
}

// GetEvaluationJob retrieves an evaluation job by ID.
func GetEvaluationJob(id int) (*EvaluationJob, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	job := &EvaluationJob{}
	var modelNamesJSON, testCaseIDsJSON, paramsJSON []byte

	err := DB.QueryRow("SELECT "+evaluationJobColumns+" FROM evaluation_jobs WHERE id = $1", id).Scan(
		&job.ID,
		&job.JobName,
		&job.TaskType,
		&job.Status,
		&modelNamesJSON,
		&testCaseIDsJSON,
		&paramsJSON,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.StartedAt,
		&job.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("evaluation job %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get evaluation job: %w", err)
	}
	job.ModelNames = modelNamesJSON
	job.TestCaseIDs = testCaseIDsJSON
	job.Parameters = rawFromScan(paramsJSON)

	return job, nil
}

// UpdateEvaluationJobStatus updates the status of an evaluation job.
func UpdateEvaluationJobStatus(id int, status string) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}

	result, err := DB.Exec(
		"UPDATE evaluation_jobs SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update status for job %d: %w", id, err)
	}
	return checkRowAffected(result, id, "evaluation job")
}

// UpdateEvaluationJobTimestamps sets started_at and/or completed_at on a job.
// Only valid sql.NullTime values are written.
func UpdateEvaluationJobTimestamps(id int, startTime, endTime sql.NullTime) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}

	var setClauses []string
	var args []interface{}
	argID := 1

	if startTime.Valid {
		setClauses = append(setClauses, fmt.Sprintf("started_at = $%d", argID))
		args = append(args, startTime)
		argID++
	}
	if endTime.Valid {
		setClauses = append(setClauses, fmt.Sprintf("completed_at = $%d", argID))
		args = append(args, endTime)
		argID++
	}

	if len(setClauses) == 0 {
		return errors.New("no timestamps provided for update")
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE evaluation_jobs SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argID)

	result, err := DB.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update timestamps for job %d: %w", id, err)
	}
	return checkRowAffected(result, id, "evaluation job")
}

// ListEvaluationJobs lists evaluation jobs, optionally filtered by task type.
func ListEvaluationJobs(taskType string) ([]*EvaluationJob, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	var rows *sql.Rows
	var err error
	baseQuery := "SELECT " + evaluationJobColumns + " FROM evaluation_jobs"

	if taskType != "" {
		rows, err = DB.Query(baseQuery+" WHERE task_type = $1 ORDER BY created_at DESC", taskType)
	} else {
		rows, err = DB.Query(baseQuery + " ORDER BY created_at DESC")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*EvaluationJob{}
	for rows.Next() {
		job := &EvaluationJob{}
		var modelNamesJSON, testCaseIDsJSON, paramsJSON []byte

		if err := rows.Scan(
			&job.ID,
			&job.JobName,
			&job.TaskType,
			&job.Status,
			&modelNamesJSON,
			&testCaseIDsJSON,
			&paramsJSON,
			&job.CreatedAt,
			&job.UpdatedAt,
			&job.StartedAt,
			&job.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation job row: %w", err)
		}
		job.ModelNames = modelNamesJSON
		job.TestCaseIDs = testCaseIDsJSON
		job.Parameters = rawFromScan(paramsJSON)
		jobs = append(jobs, job)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for evaluation jobs: %w", err)
	}

	return jobs, nil
}
