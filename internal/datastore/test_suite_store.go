package datastore

import (
	"errors"
	"fmt"
	"time"
)

// CreateTestSuite inserts a new test suite and returns its ID.
func CreateTestSuite(ts *TestSuite) (int, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO test_suites (name, description, task_type, test_case_ids, created_at, updated_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	ts.CreatedAt = time.Now()
	ts.UpdatedAt = time.Now()
	ts.IsActive = true

	idsJSON := ts.TestCaseIDs
	if idsJSON == nil {
		idsJSON = []byte("[]")
	}

	var id int
	err := DB.QueryRow(
		query,
		ts.Name,
		ts.Description,
		ts.TaskType,
		[]byte(idsJSON),
		ts.CreatedAt,
		ts.UpdatedAt,
		ts.IsActive,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create test suite: %w", err)
	}
	ts.ID = id
	return id, nil
}

// ListTestSuites lists active test suites with pagination.
func ListTestSuites(skip, limit int) ([]*TestSuite, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, name, description, task_type, test_case_ids, created_at, updated_at, is_active
		FROM test_suites
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`
	rows, err := DB.Query(query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list test suites: %w", err)
	}
	defer rows.Close()

	suites := []*TestSuite{}
	for rows.Next() {
		ts := &TestSuite{}
		var idsJSON []byte
		if err := rows.Scan(
			&ts.ID,
			&ts.Name,
			&ts.Description,
			&ts.TaskType,
			&idsJSON,
			&ts.CreatedAt,
			&ts.UpdatedAt,
			&ts.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan test suite row: %w", err)
		}
		ts.TestCaseIDs = idsJSON
		suites = append(suites, ts)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for test suites: %w", err)
	}

	return suites, nil
}
