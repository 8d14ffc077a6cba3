package datastore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateTestCase inserts a new test case into the database and returns its ID.
func CreateTestCase(tc *TestCase) (int, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO test_cases (name, task_type, description, input_data, expected_output, created_at, updated_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	tc.CreatedAt = time.Now()
	tc.UpdatedAt = time.Now()
	tc.IsActive = true

	inputJSON := rawOrNull(tc.InputData)
	expectedJSON := rawOrNull(tc.ExpectedOutput)

	var id int
	err := DB.QueryRow(
		query,
		tc.Name,
		tc.TaskType,
		tc.Description,
		inputJSON,
		expectedJSON,
		tc.CreatedAt,
		tc.UpdatedAt,
		tc.IsActive,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create test case: %w", err)
	}
	tc.ID = id
	return id, nil
}

// GetTestCase retrieves a test case by ID.
func GetTestCase(id int) (*TestCase, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT id, name, task_type, description, input_data, expected_output, created_at, updated_at, is_active
		FROM test_cases
		WHERE id = $1
	`
	tc := &TestCase{}
	var inputJSON, expectedJSON []byte

	err := DB.QueryRow(query, id).Scan(
		&tc.ID,
		&tc.Name,
		&tc.TaskType,
		&tc.Description,
		&inputJSON,
		&expectedJSON,
		&tc.CreatedAt,
		&tc.UpdatedAt,
		&tc.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("test case %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get test case: %w", err)
	}
	tc.InputData = rawFromScan(inputJSON)
	tc.ExpectedOutput = rawFromScan(expectedJSON)

	return tc, nil
}

// ListTestCases lists active test cases for a task type, ordered by creation
// time descending. An empty taskType lists all task types.
func ListTestCases(taskType string, skip, limit int) ([]*TestCase, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}
	if limit <= 0 {
		limit = 100
	}

	var conditions []string
	var args []interface{}
	argID := 1

	conditions = append(conditions, "is_active = TRUE")
	if taskType != "" {
		conditions = append(conditions, fmt.Sprintf("task_type = $%d", argID))
		args = append(args, taskType)
		argID++
	}

	query := "SELECT id, name, task_type, description, input_data, expected_output, created_at, updated_at, is_active FROM test_cases"
	query += " WHERE " + strings.Join(conditions, " AND ")
	query += fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", argID, argID+1)
	args = append(args, skip, limit)

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	defer rows.Close()

	testCases := []*TestCase{}
	for rows.Next() {
		tc := &TestCase{}
		var inputJSON, expectedJSON []byte
		if err := rows.Scan(
			&tc.ID,
			&tc.Name,
			&tc.TaskType,
			&tc.Description,
			&inputJSON,
			&expectedJSON,
			&tc.CreatedAt,
			&tc.UpdatedAt,
			&tc.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan test case row: %w", err)
		}
		tc.InputData = rawFromScan(inputJSON)
		tc.ExpectedOutput = rawFromScan(expectedJSON)
		testCases = append(testCases, tc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for test cases: %w", err)
	}

	return testCases, nil
}

// UpdateTestCase updates specific fields of an existing test case.
// updateData is a map of column names to new values; unknown columns are
// ignored. task_type is intentionally not updatable.
func UpdateTestCase(id int, updateData map[string]interface{}) (*TestCase, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	allowedFields := map[string]string{
		"name":            "string",
		"description":     "nullstring",
		"input_data":      "json",
		"expected_output": "json",
		"is_active":       "bool",
	}

	var setClauses []string
	var args []interface{}
	argID := 1

	for key, value := range updateData {
		kind, ok := allowedFields[key]
		if !ok {
			continue
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argID))

		switch kind {
		case "nullstring":
			if strVal, ok := value.(string); ok && strVal != "" {
				args = append(args, sql.NullString{String: strVal, Valid: true})
			} else {
				args = append(args, sql.NullString{Valid: false})
			}
		case "json":
			args = append(args, coerceJSONArg(value))
		default:
			args = append(args, value)
		}
		argID++
	}

	if len(setClauses) == 0 {
		return nil, errors.New("no updatable fields provided")
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	query := fmt.Sprintf("UPDATE test_cases SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argID)
	args = append(args, id)

	result, err := DB.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update test case %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected for test case %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("test case %d: %w", id, ErrNotFound)
	}

	return GetTestCase(id)
}

// DeleteTestCase deletes a test case by ID.
func DeleteTestCase(id int) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}
	result, err := DB.Exec("DELETE FROM test_cases WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete test case %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for test case %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("test case %d: %w", id, ErrNotFound)
	}

	return nil
}

// rawOrNull maps an empty json.RawMessage to JSON null for storage.
func rawOrNull(raw json.RawMessage) []byte {
	if len(raw) > 0 {
		return raw
	}
	return json.RawMessage("null")
}

// rawFromScan maps a scanned JSONB column back to a RawMessage, dropping
// SQL/JSON null.
func rawFromScan(scanned []byte) json.RawMessage {
	if scanned == nil || string(scanned) == "null" {
		return nil
	}
	return json.RawMessage(scanned)
}

// coerceJSONArg normalizes an update value destined for a JSONB column.
// Accepts json.RawMessage, JSON-encodable maps/slices, or raw JSON strings.
func coerceJSONArg(value interface{}) []byte {
	switch v := value.(type) {
	case json.RawMessage:
		if len(v) > 0 && json.Valid(v) {
			return v
		}
	case string:
		if v != "" && json.Valid([]byte(v)) {
			return []byte(v)
		}
	default:
		if encoded, err := json.Marshal(v); err == nil {
			return encoded
		}
	}
	return json.RawMessage("null")
}
