package jobmanagement

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-task-test-platform/backend/internal/coreengine/taskrunners"
	"ai-task-test-platform/backend/internal/datastore"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	previous := datastore.DB
	datastore.DB = db
	t.Cleanup(func() {
		datastore.DB = previous
		_ = db.Close()
	})
	return mock
}

func testCaseRow(id int, taskType, input, expected string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "task_type", "description", "input_data", "expected_output", "created_at", "updated_at", "is_active",
	}).AddRow(id, "tc", taskType, nil, []byte(input), []byte(expected), now, now, true)
}

func testResultRow(id, testCaseID int, status string, score interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "test_case_id", "job_id", "model_name", "actual_output",
		"score", "metrics", "execution_time", "status", "error_message", "created_at",
	}).AddRow(id, testCaseID, nil, "offline-model", []byte(`{}`), score, []byte(`{}`), 0.1, status, nil, time.Now())
}

func TestRunTestCompletesWithFallbackModel(t *testing.T) {
	mock := withMockDB(t)
	svc := NewRunService(taskrunners.NewRunner(nil))

	mock.ExpectQuery(`SELECT .+ FROM test_cases`).
		WithArgs(7).
		WillReturnRows(testCaseRow(7, "classification",
			`{"text": "great product", "labels": ["positive", "negative"]}`,
			`{"predicted_label": "positive"}`))

	mock.ExpectQuery(`INSERT INTO test_results`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	mock.ExpectExec(`UPDATE test_results`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(`SELECT .+ FROM test_results WHERE id`).
		WithArgs(11).
		WillReturnRows(testResultRow(11, 7, datastore.ResultStatusCompleted, 1.0))

	result, err := svc.RunTest(context.Background(), 7, "offline-model", taskcatalog.RunOptions{}, datastore.NullInt64{})
	require.NoError(t, err)
	assert.Equal(t, datastore.ResultStatusCompleted, result.Status)
	assert.True(t, result.Score.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunTestMissingTestCase(t *testing.T) {
	mock := withMockDB(t)
	svc := NewRunService(taskrunners.NewRunner(nil))

	mock.ExpectQuery(`SELECT .+ FROM test_cases`).
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.RunTest(context.Background(), 404, "gpt-4", taskcatalog.RunOptions{}, datastore.NullInt64{})
	assert.ErrorIs(t, err, datastore.ErrNotFound)
}

func TestRunTestUnsupportedTaskType(t *testing.T) {
	mock := withMockDB(t)
	svc := NewRunService(taskrunners.NewRunner(nil))

	mock.ExpectQuery(`SELECT .+ FROM test_cases`).
		WithArgs(8).
		WillReturnRows(testCaseRow(8, "summarization", `{"text": "x"}`, `{}`))

	_, err := svc.RunTest(context.Background(), 8, "gpt-4", taskcatalog.RunOptions{}, datastore.NullInt64{})
	assert.ErrorContains(t, err, "unsupported task type")
}

func TestRunTestNoInputData(t *testing.T) {
	mock := withMockDB(t)
	svc := NewRunService(taskrunners.NewRunner(nil))

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "task_type", "description", "input_data", "expected_output", "created_at", "updated_at", "is_active",
	}).AddRow(9, "tc", "rag", nil, nil, []byte(`{}`), now, now, true)
	mock.ExpectQuery(`SELECT .+ FROM test_cases`).WithArgs(9).WillReturnRows(rows)

	_, err := svc.RunTest(context.Background(), 9, "gpt-4", taskcatalog.RunOptions{}, datastore.NullInt64{})
	assert.ErrorContains(t, err, "no input data")
}

func TestRunTestFailureMarksResultFailed(t *testing.T) {
	mock := withMockDB(t)
	svc := NewRunService(taskrunners.NewRunner(nil))

	// Malformed input data survives until the runner rejects it; by then
	// a running result row exists and must be flipped to failed.
	mock.ExpectQuery(`SELECT .+ FROM test_cases`).
		WithArgs(7).
		WillReturnRows(testCaseRow(7, "classification", `{"text": 42}`, `{}`))

	mock.ExpectQuery(`INSERT INTO test_results`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	mock.ExpectExec(`UPDATE test_results`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(`SELECT .+ FROM test_results WHERE id`).
		WithArgs(12).
		WillReturnRows(testResultRow(12, 7, datastore.ResultStatusFailed, nil))

	result, err := svc.RunTest(context.Background(), 7, "offline-model", taskcatalog.RunOptions{}, datastore.NullInt64{})
	require.NoError(t, err)
	assert.Equal(t, datastore.ResultStatusFailed, result.Status)
	assert.False(t, result.Score.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
