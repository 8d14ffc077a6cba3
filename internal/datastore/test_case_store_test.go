package datastore

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withMockDB swaps the package connection for a sqlmock one for the
// duration of the test.
func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	previous := DB
	DB = db
	t.Cleanup(func() {
		DB = previous
		_ = db.Close()
	})
	return mock
}

func testCaseColumns() []string {
	return []string{"id", "name", "task_type", "description", "input_data", "expected_output", "created_at", "updated_at", "is_active"}
}

func TestCreateTestCase(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectQuery(`INSERT INTO test_cases`).
		WithArgs("sentiment check", "classification", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	tc := &TestCase{
		Name:      "sentiment check",
		TaskType:  "classification",
		InputData: json.RawMessage(`{"text": "great"}`),
	}
	id, err := CreateTestCase(tc)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, 42, tc.ID)
	assert.True(t, tc.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTestCaseNotFound(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM test_cases`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := GetTestCase(99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTestCaseDropsJSONNull(t *testing.T) {
	mock := withMockDB(t)

	now := time.Now()
	rows := sqlmock.NewRows(testCaseColumns()).
		AddRow(7, "tc", "rag", nil, []byte(`{"query": "q"}`), []byte("null"), now, now, true)
	mock.ExpectQuery(`SELECT .+ FROM test_cases`).WithArgs(7).WillReturnRows(rows)

	tc, err := GetTestCase(7)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`{"query": "q"}`), tc.InputData)
	assert.Nil(t, tc.ExpectedOutput)
	assert.False(t, tc.Description.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTestCasesFiltersByTaskType(t *testing.T) {
	mock := withMockDB(t)

	now := time.Now()
	rows := sqlmock.NewRows(testCaseColumns()).
		AddRow(1, "a", "dialogue", nil, []byte(`{}`), []byte(`{}`), now, now, true).
		AddRow(2, "b", "dialogue", nil, []byte(`{}`), []byte(`{}`), now, now, true)
	mock.ExpectQuery(`SELECT .+ FROM test_cases WHERE is_active = TRUE AND task_type = \$1`).
		WithArgs("dialogue", 0, 100).
		WillReturnRows(rows)

	cases, err := ListTestCases("dialogue", 0, 0)
	require.NoError(t, err)
	assert.Len(t, cases, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTestCasesEmptyIsSliceNotNil(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM test_cases`).
		WithArgs(0, 50).
		WillReturnRows(sqlmock.NewRows(testCaseColumns()))

	cases, err := ListTestCases("", 0, 50)
	require.NoError(t, err)
	assert.NotNil(t, cases)
	assert.Len(t, cases, 0)
}

func TestUpdateTestCaseNoFields(t *testing.T) {
	withMockDB(t)

	_, err := UpdateTestCase(1, map[string]interface{}{"task_type": "agent"})
	assert.Error(t, err)
}

func TestDeleteTestCaseNotFound(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec(`DELETE FROM test_cases`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := DeleteTestCase(5)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTestCase(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec(`DELETE FROM test_cases`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, DeleteTestCase(5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
