package jobmanagement

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-task-test-platform/backend/internal/coreengine/taskrunners"
	"ai-task-test-platform/backend/internal/datastore"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunFormTestCompletesRun(t *testing.T) {
	mock := withMockDB(t)
	svc := NewRunService(taskrunners.NewRunner(nil))

	// Fetched once by the handler's task-type check and once by RunTest.
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT .+ FROM test_cases`).
			WithArgs(7).
			WillReturnRows(testCaseRow(7, "classification",
				`{"text": "great product", "labels": ["positive", "negative"]}`,
				`{"predicted_label": "positive"}`))
	}
	mock.ExpectQuery(`INSERT INTO test_results`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`UPDATE test_results`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM test_results WHERE id`).
		WithArgs(11).
		WillReturnRows(testResultRow(11, 7, datastore.ResultStatusCompleted, 1.0))

	r := gin.New()
	r.POST("/run-test/", svc.RunFormTestHandler(taskcatalog.TaskClassification))

	form := url.Values{}
	form.Set("test_case_id", "7")
	form.Set("model_name", "offline-model")
	form.Set("temperature", "0.2")
	w := doForm(r, "/run-test/", form)

	require.Equal(t, http.StatusOK, w.Code)
	var result datastore.TestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, datastore.ResultStatusCompleted, result.Status)
	assert.True(t, result.Score.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunFormTestMissingFields(t *testing.T) {
	withMockDB(t)
	svc := NewRunService(taskrunners.NewRunner(nil))

	r := gin.New()
	r.POST("/run-test/", svc.RunFormTestHandler(taskcatalog.TaskClassification))

	w := doForm(r, "/run-test/", url.Values{"model_name": {"gpt-4"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "test_case_id")

	w = doForm(r, "/run-test/", url.Values{"test_case_id": {"7"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "model_name")

	w = doForm(r, "/run-test/", url.Values{"test_case_id": {"abc"}, "model_name": {"gpt-4"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be an integer")
}

func TestRunFormTestTaskTypeMismatch(t *testing.T) {
	mock := withMockDB(t)
	svc := NewRunService(taskrunners.NewRunner(nil))

	mock.ExpectQuery(`SELECT .+ FROM test_cases`).
		WithArgs(7).
		WillReturnRows(testCaseRow(7, "rag", `{"query": "q"}`, `{"answer": "a"}`))

	r := gin.New()
	r.POST("/run-test/", svc.RunFormTestHandler(taskcatalog.TaskClassification))

	form := url.Values{}
	form.Set("test_case_id", "7")
	form.Set("model_name", "gpt-4")
	w := doForm(r, "/run-test/", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not classification")
}

func TestRunOptionsFromForm(t *testing.T) {
	opts := runOptionsFromForm(map[string]string{
		"temperature":     "0.3",
		"max_tokens":      "256",
		"timeout":         "30",
		"max_steps":       "not-a-number",
		"embedding_model": "text-embedding-3-small",
	})

	require.NotNil(t, opts.Temperature)
	assert.Equal(t, 0.3, *opts.Temperature)
	require.NotNil(t, opts.MaxTokens)
	assert.Equal(t, 256, *opts.MaxTokens)
	require.NotNil(t, opts.TimeoutSeconds)
	assert.Equal(t, 30, *opts.TimeoutSeconds)
	assert.Nil(t, opts.MaxSteps)
	assert.Equal(t, "text-embedding-3-small", opts.EmbeddingModel)
}

func TestInteractiveAgentTest(t *testing.T) {
	svc := NewRunService(taskrunners.NewRunner(nil))

	r := gin.New()
	r.POST("/interactive-test/", svc.InteractiveAgentTestHandler())

	body, _ := json.Marshal(map[string]interface{}{
		"task":       "add two numbers",
		"model_name": "offline-model",
		"tools":      []string{"calculator"},
		"context":    map[string]interface{}{"a": 2, "b": 2},
	})
	req := httptest.NewRequest(http.MethodPost, "/interactive-test/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Result       string                    `json:"result"`
		ActionsTaken []taskcatalog.AgentAction `json:"actions_taken"`
		Confidence   float64                   `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Result)
	assert.Greater(t, resp.Confidence, 0.0)
	for _, action := range resp.ActionsTaken {
		assert.Equal(t, "calculator", action.Tool)
	}
}

func TestInteractiveAgentTestRequiresTaskAndModel(t *testing.T) {
	svc := NewRunService(taskrunners.NewRunner(nil))

	r := gin.New()
	r.POST("/interactive-test/", svc.InteractiveAgentTestHandler())

	body, _ := json.Marshal(map[string]interface{}{"model_name": "gpt-4"})
	req := httptest.NewRequest(http.MethodPost, "/interactive-test/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
