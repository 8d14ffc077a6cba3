package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-task-test-platform/backend/internal/taskcatalog"
)

// recordingServer captures every request made by the client under test.
type recordingServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func newRecordingServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &body)
			r.Body = io.NopCloser(bytes.NewReader(data))
		}
		rs.mu.Lock()
		rs.requests = append(rs.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		rs.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(rs.server.Close)
	return rs
}

func (rs *recordingServer) count() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.requests)
}

func (rs *recordingServer) last() recordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.requests[len(rs.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreateTestCasePostsOncePerTaskType(t *testing.T) {
	raw := map[taskcatalog.TaskType]map[string]string{
		taskcatalog.TaskClassification: {"text": "great", "labels": "positive,negative", "predicted_label": "positive"},
		taskcatalog.TaskCorrection:     {"original_text": "I have went.", "corrected_text": "I went."},
		taskcatalog.TaskDialogue:       {"user_input": "hi", "response": "hello"},
		taskcatalog.TaskRAG:            {"query": "what is go", "knowledge_base": "Go is a language", "answer": "a language"},
		taskcatalog.TaskAgent:          {"task_goal": "add numbers", "available_tools": `["calculator"]`, "result": "4", "tools_used": "calculator"},
	}

	for _, taskType := range taskcatalog.All() {
		taskType := taskType
		t.Run(string(taskType), func(t *testing.T) {
			rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusCreated, TestCase{ID: 1, Name: "tc", TaskType: string(taskType)})
			})
			client := New(rs.server.URL, 0)

			created, err := client.CreateTestCase(context.Background(), taskType, "tc", "desc", raw[taskType])
			require.NoError(t, err)
			assert.Equal(t, 1, created.ID)

			require.Equal(t, 1, rs.count())
			req := rs.last()
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, fmt.Sprintf("/api/%s/test-cases/", taskType), req.Path)
			assert.Equal(t, string(taskType), req.Body["task_type"])
		})
	}
}

func TestCreateTestCaseValidationAbortsLocally(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	})
	client := New(rs.server.URL, 0)

	// Missing name.
	_, err := client.CreateTestCase(context.Background(), taskcatalog.TaskClassification, "", "", map[string]string{"text": "x"})
	assert.ErrorIs(t, err, taskcatalog.ErrValidation)

	// Unsupported task type.
	_, err = client.CreateTestCase(context.Background(), taskcatalog.TaskType("summarization"), "tc", "", nil)
	assert.ErrorIs(t, err, taskcatalog.ErrValidation)

	// Missing required field for the task type.
	_, err = client.CreateTestCase(context.Background(), taskcatalog.TaskClassification, "tc", "", map[string]string{})
	assert.ErrorIs(t, err, taskcatalog.ErrValidation)

	// Malformed conversation history JSON.
	_, err = client.CreateTestCase(context.Background(), taskcatalog.TaskDialogue, "tc", "", map[string]string{
		"user_input":           "hi",
		"response":             "hello",
		"conversation_history": `[{"role": broken`,
	})
	assert.ErrorIs(t, err, taskcatalog.ErrValidation)

	assert.Equal(t, 0, rs.count())
}

func TestRunTestValidatesBeforeSending(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	})
	client := New(rs.server.URL, 0)

	_, err := client.RunTest(context.Background(), taskcatalog.TaskClassification, 0, "gpt-4", nil)
	assert.ErrorIs(t, err, taskcatalog.ErrValidation)

	_, err = client.RunTest(context.Background(), taskcatalog.TaskClassification, 7, "", nil)
	assert.ErrorIs(t, err, taskcatalog.ErrValidation)

	assert.Equal(t, 0, rs.count())
}

func TestRunTestSendsModelName(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, TestResult{ID: 3, TestCaseID: 7, ModelName: "gpt-4", Status: "completed"})
	})
	client := New(rs.server.URL, 0)

	result, err := client.RunTest(context.Background(), taskcatalog.TaskClassification, 7, "gpt-4", nil)
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)

	req := rs.last()
	assert.Equal(t, "/api/classification/test-cases/7/run", req.Path)
	assert.Equal(t, "gpt-4", req.Body["model_name"])
}

func TestExecuteRunRefreshesOverviewAfterRun(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/run") {
			writeJSON(w, http.StatusOK, TestResult{ID: 1, Status: "completed"})
			return
		}
		writeJSON(w, http.StatusOK, Overview{RecentTestsCount: 5})
	})
	client := New(rs.server.URL, 0)

	result, overview, err := client.ExecuteRun(context.Background(), taskcatalog.TaskDialogue, 1, "gpt-4", nil)
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, 5, overview.RecentTestsCount)

	require.Equal(t, 2, rs.count())
	assert.Equal(t, "/api/dashboard/overview", rs.last().Path)
}

func TestExecuteRunKeepsResultWhenRefreshFails(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/run") {
			writeJSON(w, http.StatusOK, TestResult{ID: 1, Status: "completed"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "database unavailable"})
	})
	client := New(rs.server.URL, 0)

	result, overview, err := client.ExecuteRun(context.Background(), taskcatalog.TaskDialogue, 1, "gpt-4", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard refresh failed")
	require.NotNil(t, result)
	assert.Equal(t, "completed", result.Status)
	assert.Nil(t, overview)
}

func TestExecuteRunFailedRunSkipsRefresh(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "test case not found"})
	})
	client := New(rs.server.URL, 0)

	result, overview, err := client.ExecuteRun(context.Background(), taskcatalog.TaskDialogue, 1, "gpt-4", nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Nil(t, overview)
	assert.Equal(t, 1, rs.count())
}

func TestAPIErrorDetailExtraction(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "task type mismatch"})
	})
	client := New(rs.server.URL, 0)

	_, err := client.ListTestCases(context.Background(), taskcatalog.TaskRAG)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "task type mismatch", apiErr.Detail)
	assert.Contains(t, apiErr.Error(), "400")
}

func TestAPIErrorNonJSONBody(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	client := New(rs.server.URL, 0)

	_, err := client.GetOverview(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unknown error", apiErr.Detail)
}

func TestGetModelPerformanceQueryString(t *testing.T) {
	var gotQuery string
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"model_performance": []ModelPerformance{{ModelName: "gpt-4", TotalTests: 3}},
		})
	})
	client := New(rs.server.URL, 0)

	rows, err := client.GetModelPerformance(context.Background(), "rag", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, gotQuery, "limit=10")
	assert.Contains(t, gotQuery, "task_type=rag")
}

func TestNullableFieldsDecodeFromWireEncoding(t *testing.T) {
	payload := `{"id": 1, "score": 0.85, "execution_time": null, "status": "completed", "error_message": null}`

	var result TestResult
	require.NoError(t, json.Unmarshal([]byte(payload), &result))
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.85, *result.Score)
	assert.Nil(t, result.ExecutionTime)
	assert.Nil(t, result.ErrorMessage)
}

func TestGetRecentTestsDecodesEnvelope(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recent_tests": [{"test_result_id": 4, "model_name": "gpt-4", "score": 0.9, "execution_time": null, "status": "completed"}]}`))
	})
	client := New(rs.server.URL, 0)

	rows, err := client.GetRecentTests(context.Background(), "", 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].TestResultID)
	require.NotNil(t, rows[0].Score)
	assert.Equal(t, 0.9, *rows[0].Score)
	assert.Nil(t, rows[0].ExecutionTime)
}

func TestGetOverviewDecodesStatisticsMaps(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"task_statistics": {"rag": 2, "agent": 1}, "result_statistics": {"completed": 3}, "recent_tests_count": 3, "average_score": 0.75, "average_execution_time": 1.5}`))
	})
	client := New(rs.server.URL, 0)

	overview, err := client.GetOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"rag": 2, "agent": 1}, overview.TaskStatistics)
	assert.Equal(t, map[string]int{"completed": 3}, overview.ResultStatistics)
	assert.Equal(t, 3, overview.RecentTestsCount)
	assert.Equal(t, 0.75, overview.AverageScore)
}

func TestRunTestFormEncodesFields(t *testing.T) {
	var gotContentType string
	var gotForm url.Values
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		writeJSON(w, http.StatusOK, TestResult{ID: 2, TestCaseID: 7, ModelName: "gpt-4", Status: "completed"})
	})
	client := New(rs.server.URL, 0)

	result, err := client.RunTestForm(context.Background(), taskcatalog.TaskRAG, 7, "gpt-4", map[string]string{
		"temperature":     "0.2",
		"embedding_model": "text-embedding-3-small",
		"max_steps":       "",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)

	assert.Equal(t, "/api/rag/run-test/", rs.last().Path)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "7", gotForm.Get("test_case_id"))
	assert.Equal(t, "gpt-4", gotForm.Get("model_name"))
	assert.Equal(t, "0.2", gotForm.Get("temperature"))
	assert.Equal(t, "text-embedding-3-small", gotForm.Get("embedding_model"))
	// Empty tuning values stay out of the form.
	assert.False(t, gotForm.Has("max_steps"))
}

func TestRunTestFormValidatesBeforeSending(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	})
	client := New(rs.server.URL, 0)

	_, err := client.RunTestForm(context.Background(), taskcatalog.TaskRAG, 0, "gpt-4", nil)
	assert.ErrorIs(t, err, taskcatalog.ErrValidation)

	_, err = client.RunTestForm(context.Background(), taskcatalog.TaskRAG, 7, "", nil)
	assert.ErrorIs(t, err, taskcatalog.ErrValidation)

	assert.Equal(t, 0, rs.count())
}
