package jobmanagement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ai-task-test-platform/backend/internal/datastore"
	"ai-task-test-platform/backend/internal/taskcatalog"

	"github.com/gin-gonic/gin"
)

// RunTestRequest is the JSON payload for running an existing test case.
type RunTestRequest struct {
	ModelName string                  `json:"model_name" binding:"required"`
	Options   *taskcatalog.RunOptions `json:"options"`
}

// RunTestCaseHandler returns a handler that runs a stored test case of
// the given task type against one model and records the result.
func (s *RunService) RunTestCaseHandler(taskType taskcatalog.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid test case ID format"})
			return
		}

		var req RunTestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload: " + err.Error()})
			return
		}

		tc, err := datastore.GetTestCase(id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if tc.TaskType != string(taskType) {
			c.JSON(http.StatusBadRequest, gin.H{
				"detail": fmt.Sprintf("Test case %d is a %s test case, not %s", id, tc.TaskType, taskType),
			})
			return
		}

		opts := taskcatalog.RunOptions{}
		if req.Options != nil {
			opts = *req.Options
		}

		result, err := s.RunTest(c.Request.Context(), id, req.ModelName, opts, datastore.NullInt64{})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// RunFormTestHandler returns a handler for the form-urlencoded run
// workflow: test_case_id and model_name are required; the optional
// tuning fields become run options.
func (s *RunService) RunFormTestHandler(taskType taskcatalog.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		testCaseIDStr := c.PostForm("test_case_id")
		if testCaseIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "field \"test_case_id\" is required"})
			return
		}
		testCaseID, err := strconv.Atoi(testCaseIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "field \"test_case_id\" must be an integer"})
			return
		}

		modelName := c.PostForm("model_name")
		if modelName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "field \"model_name\" is required"})
			return
		}

		tc, err := datastore.GetTestCase(testCaseID)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if tc.TaskType != string(taskType) {
			c.JSON(http.StatusBadRequest, gin.H{
				"detail": fmt.Sprintf("Test case %d is a %s test case, not %s", testCaseID, tc.TaskType, taskType),
			})
			return
		}

		raw := map[string]string{}
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				raw[key] = values[0]
			}
		}

		result, err := s.RunTest(c.Request.Context(), testCaseID, modelName, runOptionsFromForm(raw), datastore.NullInt64{})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// runOptionsFromForm parses the optional tuning fields out of the raw
// form values. Unparseable values are ignored rather than rejected.
func runOptionsFromForm(raw map[string]string) taskcatalog.RunOptions {
	opts := taskcatalog.RunOptions{}
	if v, err := strconv.ParseFloat(raw["temperature"], 64); err == nil {
		opts.Temperature = &v
	}
	if v, err := strconv.Atoi(raw["max_tokens"]); err == nil {
		opts.MaxTokens = &v
	}
	if v, err := strconv.Atoi(raw["timeout"]); err == nil {
		opts.TimeoutSeconds = &v
	}
	if v, err := strconv.Atoi(raw["max_steps"]); err == nil {
		opts.MaxSteps = &v
	}
	opts.EmbeddingModel = raw["embedding_model"]
	opts.RetrievalStrategy = raw["retrieval_strategy"]
	opts.ExecutionMode = raw["execution_mode"]
	opts.CorrectionMode = raw["correction_mode"]
	return opts
}

// InteractiveAgentRequest is the JSON payload for an ad-hoc agent run.
type InteractiveAgentRequest struct {
	Task      string                  `json:"task" binding:"required"`
	ModelName string                  `json:"model_name" binding:"required"`
	Context   map[string]interface{}  `json:"context"`
	Tools     []string                `json:"tools"`
	Options   *taskcatalog.RunOptions `json:"options"`
}

// InteractiveAgentTestHandler runs an agent task directly, without a stored
// test case or a recorded result. Useful for trying out tasks and tool sets
// before saving them.
func (s *RunService) InteractiveAgentTestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InteractiveAgentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload: " + err.Error()})
			return
		}

		input, err := json.Marshal(taskcatalog.AgentInput{
			Task:    req.Task,
			Context: req.Context,
			Tools:   req.Tools,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to encode agent input: " + err.Error()})
			return
		}

		opts := taskcatalog.RunOptions{}
		if req.Options != nil {
			opts = *req.Options
		}
		timeout := defaultRunTimeout
		if opts.TimeoutSeconds != nil && *opts.TimeoutSeconds > 0 {
			timeout = time.Duration(*opts.TimeoutSeconds) * time.Second
		}
		runCtx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		raw, err := s.Runner.Run(runCtx, taskcatalog.TaskAgent, input, req.ModelName, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Agent task execution failed: " + err.Error()})
			return
		}

		var out taskcatalog.AgentOutput
		if err := json.Unmarshal(raw, &out); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to decode agent output: " + err.Error()})
			return
		}
		if out.ActionsTaken == nil {
			out.ActionsTaken = []taskcatalog.AgentAction{}
		}
		c.JSON(http.StatusOK, gin.H{
			"result":        out.Result,
			"actions_taken": out.ActionsTaken,
			"confidence":    out.Confidence,
		})
	}
}

// GetTestCaseResultsHandler returns a handler that lists results for one
// test case, newest first.
func GetTestCaseResultsHandler(taskType taskcatalog.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("test_case_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid test case ID format"})
			return
		}

		tc, err := datastore.GetTestCase(id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if tc.TaskType != string(taskType) {
			c.JSON(http.StatusNotFound, gin.H{
				"detail": fmt.Sprintf("Test case %d is not a %s test case", id, taskType),
			})
			return
		}

		results, err := datastore.GetTestResultsForTestCase(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list test results: " + err.Error()})
			return
		}
		if results == nil {
			results = []*datastore.TestResult{}
		}
		c.JSON(http.StatusOK, results)
	}
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}
