package testmanagement

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ai-task-test-platform/backend/internal/datastore"
	"ai-task-test-platform/backend/internal/taskcatalog"

	"github.com/gin-gonic/gin"
)

// CreateTestCaseRequest is the JSON payload for creating a test case.
type CreateTestCaseRequest struct {
	Name           string          `json:"name" binding:"required"`
	TaskType       string          `json:"task_type" binding:"required"`
	Description    string          `json:"description"`
	InputData      json.RawMessage `json:"input_data" binding:"required"`
	ExpectedOutput json.RawMessage `json:"expected_output" binding:"required"`
}

// UpdateTestCaseRequest is the JSON payload for partially updating a test case.
type UpdateTestCaseRequest struct {
	Name           *string         `json:"name"`
	Description    *string         `json:"description"`
	InputData      json.RawMessage `json:"input_data"`
	ExpectedOutput json.RawMessage `json:"expected_output"`
	IsActive       *bool           `json:"is_active"`
}

// CreateTestCaseHandler returns a handler that creates a test case under
// the given task type. The payload's task_type must match the route's.
func CreateTestCaseHandler(taskType taskcatalog.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTestCaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload: " + err.Error()})
			return
		}

		if req.TaskType != string(taskType) {
			c.JSON(http.StatusBadRequest, gin.H{
				"detail": fmt.Sprintf("task_type must be %q for this endpoint, got %q", taskType, req.TaskType),
			})
			return
		}
		if !json.Valid(req.InputData) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "input_data contains invalid JSON"})
			return
		}
		if !json.Valid(req.ExpectedOutput) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "expected_output contains invalid JSON"})
			return
		}

		tc := &datastore.TestCase{
			Name:           req.Name,
			TaskType:       string(taskType),
			Description:    datastore.NewNullString(req.Description),
			InputData:      req.InputData,
			ExpectedOutput: req.ExpectedOutput,
		}

		if _, err := datastore.CreateTestCase(tc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create test case: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, tc)
	}
}

// ListTestCasesHandler returns a handler that lists active test cases of
// the given task type with skip/limit pagination.
func ListTestCasesHandler(taskType taskcatalog.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

		testCases, err := datastore.ListTestCases(string(taskType), skip, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list test cases: " + err.Error()})
			return
		}
		if testCases == nil {
			testCases = []*datastore.TestCase{}
		}
		c.JSON(http.StatusOK, testCases)
	}
}

// GetTestCaseHandler returns a handler that fetches one test case by ID,
// verifying it belongs to the route's task type.
func GetTestCaseHandler(taskType taskcatalog.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := fetchTestCase(c, taskType)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, tc)
	}
}

// UpdateTestCaseHandler returns a handler for partial updates.
func UpdateTestCaseHandler(taskType taskcatalog.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := fetchTestCase(c, taskType)
		if !ok {
			return
		}

		var req UpdateTestCaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload: " + err.Error()})
			return
		}

		updateData := map[string]interface{}{}
		if req.Name != nil {
			updateData["name"] = *req.Name
		}
		if req.Description != nil {
			updateData["description"] = *req.Description
		}
		if len(req.InputData) > 0 {
			if !json.Valid(req.InputData) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "input_data contains invalid JSON"})
				return
			}
			updateData["input_data"] = req.InputData
		}
		if len(req.ExpectedOutput) > 0 {
			if !json.Valid(req.ExpectedOutput) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "expected_output contains invalid JSON"})
				return
			}
			updateData["expected_output"] = req.ExpectedOutput
		}
		if req.IsActive != nil {
			updateData["is_active"] = *req.IsActive
		}

		if len(updateData) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "No updatable fields provided"})
			return
		}

		updated, err := datastore.UpdateTestCase(tc.ID, updateData)
		if err != nil {
			if errors.Is(err, datastore.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update test case: " + err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DeleteTestCaseHandler returns a handler that deletes one test case.
func DeleteTestCaseHandler(taskType taskcatalog.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := fetchTestCase(c, taskType)
		if !ok {
			return
		}

		if err := datastore.DeleteTestCase(tc.ID); err != nil {
			if errors.Is(err, datastore.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete test case: " + err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Test case %d deleted", tc.ID)})
	}
}

// fetchTestCase resolves the :id param to a test case of the expected
// task type, writing the error response itself on failure.
func fetchTestCase(c *gin.Context, taskType taskcatalog.TaskType) (*datastore.TestCase, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid test case ID format"})
		return nil, false
	}

	tc, err := datastore.GetTestCase(id)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve test case: " + err.Error()})
		}
		return nil, false
	}
	if tc.TaskType != string(taskType) {
		c.JSON(http.StatusNotFound, gin.H{
			"detail": fmt.Sprintf("Test case %d is not a %s test case", id, taskType),
		})
		return nil, false
	}
	return tc, true
}
