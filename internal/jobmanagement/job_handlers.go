package jobmanagement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ai-task-test-platform/backend/internal/datastore"
	"ai-task-test-platform/backend/internal/taskcatalog"

	"github.com/gin-gonic/gin"
)

// CreateBatchJobRequest is the JSON payload for starting a batch job.
type CreateBatchJobRequest struct {
	JobName     string                  `json:"job_name"`
	TestCaseIDs []int                   `json:"test_case_ids" binding:"required,min=1"`
	ModelNames  []string                `json:"model_names" binding:"required,min=1"`
	Parameters  json.RawMessage         `json:"parameters"`
	Options     *taskcatalog.RunOptions `json:"options"`
}

// CreateBatchJobHandler returns a handler that creates a batch job for
// the given task type and runs it synchronously.
func (s *JobService) CreateBatchJobHandler(taskType taskcatalog.TaskType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBatchJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload: " + err.Error()})
			return
		}

		if len(req.Parameters) > 0 {
			if !json.Valid(req.Parameters) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "parameters field contains invalid JSON"})
				return
			}
		} else {
			req.Parameters = json.RawMessage("null")
		}

		opts := taskcatalog.RunOptions{}
		if req.Options != nil {
			opts = *req.Options
		}
		job, err := s.CreateAndRunBatchJob(c.Request.Context(), req.JobName, taskType, req.TestCaseIDs, req.ModelNames, req.Parameters, opts)
		if err != nil {
			if job != nil && job.Status == datastore.JobStatusFailed {
				c.JSON(http.StatusAccepted, gin.H{
					"message": "Job initiated but failed during execution.",
					"job":     job,
					"detail":  err.Error(),
				})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create or run batch job: " + err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, job)
	}
}

// GetJobHandler retrieves one evaluation job by ID.
func GetJobHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid job ID format"})
		return
	}

	job, err := datastore.GetEvaluationJob(id)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve job: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists evaluation jobs, optionally filtered by task_type.
func ListJobsHandler(c *gin.Context) {
	taskType := c.Query("task_type")
	if taskType != "" && !taskcatalog.Valid(taskType) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown task_type: " + taskType})
		return
	}

	jobs, err := datastore.ListEvaluationJobs(taskType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list jobs: " + err.Error()})
		return
	}
	if jobs == nil {
		jobs = []*datastore.EvaluationJob{}
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJobResultsHandler lists the test results recorded under one job.
func GetJobResultsHandler(c *gin.Context) {
	jobID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid job ID format"})
		return
	}

	if _, err := datastore.GetEvaluationJob(jobID); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve job: " + err.Error()})
		}
		return
	}

	results, err := datastore.GetTestResultsForJob(jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list job results: " + err.Error()})
		return
	}
	if results == nil {
		results = []*datastore.TestResult{}
	}
	c.JSON(http.StatusOK, results)
}
