package dashboard

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ai-task-test-platform/backend/internal/datastore"
	"ai-task-test-platform/backend/internal/objectstore"
	"ai-task-test-platform/backend/internal/taskcatalog"

	"github.com/gin-gonic/gin"
)

// OverviewHandler returns the headline dashboard numbers: test case and
// result counts, recent activity, and platform-wide averages.
func OverviewHandler(c *gin.Context) {
	testCasesByType, err := datastore.CountTestCasesByTaskType()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to count test cases: " + err.Error()})
		return
	}
	resultsByStatus, err := datastore.CountTestResultsByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to count test results: " + err.Error()})
		return
	}
	recentCount, err := datastore.CountRecentTestResults(time.Now().AddDate(0, 0, -7))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to count recent tests: " + err.Error()})
		return
	}
	avgScore, err := datastore.AverageScore()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to compute average score: " + err.Error()})
		return
	}
	avgTime, err := datastore.AverageExecutionTime()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to compute average execution time: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task_statistics":        testCasesByType,
		"result_statistics":      resultsByStatus,
		"recent_tests_count":     recentCount,
		"average_score":          avgScore,
		"average_execution_time": avgTime,
	})
}

// ModelPerformanceHandler lists per-model aggregate statistics.
func ModelPerformanceHandler(c *gin.Context) {
	taskType := c.Query("task_type")
	if taskType != "" && !taskcatalog.Valid(taskType) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown task_type: " + taskType})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	performance, err := datastore.GetModelPerformance(taskType, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to compute model performance: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"model_performance": performance})
}

// TaskPerformanceHandler summarizes completed runs for one task type,
// including a coarse score distribution and a per-model breakdown.
func TaskPerformanceHandler(c *gin.Context) {
	taskType := c.Param("task_type")
	if !taskcatalog.Valid(taskType) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown task_type: " + taskType})
		return
	}

	results, err := datastore.GetCompletedResultsForTaskType(taskType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load task results: " + err.Error()})
		return
	}

	distribution := map[string]int{"excellent": 0, "good": 0, "fair": 0, "poor": 0}
	type modelAgg struct {
		count      int
		scoreSum   float64
		timeSum    float64
		timedCount int
	}
	models := map[string]*modelAgg{}

	totalScore, totalTime := 0.0, 0.0
	timedCount := 0
	for _, r := range results {
		score := r.Score.Float64
		totalScore += score
		switch {
		case score >= 0.9:
			distribution["excellent"]++
		case score >= 0.7:
			distribution["good"]++
		case score >= 0.5:
			distribution["fair"]++
		default:
			distribution["poor"]++
		}

		agg := models[r.ModelName]
		if agg == nil {
			agg = &modelAgg{}
			models[r.ModelName] = agg
		}
		agg.count++
		agg.scoreSum += score
		if r.ExecutionTime.Valid {
			agg.timeSum += r.ExecutionTime.Float64
			agg.timedCount++
			totalTime += r.ExecutionTime.Float64
			timedCount++
		}
	}

	avgScore := 0.0
	if len(results) > 0 {
		avgScore = totalScore / float64(len(results))
	}
	avgTime := 0.0
	if timedCount > 0 {
		avgTime = totalTime / float64(timedCount)
	}

	modelBreakdown := map[string]gin.H{}
	for name, agg := range models {
		modelAvgTime := 0.0
		if agg.timedCount > 0 {
			modelAvgTime = agg.timeSum / float64(agg.timedCount)
		}
		modelBreakdown[name] = gin.H{
			"total_tests":            agg.count,
			"average_score":          agg.scoreSum / float64(agg.count),
			"average_execution_time": modelAvgTime,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"task_type":              taskType,
		"total_tests":            len(results),
		"average_score":          avgScore,
		"average_execution_time": avgTime,
		"score_distribution":     distribution,
		"model_breakdown":        modelBreakdown,
	})
}

// RecentTestsHandler lists the newest runs with their test case metadata.
func RecentTestsHandler(c *gin.Context) {
	taskType := c.Query("task_type")
	if taskType != "" && !taskcatalog.Valid(taskType) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown task_type: " + taskType})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	tests, err := datastore.GetRecentTests(taskType, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list recent tests: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recent_tests": tests})
}

// TestTrendsHandler returns daily test counts and average scores.
func TestTrendsHandler(c *gin.Context) {
	taskType := c.Query("task_type")
	if taskType != "" && !taskcatalog.Valid(taskType) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown task_type: " + taskType})
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trends, err := datastore.GetTestTrends(days, taskType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to compute test trends: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// ErrorAnalysisHandler classifies recent failed runs by error category.
func ErrorAnalysisHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	failed, err := datastore.GetFailedTestResults(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load failed results: " + err.Error()})
		return
	}

	categories := map[string]int{}
	samples := map[string][]gin.H{}
	for _, r := range failed {
		category := classifyError(r.ErrorMessage.String)
		categories[category]++
		if len(samples[category]) < 5 {
			samples[category] = append(samples[category], gin.H{
				"test_result_id": r.ID,
				"test_case_id":   r.TestCaseID,
				"model_name":     r.ModelName,
				"error_message":  r.ErrorMessage.String,
				"created_at":     r.CreatedAt,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_failed": len(failed),
		"categories":   categories,
		"samples":      samples,
	})
}

// classifyError buckets an error message into a coarse category for the
// error-analysis view.
func classifyError(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "timed out") || strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		return "timeout"
	case strings.Contains(lower, "unauthorized") || strings.Contains(lower, "api key") || strings.Contains(lower, "forbidden") || strings.Contains(lower, "not configured"):
		return "authentication"
	case strings.Contains(lower, "decode") || strings.Contains(lower, "unmarshal") || strings.Contains(lower, "invalid json") || strings.Contains(lower, "parse"):
		return "parse_error"
	case strings.Contains(lower, "model call failed") || strings.Contains(lower, "status") || strings.Contains(lower, "connection"):
		return "api_error"
	default:
		return "other"
	}
}

// CreateTestSuiteRequest is the JSON payload for saving a test suite.
type CreateTestSuiteRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	TaskType    string `json:"task_type" binding:"required"`
	TestCaseIDs []int  `json:"test_case_ids" binding:"required,min=1"`
}

// CreateTestSuiteHandler saves a named group of test cases.
func CreateTestSuiteHandler(c *gin.Context) {
	var req CreateTestSuiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload: " + err.Error()})
		return
	}
	if !taskcatalog.Valid(req.TaskType) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown task_type: " + req.TaskType})
		return
	}

	idsJSON, err := datastore.MarshalIntSliceToJSON(req.TestCaseIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to encode test case IDs: " + err.Error()})
		return
	}

	ts := &datastore.TestSuite{
		Name:        req.Name,
		Description: datastore.NewNullString(req.Description),
		TaskType:    req.TaskType,
		TestCaseIDs: idsJSON,
	}
	if _, err := datastore.CreateTestSuite(ts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create test suite: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ts)
}

// ListTestSuitesHandler lists saved test suites.
func ListTestSuitesHandler(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	suites, err := datastore.ListTestSuites(skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list test suites: " + err.Error()})
		return
	}
	if suites == nil {
		suites = []*datastore.TestSuite{}
	}
	c.JSON(http.StatusOK, gin.H{"test_suites": suites})
}

// ExportResultsHandler exports recent results as a JSON document. When the
// object store is configured the export is also uploaded and its object
// key returned alongside the data.
func ExportResultsHandler(c *gin.Context) {
	taskType := c.Query("task_type")
	if taskType != "" && !taskcatalog.Valid(taskType) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown task_type: " + taskType})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))

	tests, err := datastore.GetRecentTests(taskType, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load results for export: " + err.Error()})
		return
	}

	export := gin.H{
		"exported_at": time.Now().UTC(),
		"task_type":   taskType,
		"count":       len(tests),
		"results":     tests,
	}

	response := gin.H{"export": export}
	if objectstore.Enabled() {
		payload, err := json.Marshal(export)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to encode export: " + err.Error()})
			return
		}
		objectKey, err := objectstore.UploadJSON(c.Request.Context(), "exports", payload)
		if err != nil {
			// Export still succeeds; the artifact upload is best effort.
			log.Printf("WARNING: failed to upload export artifact: %v", err)
		} else {
			response["object_key"] = objectKey
		}
	}

	c.JSON(http.StatusOK, response)
}
