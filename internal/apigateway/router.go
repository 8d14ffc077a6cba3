package apigateway

import (
	"net/http"

	"ai-task-test-platform/backend/internal/auth"
	"ai-task-test-platform/backend/internal/configmanagement"
	"ai-task-test-platform/backend/internal/dashboard"
	"ai-task-test-platform/backend/internal/jobmanagement"
	"ai-task-test-platform/backend/internal/taskcatalog"
	"ai-task-test-platform/backend/internal/testmanagement"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes the main Gin router: per-task-type test case
// CRUD and run endpoints, batch jobs, the dashboard, and the admin area.
func SetupRouter(runs *jobmanagement.RunService, jobs *jobmanagement.JobService) *gin.Engine {
	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// The same handler set serves every task type; the field-mapping
		// table in taskcatalog supplies the per-type differences.
		for _, taskType := range taskcatalog.All() {
			group := api.Group("/" + string(taskType))

			group.POST("/test-cases/", testmanagement.CreateTestCaseHandler(taskType))
			group.GET("/test-cases/", testmanagement.ListTestCasesHandler(taskType))
			group.GET("/test-cases/:id", testmanagement.GetTestCaseHandler(taskType))
			group.PUT("/test-cases/:id", testmanagement.UpdateTestCaseHandler(taskType))
			group.DELETE("/test-cases/:id", testmanagement.DeleteTestCaseHandler(taskType))

			group.POST("/test-cases/:id/run", runs.RunTestCaseHandler(taskType))
			group.POST("/run-test/", runs.RunFormTestHandler(taskType))
			group.POST("/batch-test", jobs.CreateBatchJobHandler(taskType))
			group.GET("/results/:test_case_id", jobmanagement.GetTestCaseResultsHandler(taskType))
		}

		api.POST("/rag/search-documents", testmanagement.SearchDocumentsHandler)
		api.POST("/rag/upload-documents/", testmanagement.UploadDocumentHandler)
		api.GET("/agent/tools", testmanagement.ListAgentToolsHandler)
		api.POST("/agent/interactive-test/", runs.InteractiveAgentTestHandler())

		jobRoutes := api.Group("/jobs")
		{
			jobRoutes.GET("", jobmanagement.ListJobsHandler)
			jobRoutes.GET("/:id", jobmanagement.GetJobHandler)
			jobRoutes.GET("/:id/results", jobmanagement.GetJobResultsHandler)
		}

		dashboardRoutes := api.Group("/dashboard")
		{
			dashboardRoutes.GET("/overview", dashboard.OverviewHandler)
			dashboardRoutes.GET("/model-performance", dashboard.ModelPerformanceHandler)
			dashboardRoutes.GET("/task-performance/:task_type", dashboard.TaskPerformanceHandler)
			dashboardRoutes.GET("/recent-tests", dashboard.RecentTestsHandler)
			dashboardRoutes.GET("/test-trends", dashboard.TestTrendsHandler)
			dashboardRoutes.GET("/error-analysis", dashboard.ErrorAnalysisHandler)
			dashboardRoutes.GET("/test-suites", dashboard.ListTestSuitesHandler)
			dashboardRoutes.POST("/test-suites", dashboard.CreateTestSuiteHandler)
			dashboardRoutes.POST("/export-results", dashboard.ExportResultsHandler)
		}
	}

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", auth.LoginHandler)
		authRoutes.POST("/logout", auth.LogoutHandler)
	}

	adminRoutes := router.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware())
	{
		modelRoutes := adminRoutes.Group("/models")
		{
			modelRoutes.POST("", configmanagement.CreateModelConfigHandler)
			modelRoutes.GET("", configmanagement.ListModelConfigsHandler)
			modelRoutes.GET("/:id", configmanagement.GetModelConfigHandler)
			modelRoutes.PUT("/:id", configmanagement.UpdateModelConfigHandler)
			modelRoutes.DELETE("/:id", configmanagement.DeleteModelConfigHandler)
		}
	}

	return router
}

// corsMiddleware allows the browser dashboard to call the API from a
// different origin during development.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
