package apigateway

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ai-task-test-platform/backend/internal/coreengine/taskrunners"
	"ai-task-test-platform/backend/internal/jobmanagement"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func routeSet(router *gin.Engine) map[string]bool {
	routes := map[string]bool{}
	for _, route := range router.Routes() {
		routes[route.Method+" "+route.Path] = true
	}
	return routes
}

func TestRouterRegistersExpectedRoutes(t *testing.T) {
	runs := jobmanagement.NewRunService(taskrunners.NewRunner(nil))
	jobs := jobmanagement.NewJobService(runs)
	routes := routeSet(SetupRouter(runs, jobs))

	for _, want := range []string{
		http.MethodGet + " /health",
		http.MethodPost + " /api/classification/test-cases/",
		http.MethodPost + " /api/agent/test-cases/:id/run",
		http.MethodPost + " /api/dialogue/run-test/",
		http.MethodPost + " /api/rag/upload-documents/",
		http.MethodPost + " /api/rag/search-documents",
		http.MethodGet + " /api/agent/tools",
		http.MethodPost + " /api/agent/interactive-test/",
		http.MethodGet + " /api/dashboard/overview",
		http.MethodPost + " /api/dashboard/export-results",
		http.MethodPost + " /api/dashboard/test-suites",
		http.MethodPost + " /auth/login",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	assert.False(t, routes[http.MethodGet+" /api/dashboard/export-results"])
	assert.False(t, routes[http.MethodPost+" /api/rag/upload-document"])
}
