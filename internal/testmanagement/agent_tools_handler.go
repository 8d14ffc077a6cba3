package testmanagement

import (
	"net/http"

	"ai-task-test-platform/backend/internal/coreengine/agenttools"

	"github.com/gin-gonic/gin"
)

// ListAgentToolsHandler returns the tools available to agent test runs.
func ListAgentToolsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tools":        agenttools.Names(),
		"descriptions": agenttools.Descriptions(),
	})
}
