package testmanagement

import (
	"net/http"

	"ai-task-test-platform/backend/internal/coreengine/taskrunners"
	"ai-task-test-platform/backend/internal/objectstore"

	"github.com/gin-gonic/gin"
)

// SearchDocumentsRequest is the JSON payload for the ad-hoc retrieval
// preview endpoint.
type SearchDocumentsRequest struct {
	Query     string   `json:"query" binding:"required"`
	Documents []string `json:"documents" binding:"required,min=1"`
	TopK      int      `json:"top_k"`
}

// SearchDocumentsHandler scores the supplied documents against the query
// and returns the top matches, without creating a test case.
func SearchDocumentsHandler(c *gin.Context) {
	var req SearchDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload: " + err.Error()})
		return
	}

	retrieved := taskrunners.RetrieveDocuments(req.Query, req.Documents, req.TopK)
	c.JSON(http.StatusOK, gin.H{
		"query":               req.Query,
		"retrieved_documents": retrieved,
	})
}

// UploadDocumentHandler stores an uploaded knowledge-base document in the
// object store and returns its object key.
func UploadDocumentHandler(c *gin.Context) {
	mc, err := objectstore.GetGlobalMinioClient()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Object storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "A file upload named \"file\" is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to open uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName, err := mc.UploadFile(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to store document: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object_key": objectName,
		"filename":   fileHeader.Filename,
		"size":       fileHeader.Size,
	})
}
