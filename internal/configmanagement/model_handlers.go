package configmanagement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ai-task-test-platform/backend/internal/datastore"

	"github.com/gin-gonic/gin"
)

var validModelTypes = map[string]bool{
	"openai":      true,
	"anthropic":   true,
	"huggingface": true,
	"local":       true,
}

// CreateModelConfigHandler registers a new model configuration.
func CreateModelConfigHandler(c *gin.Context) {
	var mc datastore.ModelConfig
	if err := c.ShouldBindJSON(&mc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload: " + err.Error()})
		return
	}

	if mc.Name == "" || mc.ModelType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name and model_type are required fields"})
		return
	}
	if !validModelTypes[mc.ModelType] {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "model_type must be one of: openai, anthropic, huggingface, local"})
		return
	}

	if len(mc.Config) > 0 {
		if !json.Valid(mc.Config) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "config is not valid JSON"})
			return
		}
	} else {
		mc.Config = json.RawMessage("null")
	}

	id, err := datastore.CreateModelConfig(&mc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create model config: " + err.Error()})
		return
	}

	mc.ID = id
	c.JSON(http.StatusCreated, mc)
}

// GetModelConfigHandler retrieves one model configuration by ID.
func GetModelConfigHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid model config ID format"})
		return
	}

	mc, err := datastore.GetModelConfig(id)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve model config: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, mc)
}

// ListModelConfigsHandler lists model configurations, optionally filtered
// by model_type.
func ListModelConfigsHandler(c *gin.Context) {
	modelType := c.Query("model_type")
	if modelType != "" && !validModelTypes[modelType] {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown model_type: " + modelType})
		return
	}

	configs, err := datastore.ListModelConfigs(modelType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list model configs: " + err.Error()})
		return
	}
	if configs == nil {
		configs = []*datastore.ModelConfig{}
	}
	c.JSON(http.StatusOK, configs)
}

// UpdateModelConfigHandler applies a partial update to a model config.
func UpdateModelConfigHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid model config ID format"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload: " + err.Error()})
		return
	}
	if len(updateData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No updatable fields provided"})
		return
	}
	if mt, ok := updateData["model_type"].(string); ok && !validModelTypes[mt] {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "model_type must be one of: openai, anthropic, huggingface, local"})
		return
	}

	mc, err := datastore.UpdateModelConfig(id, updateData)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update model config: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, mc)
}

// DeleteModelConfigHandler deletes a model configuration.
func DeleteModelConfigHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid model config ID format"})
		return
	}

	if err := datastore.DeleteModelConfig(id); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete model config: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Model config deleted"})
}
