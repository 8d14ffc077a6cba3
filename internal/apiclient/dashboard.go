package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// GetOverview fetches the dashboard's headline numbers.
func (c *Client) GetOverview(ctx context.Context) (*Overview, error) {
	var overview Overview
	if err := c.Do(ctx, http.MethodGet, "/api/dashboard/overview", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// GetModelPerformance fetches the per-model statistics table.
func (c *Client) GetModelPerformance(ctx context.Context, taskType string, limit int) ([]ModelPerformance, error) {
	path := fmt.Sprintf("/api/dashboard/model-performance?limit=%d", limit)
	if taskType != "" {
		path += "&task_type=" + taskType
	}
	var envelope struct {
		ModelPerformance []ModelPerformance `json:"model_performance"`
	}
	if err := c.Do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.ModelPerformance, nil
}

// GetRecentTests fetches the newest runs for the recent-tests table.
func (c *Client) GetRecentTests(ctx context.Context, taskType string, limit int) ([]RecentTest, error) {
	path := fmt.Sprintf("/api/dashboard/recent-tests?limit=%d", limit)
	if taskType != "" {
		path += "&task_type=" + taskType
	}
	var envelope struct {
		RecentTests []RecentTest `json:"recent_tests"`
	}
	if err := c.Do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.RecentTests, nil
}
