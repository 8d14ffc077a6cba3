package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ai-task-test-platform/backend/internal/taskcatalog"
)

// CreateTestCase maps raw form fields into the task's structured payloads
// and creates the test case. Mapping failures abort locally: no request
// is sent.
func (c *Client) CreateTestCase(ctx context.Context, taskType taskcatalog.TaskType, name, description string, raw map[string]string) (*TestCase, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: a test case name is required", taskcatalog.ErrValidation)
	}
	spec, ok := taskcatalog.Lookup(taskType)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported task type %q", taskcatalog.ErrValidation, taskType)
	}

	inputData, err := spec.MapInput(raw)
	if err != nil {
		return nil, err
	}
	expectedOutput, err := spec.MapExpected(raw)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"name":            name,
		"task_type":       string(taskType),
		"description":     description,
		"input_data":      inputData,
		"expected_output": expectedOutput,
	}

	var created TestCase
	path := fmt.Sprintf("/api/%s/test-cases/", taskType)
	if err := c.Do(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListTestCases fetches the stored test cases for one task type.
func (c *Client) ListTestCases(ctx context.Context, taskType taskcatalog.TaskType) ([]TestCase, error) {
	var cases []TestCase
	path := fmt.Sprintf("/api/%s/test-cases/", taskType)
	if err := c.Do(ctx, http.MethodGet, path, nil, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// RunTest runs a stored test case against a model. Both the test case
// selection and the model name are validated before any request is sent.
func (c *Client) RunTest(ctx context.Context, taskType taskcatalog.TaskType, testCaseID int, modelName string, opts *taskcatalog.RunOptions) (*TestResult, error) {
	if testCaseID <= 0 {
		return nil, fmt.Errorf("%w: select a test case before running", taskcatalog.ErrValidation)
	}
	if modelName == "" {
		return nil, fmt.Errorf("%w: a model name is required", taskcatalog.ErrValidation)
	}

	body := map[string]interface{}{"model_name": modelName}
	if opts != nil {
		body["options"] = opts
	}

	var result TestResult
	path := fmt.Sprintf("/api/%s/test-cases/%d/run", taskType, testCaseID)
	if err := c.Do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RunTestForm runs a stored test case through the form-urlencoded run
// endpoint. Tuning values beyond the required fields go through as-is;
// the server ignores the ones it cannot parse.
func (c *Client) RunTestForm(ctx context.Context, taskType taskcatalog.TaskType, testCaseID int, modelName string, tuning map[string]string) (*TestResult, error) {
	if testCaseID <= 0 {
		return nil, fmt.Errorf("%w: select a test case before running", taskcatalog.ErrValidation)
	}
	if modelName == "" {
		return nil, fmt.Errorf("%w: a model name is required", taskcatalog.ErrValidation)
	}

	form := url.Values{}
	form.Set("test_case_id", strconv.Itoa(testCaseID))
	form.Set("model_name", modelName)
	for key, value := range tuning {
		if value != "" {
			form.Set(key, value)
		}
	}

	var result TestResult
	path := fmt.Sprintf("/api/%s/run-test/", taskType)
	if err := c.DoForm(ctx, path, form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExecuteRun runs a test case and then refreshes the dashboard overview,
// returning both. The refresh happens only after a successful run.
func (c *Client) ExecuteRun(ctx context.Context, taskType taskcatalog.TaskType, testCaseID int, modelName string, opts *taskcatalog.RunOptions) (*TestResult, *Overview, error) {
	result, err := c.RunTest(ctx, taskType, testCaseID, modelName, opts)
	if err != nil {
		return nil, nil, err
	}

	overview, err := c.GetOverview(ctx)
	if err != nil {
		// The run itself succeeded; surface the stale-dashboard condition
		// without discarding the result.
		return result, nil, fmt.Errorf("run succeeded but dashboard refresh failed: %w", err)
	}
	return result, overview, nil
}

// GetTestCaseResults lists the recorded results for one test case.
func (c *Client) GetTestCaseResults(ctx context.Context, taskType taskcatalog.TaskType, testCaseID int) ([]TestResult, error) {
	var results []TestResult
	path := fmt.Sprintf("/api/%s/results/%d", taskType, testCaseID)
	if err := c.Do(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}
