package jobmanagement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"ai-task-test-platform/backend/internal/coreengine/evaluationengine"
	"ai-task-test-platform/backend/internal/coreengine/taskrunners"
	"ai-task-test-platform/backend/internal/datastore"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

// defaultRunTimeout bounds a single model call. Individual runs can
// override it via the timeout run option.
const defaultRunTimeout = 120 * time.Second

// RunService executes a single test case against a model and records the
// outcome as a test result row.
type RunService struct {
	Runner *taskrunners.Runner
}

func NewRunService(runner *taskrunners.Runner) *RunService {
	return &RunService{Runner: runner}
}

// RunTest executes one test case against one model. A test_results row is
// inserted in status "running" before execution, then completed or failed.
// jobID links the result to a batch job; pass an invalid NullInt64 for
// single runs. The returned result reflects the final row state; the error
// is non-nil only for failures before a result row exists.
func (s *RunService) RunTest(ctx context.Context, testCaseID int, modelName string, opts taskcatalog.RunOptions, jobID datastore.NullInt64) (*datastore.TestResult, error) {
	tc, err := datastore.GetTestCase(testCaseID)
	if err != nil {
		return nil, err
	}

	taskType := taskcatalog.TaskType(tc.TaskType)
	if _, ok := taskcatalog.Lookup(taskType); !ok {
		return nil, fmt.Errorf("test case %d has unsupported task type %q", testCaseID, tc.TaskType)
	}
	if len(tc.InputData) == 0 {
		return nil, fmt.Errorf("test case %d has no input data", testCaseID)
	}

	result := &datastore.TestResult{
		TestCaseID: tc.ID,
		JobID:      jobID,
		ModelName:  modelName,
		Status:     datastore.ResultStatusRunning,
	}
	resultID, err := datastore.CreateTestResult(result)
	if err != nil {
		return nil, fmt.Errorf("failed to record test run: %w", err)
	}

	timeout := defaultRunTimeout
	if opts.TimeoutSeconds != nil && *opts.TimeoutSeconds > 0 {
		timeout = time.Duration(*opts.TimeoutSeconds) * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	actualOutput, runErr := s.Runner.Run(runCtx, taskType, tc.InputData, modelName, opts)
	elapsed := time.Since(started).Seconds()

	if runErr != nil {
		if errors.Is(runErr, context.DeadlineExceeded) {
			runErr = fmt.Errorf("model call timed out after %s: %w", timeout, runErr)
		}
		return s.failRun(resultID, runErr, elapsed)
	}

	eval, evalErr := evaluationengine.Evaluate(taskType, actualOutput, tc.ExpectedOutput)
	if evalErr != nil {
		return s.failRun(resultID, fmt.Errorf("evaluation failed: %w", evalErr), elapsed)
	}

	metricsJSON, err := json.Marshal(eval.Metrics)
	if err != nil {
		return s.failRun(resultID, fmt.Errorf("failed to encode metrics: %w", err), elapsed)
	}

	if err := datastore.CompleteTestResult(resultID, actualOutput, eval.Score, metricsJSON, elapsed); err != nil {
		return nil, fmt.Errorf("failed to store test result %d: %w", resultID, err)
	}

	log.Printf("INFO: test case %d completed against %s (score %.4f, %.2fs)", tc.ID, modelName, eval.Score, elapsed)
	return datastore.GetTestResult(resultID)
}

func (s *RunService) failRun(resultID int, runErr error, elapsed float64) (*datastore.TestResult, error) {
	log.Printf("WARNING: test run %d failed: %v", resultID, runErr)
	if err := datastore.FailTestResult(resultID, runErr.Error(), elapsed); err != nil {
		return nil, fmt.Errorf("failed to mark test result %d as failed: %w", resultID, err)
	}
	return datastore.GetTestResult(resultID)
}
