package taskrunners

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-task-test-platform/backend/internal/coreengine/modeladapters"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

// Runner executes a test-case input against a model and produces the
// actual output document for that task type.
type Runner struct {
	Registry *modeladapters.Registry
}

func NewRunner(registry *modeladapters.Registry) *Runner {
	return &Runner{Registry: registry}
}

// Run dispatches on task type, unmarshals the stored input document,
// runs the model (or the deterministic built-in fallback when the model
// name names no configured provider) and returns the actual output as a
// JSON document shaped like the task's output struct.
func (r *Runner) Run(ctx context.Context, taskType taskcatalog.TaskType, input json.RawMessage, modelName string, opts taskcatalog.RunOptions) (json.RawMessage, error) {
	switch taskType {
	case taskcatalog.TaskClassification:
		return r.runClassification(ctx, input, modelName, opts)
	case taskcatalog.TaskCorrection:
		return r.runCorrection(ctx, input, modelName, opts)
	case taskcatalog.TaskDialogue:
		return r.runDialogue(ctx, input, modelName, opts)
	case taskcatalog.TaskRAG:
		return r.runRAG(ctx, input, modelName, opts)
	case taskcatalog.TaskAgent:
		return r.runAgent(ctx, input, modelName, opts)
	default:
		return nil, fmt.Errorf("unsupported task type: %s", taskType)
	}
}

// adapterFor resolves the adapter for a model name. A nil adapter with a
// nil error means the built-in fallback should handle the run.
func (r *Runner) adapterFor(modelName string) (modeladapters.ChatAdapter, error) {
	if r.Registry == nil {
		return nil, nil
	}
	return r.Registry.ForModel(modelName)
}

func (r *Runner) complete(ctx context.Context, adapter modeladapters.ChatAdapter, modelName, system, prompt string, opts taskcatalog.RunOptions) (string, error) {
	req := modeladapters.ChatRequest{
		Model:  modelName,
		System: system,
		Prompt: prompt,
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	} else {
		req.Temperature = 0.7
	}
	if opts.MaxTokens != nil {
		req.MaxTokens = *opts.MaxTokens
	}
	resp, err := adapter.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("model call failed for %s: %w", modelName, err)
	}
	return resp.Content, nil
}

func marshalOutput(v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode task output: %w", err)
	}
	return data, nil
}
