package taskrunners

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-task-test-platform/backend/internal/taskcatalog"
)

const classificationSystemPrompt = "You are a text classification assistant. " +
	"Classify the given text into one of the provided labels and respond with JSON " +
	"of the form {\"predicted_label\": \"...\", \"confidence\": 0.0}."

func (r *Runner) runClassification(ctx context.Context, input json.RawMessage, modelName string, opts taskcatalog.RunOptions) (json.RawMessage, error) {
	var in taskcatalog.ClassificationInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid classification input: %w", err)
	}

	adapter, err := r.adapterFor(modelName)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		return marshalOutput(mockClassification(in))
	}

	prompt := fmt.Sprintf("Text: %s\n\nAvailable labels: %s\n\nClassify the text.",
		in.Text, strings.Join(in.Labels, ", "))
	content, err := r.complete(ctx, adapter, modelName, classificationSystemPrompt, prompt, opts)
	if err != nil {
		return nil, err
	}
	return marshalOutput(parseClassification(content, in.Labels))
}

func parseClassification(content string, labels []string) taskcatalog.ClassificationOutput {
	var out taskcatalog.ClassificationOutput
	if extractJSON(content, &out) && out.PredictedLabel != "" {
		if out.Confidence == 0 {
			out.Confidence = 0.8
		}
		return out
	}

	// Fall back to scanning the response for a known label.
	lower := strings.ToLower(content)
	for _, label := range labels {
		if strings.Contains(lower, strings.ToLower(label)) {
			return taskcatalog.ClassificationOutput{PredictedLabel: label, Confidence: 0.6}
		}
	}
	return taskcatalog.ClassificationOutput{PredictedLabel: strings.TrimSpace(content), Confidence: 0.3}
}

func mockClassification(in taskcatalog.ClassificationInput) taskcatalog.ClassificationOutput {
	labels := in.Labels
	if len(labels) == 0 {
		labels = []string{"positive", "negative", "neutral"}
	}
	idx := seedIndex(in.Text, len(labels))
	confidence := 0.6 + 0.35*seedFraction(in.Text+labels[idx])

	probs := make(map[string]float64, len(labels))
	probs[labels[idx]] = confidence
	if len(labels) > 1 {
		remaining := (1.0 - confidence) / float64(len(labels)-1)
		for i, label := range labels {
			if i != idx {
				probs[label] = remaining
			}
		}
	}

	return taskcatalog.ClassificationOutput{
		PredictedLabel: labels[idx],
		Confidence:     confidence,
		Probabilities:  probs,
	}
}
