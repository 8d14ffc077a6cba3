package taskrunners

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-task-test-platform/backend/internal/taskcatalog"
)

const correctionSystemPrompt = "You are a text correction assistant. " +
	"Correct the given text and respond with JSON of the form " +
	"{\"corrected_text\": \"...\", \"corrections\": [{\"original\": \"...\", \"corrected\": \"...\", \"type\": \"...\"}], \"confidence\": 0.0}."

func (r *Runner) runCorrection(ctx context.Context, input json.RawMessage, modelName string, opts taskcatalog.RunOptions) (json.RawMessage, error) {
	var in taskcatalog.CorrectionInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid correction input: %w", err)
	}

	adapter, err := r.adapterFor(modelName)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		return marshalOutput(mockCorrection(in))
	}

	correctionType := in.CorrectionType
	if correctionType == "" {
		correctionType = "grammar"
	}
	prompt := fmt.Sprintf("Correction type: %s\n\nText to correct:\n%s", correctionType, in.Text)
	content, err := r.complete(ctx, adapter, modelName, correctionSystemPrompt, prompt, opts)
	if err != nil {
		return nil, err
	}
	return marshalOutput(parseCorrection(content, in.Text))
}

func parseCorrection(content, original string) taskcatalog.CorrectionOutput {
	var out taskcatalog.CorrectionOutput
	if extractJSON(content, &out) && out.CorrectedText != "" {
		if out.Confidence == 0 {
			out.Confidence = 0.8
		}
		return out
	}
	// Plain-text reply: treat the whole response as the corrected text.
	return taskcatalog.CorrectionOutput{
		CorrectedText: content,
		Corrections: []taskcatalog.Correction{
			{Original: original, Corrected: content, Type: "full_rewrite"},
		},
		Confidence: 0.5,
	}
}

func mockCorrection(in taskcatalog.CorrectionInput) taskcatalog.CorrectionOutput {
	// The fallback leaves the text unchanged and reports it as clean.
	confidence := 0.7 + 0.25*seedFraction(in.Text)
	return taskcatalog.CorrectionOutput{
		CorrectedText: in.Text,
		Corrections:   []taskcatalog.Correction{},
		Confidence:    confidence,
	}
}
