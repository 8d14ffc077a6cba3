package evaluationengine

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"ai-task-test-platform/backend/internal/coreengine/metricscalculator"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

// Evaluation holds a run's primary score plus the per-task metric
// breakdown stored alongside the test result.
type Evaluation struct {
	Score   float64
	Metrics map[string]interface{}
}

// Evaluate compares the actual output of a run against the test case's
// expected output and computes the task-specific score and metrics.
func Evaluate(taskType taskcatalog.TaskType, actual, expected json.RawMessage) (*Evaluation, error) {
	switch taskType {
	case taskcatalog.TaskClassification:
		return evaluateClassification(actual, expected)
	case taskcatalog.TaskCorrection:
		return evaluateCorrection(actual, expected)
	case taskcatalog.TaskDialogue:
		return evaluateDialogue(actual, expected)
	case taskcatalog.TaskRAG:
		return evaluateRAG(actual, expected)
	case taskcatalog.TaskAgent:
		return evaluateAgent(actual, expected)
	default:
		return nil, fmt.Errorf("unsupported task type: %s", taskType)
	}
}

func evaluateClassification(actualRaw, expectedRaw json.RawMessage) (*Evaluation, error) {
	var actual, expected taskcatalog.ClassificationOutput
	if err := decodePair(actualRaw, expectedRaw, &actual, &expected); err != nil {
		return nil, err
	}

	accuracy := 0.0
	if strings.EqualFold(strings.TrimSpace(actual.PredictedLabel), strings.TrimSpace(expected.PredictedLabel)) {
		accuracy = 1.0
	}

	metrics := map[string]interface{}{
		"accuracy":        accuracy,
		"predicted_label": actual.PredictedLabel,
		"expected_label":  expected.PredictedLabel,
	}
	if expected.Confidence > 0 {
		metrics["confidence_diff"] = math.Abs(actual.Confidence - expected.Confidence)
	}
	return &Evaluation{Score: accuracy, Metrics: metrics}, nil
}

func evaluateCorrection(actualRaw, expectedRaw json.RawMessage) (*Evaluation, error) {
	var actual, expected taskcatalog.CorrectionOutput
	if err := decodePair(actualRaw, expectedRaw, &actual, &expected); err != nil {
		return nil, err
	}

	similarity := metricscalculator.SimilarityRatio(actual.CorrectedText, expected.CorrectedText)
	metrics := map[string]interface{}{
		"similarity_score":      similarity,
		"correction_count_diff": absInt(len(actual.Corrections) - len(expected.Corrections)),
	}
	return &Evaluation{Score: similarity, Metrics: metrics}, nil
}

func evaluateDialogue(actualRaw, expectedRaw json.RawMessage) (*Evaluation, error) {
	var actual, expected taskcatalog.DialogueOutput
	if err := decodePair(actualRaw, expectedRaw, &actual, &expected); err != nil {
		return nil, err
	}

	relevance := metricscalculator.SimilarityRatio(actual.Response, expected.Response)
	lengthDiff := absInt(len(actual.Response) - len(expected.Response))
	lengthRatio := 1.0
	if len(expected.Response) > 0 {
		lengthRatio = float64(len(actual.Response)) / float64(len(expected.Response))
	}
	contextConsistency := 0.0
	if actual.ContextUsed == expected.ContextUsed {
		contextConsistency = 1.0
	}

	return &Evaluation{
		Score: relevance,
		Metrics: map[string]interface{}{
			"relevance_score":     relevance,
			"length_diff":         lengthDiff,
			"length_ratio":        lengthRatio,
			"context_consistency": contextConsistency,
		},
	}, nil
}

func evaluateRAG(actualRaw, expectedRaw json.RawMessage) (*Evaluation, error) {
	var actual, expected taskcatalog.RAGOutput
	if err := decodePair(actualRaw, expectedRaw, &actual, &expected); err != nil {
		return nil, err
	}

	answerQuality := metricscalculator.SimilarityRatio(actual.Answer, expected.Answer)
	retrievalQuality := 0.0
	if len(actual.RetrievedDocuments) > 0 {
		for _, doc := range actual.RetrievedDocuments {
			retrievalQuality += doc.Score
		}
		retrievalQuality /= float64(len(actual.RetrievedDocuments))
	}

	return &Evaluation{
		Score: answerQuality,
		Metrics: map[string]interface{}{
			"answer_quality":       answerQuality,
			"retrieval_quality":    retrievalQuality,
			"retrieved_count_diff": absInt(len(actual.RetrievedDocuments) - len(expected.RetrievedDocuments)),
		},
	}, nil
}

func evaluateAgent(actualRaw, expectedRaw json.RawMessage) (*Evaluation, error) {
	var actual, expected taskcatalog.AgentOutput
	if err := decodePair(actualRaw, expectedRaw, &actual, &expected); err != nil {
		return nil, err
	}

	completion := metricscalculator.SimilarityRatio(actual.Result, expected.Result)
	toolUsage := 1.0
	if len(expected.ActionsTaken) > 0 {
		toolUsage = metricscalculator.SetOverlap(toolNames(actual.ActionsTaken), toolNames(expected.ActionsTaken))
	}

	return &Evaluation{
		Score: completion,
		Metrics: map[string]interface{}{
			"task_completion_score": completion,
			"tool_usage_score":      toolUsage,
			"action_count_diff":     absInt(len(actual.ActionsTaken) - len(expected.ActionsTaken)),
		},
	}, nil
}

func toolNames(actions []taskcatalog.AgentAction) []string {
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.Tool)
	}
	return names
}

func decodePair(actualRaw, expectedRaw json.RawMessage, actual, expected interface{}) error {
	if err := json.Unmarshal(actualRaw, actual); err != nil {
		return fmt.Errorf("failed to decode actual output: %w", err)
	}
	if err := json.Unmarshal(expectedRaw, expected); err != nil {
		return fmt.Errorf("failed to decode expected output: %w", err)
	}
	return nil
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
