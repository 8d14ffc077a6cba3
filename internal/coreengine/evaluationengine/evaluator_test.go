package evaluationengine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-task-test-platform/backend/internal/taskcatalog"
)

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestEvaluateClassificationExactMatch(t *testing.T) {
	actual := mustJSON(t, taskcatalog.ClassificationOutput{PredictedLabel: "positive", Confidence: 0.8})
	expected := mustJSON(t, taskcatalog.ClassificationOutput{PredictedLabel: "positive", Confidence: 0.9})

	eval, err := Evaluate(taskcatalog.TaskClassification, actual, expected)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eval.Score)
	assert.Equal(t, 1.0, eval.Metrics["accuracy"])
	assert.InDelta(t, 0.1, eval.Metrics["confidence_diff"].(float64), 1e-9)
}

func TestEvaluateClassificationMismatchAndCaseFolding(t *testing.T) {
	actual := mustJSON(t, taskcatalog.ClassificationOutput{PredictedLabel: "Positive"})
	expected := mustJSON(t, taskcatalog.ClassificationOutput{PredictedLabel: "positive"})

	eval, err := Evaluate(taskcatalog.TaskClassification, actual, expected)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eval.Score)

	actual = mustJSON(t, taskcatalog.ClassificationOutput{PredictedLabel: "negative"})
	eval, err = Evaluate(taskcatalog.TaskClassification, actual, expected)
	require.NoError(t, err)
	assert.Equal(t, 0.0, eval.Score)
}

func TestEvaluateCorrection(t *testing.T) {
	actual := mustJSON(t, taskcatalog.CorrectionOutput{
		CorrectedText: "I went to the store yesterday.",
		Corrections:   []taskcatalog.Correction{{Original: "have went", Corrected: "went"}},
	})
	expected := mustJSON(t, taskcatalog.CorrectionOutput{
		CorrectedText: "I went to the store yesterday.",
		Corrections:   []taskcatalog.Correction{{Original: "have went", Corrected: "went"}},
	})

	eval, err := Evaluate(taskcatalog.TaskCorrection, actual, expected)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eval.Score)
	assert.Equal(t, 1.0, eval.Metrics["similarity_score"])
	assert.Equal(t, 0, eval.Metrics["correction_count_diff"])
}

func TestEvaluateDialogue(t *testing.T) {
	actual := mustJSON(t, taskcatalog.DialogueOutput{Response: "Hello there!", ContextUsed: true})
	expected := mustJSON(t, taskcatalog.DialogueOutput{Response: "Hello there!", ContextUsed: false})

	eval, err := Evaluate(taskcatalog.TaskDialogue, actual, expected)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eval.Score)
	assert.Equal(t, 1.0, eval.Metrics["relevance_score"])
	assert.Equal(t, 0, eval.Metrics["length_diff"])
	assert.Equal(t, 1.0, eval.Metrics["length_ratio"])
	assert.Equal(t, 0.0, eval.Metrics["context_consistency"])
}

func TestEvaluateRAG(t *testing.T) {
	actual := mustJSON(t, taskcatalog.RAGOutput{
		Answer: "Machine learning is a branch of AI.",
		RetrievedDocuments: []taskcatalog.RetrievedDocument{
			{Content: "doc a", Score: 0.8, Index: 0},
			{Content: "doc b", Score: 0.4, Index: 2},
		},
	})
	expected := mustJSON(t, taskcatalog.RAGOutput{
		Answer:             "Machine learning is a branch of AI.",
		RetrievedDocuments: []taskcatalog.RetrievedDocument{{Content: "doc a"}},
	})

	eval, err := Evaluate(taskcatalog.TaskRAG, actual, expected)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eval.Score)
	assert.InDelta(t, 0.6, eval.Metrics["retrieval_quality"].(float64), 1e-9)
	assert.Equal(t, 1, eval.Metrics["retrieved_count_diff"])
}

func TestEvaluateAgent(t *testing.T) {
	actual := mustJSON(t, taskcatalog.AgentOutput{
		Result: "The result is 120.",
		ActionsTaken: []taskcatalog.AgentAction{
			{Tool: "calculator", Status: "success"},
			{Tool: "web_search", Status: "success"},
		},
	})
	expected := mustJSON(t, taskcatalog.AgentOutput{
		Result:       "The result is 120.",
		ActionsTaken: []taskcatalog.AgentAction{{Tool: "calculator"}},
	})

	eval, err := Evaluate(taskcatalog.TaskAgent, actual, expected)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eval.Score)
	assert.Equal(t, 1.0, eval.Metrics["tool_usage_score"])
	assert.Equal(t, 1, eval.Metrics["action_count_diff"])
}

func TestEvaluateAgentNoExpectedActions(t *testing.T) {
	actual := mustJSON(t, taskcatalog.AgentOutput{Result: "done"})
	expected := mustJSON(t, taskcatalog.AgentOutput{Result: "done"})

	eval, err := Evaluate(taskcatalog.TaskAgent, actual, expected)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eval.Metrics["tool_usage_score"])
}

func TestEvaluateUnsupportedTaskType(t *testing.T) {
	_, err := Evaluate(taskcatalog.TaskType("summarization"), mustJSON(t, map[string]string{}), mustJSON(t, map[string]string{}))
	assert.Error(t, err)
}

func TestEvaluateMalformedOutput(t *testing.T) {
	_, err := Evaluate(taskcatalog.TaskClassification, json.RawMessage(`{broken`), mustJSON(t, taskcatalog.ClassificationOutput{}))
	assert.Error(t, err)
}
