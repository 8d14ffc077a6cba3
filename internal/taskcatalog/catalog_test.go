package taskcatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitComma(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitComma("a, b, c"))
	assert.Equal(t, []string{"a", "b"}, SplitComma("a,,b,"))
	assert.Equal(t, []string{"single"}, SplitComma("single"))

	// Empty input yields an empty slice, never [""].
	assert.Equal(t, []string{}, SplitComma(""))
	assert.Equal(t, []string{}, SplitComma("   "))
	assert.Equal(t, []string{}, SplitComma(",,,"))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"doc1", "doc2"}, SplitLines("doc1\n\ndoc2\n"))
	assert.Equal(t, []string{"doc1", "doc2"}, SplitLines("doc1\r\ndoc2"))
	assert.Equal(t, []string{"doc"}, SplitLines("  doc  "))
	assert.Equal(t, []string{}, SplitLines("\n\n\n"))
}

func TestLookupCoversAllTaskTypes(t *testing.T) {
	for _, taskType := range All() {
		spec, ok := Lookup(taskType)
		require.True(t, ok, "no field spec for %s", taskType)
		assert.Equal(t, taskType, spec.Type)
		assert.NotEmpty(t, spec.InputFields)
		assert.NotEmpty(t, spec.ExpectedFields)
	}
}

func TestMapInputClassification(t *testing.T) {
	spec, _ := Lookup(TaskClassification)

	payload, err := spec.MapInput(map[string]string{
		"text":   "Great product",
		"labels": "positive, negative, neutral",
	})
	require.NoError(t, err)
	assert.Equal(t, "Great product", payload["text"])
	assert.Equal(t, []string{"positive", "negative", "neutral"}, payload["labels"])
}

func TestMapInputMissingRequiredField(t *testing.T) {
	spec, _ := Lookup(TaskClassification)

	_, err := spec.MapInput(map[string]string{"labels": "a, b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMapInputEmptyOptionalFieldOmitted(t *testing.T) {
	spec, _ := Lookup(TaskClassification)

	payload, err := spec.MapInput(map[string]string{"text": "hello", "labels": ""})
	require.NoError(t, err)
	_, present := payload["labels"]
	assert.False(t, present, "empty labels must be omitted, not mapped to [\"\"]")
}

func TestMapInputDialogueHistoryJSON(t *testing.T) {
	spec, _ := Lookup(TaskDialogue)

	payload, err := spec.MapInput(map[string]string{
		"user_input":           "hi",
		"conversation_history": `[{"role": "user", "content": "earlier"}]`,
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", payload["message"])
	assert.NotNil(t, payload["context"])
}

func TestMapInputMalformedJSONAborts(t *testing.T) {
	spec, _ := Lookup(TaskDialogue)

	_, err := spec.MapInput(map[string]string{
		"user_input":           "hi",
		"conversation_history": `[{"role": "user"`,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMapInputRAGKnowledgeBase(t *testing.T) {
	spec, _ := Lookup(TaskRAG)

	payload, err := spec.MapInput(map[string]string{
		"query":          "what is go",
		"knowledge_base": "doc1\n\ndoc2\n",
		"top_k":          "5",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc1", "doc2"}, payload["documents"])
	assert.Equal(t, 5, payload["top_k"])
}

func TestMapInputAgentBadToolListJSON(t *testing.T) {
	spec, _ := Lookup(TaskAgent)

	_, err := spec.MapInput(map[string]string{
		"task_goal":       "do something",
		"available_tools": `["calculator"`,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMapExpectedAgentToolList(t *testing.T) {
	spec, _ := Lookup(TaskAgent)

	payload, err := spec.MapExpected(map[string]string{
		"result":     "done",
		"tools_used": "calculator, web_search",
	})
	require.NoError(t, err)

	actions, ok := payload["actions_taken"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, actions, 2)
	assert.Equal(t, "calculator", actions[0]["tool"])
	assert.Equal(t, "web_search", actions[1]["tool"])
}

func TestMapExpectedNumericCoercion(t *testing.T) {
	spec, _ := Lookup(TaskClassification)

	payload, err := spec.MapExpected(map[string]string{
		"predicted_label": "positive",
		"confidence":      "0.9",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.9, payload["confidence"])

	_, err = spec.MapExpected(map[string]string{
		"predicted_label": "positive",
		"confidence":      "not-a-number",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("classification"))
	assert.True(t, Valid("agent"))
	assert.False(t, Valid("summarization"))
	assert.False(t, Valid(""))
}
