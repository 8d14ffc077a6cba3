package agenttools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoversAllNames(t *testing.T) {
	for _, name := range Names() {
		tool, ok := Get(name)
		require.True(t, ok, "tool %s not registered", name)
		assert.Equal(t, name, tool.Name())
		assert.NotEmpty(t, tool.Description())
	}

	_, ok := Get("nonexistent")
	assert.False(t, ok)
}

func TestDescriptions(t *testing.T) {
	descriptions := Descriptions()
	assert.Len(t, descriptions, len(Names()))
	assert.Contains(t, descriptions, "calculator")
}

func TestCalculator(t *testing.T) {
	tool, _ := Get("calculator")

	tests := []struct {
		expression string
		want       string
	}{
		{"2 + 2", "2 + 2 = 4"},
		{"(25 + 15) * 3", "(25 + 15) * 3 = 120"},
		{"10 / 4", "10 / 4 = 2.5"},
		{"-3 + 5", "-3 + 5 = 2"},
		{"2 * (3 + 4) - 1", "2 * (3 + 4) - 1 = 13"},
	}
	for _, tt := range tests {
		result, err := tool.Execute(map[string]string{"expression": tt.expression})
		require.NoError(t, err, tt.expression)
		assert.Equal(t, tt.want, result)
	}
}

func TestCalculatorRejectsBadInput(t *testing.T) {
	tool, _ := Get("calculator")

	for _, expr := range []string{"", "2 + x", "os.exit(1)", "1 / 0", "2 +", "(1 + 2"} {
		_, err := tool.Execute(map[string]string{"expression": expr})
		assert.Error(t, err, "expression %q should be rejected", expr)
	}
}

func TestTextAnalyzer(t *testing.T) {
	tool, _ := Get("text_analyzer")

	result, err := tool.Execute(map[string]string{"text": "Hello world. This is a test."})
	require.NoError(t, err)
	assert.Contains(t, result, "6 words")
	assert.Contains(t, result, "2 sentences")

	_, err = tool.Execute(map[string]string{"text": "   "})
	assert.Error(t, err)
}

func TestSimulatedTools(t *testing.T) {
	search, _ := Get("web_search")
	result, err := search.Execute(map[string]string{"query": "golang"})
	require.NoError(t, err)
	assert.Contains(t, result, "golang")
	_, err = search.Execute(map[string]string{})
	assert.Error(t, err)

	reader, _ := Get("file_reader")
	result, err = reader.Execute(map[string]string{"path": "notes.txt"})
	require.NoError(t, err)
	assert.Contains(t, result, "notes.txt")

	caller, _ := Get("api_caller")
	result, err = caller.Execute(map[string]string{"endpoint": "https://example.com/api"})
	require.NoError(t, err)
	assert.Contains(t, result, "https://example.com/api")
}
