package apiclient

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, BadgeSuccess, StatusBadge("completed"))
	assert.Equal(t, BadgeDanger, StatusBadge("failed"))
	assert.Equal(t, BadgeWarning, StatusBadge("running"))
	assert.Equal(t, BadgeNeutral, StatusBadge("pending"))
	assert.Equal(t, BadgeNeutral, StatusBadge(""))
	assert.Equal(t, BadgeNeutral, StatusBadge("something-new"))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "N/A", FormatScore(nil))
	assert.Equal(t, "0.8500", FormatScore(floatPtr(0.85)))
	assert.Equal(t, "0.0000", FormatScore(floatPtr(0)))
}

func TestFormatExecutionTime(t *testing.T) {
	assert.Equal(t, "N/A", FormatExecutionTime(nil))
	assert.Equal(t, "1.25s", FormatExecutionTime(floatPtr(1.25)))
}

func TestRenderResultRunningHasNoScore(t *testing.T) {
	var buf bytes.Buffer
	RenderResult(&buf, &TestResult{ID: 9, ModelName: "gpt-4", Status: "running"})

	out := buf.String()
	assert.Contains(t, out, "status=running [warning]")
	assert.Contains(t, out, "score:          N/A")
	assert.Contains(t, out, "execution time: N/A")
}

func TestRenderResultFailedShowsError(t *testing.T) {
	var buf bytes.Buffer
	RenderResult(&buf, &TestResult{
		ID:           3,
		ModelName:    "claude-3-opus",
		Status:       "failed",
		ErrorMessage: stringPtr("model call timed out after 2m0s"),
	})

	out := buf.String()
	assert.Contains(t, out, "[danger]")
	assert.Contains(t, out, "model call timed out")
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.2))
	assert.Equal(t, 0.5, clamp01(0.5))
	assert.Equal(t, 1.0, clamp01(1.7))
}

func floatPtr(f float64) *float64 { return &f }

func stringPtr(s string) *string { return &s }
