package taskcatalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrValidation marks a local field-mapping failure. Submissions that hit it
// must be aborted before any network call is made.
var ErrValidation = errors.New("validation failed")

// FieldKind selects how a raw form value is coerced into its payload field.
type FieldKind int

const (
	// KindText passes the trimmed string through unchanged.
	KindText FieldKind = iota
	// KindCommaList splits on commas, trims each entry, drops empties.
	KindCommaList
	// KindLineList splits on newlines, trims each line, drops blank lines.
	KindLineList
	// KindJSONValue parses the value as a JSON document; malformed input is
	// a validation failure.
	KindJSONValue
	// KindInt parses a base-10 integer.
	KindInt
	// KindFloat parses a floating-point number.
	KindFloat
	// KindBool parses a boolean ("true"/"false"/"1"/"0").
	KindBool
	// KindToolList maps a comma-separated tool list into a sequence of
	// {"tool": name} action objects.
	KindToolList
)

// FieldSpec maps one raw form field onto one payload field.
type FieldSpec struct {
	FormKey   string // name of the raw form field
	TargetKey string // key in the structured payload
	Kind      FieldKind
	Required  bool
}

// Spec is the per-task-type field-mapping table entry.
type Spec struct {
	Type           TaskType
	InputFields    []FieldSpec
	ExpectedFields []FieldSpec
}

// specs is the single table that drives the generic create workflow for
// every task type.
var specs = map[TaskType]Spec{
	TaskClassification: {
		Type: TaskClassification,
		InputFields: []FieldSpec{
			{FormKey: "text", TargetKey: "text", Kind: KindText, Required: true},
			{FormKey: "labels", TargetKey: "labels", Kind: KindCommaList},
		},
		ExpectedFields: []FieldSpec{
			{FormKey: "predicted_label", TargetKey: "predicted_label", Kind: KindText, Required: true},
			{FormKey: "confidence", TargetKey: "confidence", Kind: KindFloat},
		},
	},
	TaskCorrection: {
		Type: TaskCorrection,
		InputFields: []FieldSpec{
			{FormKey: "original_text", TargetKey: "text", Kind: KindText, Required: true},
			{FormKey: "error_type", TargetKey: "correction_type", Kind: KindText},
		},
		ExpectedFields: []FieldSpec{
			{FormKey: "corrected_text", TargetKey: "corrected_text", Kind: KindText, Required: true},
			{FormKey: "corrections", TargetKey: "corrections", Kind: KindJSONValue},
			{FormKey: "confidence", TargetKey: "confidence", Kind: KindFloat},
		},
	},
	TaskDialogue: {
		Type: TaskDialogue,
		InputFields: []FieldSpec{
			{FormKey: "conversation_history", TargetKey: "context", Kind: KindJSONValue},
			{FormKey: "user_input", TargetKey: "message", Kind: KindText, Required: true},
			{FormKey: "dialogue_type", TargetKey: "dialogue_type", Kind: KindText},
		},
		ExpectedFields: []FieldSpec{
			{FormKey: "response", TargetKey: "response", Kind: KindText, Required: true},
			{FormKey: "confidence", TargetKey: "confidence", Kind: KindFloat},
			{FormKey: "context_used", TargetKey: "context_used", Kind: KindBool},
		},
	},
	TaskRAG: {
		Type: TaskRAG,
		InputFields: []FieldSpec{
			{FormKey: "knowledge_base", TargetKey: "documents", Kind: KindLineList},
			{FormKey: "query", TargetKey: "query", Kind: KindText, Required: true},
			{FormKey: "rag_type", TargetKey: "rag_type", Kind: KindText},
			{FormKey: "top_k", TargetKey: "top_k", Kind: KindInt},
		},
		ExpectedFields: []FieldSpec{
			{FormKey: "answer", TargetKey: "answer", Kind: KindText, Required: true},
			{FormKey: "confidence", TargetKey: "confidence", Kind: KindFloat},
		},
	},
	TaskAgent: {
		Type: TaskAgent,
		InputFields: []FieldSpec{
			{FormKey: "task_goal", TargetKey: "task", Kind: KindText, Required: true},
			{FormKey: "available_tools", TargetKey: "tools", Kind: KindJSONValue},
			{FormKey: "initial_state", TargetKey: "context", Kind: KindJSONValue},
			{FormKey: "agent_type", TargetKey: "agent_type", Kind: KindText},
			{FormKey: "max_steps", TargetKey: "max_steps", Kind: KindInt},
		},
		ExpectedFields: []FieldSpec{
			{FormKey: "result", TargetKey: "result", Kind: KindText, Required: true},
			{FormKey: "tools_used", TargetKey: "actions_taken", Kind: KindToolList},
			{FormKey: "confidence", TargetKey: "confidence", Kind: KindFloat},
		},
	},
}

// Lookup returns the field-mapping spec for a task type.
func Lookup(taskType TaskType) (Spec, bool) {
	s, ok := specs[taskType]
	return s, ok
}

// MapInput converts raw input form fields into the task's structured
// input_data payload.
func (s Spec) MapInput(raw map[string]string) (map[string]interface{}, error) {
	return mapFields(s.InputFields, raw)
}

// MapExpected converts raw expected-output form fields into the task's
// structured expected_output payload.
func (s Spec) MapExpected(raw map[string]string) (map[string]interface{}, error) {
	return mapFields(s.ExpectedFields, raw)
}

func mapFields(fields []FieldSpec, raw map[string]string) (map[string]interface{}, error) {
	payload := map[string]interface{}{}

	for _, f := range fields {
		value := strings.TrimSpace(raw[f.FormKey])
		if value == "" {
			if f.Required {
				return nil, fmt.Errorf("%w: field %q is required", ErrValidation, f.FormKey)
			}
			continue
		}

		coerced, err := coerceField(f, value)
		if err != nil {
			return nil, err
		}
		payload[f.TargetKey] = coerced
	}

	return payload, nil
}

func coerceField(f FieldSpec, value string) (interface{}, error) {
	switch f.Kind {
	case KindText:
		return value, nil

	case KindCommaList:
		return SplitComma(value), nil

	case KindLineList:
		return SplitLines(value), nil

	case KindJSONValue:
		var parsed interface{}
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return nil, fmt.Errorf("%w: field %q is not valid JSON: %v", ErrValidation, f.FormKey, err)
		}
		return parsed, nil

	case KindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q is not an integer", ErrValidation, f.FormKey)
		}
		return n, nil

	case KindFloat:
		fl, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q is not a number", ErrValidation, f.FormKey)
		}
		return fl, nil

	case KindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q is not a boolean", ErrValidation, f.FormKey)
		}
		return b, nil

	case KindToolList:
		tools := SplitComma(value)
		actions := make([]map[string]interface{}, 0, len(tools))
		for _, tool := range tools {
			actions = append(actions, map[string]interface{}{"tool": tool})
		}
		return actions, nil
	}

	return nil, fmt.Errorf("%w: field %q has unknown kind", ErrValidation, f.FormKey)
}

// SplitComma splits a comma-separated list, trimming whitespace and dropping
// empty entries. An empty or all-whitespace input yields an empty slice,
// never a one-element slice containing "".
func SplitComma(s string) []string {
	parts := strings.Split(s, ",")
	out := []string{}
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SplitLines splits newline-separated text into entries, trimming each line
// and dropping blank lines.
func SplitLines(s string) []string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := []string{}
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
