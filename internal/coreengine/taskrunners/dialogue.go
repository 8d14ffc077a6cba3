package taskrunners

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-task-test-platform/backend/internal/taskcatalog"
)

const dialogueSystemPrompt = "You are a dialogue assistant. Respond to the user's message, " +
	"taking the conversation history into account. Reply with JSON of the form " +
	"{\"response\": \"...\", \"confidence\": 0.0, \"context_used\": true}."

func (r *Runner) runDialogue(ctx context.Context, input json.RawMessage, modelName string, opts taskcatalog.RunOptions) (json.RawMessage, error) {
	var in taskcatalog.DialogueInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid dialogue input: %w", err)
	}

	adapter, err := r.adapterFor(modelName)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		return marshalOutput(mockDialogue(in))
	}

	var sb strings.Builder
	if len(in.Context) > 0 {
		sb.WriteString("Conversation history:\n")
		for _, turn := range in.Context {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "User message: %s", in.Message)

	content, err := r.complete(ctx, adapter, modelName, dialogueSystemPrompt, sb.String(), opts)
	if err != nil {
		return nil, err
	}
	return marshalOutput(parseDialogue(content, len(in.Context) > 0))
}

func parseDialogue(content string, hasContext bool) taskcatalog.DialogueOutput {
	var out taskcatalog.DialogueOutput
	if extractJSON(content, &out) && out.Response != "" {
		if out.Confidence == 0 {
			out.Confidence = 0.8
		}
		return out
	}
	return taskcatalog.DialogueOutput{
		Response:    content,
		Confidence:  0.6,
		ContextUsed: hasContext,
	}
}

func mockDialogue(in taskcatalog.DialogueInput) taskcatalog.DialogueOutput {
	responses := []string{
		"I understand. Could you tell me more about that?",
		"That's an interesting point. Let me think about it.",
		"Thanks for sharing. Here is what I can say about that.",
		"I see what you mean. Let me help with that.",
	}
	idx := seedIndex(in.Message, len(responses))
	return taskcatalog.DialogueOutput{
		Response:    responses[idx],
		Confidence:  0.6 + 0.3*seedFraction(in.Message),
		ContextUsed: len(in.Context) > 0,
	}
}
