package agenttools

import (
	"fmt"
	"strings"
)

type textAnalyzerTool struct{}

func (t *textAnalyzerTool) Name() string { return "text_analyzer" }

func (t *textAnalyzerTool) Description() string {
	return "Analyze a piece of text and report basic statistics"
}

func (t *textAnalyzerTool) Execute(args map[string]string) (string, error) {
	text := args["text"]
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text_analyzer requires text")
	}

	words := strings.Fields(text)
	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	avgWordLen := 0.0
	if len(words) > 0 {
		total := 0
		for _, w := range words {
			total += len(w)
		}
		avgWordLen = float64(total) / float64(len(words))
	}

	return fmt.Sprintf("Text analysis: %d characters, %d words, %d sentences, average word length %.1f",
		len([]rune(text)), len(words), sentences, avgWordLen), nil
}
