package taskrunners

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ai-task-test-platform/backend/internal/coreengine/metricscalculator"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

const ragSystemPrompt = "You are a question answering assistant. Answer the question " +
	"using only the provided documents. Be concise and factual."

const defaultTopK = 3

func (r *Runner) runRAG(ctx context.Context, input json.RawMessage, modelName string, opts taskcatalog.RunOptions) (json.RawMessage, error) {
	var in taskcatalog.RAGInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid rag input: %w", err)
	}

	retrieved := RetrieveDocuments(in.Query, in.Documents, in.TopK)

	adapter, err := r.adapterFor(modelName)
	if err != nil {
		return nil, err
	}

	var answer string
	if adapter == nil {
		answer = mockRAGAnswer(in.Query, retrieved)
	} else {
		var sb strings.Builder
		sb.WriteString("Documents:\n")
		for i, doc := range retrieved {
			fmt.Fprintf(&sb, "[%d] %s\n", i+1, doc.Content)
		}
		fmt.Fprintf(&sb, "\nQuestion: %s", in.Query)
		answer, err = r.complete(ctx, adapter, modelName, ragSystemPrompt, sb.String(), opts)
		if err != nil {
			return nil, err
		}
	}

	return marshalOutput(taskcatalog.RAGOutput{
		Answer:             answer,
		RetrievedDocuments: retrieved,
		Confidence:         ragConfidence(answer, retrieved),
	})
}

// RetrieveDocuments scores each document by query keyword overlap and
// returns the topK highest scoring ones, preserving source indices.
func RetrieveDocuments(query string, documents []string, topK int) []taskcatalog.RetrievedDocument {
	if topK <= 0 {
		topK = defaultTopK
	}

	scored := make([]taskcatalog.RetrievedDocument, 0, len(documents))
	for i, doc := range documents {
		scored = append(scored, taskcatalog.RetrievedDocument{
			Content: doc,
			Score:   metricscalculator.KeywordOverlap(query, doc),
			Index:   i,
		})
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// ragConfidence blends retrieval quality with answer length: longer,
// better-grounded answers score higher, clamped to [0.1, 0.95].
func ragConfidence(answer string, retrieved []taskcatalog.RetrievedDocument) float64 {
	avgRetrieval := 0.0
	if len(retrieved) > 0 {
		for _, doc := range retrieved {
			avgRetrieval += doc.Score
		}
		avgRetrieval /= float64(len(retrieved))
	}
	lengthFactor := float64(len(answer)) / 200.0
	if lengthFactor > 1.0 {
		lengthFactor = 1.0
	}
	confidence := 0.6*avgRetrieval + 0.4*lengthFactor
	if confidence < 0.1 {
		return 0.1
	}
	if confidence > 0.95 {
		return 0.95
	}
	return confidence
}

func mockRAGAnswer(query string, retrieved []taskcatalog.RetrievedDocument) string {
	if len(retrieved) == 0 || retrieved[0].Score == 0 {
		return fmt.Sprintf("No relevant information found for: %s", query)
	}
	return fmt.Sprintf("Based on the available documents: %s", retrieved[0].Content)
}
