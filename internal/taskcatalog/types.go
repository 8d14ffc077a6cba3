// Package taskcatalog defines the five supported task types, their
// input/expected-output shapes, and the single field-mapping table that
// drives the generic create/run workflow for all of them.
package taskcatalog

// TaskType identifies one of the supported AI task categories.
type TaskType string

const (
	TaskClassification TaskType = "classification"
	TaskCorrection     TaskType = "correction"
	TaskDialogue       TaskType = "dialogue"
	TaskRAG            TaskType = "rag"
	TaskAgent          TaskType = "agent"
)

// All returns every supported task type in display order.
func All() []TaskType {
	return []TaskType{TaskClassification, TaskCorrection, TaskDialogue, TaskRAG, TaskAgent}
}

// Valid reports whether s names a supported task type.
func Valid(s string) bool {
	switch TaskType(s) {
	case TaskClassification, TaskCorrection, TaskDialogue, TaskRAG, TaskAgent:
		return true
	}
	return false
}

// ClassificationInput is the input shape for classification test cases.
type ClassificationInput struct {
	Text   string   `json:"text"`
	Labels []string `json:"labels,omitempty"`
}

// ClassificationOutput is the output shape for classification runs.
type ClassificationOutput struct {
	PredictedLabel string             `json:"predicted_label"`
	Confidence     float64            `json:"confidence"`
	Probabilities  map[string]float64 `json:"probabilities,omitempty"`
}

// CorrectionInput is the input shape for text-correction test cases.
type CorrectionInput struct {
	Text           string `json:"text"`
	CorrectionType string `json:"correction_type"` // grammar, spelling, style
}

// Correction describes one applied correction.
type Correction struct {
	Original  string `json:"original,omitempty"`
	Corrected string `json:"corrected,omitempty"`
	Position  int    `json:"position,omitempty"`
	Type      string `json:"type,omitempty"`
}

// CorrectionOutput is the output shape for correction runs.
type CorrectionOutput struct {
	CorrectedText string       `json:"corrected_text"`
	Corrections   []Correction `json:"corrections"`
	Confidence    float64      `json:"confidence"`
}

// DialogueTurn is one message in a conversation history.
type DialogueTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DialogueInput is the input shape for dialogue test cases.
type DialogueInput struct {
	Message      string         `json:"message"`
	Context      []DialogueTurn `json:"context,omitempty"`
	DialogueType string         `json:"dialogue_type,omitempty"`
}

// DialogueOutput is the output shape for dialogue runs.
type DialogueOutput struct {
	Response    string  `json:"response"`
	Confidence  float64 `json:"confidence"`
	ContextUsed bool    `json:"context_used"`
}

// RAGInput is the input shape for retrieval-augmented-generation test cases.
type RAGInput struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents,omitempty"`
	RAGType   string   `json:"rag_type,omitempty"`
	TopK      int      `json:"top_k,omitempty"`
}

// RetrievedDocument is one document returned by retrieval, with its score.
type RetrievedDocument struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Index   int     `json:"index"`
}

// RAGOutput is the output shape for RAG runs.
type RAGOutput struct {
	Answer             string              `json:"answer"`
	RetrievedDocuments []RetrievedDocument `json:"retrieved_documents"`
	Confidence         float64             `json:"confidence"`
}

// AgentAction is one tool invocation recorded during an agent run.
type AgentAction struct {
	Tool   string                 `json:"tool"`
	Args   map[string]interface{} `json:"args,omitempty"`
	Result string                 `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
	Status string                 `json:"status"` // success, error
}

// AgentInput is the input shape for agent test cases.
type AgentInput struct {
	Task      string                 `json:"task"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Tools     []string               `json:"tools,omitempty"`
	AgentType string                 `json:"agent_type,omitempty"`
	MaxSteps  int                    `json:"max_steps,omitempty"`
}

// AgentOutput is the output shape for agent runs.
type AgentOutput struct {
	Result       string        `json:"result"`
	ActionsTaken []AgentAction `json:"actions_taken"`
	Confidence   float64       `json:"confidence"`
}

// RunOptions carries the per-run tuning knobs. Which fields apply depends on
// the task type; unknown fields for a task are ignored by its runner.
type RunOptions struct {
	Temperature       *float64 `json:"temperature,omitempty"`
	MaxTokens         *int     `json:"max_tokens,omitempty"`
	EmbeddingModel    string   `json:"embedding_model,omitempty"`
	RetrievalStrategy string   `json:"retrieval_strategy,omitempty"`
	ExecutionMode     string   `json:"execution_mode,omitempty"`
	TimeoutSeconds    *int     `json:"timeout,omitempty"`
	VerboseLogging    bool     `json:"verbose_logging,omitempty"`
	CorrectionMode    string   `json:"correction_mode,omitempty"`
	MaxSteps          *int     `json:"max_steps,omitempty"`
}
