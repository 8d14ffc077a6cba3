package agenttools

import (
	"fmt"
	"strings"
)

// Tool executes a named capability with string arguments and returns a
// textual result the agent can feed back into its reasoning.
type Tool interface {
	Name() string
	Description() string
	Execute(args map[string]string) (string, error)
}

var registry = map[string]Tool{}

func register(t Tool) {
	registry[t.Name()] = t
}

func init() {
	register(&calculatorTool{})
	register(&textAnalyzerTool{})
	register(&webSearchTool{})
	register(&fileReaderTool{})
	register(&apiCallerTool{})
}

// Get returns the tool registered under name.
func Get(name string) (Tool, bool) {
	t, ok := registry[name]
	return t, ok
}

// Names lists all registered tool names in a stable order.
func Names() []string {
	return []string{"web_search", "calculator", "text_analyzer", "file_reader", "api_caller"}
}

// Descriptions returns a name -> description map for the tools endpoint.
func Descriptions() map[string]string {
	out := make(map[string]string, len(registry))
	for name, t := range registry {
		out[name] = t.Description()
	}
	return out
}

type webSearchTool struct{}

func (t *webSearchTool) Name() string { return "web_search" }

func (t *webSearchTool) Description() string {
	return "Search the web for information on a given query"
}

func (t *webSearchTool) Execute(args map[string]string) (string, error) {
	query := strings.TrimSpace(args["query"])
	if query == "" {
		return "", fmt.Errorf("web_search requires a non-empty query")
	}
	// Simulated result: this deployment has no live search backend.
	return fmt.Sprintf("Search results for '%s': relevant information found about %s", query, query), nil
}

type fileReaderTool struct{}

func (t *fileReaderTool) Name() string { return "file_reader" }

func (t *fileReaderTool) Description() string {
	return "Read the contents of a named file"
}

func (t *fileReaderTool) Execute(args map[string]string) (string, error) {
	path := strings.TrimSpace(args["path"])
	if path == "" {
		path = strings.TrimSpace(args["filename"])
	}
	if path == "" {
		return "", fmt.Errorf("file_reader requires a path")
	}
	// Simulated read: agent runs never touch the host filesystem.
	return fmt.Sprintf("Contents of %s: [simulated file content]", path), nil
}

type apiCallerTool struct{}

func (t *apiCallerTool) Name() string { return "api_caller" }

func (t *apiCallerTool) Description() string {
	return "Call an external HTTP API endpoint"
}

func (t *apiCallerTool) Execute(args map[string]string) (string, error) {
	endpoint := strings.TrimSpace(args["endpoint"])
	if endpoint == "" {
		endpoint = strings.TrimSpace(args["url"])
	}
	if endpoint == "" {
		return "", fmt.Errorf("api_caller requires an endpoint")
	}
	return fmt.Sprintf("API response from %s: {\"status\": \"success\", \"data\": \"simulated response\"}", endpoint), nil
}
