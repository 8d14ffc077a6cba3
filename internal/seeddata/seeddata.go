// Package seeddata ships a starter catalog of example test cases and
// loads them into the platform through the public API.
package seeddata

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"ai-task-test-platform/backend/internal/apiclient"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

//go:embed seeds.yaml
var embeddedSeeds []byte

// SeedCase is one test case in the seed catalog.
type SeedCase struct {
	Name           string                 `yaml:"name"`
	TaskType       string                 `yaml:"task_type"`
	Description    string                 `yaml:"description"`
	InputData      map[string]interface{} `yaml:"input_data"`
	ExpectedOutput map[string]interface{} `yaml:"expected_output"`
}

// Catalog is the parsed seed file.
type Catalog struct {
	TestCases []SeedCase `yaml:"test_cases"`
}

// Load parses the seed catalog. When path is non-empty the file at path
// is used instead of the embedded catalog.
func Load(path string) (*Catalog, error) {
	data := embeddedSeeds
	if path != "" {
		external, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
		}
		data = external
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}

	for i, sc := range catalog.TestCases {
		if sc.Name == "" {
			return nil, fmt.Errorf("seed case %d has no name", i)
		}
		if !taskcatalog.Valid(sc.TaskType) {
			return nil, fmt.Errorf("seed case %q has unknown task type %q", sc.Name, sc.TaskType)
		}
	}
	return &catalog, nil
}

// Apply creates every catalog entry through the API. Entries that fail
// are logged and skipped; the returned count is the number created.
func Apply(ctx context.Context, client *apiclient.Client, catalog *Catalog) (int, error) {
	created := 0
	for _, sc := range catalog.TestCases {
		body := map[string]interface{}{
			"name":            sc.Name,
			"task_type":       sc.TaskType,
			"description":     sc.Description,
			"input_data":      sc.InputData,
			"expected_output": sc.ExpectedOutput,
		}

		path := fmt.Sprintf("/api/%s/test-cases/", sc.TaskType)
		if err := client.Do(ctx, http.MethodPost, path, body, nil); err != nil {
			log.Printf("WARNING: failed to seed test case %q: %v", sc.Name, err)
			continue
		}
		created++
	}

	if created == 0 && len(catalog.TestCases) > 0 {
		return 0, fmt.Errorf("no seed test cases could be created")
	}
	return created, nil
}
