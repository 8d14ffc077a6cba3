package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ai-task-test-platform/backend/internal/apiclient"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

func newTestCaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testcase",
		Short: "Manage test cases",
	}
	cmd.AddCommand(newTestCaseCreateCmd())
	cmd.AddCommand(newTestCaseListCmd())
	return cmd
}

func newTestCaseCreateCmd() *cobra.Command {
	var (
		name        string
		description string
		fields      []string
	)

	cmd := &cobra.Command{
		Use:   "create <task-type>",
		Short: "Create a test case from form-style field values",
		Long: `Create a test case for one task type. Field values are given as
key=value pairs using the task's form field names, for example:

  evalctl testcase create classification --name "Sentiment smoke test" \
      -f text="Great product" -f labels="positive, negative, neutral" \
      -f predicted_label=positive

Structured fields (conversation_history, available_tools, initial_state,
corrections) take JSON values; malformed JSON aborts before any request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskType := taskcatalog.TaskType(args[0])
			if !taskcatalog.Valid(args[0]) {
				return fmt.Errorf("unknown task type %q (expected one of: classification, correction, dialogue, rag, agent)", args[0])
			}

			raw, err := parseFieldArgs(fields)
			if err != nil {
				return err
			}

			created, err := newClient().CreateTestCase(cmd.Context(), taskType, name, description, raw)
			if err != nil {
				return err
			}
			fmt.Printf("Created test case %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "test case name (required)")
	cmd.Flags().StringVar(&description, "description", "", "test case description")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "form field value as key=value (repeatable)")
	return cmd
}

func newTestCaseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <task-type>",
		Short: "List test cases for a task type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !taskcatalog.Valid(args[0]) {
				return fmt.Errorf("unknown task type %q", args[0])
			}

			cases, err := newClient().ListTestCases(cmd.Context(), taskcatalog.TaskType(args[0]))
			if err != nil {
				return err
			}
			apiclient.RenderTestCases(os.Stdout, cases)
			return nil
		},
	}
	return cmd
}

// parseFieldArgs splits repeated key=value flags into the raw form map.
func parseFieldArgs(fields []string) (map[string]string, error) {
	raw := map[string]string{}
	for _, field := range fields {
		key, value, found := strings.Cut(field, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", field)
		}
		raw[key] = value
	}
	return raw, nil
}
