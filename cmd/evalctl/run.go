package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"ai-task-test-platform/backend/internal/apiclient"
	"ai-task-test-platform/backend/internal/taskcatalog"
)

func newRunCmd() *cobra.Command {
	var (
		testCaseID  int
		modelName   string
		temperature float64
		maxTokens   int
		timeoutSecs int
		maxSteps    int
		useForm     bool
	)

	cmd := &cobra.Command{
		Use:   "run <task-type>",
		Short: "Run a stored test case against a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !taskcatalog.Valid(args[0]) {
				return fmt.Errorf("unknown task type %q", args[0])
			}
			taskType := taskcatalog.TaskType(args[0])

			if useForm {
				tuning := map[string]string{}
				if cmd.Flags().Changed("temperature") {
					tuning["temperature"] = strconv.FormatFloat(temperature, 'f', -1, 64)
				}
				if cmd.Flags().Changed("max-tokens") {
					tuning["max_tokens"] = strconv.Itoa(maxTokens)
				}
				if cmd.Flags().Changed("run-timeout") {
					tuning["timeout"] = strconv.Itoa(timeoutSecs)
				}
				if cmd.Flags().Changed("max-steps") {
					tuning["max_steps"] = strconv.Itoa(maxSteps)
				}

				result, err := newClient().RunTestForm(cmd.Context(), taskType, testCaseID, modelName, tuning)
				if err != nil {
					return err
				}
				apiclient.RenderResult(os.Stdout, result)
				return nil
			}

			opts := &taskcatalog.RunOptions{}
			if cmd.Flags().Changed("temperature") {
				opts.Temperature = &temperature
			}
			if cmd.Flags().Changed("max-tokens") {
				opts.MaxTokens = &maxTokens
			}
			if cmd.Flags().Changed("run-timeout") {
				opts.TimeoutSeconds = &timeoutSecs
			}
			if cmd.Flags().Changed("max-steps") {
				opts.MaxSteps = &maxSteps
			}

			result, overview, err := newClient().ExecuteRun(cmd.Context(), taskType, testCaseID, modelName, opts)
			if err != nil {
				if result != nil {
					// The run finished; only the dashboard refresh failed.
					apiclient.RenderResult(os.Stdout, result)
				}
				return err
			}

			apiclient.RenderResult(os.Stdout, result)
			fmt.Println()
			apiclient.RenderOverview(os.Stdout, overview)
			return nil
		},
	}

	cmd.Flags().IntVar(&testCaseID, "test-case", 0, "test case ID to run (required)")
	cmd.Flags().StringVar(&modelName, "model", "", "model name to run against (required)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.7, "sampling temperature")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "completion token limit")
	cmd.Flags().IntVar(&timeoutSecs, "run-timeout", 0, "server-side run timeout in seconds")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "agent step limit")
	cmd.Flags().BoolVar(&useForm, "form", false, "use the form-urlencoded run endpoint and skip the dashboard refresh")
	return cmd
}
