package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"ai-task-test-platform/backend/internal/apiclient"
)

var (
	apiURL         string
	requestTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "evalctl",
	Short: "Command-line client for the AI task test platform",
	Long: `evalctl drives the AI task test platform from the command line: creating
test cases for the five supported task types (classification, correction,
dialogue, rag, agent), running them against models, and viewing dashboard
statistics.`,
	SilenceUsage: true,
}

// Execute is the main entry point for the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", envOr("EVALCTL_API_URL", "http://localhost:8080"), "base URL of the platform API")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", apiclient.DefaultTimeout, "per-request timeout")

	rootCmd.AddCommand(newTestCaseCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newSeedCmd())
}

func newClient() *apiclient.Client {
	return apiclient.New(apiURL, requestTimeout)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
