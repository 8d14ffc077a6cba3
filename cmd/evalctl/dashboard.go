package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ai-task-test-platform/backend/internal/apiclient"
)

func newDashboardCmd() *cobra.Command {
	var (
		taskType string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show platform statistics",
		Long: `Fetch and render the dashboard: overview counters, per-model
performance, and the most recent test runs. Data is fetched fresh on
every invocation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			ctx := cmd.Context()

			overview, err := client.GetOverview(ctx)
			if err != nil {
				return err
			}
			performance, err := client.GetModelPerformance(ctx, taskType, limit)
			if err != nil {
				return err
			}
			recent, err := client.GetRecentTests(ctx, taskType, limit)
			if err != nil {
				return err
			}

			apiclient.RenderOverview(os.Stdout, overview)
			fmt.Println()
			fmt.Println("Model performance")
			apiclient.RenderModelPerformance(os.Stdout, performance)
			fmt.Println()
			fmt.Println("Recent tests")
			apiclient.RenderRecentTests(os.Stdout, recent)
			return nil
		},
	}

	cmd.Flags().StringVar(&taskType, "task-type", "", "restrict to one task type")
	cmd.Flags().IntVar(&limit, "limit", 10, "row limit for tables")
	return cmd
}
