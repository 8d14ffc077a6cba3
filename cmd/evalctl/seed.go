package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ai-task-test-platform/backend/internal/seeddata"
)

func newSeedCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the example test case catalog into the platform",
		Long: `Create the built-in example test cases (or those from --file) through
the public API. Entries that already fail validation server-side are
skipped with a warning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := seeddata.Load(seedFile)
			if err != nil {
				return err
			}

			created, err := seeddata.Apply(cmd.Context(), newClient(), catalog)
			if err != nil {
				return err
			}
			fmt.Printf("Created %d of %d seed test cases\n", created, len(catalog.TestCases))
			return nil
		},
	}

	cmd.Flags().StringVar(&seedFile, "file", "", "path to a YAML seed catalog (defaults to the built-in catalog)")
	return cmd
}
