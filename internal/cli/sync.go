package cli

import (
	"github.com/spf13/cobra"
)

type SyncOptions struct {
	ScopeFile string
	DryRun    bool
}

var syncDatasets = []string{
	"providers", "ownership", "deficiencies", "staffing", "quality", "inspections",
}

func NewSyncCmd() *cobra.Command {
	opts := &SyncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize CMS datasets into the directory store",
	}

	cmd.PersistentFlags().StringVarP(&opts.ScopeFile, "scope", "s", "", "Path to a scope JSON file (defaults to the built-in region)")
	cmd.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false, "Fetch and transform but skip all writes")

	for _, name := range syncDatasets {
		dataset := name
		cmd.AddCommand(&cobra.Command{
			Use:   dataset,
			Short: "Sync the " + dataset + " dataset",
			RunE: func(c *cobra.Command, args []string) error {
				return runSync(c.Context(), opts, dataset)
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Sync every dataset in order",
		RunE: func(c *cobra.Command, args []string) error {
			return runSync(c.Context(), opts, syncDatasets...)
		},
	})

	return cmd
}
