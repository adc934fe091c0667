// Package cli handles the command-line interface logic using the Cobra
// library.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cms-sync",
		Short: "cms-sync - CMS nursing-home data synchronization",
		Long: `cms-sync pulls nursing-home datasets from the CMS provider-data API,
filters them to the configured county scope, and upserts them into the
community directory store. It also proposes CCN links for communities
entered without one.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewSyncCmd())
	rootCmd.AddCommand(NewMatchCmd())

	return rootCmd
}
