package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the scan_results table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, repo, err := openRepository(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := repo.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", opts.cfg.Database.Driver)
			return nil
		},
	}
}
