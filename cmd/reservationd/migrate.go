package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the events table and its indexes",
		Long: `Create the events table and its indexes for the configured SQL engine.
Running it again is harmless. The memory engine needs no schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			rt, err := openRuntime(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = rt.close(ctx) }()

			if err = rt.storage.Migrate(ctx); err != nil {
				return err
			}

			rt.logger.Info("schema migrated", "engine", rt.cfg.Storage.Engine, "table", rt.cfg.Storage.TableName)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", rt.cfg.Storage.Engine)

			return err
		},
	}
}
