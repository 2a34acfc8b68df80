package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newSweepCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark every ACTIVE reservation past its end as OVERDUE once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			rt, err := openRuntime(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = rt.close(ctx) }()

			transitioned, err := rt.service.SweepOverdue(ctx)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), transitioned)

			return err
		},
	}
}

func newSweeperCommand(opts *rootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "sweeper",
		Short: "Sweep overdue reservations periodically until interrupted",
		Long: `Sweep overdue reservations right away and then every interval until SIGINT or SIGTERM.
The interval defaults to the configured sweeper.interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := openRuntime(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = rt.close(context.WithoutCancel(ctx)) }()

			if interval <= 0 {
				interval = rt.cfg.Sweeper.Interval
			}

			rt.logger.Info("sweeper started", "interval", interval.String())
			err = rt.service.RunSweeper(ctx, interval)
			rt.logger.Info("sweeper stopped")

			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "sweep interval, overrides the configuration")

	return cmd
}
