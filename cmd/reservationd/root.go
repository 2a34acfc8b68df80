package main

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags of all commands.
type rootOptions struct {
	ConfigPath string
	Verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "reservationd",
		Short: "Item lending reservation lifecycle",
		Long: `Operate the event-sourced reservation store of the item lending platform.

Configuration is read from the optional --config YAML file and from
LENDING_* environment variables, which take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSweepCommand(opts))
	cmd.AddCommand(newSweeperCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newCalendarCommand(opts))

	return cmd
}
