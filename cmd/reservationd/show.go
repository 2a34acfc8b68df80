package main

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <reservation-id>",
		Short: "Print a reservation as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := openRuntime(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = rt.close(ctx) }()

			reservation, err := rt.service.GetReservation(ctx, core.ReservationIDString(args[0]))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), reservation)
		},
	}
}

func newCalendarCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar <item-id>",
		Short: "Print the CONFIRMED and ACTIVE reservations of an item as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := openRuntime(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = rt.close(ctx) }()

			calendar, err := rt.service.ItemCalendar(eventstore.WithEventualConsistency(ctx), core.ItemIDString(args[0]))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), calendar)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
