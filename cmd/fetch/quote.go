package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL...",
		Short: "Print the current price and all-time high of each symbol",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build()
			if err != nil {
				return err
			}
			for _, symbol := range args {
				ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
				res, err := a.Service.Query(ctx, symbol)
				cancel()
				if err != nil {
					return fmt.Errorf("%q: %w", symbol, err)
				}
				if opts.asJSON {
					if err := writeJSONLine(cmd.OutOrStdout(), res); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatResult(res))
			}
			return nil
		},
	}
}
