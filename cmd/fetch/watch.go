package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stocktracker/internal/marketclock"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		interval time.Duration
		count    int
	)
	cmd := &cobra.Command{
		Use:   "watch SYMBOL",
		Short: "Poll one symbol at the market-hours cadence until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			for i := 0; count <= 0 || i < count; i++ {
				qctx, cancel := context.WithTimeout(ctx, opts.timeout)
				res, err := a.Service.Query(qctx, args[0])
				cancel()
				if err != nil {
					return err
				}
				now := time.Now()
				if opts.asJSON {
					if err := writeJSONLine(cmd.OutOrStdout(), res); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", now.In(marketclock.Location).Format("15:04:05"), formatResult(res))
				}
				if count > 0 && i == count-1 {
					break
				}

				wait := interval
				if wait <= 0 {
					wait = marketclock.RefreshInterval(now)
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(wait):
				}
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default: 30s while the market is open, 5m otherwise)")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many polls (0 = until interrupted)")
	return cmd
}
