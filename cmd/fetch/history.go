package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"stocktracker/internal/marketclock"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		fromStr string
		toStr   string
		last    int
	)
	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Dump the daily close series and its all-time high",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var from, to time.Time
			var err error
			if fromStr != "" {
				if from, err = time.ParseInLocation("2006-01-02", fromStr, marketclock.Location); err != nil {
					return fmt.Errorf("bad --from: %w", err)
				}
			}
			if toStr != "" {
				if to, err = time.ParseInLocation("2006-01-02", toStr, marketclock.Location); err != nil {
					return fmt.Errorf("bad --to: %w", err)
				}
			}

			a, err := opts.build()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			res, err := a.Service.History(ctx, args[0], from, to)
			if err != nil {
				return err
			}
			if last > 0 && len(res.Bars) > last {
				res.Bars = res.Bars[len(res.Bars)-last:]
			}
			if opts.asJSON {
				return writeJSONLine(cmd.OutOrStdout(), res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s via %s, %d bars\n", res.Symbol, res.Provider, len(res.Bars))
			if res.AllTimeHigh != nil {
				fmt.Fprintf(out, "all-time high %.2f on %s\n", res.AllTimeHigh.ATHPrice, res.AllTimeHigh.ATHDateFormatted)
			} else {
				fmt.Fprintln(out, "no traded closes in range")
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tCLOSE\tVOLUME")
			for _, b := range res.Bars {
				closeStr := "-"
				if b.Close != nil {
					closeStr = fmt.Sprintf("%.2f", *b.Close)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\n", b.Date.In(marketclock.Location).Format("2006-01-02"), closeStr, b.Volume)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "start date YYYY-MM-DD (default: provider's full range)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date YYYY-MM-DD (default: now)")
	cmd.Flags().IntVar(&last, "last", 20, "print only the last N bars (0 = all)")
	return cmd
}
