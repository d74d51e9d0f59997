package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stocktracker/internal/instrument"
)

func newSymbolsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the supported instruments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := instrument.Default().All()
			if opts.asJSON {
				return writeJSONLine(cmd.OutOrStdout(), all)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tNAME\tKIND\tTOKEN")
			for _, in := range all {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", in.Symbol, in.Label, in.Kind, in.TokenString())
			}
			return tw.Flush()
		},
	}
}
