package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/xoplog/xray-go/xraytags"

	"github.com/spf13/cobra"
)

func newKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the attribute names that have fixed slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDINAL\tWORD\tMASK\tNAME")
			for _, k := range xraytags.Keys() {
				fmt.Fprintf(tw, "%d\t%d\t%#016x\t%s\n", k.Ordinal(), k.Word(), k.Mask(), k.Name())
			}
			return tw.Flush()
		},
	}
}
