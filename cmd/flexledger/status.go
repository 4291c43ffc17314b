package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the license state and ledger totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			st := a.Gate.Status()
			sum := a.Ledger.Summary(1)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "System ID:  %s\n", st.SystemID)
			fmt.Fprintf(w, "License:    %s (%d days left)\n", st.State, st.DaysLeft)
			fmt.Fprintf(w, "Bills:      %d\n", len(a.Ledger.Bills()))
			fmt.Fprintf(w, "Revenue:    %s\n", sum.Revenue.StringFixed(2))
			fmt.Fprintf(w, "Pending:    %s\n", sum.Pending.StringFixed(2))
			fmt.Fprintf(w, "Net profit: %s\n", sum.NetProfit.StringFixed(2))
			return nil
		},
	}
}
