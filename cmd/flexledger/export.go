package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/flexledger/internal/export"
	"github.com/mmynk/flexledger/internal/license"
)

func newExportCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the detailed CSV report of all bills",
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

			if a.Gate.Locked() {
				return fmt.Errorf("export: %w (run \"flexledger status\" for the system ID)", license.ErrLocked)
			}
			if out == "" {
				out = export.Filename(c.cfg.BusinessName, time.Now())
			}
			if out == "-" {
				return export.WriteCSV(cmd.OutOrStdout(), a.Ledger.Bills())
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			if err := export.WriteCSV(f, a.Ledger.Bills()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bills to %s\n", len(a.Ledger.Bills()), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("-" for stdout, default <Business>_Detailed_Report_<date>.csv)`)
	return cmd
}
