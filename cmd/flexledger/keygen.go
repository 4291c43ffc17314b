package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/flexledger/internal/license"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <systemId>",
		Short: "Print the activation key for a system ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), license.DeriveKey(license.NormalizeKey(args[0])))
			return nil
		},
	}
}
