package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/flexledger/internal/app"
	"github.com/mmynk/flexledger/internal/config"
	"github.com/mmynk/flexledger/pkg/logging"
)

var version = "dev"

// cli holds state shared by the subcommands.
type cli struct {
	envFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "flexledger",
		Short: "Billing ledger for a flex printing shop",
		Long: `flexledger keeps the bills, service catalog and expenses of a single
printing shop in a local SQLite database, behind a time-limited license gate.

Run "flexledger serve" to expose the ledger over Connect RPC.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(c.envFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.SetupWithLevel(cfg.LogLevel)
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		newServeCmd(c),
		newExportCmd(c),
		newStatusCmd(c),
		newKeygenCmd(),
	)
	return root
}

// open loads the install configured for this run.
func (c *cli) open(ctx context.Context, opts ...app.Option) (*app.App, error) {
	a, err := app.Open(ctx, c.cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return a, nil
}
