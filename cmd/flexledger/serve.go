package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/flexledger/internal/app"
	"github.com/mmynk/flexledger/internal/middleware"
	"github.com/mmynk/flexledger/internal/service"
	"github.com/mmynk/flexledger/internal/storage/memory"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	var (
		addr      string
		ephemeral bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect RPC server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Addr = addr
			}
			return c.serve(ephemeral)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides FLEXLEDGER_ADDR)")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep state in memory only")
	return cmd
}

func (c *cli) serve(ephemeral bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []app.Option
	if ephemeral {
		slog.Warn("Running with in-memory storage, nothing will be saved")
		opts = append(opts, app.WithStore(memory.New()))
	}
	a, err := c.open(ctx, opts...)
	if err != nil {
		return err
	}

	st := a.Gate.Status()
	slog.Info("License state", "state", st.State, "days_left", st.DaysLeft, "system_id", st.SystemID)

	// h2c serves HTTP/2 without TLS, which Connect clients expect.
	handler := h2c.NewHandler(middleware.CORS(service.NewMux(a)), &http2.Server{})
	srv := &http.Server{
		Addr:              c.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", c.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
	case serveErr = <-errCh:
		slog.Error("Server failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Server shutdown incomplete", "error", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	slog.Info("State flushed, bye")
	return serveErr
}
