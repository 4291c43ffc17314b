// Package app assembles the ledger, license gate and persistence into one
// running install.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/flexledger/internal/config"
	"github.com/mmynk/flexledger/internal/ledger"
	"github.com/mmynk/flexledger/internal/license"
	"github.com/mmynk/flexledger/internal/persist"
	"github.com/mmynk/flexledger/internal/reminder"
	"github.com/mmynk/flexledger/internal/storage"
	"github.com/mmynk/flexledger/internal/storage/sqlite"
)

// App is one loaded install. State is owned here and threaded explicitly
// into the transport layer.
type App struct {
	Config    *config.Config
	Store     storage.Store
	Ledger    *ledger.Ledger
	Gate      *license.Gate
	Syncer    *persist.Syncer
	Reminders *reminder.Generator
}

// Option configures Open.
type Option func(*options)

type options struct {
	store     storage.Store
	ledgerOpt []ledger.Option
	gateOpt   []license.Option
}

// WithStore uses store instead of opening the SQLite database.
func WithStore(store storage.Store) Option {
	return func(o *options) { o.store = store }
}

// WithLedgerOptions passes options through to ledger.New.
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(o *options) { o.ledgerOpt = append(o.ledgerOpt, opts...) }
}

// WithGateOptions passes options through to license.NewGate.
func WithGateOptions(opts ...license.Option) Option {
	return func(o *options) { o.gateOpt = append(o.gateOpt, opts...) }
}

// Open builds the install and loads persisted state. Per-slot restore
// failures are logged and reset; only failing to open the store is fatal.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		store = s
		slog.Info("Storage initialized", "database", cfg.DBPath)
	}

	l := ledger.New(o.ledgerOpt...)
	g := license.NewGate(o.gateOpt...)
	s := persist.New(store, persist.LedgerSlots(l, g), persist.WithDelay(cfg.FlushDelay))
	persist.Bind(s, l, g)
	s.Load(ctx)

	return &App{
		Config: cfg,
		Store:  store,
		Ledger: l,
		Gate:   g,
		Syncer: s,
		Reminders: reminder.New(reminder.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			DisplayName: cfg.DisplayName,
		}),
	}, nil
}

// Close writes pending changes and closes the store.
func (a *App) Close(ctx context.Context) error {
	flushErr := a.Syncer.Close(ctx)
	closeErr := a.Store.Close()
	return errors.Join(flushErr, closeErr)
}
