// Package storage provides abstractions for durable slot storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a slot has never been written.
var ErrNotFound = errors.New("slot not found")

// Entry is one slot value to write.
type Entry struct {
	Key   string
	Value []byte
}

// Store defines the interface for the durable key-value store holding the
// ledger slots. This abstraction allows swapping storage backends (SQLite,
// in-memory) without changing the persistence layer.
type Store interface {
	// Get returns the raw value of a slot, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// PutAll writes every entry atomically: either all slots are updated
	// or none are.
	PutAll(ctx context.Context, entries []Entry) error

	// Close releases any resources held by the store.
	Close() error
}
