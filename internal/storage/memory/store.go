// Package memory provides an in-memory storage.Store, used by tests and by
// ephemeral runs that should leave nothing on disk.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/flexledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	writes int
	failed error
}

func New() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// Set writes a raw slot value directly, bypassing PutAll bookkeeping.
func (s *Store) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte(nil), value...)
}

// FailWrites makes every subsequent PutAll return err. Nil restores writes.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = err
}

// Writes returns the number of successful PutAll calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) PutAll(_ context.Context, entries []storage.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failed != nil {
		return s.failed
	}
	for _, e := range entries {
		s.slots[e.Key] = append([]byte(nil), e.Value...)
	}
	s.writes++
	return nil
}

func (s *Store) Close() error { return nil }
