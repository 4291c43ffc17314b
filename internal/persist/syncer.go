// Package persist binds in-memory ledger state to the durable store.
//
// State is loaded once at startup, slot by slot, so one corrupted slot does
// not take its siblings down with it. After that every mutation calls
// Notify, which (re)starts a single-shot timer; only when the timer survives
// a full quiet period are all slots written together.
package persist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/flexledger/internal/metrics"
	"github.com/mmynk/flexledger/internal/storage"
)

const (
	// DefaultDelay is the quiet period before a flush.
	DefaultDelay = 500 * time.Millisecond

	flushTimeout = 10 * time.Second
)

// Status is the observable sync state.
type Status struct {
	LastSyncedAt time.Time
	// Syncing is true from the first mutation of a burst until its flush ends.
	Syncing bool
	// LastError is the most recent *SyncError, cleared by a successful flush.
	LastError error
	// SlotBytes is the encoded size of each slot at the last flush.
	SlotBytes map[string]int
}

// LoadReport lists what Load restored and what it reset.
type LoadReport struct {
	Restored  []string
	Defaulted []string
	Failures  []*StorageRestoreError
}

// Syncer owns the load-once / debounced-flush discipline.
type Syncer struct {
	store storage.Store
	slots []Slot
	delay time.Duration
	now   func() time.Time

	flushMu  sync.Mutex // serializes writes
	inflight sync.WaitGroup

	mu        sync.Mutex
	loaded    bool
	closed    bool
	timer     *time.Timer
	gen       uint64 // bumped by every Notify
	lastSync  time.Time
	syncing   bool
	lastErr   error
	slotBytes map[string]int
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithDelay sets the quiet period.
func WithDelay(d time.Duration) Option {
	return func(s *Syncer) { s.delay = d }
}

// WithClock overrides the clock used for the last-synced timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// New creates a Syncer over the given slots.
func New(store storage.Store, slots []Slot, opts ...Option) *Syncer {
	s := &Syncer{
		store:     store,
		slots:     slots,
		delay:     DefaultDelay,
		now:       time.Now,
		slotBytes: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every slot once. A slot that is missing keeps its default; a
// slot that cannot be read or parsed is reset to its default and reported.
// Load never fails: the returned report is for logging and tests.
//
// Mutations notified before Load completes are ignored. Load itself
// schedules one flush so that defaults (such as a fresh system ID) reach the
// store.
func (s *Syncer) Load(ctx context.Context) LoadReport {
	var report LoadReport

	for _, slot := range s.slots {
		key := slot.Key()
		raw, err := s.store.Get(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			report.Defaulted = append(report.Defaulted, key)
			continue
		}
		if err == nil {
			err = slot.Decode(raw)
		}
		if err != nil {
			slot.Reset()
			rErr := &StorageRestoreError{Slot: key, Err: err}
			report.Failures = append(report.Failures, rErr)
			metrics.RestoreFailures.WithLabelValues(key).Inc()
			slog.Error("Storage restoration error, slot reset to default", "slot", key, "error", err)
			continue
		}
		report.Restored = append(report.Restored, key)
	}

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()

	slog.Info("Storage loaded",
		"restored", report.Restored,
		"defaulted", report.Defaulted,
		"failed", len(report.Failures),
	)
	s.Notify()
	return report
}

// Notify records a mutation and restarts the quiet-period timer.
func (s *Syncer) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded || s.closed {
		return
	}
	s.gen++
	s.syncing = true
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

// fire runs when a timer expires. A timer superseded by a later Notify does
// nothing, even if Stop lost the race with it.
func (s *Syncer) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	_ = s.Flush(ctx)
}

// Flush writes all slots now. Errors are recorded in Status and returned as
// a *SyncError; the next Notify will try again.
func (s *Syncer) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	start := time.Now()
	entries := make([]storage.Entry, 0, len(s.slots))
	sizes := make(map[string]int, len(s.slots))
	var err error
	for _, slot := range s.slots {
		var raw []byte
		raw, err = slot.Encode()
		if err != nil {
			break
		}
		entries = append(entries, storage.Entry{Key: slot.Key(), Value: raw})
		sizes[slot.Key()] = len(raw)
	}
	if err == nil {
		err = s.store.PutAll(ctx, entries)
	}
	metrics.FlushDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	// A mutation arriving mid-flush keeps the flag up for its own flush.
	if gen == s.gen && s.timer == nil {
		s.syncing = false
	}

	if err != nil {
		s.lastErr = &SyncError{Err: err}
		metrics.Flushes.WithLabelValues("error").Inc()
		slog.Error("Flush failed, will retry on next change", "error", err)
		return s.lastErr
	}

	s.lastSync = s.now()
	s.lastErr = nil
	s.slotBytes = sizes
	metrics.Flushes.WithLabelValues("ok").Inc()
	metrics.LastSync.Set(float64(s.lastSync.Unix()))
	slog.Debug("Flushed slots", "slots", len(entries), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Close stops the timer, waits for a flush already under way and writes any
// pending changes. Notify is a no-op afterwards.
func (s *Syncer) Close(ctx context.Context) error {
	s.mu.Lock()
	pending := s.timer != nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.closed = true
	s.mu.Unlock()

	s.inflight.Wait()
	if !pending {
		return nil
	}
	return s.Flush(ctx)
}

// Status returns a snapshot of the sync state.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	bytes := make(map[string]int, len(s.slotBytes))
	for k, v := range s.slotBytes {
		bytes[k] = v
	}
	return Status{
		LastSyncedAt: s.lastSync,
		Syncing:      s.syncing,
		LastError:    s.lastErr,
		SlotBytes:    bytes,
	}
}
