// Package license implements the local trial/activation gate.
//
// The gate stores only SubscriptionData. Its state (Trial, Locked,
// Activated) is never stored; Evaluate derives it from the timestamps and
// the current time on every call.
package license

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/mmynk/flexledger/internal/metrics"
	"github.com/mmynk/flexledger/internal/models"
)

const (
	// PremiumDays is the length of the window opened by an activation.
	PremiumDays = 30
	// TrialDays is the grace period of a fresh install. Zero locks the
	// install until it is activated.
	TrialDays = 0
)

var (
	// ErrInvalidKey is returned when an activation key does not match.
	ErrInvalidKey = errors.New("invalid license key")
	// ErrLocked is returned by callers that refuse work while the gate is locked.
	ErrLocked = errors.New("license locked: activation required")
)

// LicenseError is a rejected activation. The caller shows Message briefly
// (ClearAfter) and the gate state is left untouched.
type LicenseError struct {
	Err        error
	Message    string
	ClearAfter time.Duration
}

func (e *LicenseError) Error() string { return e.Message }

func (e *LicenseError) Unwrap() error { return e.Err }

// State is the derived gate state.
type State string

const (
	StateTrial     State = "Trial"
	StateLocked    State = "Locked"
	StateActivated State = "Activated"
)

// Status is the evaluated license state at a point in time.
type Status struct {
	State    State
	DaysLeft int
	// Progress is DaysLeft over the window length, in [0, 1].
	Progress float64
	SystemID string
}

// Open reports whether the gate lets work through.
func (s Status) Open() bool { return s.State != StateLocked }

// Evaluate derives the gate status from sub at time now.
//
// Elapsed days are floored and never negative, so a clock set before the
// install or activation date cannot extend the window.
func Evaluate(sub models.SubscriptionData, now time.Time) Status {
	st := Status{SystemID: sub.SystemID}

	if sub.IsActivated && sub.LastActivationDate != nil {
		st.DaysLeft = max(0, PremiumDays-elapsedDays(*sub.LastActivationDate, now))
		st.Progress = float64(st.DaysLeft) / PremiumDays
		st.State = StateActivated
		return st
	}

	st.DaysLeft = max(0, TrialDays-elapsedDays(sub.InstallDate, now))
	if TrialDays > 0 {
		st.Progress = float64(st.DaysLeft) / TrialDays
	}
	if !sub.IsActivated && st.DaysLeft <= 0 {
		st.State = StateLocked
	} else {
		st.State = StateTrial
	}
	return st
}

func elapsedDays(since, now time.Time) int {
	days := math.Floor(now.Sub(since).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// DefaultSubscription is the subscription of a fresh install.
func DefaultSubscription(now time.Time) models.SubscriptionData {
	return models.SubscriptionData{
		InstallDate: now,
		SystemID:    NewSystemID(),
	}
}

// Gate owns the subscription state of the install.
type Gate struct {
	mu       sync.Mutex
	sub      models.SubscriptionData
	now      func() time.Time
	onChange func()
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the wall clock used for evaluation and activation.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate creates a gate for a fresh install.
func NewGate(opts ...Option) *Gate {
	g := &Gate{now: time.Now, onChange: func() {}}
	for _, opt := range opts {
		opt(g)
	}
	g.sub = DefaultSubscription(g.now())
	return g
}

// OnChange registers the hook called after a successful activation.
func (g *Gate) OnChange(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if fn == nil {
		fn = func() {}
	}
	g.onChange = fn
}

// Status evaluates the gate now.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Evaluate(g.sub, g.now())
}

// Locked reports whether the gate currently refuses work.
func (g *Gate) Locked() bool {
	return !g.Status().Open()
}

// Activate checks key against the key derived from the system ID. On a
// match the install is activated and a new premium window starts now. On a
// mismatch nothing changes and a *LicenseError wrapping ErrInvalidKey is
// returned.
func (g *Gate) Activate(key string) (Status, error) {
	g.mu.Lock()
	expected := DeriveKey(g.sub.SystemID)
	if NormalizeKey(key) != expected {
		st := Evaluate(g.sub, g.now())
		g.mu.Unlock()

		metrics.Activations.WithLabelValues("invalid").Inc()
		slog.Warn("Activation rejected", "system_id", st.SystemID)
		return st, &LicenseError{
			Err:        ErrInvalidKey,
			Message:    "Invalid License Key. Verification Failed.",
			ClearAfter: 4 * time.Second,
		}
	}

	now := g.now()
	g.sub.IsActivated = true
	g.sub.LastActivationDate = &now
	st := Evaluate(g.sub, now)
	fn := g.onChange
	g.mu.Unlock()

	metrics.Activations.WithLabelValues("ok").Inc()
	slog.Info("License activated", "system_id", st.SystemID, "days_left", st.DaysLeft)
	fn()
	return st, nil
}

// Subscription returns a copy of the persisted subscription.
func (g *Gate) Subscription() models.SubscriptionData {
	g.mu.Lock()
	defer g.mu.Unlock()
	return copySubscription(g.sub)
}

// Restore replaces the subscription with a persisted one without firing the
// change hook. A restored record with no system ID keeps the current one.
func (g *Gate) Restore(sub models.SubscriptionData) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sub = copySubscription(sub)
	if sub.SystemID == "" {
		sub.SystemID = g.sub.SystemID
	}
	if sub.InstallDate.IsZero() {
		sub.InstallDate = g.sub.InstallDate
	}
	g.sub = sub
}

// Reset returns the gate to a fresh-install subscription.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sub = DefaultSubscription(g.now())
}

func copySubscription(sub models.SubscriptionData) models.SubscriptionData {
	if sub.LastActivationDate != nil {
		t := *sub.LastActivationDate
		sub.LastActivationDate = &t
	}
	return sub
}
