package license

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/flexledger/internal/models"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"HELLO", "LLOEH-SG249"},
		{"A1B2C", "2BC1A-SG249"},
		{"abcde", "DCEBA-SG249"},
		{"AB", "AB-SG249"},
		{"A", "A-SG249"},
		{"XYZ", "YXZ-SG249"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := DeriveKey(tt.id); got != tt.want {
				t.Errorf("DeriveKey(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestDeriveKey_IsPure(t *testing.T) {
	if DeriveKey("K9Q2Z") != DeriveKey("K9Q2Z") {
		t.Error("DeriveKey must be deterministic")
	}
}

func TestNewSystemID(t *testing.T) {
	id := NewSystemID()
	if len(id) != systemIDLength {
		t.Errorf("len(%q) = %d, want %d", id, len(id), systemIDLength)
	}
	if id != strings.ToUpper(id) {
		t.Errorf("system id %q should be uppercase", id)
	}
}

func TestEvaluate(t *testing.T) {
	install := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	activated := func(at time.Time) models.SubscriptionData {
		return models.SubscriptionData{InstallDate: install, IsActivated: true, LastActivationDate: &at, SystemID: "HELLO"}
	}

	tests := []struct {
		name      string
		sub       models.SubscriptionData
		now       time.Time
		wantState State
		wantDays  int
	}{
		{
			name:      "fresh install is locked with zero trial",
			sub:       models.SubscriptionData{InstallDate: install, SystemID: "HELLO"},
			now:       install,
			wantState: StateLocked,
			wantDays:  0,
		},
		{
			name:      "activated today has full window",
			sub:       activated(install),
			now:       install.Add(time.Hour),
			wantState: StateActivated,
			wantDays:  30,
		},
		{
			name:      "partial days are floored",
			sub:       activated(install),
			now:       install.Add(10*24*time.Hour + 23*time.Hour),
			wantState: StateActivated,
			wantDays:  20,
		},
		{
			name:      "expired window clamps to zero",
			sub:       activated(install),
			now:       install.AddDate(0, 3, 0),
			wantState: StateActivated,
			wantDays:  0,
		},
		{
			name:      "clock before activation never exceeds window",
			sub:       activated(install),
			now:       install.AddDate(-1, 0, 0),
			wantState: StateActivated,
			wantDays:  30,
		},
		{
			name:      "clock before install stays locked",
			sub:       models.SubscriptionData{InstallDate: install, SystemID: "HELLO"},
			now:       install.AddDate(0, 0, -5),
			wantState: StateLocked,
			wantDays:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Evaluate(tt.sub, tt.now)
			if st.State != tt.wantState {
				t.Errorf("State = %s, want %s", st.State, tt.wantState)
			}
			if st.DaysLeft != tt.wantDays {
				t.Errorf("DaysLeft = %d, want %d", st.DaysLeft, tt.wantDays)
			}
			if st.DaysLeft < 0 {
				t.Error("DaysLeft must never be negative")
			}
			if st.Progress < 0 || st.Progress > 1 {
				t.Errorf("Progress = %f, want within [0, 1]", st.Progress)
			}
		})
	}
}

func TestGate_Activate(t *testing.T) {
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("wrong key leaves state unchanged", func(t *testing.T) {
		g := NewGate(WithClock(clock))
		g.Restore(models.SubscriptionData{InstallDate: now, SystemID: "A1B2C"})
		changes := 0
		g.OnChange(func() { changes++ })

		before := g.Subscription()
		_, err := g.Activate("WRONG-SG249")
		if !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey, got %v", err)
		}
		var licErr *LicenseError
		if !errors.As(err, &licErr) || licErr.ClearAfter != 4*time.Second {
			t.Errorf("expected LicenseError with 4s clear, got %#v", err)
		}
		after := g.Subscription()
		if after.IsActivated != before.IsActivated || after.LastActivationDate != nil {
			t.Error("failed activation mutated state")
		}
		if !g.Locked() {
			t.Error("gate should remain locked")
		}
		if changes != 0 {
			t.Error("failed activation fired change hook")
		}
	})

	t.Run("correct key activates and is case and space insensitive", func(t *testing.T) {
		g := NewGate(WithClock(clock))
		g.Restore(models.SubscriptionData{InstallDate: now.AddDate(0, 0, -3), SystemID: "A1B2C"})
		changes := 0
		g.OnChange(func() { changes++ })

		st, err := g.Activate("  2bc1a-sg249 ")
		if err != nil {
			t.Fatalf("Activate failed: %v", err)
		}
		if st.State != StateActivated || st.DaysLeft != PremiumDays {
			t.Errorf("status = %s/%d, want Activated/%d", st.State, st.DaysLeft, PremiumDays)
		}
		sub := g.Subscription()
		if !sub.IsActivated || sub.LastActivationDate == nil || !sub.LastActivationDate.Equal(now) {
			t.Errorf("subscription not activated: %+v", sub)
		}
		if g.Locked() {
			t.Error("gate should be open after activation")
		}
		if changes != 1 {
			t.Errorf("changes = %d, want 1", changes)
		}
	})

	t.Run("reactivation resets the window", func(t *testing.T) {
		cur := now
		g := NewGate(WithClock(func() time.Time { return cur }))
		old := now.AddDate(0, 0, -25)
		g.Restore(models.SubscriptionData{InstallDate: old, IsActivated: true, LastActivationDate: &old, SystemID: "HELLO"})
		if got := g.Status().DaysLeft; got != 5 {
			t.Fatalf("DaysLeft = %d, want 5", got)
		}
		if _, err := g.Activate(DeriveKey("HELLO")); err != nil {
			t.Fatalf("Activate failed: %v", err)
		}
		if got := g.Status().DaysLeft; got != PremiumDays {
			t.Errorf("DaysLeft = %d, want %d", got, PremiumDays)
		}
	})
}

func TestGate_RestoreKeepsSystemID(t *testing.T) {
	g := NewGate()
	id := g.Subscription().SystemID
	g.Restore(models.SubscriptionData{IsActivated: false})
	if got := g.Subscription().SystemID; got != id {
		t.Errorf("SystemID = %q, want %q", got, id)
	}
}

func TestRequestLink(t *testing.T) {
	link := RequestLink("A1B2C", "91", "9960967852")
	if !strings.HasPrefix(link, "https://wa.me/919960967852?text=") {
		t.Errorf("unexpected link prefix: %s", link)
	}
	if !strings.Contains(link, "A1B2C") {
		t.Error("link should include the system id")
	}
	if strings.Contains(link, " ") || strings.Contains(link, "+") {
		t.Error("link text must be percent-encoded")
	}
}
