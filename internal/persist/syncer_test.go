package persist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/flexledger/internal/ledger"
	"github.com/mmynk/flexledger/internal/license"
	"github.com/mmynk/flexledger/internal/models"
	"github.com/mmynk/flexledger/internal/storage/memory"
)

const testDelay = 50 * time.Millisecond

type fixture struct {
	store  *memory.Store
	ledger *ledger.Ledger
	gate   *license.Gate
	syncer *Syncer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  memory.New(),
		ledger: ledger.New(),
		gate:   license.NewGate(),
	}
	f.syncer = New(f.store, LedgerSlots(f.ledger, f.gate), WithDelay(testDelay))
	Bind(f.syncer, f.ledger, f.gate)
	t.Cleanup(func() { f.syncer.Close(context.Background()) })
	return f
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func storedBills(t *testing.T, s *memory.Store) []models.Bill {
	t.Helper()
	raw, err := s.Get(context.Background(), KeyBills)
	if err != nil {
		t.Fatalf("bills slot missing: %v", err)
	}
	var bills []models.Bill
	if err := json.Unmarshal(raw, &bills); err != nil {
		t.Fatalf("bills slot corrupt: %v", err)
	}
	return bills
}

func createBill(t *testing.T, l *ledger.Ledger, name, phone string) models.Bill {
	t.Helper()
	d := ledger.NewDraft()
	d.CustomerName = name
	d.CustomerPhone = phone
	svc, _ := l.Service("5")
	d.AddItem(svc)
	res, err := l.CreateBill(d)
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	return res.Bill
}

func TestSyncer_Debounce(t *testing.T) {
	f := newFixture(t)
	f.syncer.Load(context.Background())

	if !waitFor(t, time.Second, func() bool { return f.store.Writes() == 1 }) {
		t.Fatalf("initial flush after load did not happen, writes = %d", f.store.Writes())
	}

	first := createBill(t, f.ledger, "Ravi", "111")
	time.Sleep(testDelay / 5)
	createBill(t, f.ledger, "Sita", "222")
	time.Sleep(testDelay / 5)
	f.ledger.UpdateItemStatus(first.ID, first.Items[0].ID, models.StatusPaid)

	if got := f.store.Writes(); got != 1 {
		t.Fatalf("flush ran inside the quiet period, writes = %d", got)
	}
	if !f.syncer.Status().Syncing {
		t.Error("Syncing should be true while a flush is pending")
	}

	if !waitFor(t, time.Second, func() bool { return f.store.Writes() == 2 }) {
		t.Fatalf("burst flush did not happen, writes = %d", f.store.Writes())
	}
	time.Sleep(2 * testDelay)
	if got := f.store.Writes(); got != 2 {
		t.Errorf("burst of three mutations produced %d flushes, want 1", got-1)
	}

	bills := storedBills(t, f.store)
	if len(bills) != 2 {
		t.Fatalf("stored bills = %d, want 2", len(bills))
	}
	for _, b := range bills {
		if b.ID == first.ID && b.Status != models.StatusPaid {
			t.Error("flush must reflect the state after the last mutation")
		}
	}

	st := f.syncer.Status()
	if st.Syncing {
		t.Error("Syncing should be false after the flush")
	}
	if st.LastSyncedAt.IsZero() {
		t.Error("LastSyncedAt not set")
	}
	if st.SlotBytes[KeyBills] == 0 {
		t.Error("SlotBytes not recorded")
	}
}

func TestSyncer_NotifyBeforeLoadIsIgnored(t *testing.T) {
	f := newFixture(t)
	createBill(t, f.ledger, "Ravi", "")
	time.Sleep(3 * testDelay)
	if got := f.store.Writes(); got != 0 {
		t.Errorf("flushed before load, writes = %d", got)
	}
}

func TestSyncer_LoadFaultIsolation(t *testing.T) {
	f := newFixture(t)

	activatedAt := time.Now().Add(-48 * time.Hour)
	sub, _ := json.Marshal(models.SubscriptionData{
		InstallDate:        activatedAt,
		IsActivated:        true,
		LastActivationDate: &activatedAt,
		SystemID:           "A1B2C",
	})
	services, _ := json.Marshal([]models.Service{
		{ID: "x", Name: "Canvas", Rate: decimal.NewFromInt(30), Category: models.CategoryArea},
	})
	f.store.Set(KeyBills, []byte(`[{"id": "INV-1", "items": [`))
	f.store.Set(KeyServices, services)
	f.store.Set(KeySubscription, sub)
	f.store.Set(KeyExpenses, []byte(`{"not": "a list"}`))

	report := f.syncer.Load(context.Background())

	if len(report.Failures) != 2 {
		t.Fatalf("failures = %d, want 2 (bills, expenses)", len(report.Failures))
	}
	for _, fail := range report.Failures {
		if !errors.Is(fail, ErrRestore) {
			t.Errorf("failure %v should match ErrRestore", fail)
		}
		if fail.Slot != KeyBills && fail.Slot != KeyExpenses {
			t.Errorf("unexpected failed slot %s", fail.Slot)
		}
	}
	if len(report.Defaulted) != 1 || report.Defaulted[0] != KeyPersonal {
		t.Errorf("defaulted = %v, want [%s]", report.Defaulted, KeyPersonal)
	}

	if len(f.ledger.Bills()) != 0 {
		t.Error("corrupted bills slot should reset to empty")
	}
	svcs := f.ledger.Services()
	if len(svcs) != 1 || svcs[0].Name != "Canvas" {
		t.Errorf("services not restored: %+v", svcs)
	}
	st := f.gate.Status()
	if st.SystemID != "A1B2C" || st.State != license.StateActivated || st.DaysLeft != 28 {
		t.Errorf("subscription not restored: %+v", st)
	}
}

func TestSyncer_RetryAfterSyncError(t *testing.T) {
	f := newFixture(t)
	f.syncer.Load(context.Background())
	waitFor(t, time.Second, func() bool { return f.store.Writes() == 1 })

	f.store.FailWrites(errors.New("disk full"))
	createBill(t, f.ledger, "Ravi", "")

	if !waitFor(t, time.Second, func() bool { return f.syncer.Status().LastError != nil }) {
		t.Fatal("expected a sync error")
	}
	if err := f.syncer.Status().LastError; !errors.Is(err, ErrSync) {
		t.Errorf("LastError = %v, want SyncError", err)
	}
	if len(f.ledger.Bills()) != 1 {
		t.Error("ledger state must survive a failed flush")
	}

	f.store.FailWrites(nil)
	createBill(t, f.ledger, "Sita", "")

	if !waitFor(t, time.Second, func() bool { return f.store.Writes() == 2 }) {
		t.Fatal("retry flush did not happen")
	}
	if err := f.syncer.Status().LastError; err != nil {
		t.Errorf("LastError after recovery = %v", err)
	}
	if got := len(storedBills(t, f.store)); got != 2 {
		t.Errorf("stored bills = %d, want 2", got)
	}
}

func TestSyncer_CloseFlushesPending(t *testing.T) {
	store := memory.New()
	l := ledger.New()
	g := license.NewGate()
	s := New(store, LedgerSlots(l, g), WithDelay(time.Hour))
	Bind(s, l, g)
	s.Load(context.Background())

	createBill(t, l, "Ravi", "")
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if store.Writes() != 1 {
		t.Fatalf("writes = %d, want 1", store.Writes())
	}
	if got := len(storedBills(t, store)); got != 1 {
		t.Errorf("stored bills = %d, want 1", got)
	}

	createBill(t, l, "Sita", "")
	if store.Writes() != 1 {
		t.Error("Notify after Close must not schedule a flush")
	}
}

func TestSyncer_RoundTrip(t *testing.T) {
	first := newFixture(t)
	first.syncer.Load(context.Background())
	createBill(t, first.ledger, "Ravi", "98765")
	first.ledger.AddExpense(decimal.NewFromInt(40), "", "Ink")
	if _, err := first.gate.Activate(license.DeriveKey(first.gate.Status().SystemID)); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if err := first.syncer.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	l := ledger.New()
	g := license.NewGate()
	s := New(first.store, LedgerSlots(l, g), WithDelay(testDelay))
	defer s.Close(context.Background())
	report := s.Load(context.Background())

	if len(report.Failures) != 0 || len(report.Restored) != 5 {
		t.Fatalf("report = %+v, want all five slots restored", report)
	}
	bills := l.Bills()
	if len(bills) != 1 || bills[0].CustomerPhone != "98765" {
		t.Errorf("bills not restored: %+v", bills)
	}
	if !bills[0].TotalAmount.Equal(decimal.NewFromInt(800)) {
		t.Errorf("total = %s, want 800", bills[0].TotalAmount)
	}
	if len(l.Expenses()) != 1 {
		t.Error("expenses not restored")
	}
	if g.Status().SystemID != first.gate.Status().SystemID || g.Locked() {
		t.Error("subscription not restored")
	}
}
