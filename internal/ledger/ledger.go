// Package ledger owns the in-memory billing state: bills, the service
// catalog, expenses and personal transactions.
//
// Every mutation is atomic with respect to the others and, once applied,
// reported through the change hook so the persistence layer can schedule a
// flush. Read methods return copies; callers never alias ledger state.
package ledger

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/flexledger/internal/calculator"
	"github.com/mmynk/flexledger/internal/metrics"
	"github.com/mmynk/flexledger/internal/models"
)

const (
	// TimeLayout is the wall-clock format stored on bills.
	TimeLayout = "15:04:05"

	notesSeparator = " | "
)

// Ledger is the billing aggregate. Bills are kept most-recent-first.
type Ledger struct {
	mu       sync.Mutex
	bills    []models.Bill
	services []models.Service
	expenses []models.Expense
	personal []models.PersonalTransaction

	now      func() time.Time
	onChange func()
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used for bill IDs and dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates an empty ledger seeded with the default service catalog.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		services: models.DefaultServices(),
		now:      time.Now,
		onChange: func() {},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnChange registers the hook called after every applied mutation.
// The hook runs without the ledger lock held.
func (l *Ledger) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if fn == nil {
		fn = func() {}
	}
	l.onChange = fn
}

func (l *Ledger) changed() {
	l.mu.Lock()
	fn := l.onChange
	l.mu.Unlock()
	fn()
}

// CreateResult reports where a draft ended up.
type CreateResult struct {
	Bill models.Bill
	// Merged is true when the draft was folded into an existing pending bill.
	Merged bool
}

// CreateBill validates the draft and adds it to the ledger.
//
// If a Pending bill with the same non-empty phone exists, the first such bill
// in ledger order absorbs the draft's items (appended after its own) and
// notes (joined with " | "); the draft never becomes its own entry.
// Otherwise the draft becomes a new bill at the front of the ledger.
func (l *Ledger) CreateBill(d *Draft) (CreateResult, error) {
	if d == nil {
		return CreateResult{}, newValidationError("items", "at least one item is required")
	}
	if strings.TrimSpace(d.CustomerName) == "" {
		return CreateResult{}, newValidationError("customerName", "customer name is required")
	}
	if d.Empty() {
		return CreateResult{}, newValidationError("items", "at least one item is required")
	}

	d.reprice()
	items := d.Items()
	d.discard()

	l.mu.Lock()
	if idx := l.mergeTarget(d.CustomerPhone); idx >= 0 {
		target := &l.bills[idx]
		target.Items = append(target.Items, items...)
		if d.Notes != "" {
			target.Notes += notesSeparator + d.Notes
		}
		calculator.Rollup(target)
		result := CreateResult{Bill: target.Clone(), Merged: true}
		l.mu.Unlock()

		metrics.BillsMerged.Inc()
		slog.Info("Merged items into existing bill",
			"bill_id", result.Bill.ID,
			"customer", result.Bill.CustomerName,
			"new_items", len(items),
			"total", result.Bill.TotalAmount.String(),
		)
		l.changed()
		return result, nil
	}

	now := l.now()
	bill := models.Bill{
		ID:            l.nextBillID(now),
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		Date:          now.Format(calculator.DateLayout),
		Time:          now.Format(TimeLayout),
		Items:         items,
		Notes:         d.Notes,
	}
	calculator.Rollup(&bill)
	l.bills = append([]models.Bill{bill}, l.bills...)
	result := CreateResult{Bill: bill.Clone()}
	l.mu.Unlock()

	metrics.BillsCreated.Inc()
	slog.Info("Bill created", "bill_id", bill.ID, "items", len(items), "total", bill.TotalAmount.String())
	l.changed()
	return result, nil
}

// mergeTarget returns the index of the first pending bill for phone, or -1.
// Caller must hold mu.
func (l *Ledger) mergeTarget(phone string) int {
	if phone == "" {
		return -1
	}
	for i := range l.bills {
		b := &l.bills[i]
		if b.Status == models.StatusPending && b.CustomerPhone == phone {
			return i
		}
	}
	return -1
}

// nextBillID returns a time-based ID not already used in the ledger.
// Caller must hold mu.
func (l *Ledger) nextBillID(now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("INV-%d", ms)
		if l.indexOf(id) < 0 {
			return id
		}
		ms++
	}
}

// indexOf returns the position of the bill in the ledger, or -1.
// Caller must hold mu.
func (l *Ledger) indexOf(billID string) int {
	for i := range l.bills {
		if l.bills[i].ID == billID {
			return i
		}
	}
	return -1
}

// UpdateItemStatus sets an item's status and re-derives the bill status.
// Unknown bill or item IDs are a silent no-op and report false.
func (l *Ledger) UpdateItemStatus(billID, itemID string, status models.Status) (models.Bill, bool) {
	l.mu.Lock()
	idx := l.indexOf(billID)
	if idx < 0 {
		l.mu.Unlock()
		return models.Bill{}, false
	}
	bill := &l.bills[idx]
	item := bill.Item(itemID)
	if item == nil {
		l.mu.Unlock()
		return models.Bill{}, false
	}
	item.Status = status
	calculator.Rollup(bill)
	updated := bill.Clone()
	l.mu.Unlock()

	slog.Debug("Item status updated", "bill_id", billID, "item_id", itemID, "status", status, "bill_status", updated.Status)
	l.changed()
	return updated, true
}

// DeleteBill removes a bill and its items. Deleting an unknown ID is a no-op.
func (l *Ledger) DeleteBill(billID string) bool {
	l.mu.Lock()
	idx := l.indexOf(billID)
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	l.bills = append(l.bills[:idx], l.bills[idx+1:]...)
	l.mu.Unlock()

	slog.Info("Bill deleted", "bill_id", billID)
	l.changed()
	return true
}

// Bill returns a copy of the bill with the given ID.
func (l *Ledger) Bill(billID string) (models.Bill, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(billID)
	if idx < 0 {
		return models.Bill{}, false
	}
	return l.bills[idx].Clone(), true
}

// Bills returns a copy of all bills in ledger order.
func (l *Ledger) Bills() []models.Bill {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneBills(l.bills)
}

// Search returns bills whose customer name or ID contains term
// (case-insensitive) or whose phone contains term. An empty term matches all.
func (l *Ledger) Search(term string) []models.Bill {
	l.mu.Lock()
	defer l.mu.Unlock()

	lower := strings.ToLower(term)
	var out []models.Bill
	for _, b := range l.bills {
		if strings.Contains(strings.ToLower(b.CustomerName), lower) ||
			(b.CustomerPhone != "" && strings.Contains(b.CustomerPhone, term)) ||
			strings.Contains(strings.ToLower(b.ID), lower) {
			out = append(out, b.Clone())
		}
	}
	return out
}

// Summary computes the finance overview for the last `days` days.
func (l *Ledger) Summary(days int) calculator.Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return calculator.Summarize(l.bills, l.expenses, l.now(), days)
}

// ReplaceBills swaps in a restored bill list without firing the change hook.
// Derived fields are recomputed rather than trusted.
func (l *Ledger) ReplaceBills(bills []models.Bill) {
	bills = cloneBills(bills)
	for i := range bills {
		calculator.Rollup(&bills[i])
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bills = bills
}

func cloneBills(bills []models.Bill) []models.Bill {
	out := make([]models.Bill, len(bills))
	for i, b := range bills {
		out[i] = b.Clone()
	}
	return out
}
