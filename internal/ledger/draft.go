package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/flexledger/internal/calculator"
	"github.com/mmynk/flexledger/internal/models"
)

// Draft is a bill being composed. It is not part of the ledger until it is
// passed to Ledger.CreateBill. A draft whose last item was removed is simply
// empty; it is never persisted.
type Draft struct {
	CustomerName  string
	CustomerPhone string
	Notes         string

	items []models.BillItem
	// categories holds the pricing mode of each item's service as it was
	// when the item was added.
	categories map[string]models.Category
}

// ItemUpdate carries the editable fields of a draft item. Nil fields are left
// unchanged.
type ItemUpdate struct {
	Width    *decimal.Decimal
	Height   *decimal.Decimal
	Rate     *decimal.Decimal
	Quantity *int
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{categories: make(map[string]models.Category)}
}

// AddItem appends an item for the given service with its default rate.
// Area-based items start at 1ft × 1ft; unit-based items have no dimensions.
func (d *Draft) AddItem(svc models.Service) models.BillItem {
	item := models.BillItem{
		ID:          uuid.NewString(),
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Width:       decimal.Zero,
		Height:      decimal.Zero,
		Rate:        svc.Rate,
		Quantity:    1,
		Status:      models.StatusPending,
	}
	if svc.Category == models.CategoryArea {
		item.Width = decimal.NewFromInt(1)
		item.Height = decimal.NewFromInt(1)
	}
	calculator.PriceItem(&item, svc.Category)

	if d.categories == nil {
		d.categories = make(map[string]models.Category)
	}
	d.categories[item.ID] = svc.Category
	d.items = append(d.items, item)
	return item
}

// UpdateItem applies u to the item and reprices it. A quantity of zero is
// treated as 1. Returns false if no item has the given ID.
func (d *Draft) UpdateItem(itemID string, u ItemUpdate) (models.BillItem, bool) {
	for i := range d.items {
		item := &d.items[i]
		if item.ID != itemID {
			continue
		}
		if u.Width != nil {
			item.Width = *u.Width
		}
		if u.Height != nil {
			item.Height = *u.Height
		}
		if u.Rate != nil {
			item.Rate = *u.Rate
		}
		if u.Quantity != nil {
			item.Quantity = *u.Quantity
			if item.Quantity == 0 {
				item.Quantity = 1
			}
		}
		calculator.PriceItem(item, d.categories[itemID])
		return *item, true
	}
	return models.BillItem{}, false
}

// RemoveItem drops the item. Returns false if no item has the given ID.
func (d *Draft) RemoveItem(itemID string) bool {
	for i := range d.items {
		if d.items[i].ID == itemID {
			d.items = append(d.items[:i], d.items[i+1:]...)
			delete(d.categories, itemID)
			return true
		}
	}
	return false
}

// Items returns a copy of the draft's items.
func (d *Draft) Items() []models.BillItem {
	return append([]models.BillItem(nil), d.items...)
}

// Total is the running sum of the draft's item amounts.
func (d *Draft) Total() decimal.Decimal {
	return calculator.ItemsTotal(d.items)
}

// Empty reports whether the draft has no items.
func (d *Draft) Empty() bool {
	return len(d.items) == 0
}

// discard empties the draft once its items have entered the ledger, so the
// same items cannot be committed twice.
func (d *Draft) discard() {
	*d = Draft{categories: make(map[string]models.Category)}
}

// reprice re-establishes the pricing invariant on every item before the draft
// enters the ledger.
func (d *Draft) reprice() {
	for i := range d.items {
		cat, ok := d.categories[d.items[i].ID]
		if !ok {
			cat = models.CategoryUnit
		}
		calculator.PriceItem(&d.items[i], cat)
	}
}
