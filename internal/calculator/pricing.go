// Package calculator holds the pure pricing and rollup rules of the ledger.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/flexledger/internal/models"
)

// PriceItem recomputes an item's area and amount from its source fields.
//
// Area-based: area = width × height, amount = area × rate × quantity
// Unit-based:  area = 0,              amount = rate × quantity
func PriceItem(item *models.BillItem, category models.Category) {
	qty := decimal.NewFromInt(int64(item.Quantity))
	if category == models.CategoryArea {
		item.Area = item.Width.Mul(item.Height)
		item.Amount = item.Area.Mul(item.Rate).Mul(qty)
		return
	}
	item.Area = decimal.Zero
	item.Amount = item.Rate.Mul(qty)
}

// ItemsTotal sums the amounts of the given items.
func ItemsTotal(items []models.BillItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// RollupStatus returns Paid iff every item is Paid.
func RollupStatus(items []models.BillItem) models.Status {
	for _, item := range items {
		if item.Status != models.StatusPaid {
			return models.StatusPending
		}
	}
	return models.StatusPaid
}

// Rollup re-derives the bill's total and status from its items.
func Rollup(bill *models.Bill) {
	bill.TotalAmount = ItemsTotal(bill.Items)
	bill.Status = RollupStatus(bill.Items)
}
