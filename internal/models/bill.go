package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the payment status of a bill or item.
type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
)

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "paid":
		return StatusPaid, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Bill represents an invoice for a single customer.
// Bills are kept most-recent-first in the ledger.
type Bill struct {
	// ID is the unique, immutable invoice identifier (INV-<unix millis>).
	ID string `json:"id"`

	CustomerName string `json:"customerName"`

	// CustomerPhone is optional. Bills without a phone never merge.
	CustomerPhone string `json:"customerPhone"`

	// Date and Time record when the bill was first created (local time).
	Date string `json:"date"`
	Time string `json:"time"`

	// Items are the jobs on this bill, in the order they were added.
	Items []BillItem `json:"items"`

	// TotalAmount is the sum of all item amounts.
	TotalAmount decimal.Decimal `json:"totalAmount"`

	// Status is Paid iff every item is Paid.
	Status Status `json:"status"`

	// Notes are free-form office notes. Merged bills join notes with " | ".
	Notes string `json:"notes"`
}

// Clone returns a deep copy of the bill.
func (b Bill) Clone() Bill {
	b.Items = append([]BillItem(nil), b.Items...)
	return b
}

// Item returns a pointer to the item with the given ID, or nil.
func (b *Bill) Item(itemID string) *BillItem {
	for i := range b.Items {
		if b.Items[i].ID == itemID {
			return &b.Items[i]
		}
	}
	return nil
}

// BillItem represents a single job on a bill.
type BillItem struct {
	ID        string `json:"id"`
	ServiceID string `json:"serviceId"`

	// ServiceName is a snapshot of the service name when the item was added.
	ServiceName string `json:"serviceName"`

	// Width and Height are in feet. Zero for unit-based services.
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`

	// Area is Width*Height for area-based services, zero otherwise.
	Area decimal.Decimal `json:"sqft"`

	Rate     decimal.Decimal `json:"rate"`
	Quantity int             `json:"quantity"`

	// Amount is Area*Rate*Quantity (area-based) or Rate*Quantity (unit-based).
	Amount decimal.Decimal `json:"amount"`

	Status Status `json:"status"`
}
