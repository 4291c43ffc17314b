// Package models defines the core domain models for flexledger.
//
// # Ledger Models
//
//   - Service: a catalog entry (name, default rate, pricing category)
//   - Bill: an invoice for one customer, made of items
//   - BillItem: a single job on a bill, priced by area or by unit
//
// # License Models
//
//   - SubscriptionData: install/activation timestamps and the system ID
//
// # Side Ledgers
//
//   - Expense: a business expense
//   - PersonalTransaction: a private, non-business transaction
//
// # Derived Fields
//
// Area, Amount, TotalAmount and Bill.Status are projections of other fields.
// They are stored so the persisted JSON is self-describing, but they are
// always recomputed by the calculator package after a mutation and never set
// directly by callers.
//
// Models carry JSON tags because every slot is persisted as a JSON value.
// Money and dimensions use decimal.Decimal to keep sums exact.
package models
