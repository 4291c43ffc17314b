package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/flexledger/internal/models"
)

// Bills

type DraftItem struct {
	ServiceID string `json:"serviceId"`
	// Nil fields keep the service defaults (1x1 for area items, quantity 1,
	// the catalog rate).
	Width    *decimal.Decimal `json:"width,omitempty"`
	Height   *decimal.Decimal `json:"height,omitempty"`
	Rate     *decimal.Decimal `json:"rate,omitempty"`
	Quantity *int             `json:"quantity,omitempty"`
}

type CreateBillRequest struct {
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	Notes         string      `json:"notes"`
	Items         []DraftItem `json:"items"`
}

type CreateBillResponse struct {
	Bill   models.Bill `json:"bill"`
	Merged bool        `json:"merged"`
}

type UpdateItemStatusRequest struct {
	BillID string `json:"billId"`
	ItemID string `json:"itemId"`
	Status string `json:"status"`
}

type UpdateItemStatusResponse struct {
	// Bill is nil when the IDs did not resolve; nothing changed then.
	Bill    *models.Bill `json:"bill,omitempty"`
	Updated bool         `json:"updated"`
}

type DeleteBillRequest struct {
	BillID string `json:"billId"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type ListBillsRequest struct {
	// Status optionally filters by bill status.
	Status string `json:"status,omitempty"`
}

type BillsResponse struct {
	Bills []models.Bill `json:"bills"`
}

type SearchBillsRequest struct {
	Term string `json:"term"`
}

type ExportCSVRequest struct{}

type ExportCSVResponse struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}

type SummaryRequest struct {
	// Days is the length of the daily series, 7 when zero.
	Days int `json:"days,omitempty"`
}

type DailyFigure struct {
	Date     string          `json:"date"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
}

type SummaryResponse struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Pending   decimal.Decimal `json:"pending"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
	Daily     []DailyFigure   `json:"daily"`
}

type ReminderRequest struct {
	BillID string `json:"billId"`
}

type ReminderResponse struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

type SyncStatusRequest struct{}

type SyncStatusResponse struct {
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	Syncing      bool       `json:"syncing"`
	LastError    string     `json:"lastError,omitempty"`
	BillsBytes   int        `json:"billsBytes"`
}

// Catalog

type ListServicesRequest struct{}

type ServicesResponse struct {
	Services []models.Service `json:"services"`
}

type AddServiceRequest struct {
	Name     string          `json:"name"`
	Rate     decimal.Decimal `json:"defaultRate"`
	Category string          `json:"category"`
}

type ServiceResponse struct {
	Service models.Service `json:"service"`
}

type DeleteServiceRequest struct {
	ServiceID string `json:"serviceId"`
}

// Expenses and personal transactions

type ListExpensesRequest struct{}

type ExpensesResponse struct {
	Expenses []models.Expense `json:"expenses"`
}

type AddExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description"`
}

type ExpenseResponse struct {
	Expense models.Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type ListPersonalRequest struct{}

type PersonalResponse struct {
	Transactions []models.PersonalTransaction `json:"transactions"`
}

type AddPersonalRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
}

type PersonalTransactionResponse struct {
	Transaction models.PersonalTransaction `json:"transaction"`
}

type DeletePersonalRequest struct {
	TransactionID string `json:"transactionId"`
}

// License

type LicenseStatusRequest struct{}

type LicenseStatusResponse struct {
	State    string  `json:"state"`
	DaysLeft int     `json:"daysLeft"`
	Progress float64 `json:"progress"`
	SystemID string  `json:"systemId"`
	Locked   bool    `json:"locked"`
}

type ActivateRequest struct {
	Key string `json:"key"`
}

type RequestLinkRequest struct{}

type RequestLinkResponse struct {
	Link string `json:"link"`
}
