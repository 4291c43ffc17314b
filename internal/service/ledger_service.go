package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/flexledger/internal/calculator"
	"github.com/mmynk/flexledger/internal/export"
	"github.com/mmynk/flexledger/internal/ledger"
	"github.com/mmynk/flexledger/internal/models"
	"github.com/mmynk/flexledger/internal/persist"
	"github.com/mmynk/flexledger/internal/reminder"
)

const (
	LedgerServiceName = "flexledger.v1.LedgerService"

	defaultSummaryDays = 7
)

// SyncReporter exposes the persistence status.
type SyncReporter interface {
	Status() persist.Status
}

// ReminderGenerator writes reminder text for a bill.
type ReminderGenerator interface {
	GenerateReminder(ctx context.Context, bill models.Bill) string
}

// LedgerSettings carries the install-specific strings the service needs.
type LedgerSettings struct {
	BusinessName string
	CountryCode  string
}

// LedgerService exposes the ledger over Connect.
type LedgerService struct {
	ledger    *ledger.Ledger
	sync      SyncReporter
	reminders ReminderGenerator
	settings  LedgerSettings
	now       func() time.Time
}

// NewLedgerService creates a LedgerService over l.
func NewLedgerService(l *ledger.Ledger, sync SyncReporter, reminders ReminderGenerator, settings LedgerSettings) *LedgerService {
	return &LedgerService{
		ledger:    l,
		sync:      sync,
		reminders: reminders,
		settings:  settings,
		now:       time.Now,
	}
}

// NewLedgerServiceHandler builds the HTTP handler for every LedgerService
// procedure and returns the path prefix to mount it on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	p := func(method string) string { return "/" + LedgerServiceName + "/" + method }

	unary(mux, p("CreateBill"), svc.CreateBill, opts)
	unary(mux, p("UpdateItemStatus"), svc.UpdateItemStatus, opts)
	unary(mux, p("DeleteBill"), svc.DeleteBill, opts)
	unary(mux, p("ListBills"), svc.ListBills, opts)
	unary(mux, p("SearchBills"), svc.SearchBills, opts)
	unary(mux, p("ExportCSV"), svc.ExportCSV, opts)
	unary(mux, p("Summary"), svc.Summary, opts)
	unary(mux, p("ListServices"), svc.ListServices, opts)
	unary(mux, p("AddService"), svc.AddService, opts)
	unary(mux, p("DeleteService"), svc.DeleteService, opts)
	unary(mux, p("ListExpenses"), svc.ListExpenses, opts)
	unary(mux, p("AddExpense"), svc.AddExpense, opts)
	unary(mux, p("DeleteExpense"), svc.DeleteExpense, opts)
	unary(mux, p("ListPersonal"), svc.ListPersonal, opts)
	unary(mux, p("AddPersonal"), svc.AddPersonal, opts)
	unary(mux, p("DeletePersonal"), svc.DeletePersonal, opts)
	unary(mux, p("Reminder"), svc.Reminder, opts)
	unary(mux, p("SyncStatus"), svc.SyncStatus, opts)

	return "/" + LedgerServiceName + "/", mux
}

// CreateBill composes a draft from the request and adds it to the ledger,
// merging into a pending bill for the same phone when one exists.
func (s *LedgerService) CreateBill(ctx context.Context, req *CreateBillRequest) (*CreateBillResponse, error) {
	d := ledger.NewDraft()
	d.CustomerName = req.CustomerName
	d.CustomerPhone = req.CustomerPhone
	d.Notes = req.Notes

	for i, in := range req.Items {
		svc, ok := s.ledger.Service(in.ServiceID)
		if !ok {
			return nil, connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("items[%d]: unknown service %q", i, in.ServiceID))
		}
		item := d.AddItem(svc)
		d.UpdateItem(item.ID, ledger.ItemUpdate{
			Width:    in.Width,
			Height:   in.Height,
			Rate:     in.Rate,
			Quantity: in.Quantity,
		})
	}

	res, err := s.ledger.CreateBill(d)
	if err != nil {
		return nil, toConnectError(err)
	}
	return &CreateBillResponse{Bill: res.Bill, Merged: res.Merged}, nil
}

// UpdateItemStatus marks one item Paid or Pending. Unknown IDs are not an
// error: the response reports Updated=false and nothing changes.
func (s *LedgerService) UpdateItemStatus(ctx context.Context, req *UpdateItemStatusRequest) (*UpdateItemStatusResponse, error) {
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	bill, ok := s.ledger.UpdateItemStatus(req.BillID, req.ItemID, status)
	if !ok {
		return &UpdateItemStatusResponse{}, nil
	}
	return &UpdateItemStatusResponse{Bill: &bill, Updated: true}, nil
}

func (s *LedgerService) DeleteBill(ctx context.Context, req *DeleteBillRequest) (*DeleteResponse, error) {
	return &DeleteResponse{Deleted: s.ledger.DeleteBill(req.BillID)}, nil
}

func (s *LedgerService) ListBills(ctx context.Context, req *ListBillsRequest) (*BillsResponse, error) {
	bills := s.ledger.Bills()
	if req.Status == "" {
		return &BillsResponse{Bills: bills}, nil
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	filtered := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		if b.Status == status {
			filtered = append(filtered, b)
		}
	}
	return &BillsResponse{Bills: filtered}, nil
}

func (s *LedgerService) SearchBills(ctx context.Context, req *SearchBillsRequest) (*BillsResponse, error) {
	return &BillsResponse{Bills: s.ledger.Search(req.Term)}, nil
}

// ExportCSV renders the detailed report of the whole ledger.
func (s *LedgerService) ExportCSV(ctx context.Context, req *ExportCSVRequest) (*ExportCSVResponse, error) {
	return &ExportCSVResponse{
		Filename: export.Filename(s.settings.BusinessName, s.now()),
		CSV:      export.CSV(s.ledger.Bills()),
	}, nil
}

func (s *LedgerService) Summary(ctx context.Context, req *SummaryRequest) (*SummaryResponse, error) {
	days := req.Days
	if days < 0 || days > calculator.MaxSeriesDays {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("days must be between 0 and %d, got %d", calculator.MaxSeriesDays, days))
	}
	if days == 0 {
		days = defaultSummaryDays
	}

	sum := s.ledger.Summary(days)
	resp := &SummaryResponse{
		Revenue:   sum.Revenue,
		Pending:   sum.Pending,
		Expenses:  sum.Expenses,
		NetProfit: sum.NetProfit,
		Daily:     make([]DailyFigure, 0, len(sum.Daily)),
	}
	for _, d := range sum.Daily {
		resp.Daily = append(resp.Daily, DailyFigure{Date: d.Date, Revenue: d.Revenue, Expenses: d.Expenses})
	}
	return resp, nil
}

func (s *LedgerService) ListServices(ctx context.Context, req *ListServicesRequest) (*ServicesResponse, error) {
	return &ServicesResponse{Services: s.ledger.Services()}, nil
}

func (s *LedgerService) AddService(ctx context.Context, req *AddServiceRequest) (*ServiceResponse, error) {
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	svc, err := s.ledger.AddService(req.Name, req.Rate, category)
	if err != nil {
		return nil, toConnectError(err)
	}
	return &ServiceResponse{Service: svc}, nil
}

func (s *LedgerService) DeleteService(ctx context.Context, req *DeleteServiceRequest) (*DeleteResponse, error) {
	return &DeleteResponse{Deleted: s.ledger.DeleteService(req.ServiceID)}, nil
}

func (s *LedgerService) ListExpenses(ctx context.Context, req *ListExpensesRequest) (*ExpensesResponse, error) {
	return &ExpensesResponse{Expenses: s.ledger.Expenses()}, nil
}

func (s *LedgerService) AddExpense(ctx context.Context, req *AddExpenseRequest) (*ExpenseResponse, error) {
	e, err := s.ledger.AddExpense(req.Amount, req.Date, req.Description)
	if err != nil {
		return nil, toConnectError(err)
	}
	return &ExpenseResponse{Expense: e}, nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, req *DeleteExpenseRequest) (*DeleteResponse, error) {
	return &DeleteResponse{Deleted: s.ledger.DeleteExpense(req.ExpenseID)}, nil
}

func (s *LedgerService) ListPersonal(ctx context.Context, req *ListPersonalRequest) (*PersonalResponse, error) {
	return &PersonalResponse{Transactions: s.ledger.Personal()}, nil
}

func (s *LedgerService) AddPersonal(ctx context.Context, req *AddPersonalRequest) (*PersonalTransactionResponse, error) {
	t, err := s.ledger.AddPersonal(req.Amount, req.Date, req.Description, req.Category)
	if err != nil {
		return nil, toConnectError(err)
	}
	return &PersonalTransactionResponse{Transaction: t}, nil
}

func (s *LedgerService) DeletePersonal(ctx context.Context, req *DeletePersonalRequest) (*DeleteResponse, error) {
	return &DeleteResponse{Deleted: s.ledger.DeletePersonal(req.TransactionID)}, nil
}

// Reminder writes a payment reminder for a bill and the WhatsApp link that
// sends it.
func (s *LedgerService) Reminder(ctx context.Context, req *ReminderRequest) (*ReminderResponse, error) {
	bill, ok := s.ledger.Bill(req.BillID)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("bill %q not found", req.BillID))
	}
	msg := s.reminders.GenerateReminder(ctx, bill)
	return &ReminderResponse{
		Message: msg,
		Link:    reminder.WhatsAppLink(bill.CustomerPhone, s.settings.CountryCode, msg),
	}, nil
}

func (s *LedgerService) SyncStatus(ctx context.Context, req *SyncStatusRequest) (*SyncStatusResponse, error) {
	st := s.sync.Status()
	resp := &SyncStatusResponse{
		Syncing:    st.Syncing,
		BillsBytes: st.SlotBytes[persist.KeyBills],
	}
	if !st.LastSyncedAt.IsZero() {
		t := st.LastSyncedAt
		resp.LastSyncedAt = &t
	}
	if st.LastError != nil {
		resp.LastError = st.LastError.Error()
	}
	return resp, nil
}
