package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/flexledger/internal/models"
)

const (
	// DateLayout is the calendar date format used on bills and expenses.
	DateLayout = "2006-01-02"

	// MaxSeriesDays bounds the daily series of a summary.
	MaxSeriesDays = 366
)

// DailyFigure is paid revenue and expenses recorded on one date.
type DailyFigure struct {
	Date     string
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
}

// Summary is the finance overview of the ledger.
type Summary struct {
	Revenue   decimal.Decimal // Sum of Paid item amounts
	Pending   decimal.Decimal // Sum of Pending item amounts
	Expenses  decimal.Decimal // Sum of all expenses
	NetProfit decimal.Decimal // Revenue - Expenses
	Daily     []DailyFigure   // Oldest first, ending today
}

// Summarize computes totals across bills and expenses, plus a per-day series
// covering the last `days` days up to and including today, at most
// MaxSeriesDays.
//
// Revenue is counted per item, so a partially paid bill contributes its paid
// items to Revenue and the rest to Pending.
func Summarize(bills []models.Bill, expenses []models.Expense, today time.Time, days int) Summary {
	s := Summary{
		Revenue:  decimal.Zero,
		Pending:  decimal.Zero,
		Expenses: decimal.Zero,
	}

	revenueByDate := make(map[string]decimal.Decimal)
	expensesByDate := make(map[string]decimal.Decimal)

	for _, bill := range bills {
		for _, item := range bill.Items {
			switch item.Status {
			case models.StatusPaid:
				s.Revenue = s.Revenue.Add(item.Amount)
				revenueByDate[bill.Date] = revenueByDate[bill.Date].Add(item.Amount)
			default:
				s.Pending = s.Pending.Add(item.Amount)
			}
		}
	}

	for _, e := range expenses {
		s.Expenses = s.Expenses.Add(e.Amount)
		expensesByDate[e.Date] = expensesByDate[e.Date].Add(e.Amount)
	}

	s.NetProfit = s.Revenue.Sub(s.Expenses)

	days = min(days, MaxSeriesDays)

	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateLayout)
		s.Daily = append(s.Daily, DailyFigure{
			Date:     date,
			Revenue:  revenueByDate[date],
			Expenses: expensesByDate[date],
		})
	}

	return s
}
