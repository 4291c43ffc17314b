package ledger

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/flexledger/internal/calculator"
	"github.com/mmynk/flexledger/internal/models"
)

// Service returns the catalog entry with the given ID.
func (l *Ledger) Service(serviceID string) (models.Service, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.services {
		if s.ID == serviceID {
			return s, true
		}
	}
	return models.Service{}, false
}

// Services returns a copy of the catalog.
func (l *Ledger) Services() []models.Service {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Service{}, l.services...)
}

// AddService appends a new catalog entry.
func (l *Ledger) AddService(name string, rate decimal.Decimal, category models.Category) (models.Service, error) {
	if strings.TrimSpace(name) == "" {
		return models.Service{}, newValidationError("name", "service name is required")
	}
	if category != models.CategoryArea && category != models.CategoryUnit {
		return models.Service{}, newValidationError("category", "category must be sqft or unit")
	}
	svc := models.Service{ID: uuid.NewString(), Name: name, Rate: rate, Category: category}

	l.mu.Lock()
	l.services = append(l.services, svc)
	l.mu.Unlock()

	l.changed()
	return svc, nil
}

// DeleteService removes a catalog entry. Items already on bills keep their
// snapshot of the service.
func (l *Ledger) DeleteService(serviceID string) bool {
	l.mu.Lock()
	removed := false
	for i, s := range l.services {
		if s.ID == serviceID {
			l.services = append(l.services[:i], l.services[i+1:]...)
			removed = true
			break
		}
	}
	l.mu.Unlock()

	if removed {
		l.changed()
	}
	return removed
}

// ReplaceServices swaps in a restored catalog without firing the change hook.
func (l *Ledger) ReplaceServices(services []models.Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append([]models.Service{}, services...)
}

// Expenses returns a copy of the expense list, newest first.
func (l *Ledger) Expenses() []models.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Expense{}, l.expenses...)
}

// AddExpense records an expense. An empty date defaults to today.
func (l *Ledger) AddExpense(amount decimal.Decimal, date, description string) (models.Expense, error) {
	if strings.TrimSpace(description) == "" {
		return models.Expense{}, newValidationError("description", "description is required")
	}
	e := models.Expense{
		ID:          uuid.NewString(),
		Amount:      amount,
		Date:        l.dateOrToday(date),
		Description: description,
	}

	l.mu.Lock()
	l.expenses = append([]models.Expense{e}, l.expenses...)
	l.mu.Unlock()

	l.changed()
	return e, nil
}

// DeleteExpense removes an expense by ID.
func (l *Ledger) DeleteExpense(expenseID string) bool {
	l.mu.Lock()
	removed := false
	for i, e := range l.expenses {
		if e.ID == expenseID {
			l.expenses = append(l.expenses[:i], l.expenses[i+1:]...)
			removed = true
			break
		}
	}
	l.mu.Unlock()

	if removed {
		l.changed()
	}
	return removed
}

// ReplaceExpenses swaps in restored expenses without firing the change hook.
func (l *Ledger) ReplaceExpenses(expenses []models.Expense) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expenses = append([]models.Expense{}, expenses...)
}

// Personal returns a copy of the personal transactions, newest first.
func (l *Ledger) Personal() []models.PersonalTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.PersonalTransaction{}, l.personal...)
}

// AddPersonal records a personal transaction. An empty date defaults to today.
func (l *Ledger) AddPersonal(amount decimal.Decimal, date, description, category string) (models.PersonalTransaction, error) {
	if strings.TrimSpace(description) == "" {
		return models.PersonalTransaction{}, newValidationError("description", "description is required")
	}
	t := models.PersonalTransaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Date:        l.dateOrToday(date),
		Description: description,
		Category:    category,
	}

	l.mu.Lock()
	l.personal = append([]models.PersonalTransaction{t}, l.personal...)
	l.mu.Unlock()

	l.changed()
	return t, nil
}

// DeletePersonal removes a personal transaction by ID.
func (l *Ledger) DeletePersonal(txID string) bool {
	l.mu.Lock()
	removed := false
	for i, t := range l.personal {
		if t.ID == txID {
			l.personal = append(l.personal[:i], l.personal[i+1:]...)
			removed = true
			break
		}
	}
	l.mu.Unlock()

	if removed {
		l.changed()
	}
	return removed
}

// ReplacePersonal swaps in restored transactions without firing the change hook.
func (l *Ledger) ReplacePersonal(txs []models.PersonalTransaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.personal = append([]models.PersonalTransaction{}, txs...)
}

func (l *Ledger) dateOrToday(date string) string {
	if date != "" {
		return date
	}
	return l.now().Format(calculator.DateLayout)
}
