package persist

import (
	"github.com/mmynk/flexledger/internal/ledger"
	"github.com/mmynk/flexledger/internal/license"
	"github.com/mmynk/flexledger/internal/models"
)

// LedgerSlots returns the five slots of an install in write order.
func LedgerSlots(l *ledger.Ledger, g *license.Gate) []Slot {
	return []Slot{
		JSONSlot(KeyBills, l.Bills, l.ReplaceBills,
			func() { l.ReplaceBills(nil) }),
		JSONSlot(KeyServices, l.Services, l.ReplaceServices,
			func() { l.ReplaceServices(models.DefaultServices()) }),
		JSONSlot(KeyExpenses, l.Expenses, l.ReplaceExpenses,
			func() { l.ReplaceExpenses(nil) }),
		JSONSlot(KeyPersonal, l.Personal, l.ReplacePersonal,
			func() { l.ReplacePersonal(nil) }),
		JSONSlot(KeySubscription, g.Subscription, g.Restore,
			g.Reset),
	}
}

// Bind wires the change hooks of l and g to s.
func Bind(s *Syncer, l *ledger.Ledger, g *license.Gate) {
	l.OnChange(s.Notify)
	g.OnChange(s.Notify)
}
