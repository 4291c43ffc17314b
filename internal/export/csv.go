// Package export renders the ledger as the detailed CSV report.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/flexledger/internal/calculator"
	"github.com/mmynk/flexledger/internal/models"
)

// Header is the first line of every report.
const Header = "Invoice ID,Date,Time,Customer Name,Contact,Item Service,Width (ft),Height (ft),Sqft/Unit,Rate,Qty,Item Amount,Item Payment,Grand Total,Bill Status,Office Notes"

// CSV renders one row per (bill, item) pair, bills in ledger order and items
// in item order. Bill fields repeat on every row of the bill. A bill with no
// items contributes no rows.
func CSV(bills []models.Bill) string {
	var sb strings.Builder
	sb.WriteString(Header)
	for _, b := range bills {
		for _, item := range b.Items {
			sb.WriteByte('\n')
			writeRow(&sb, b, item)
		}
	}
	return sb.String()
}

// WriteCSV writes the report to w.
func WriteCSV(w io.Writer, bills []models.Bill) error {
	if _, err := io.WriteString(w, CSV(bills)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Filename is the suggested report name for the given business and day.
func Filename(business string, now time.Time) string {
	return fmt.Sprintf("%s_Detailed_Report_%s.csv", business, now.Format(calculator.DateLayout))
}

func writeRow(sb *strings.Builder, b models.Bill, item models.BillItem) {
	fields := []string{
		quote(b.ID),
		quote(b.Date),
		quote(b.Time),
		quote(b.CustomerName),
		quote(b.CustomerPhone),
		quote(item.ServiceName),
		item.Width.String(),
		item.Height.String(),
		item.Area.StringFixed(2),
		item.Rate.String(),
		strconv.Itoa(item.Quantity),
		item.Amount.String(),
		quote(string(item.Status)),
		b.TotalAmount.String(),
		quote(string(b.Status)),
		quote(b.Notes),
	}
	sb.WriteString(strings.Join(fields, ","))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
