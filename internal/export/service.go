// Package export renders settlement results as shareable text or CSV. It is
// pure formatting over engine output.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yudhap/patungan/internal/settlement"
	"github.com/yudhap/patungan/pkg/currency"
)

// Service formats settlement results
type Service struct{}

// NewService creates a new export service
func NewService() *Service {
	return &Service{}
}

// Text renders a plain-text settlement summary suitable for sharing in chat.
func (s *Service) Text(session *settlement.Session, result *settlement.Result, transfers []settlement.Transfer) string {
	code := session.Currency
	var b strings.Builder

	fmt.Fprintf(&b, "Bill summary — %s\n", session.Location)
	if session.StartDate != "" {
		fmt.Fprintf(&b, "Date: %s", session.StartDate)
		if session.EndDate != "" && session.EndDate != session.StartDate {
			fmt.Fprintf(&b, " to %s", session.EndDate)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Total cost: %s\n", currency.Format(result.Totals.TotalCost, code))
	fmt.Fprintf(&b, "Advance paid: %s\n", currency.Format(result.Totals.TotalAdvance, code))
	fmt.Fprintf(&b, "Per person: %s (%d members, %d items)\n\n",
		currency.Format(result.Totals.CostPerPerson, code),
		result.Totals.MemberCount, result.Totals.TotalItems)

	for _, m := range result.Members {
		fmt.Fprintf(&b, "%s — spent %s, advance %s: ",
			m.Name,
			currency.Format(m.TotalSpent, code),
			currency.Format(m.Advance, code))
		switch m.Status {
		case settlement.StatusNeedsToPay:
			fmt.Fprintf(&b, "pays %s\n", currency.Format(m.FinalAmount, code))
		case settlement.StatusGetsRefund:
			fmt.Fprintf(&b, "gets back %s\n", currency.Format(m.FinalAmount, code))
		default:
			b.WriteString("settled\n")
		}
	}

	if len(transfers) > 0 {
		b.WriteString("\nSuggested payments:\n")
		for _, t := range transfers {
			fmt.Fprintf(&b, "%s pays %s to %s\n", t.From, currency.Format(t.Amount, code), t.To)
		}
	}

	return b.String()
}

// WriteCSV streams the settlement result as CSV rows: one row per member
// followed by a totals row.
func (s *Service) WriteCSV(w io.Writer, result *settlement.Result) error {
	writer := csv.NewWriter(w)

	header := []string{"name", "total_spent", "item_count", "advance", "amount_per_person", "final_amount", "status"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, m := range result.Members {
		row := []string{
			m.Name,
			formatAmount(m.TotalSpent),
			strconv.Itoa(m.ItemCount),
			formatAmount(m.Advance),
			formatAmount(m.AmountPerPerson),
			formatAmount(m.FinalAmount),
			string(m.Status),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	totals := []string{
		"TOTAL",
		formatAmount(result.Totals.TotalCost),
		strconv.Itoa(result.Totals.TotalItems),
		formatAmount(result.Totals.TotalAdvance),
		formatAmount(result.Totals.CostPerPerson),
		formatAmount(result.Totals.RemainingBalance),
		"",
	}
	if err := writer.Write(totals); err != nil {
		return fmt.Errorf("failed to write csv totals: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
