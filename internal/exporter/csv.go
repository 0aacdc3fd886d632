// Package exporter turns invoices into downloadable artifacts: CSV for
// the filtered list, PDF documents and notification mails for single
// invoices.
package exporter

import (
	"encoding/csv"
	"io"

	"github.com/quimicinter/billing/internal/invoice/format"

	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
)

var csvHeader = []string{
	"ncf", "customer", "issue_date", "status", "payment_status",
	"subtotal", "tax", "total", "amount_paid",
}

// WriteCSV streams the invoice list as CSV. Amounts are formatted as
// display currency to match what the list screen shows.
func WriteCSV(w io.Writer, invoices []invoicedomain.Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, inv := range invoices {
		record := []string{
			inv.ReceiptNumber(),
			inv.CustomerName(),
			inv.IssueDate.Format("2006-01-02"),
			string(inv.Status),
			string(inv.PaymentStatus),
			format.Currency(inv.Subtotal),
			format.Currency(inv.TaxAmount),
			format.Currency(inv.TotalAmount),
			format.Currency(inv.AmountPaid),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
