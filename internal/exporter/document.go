package exporter

import (
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"github.com/quimicinter/billing/internal/invoice/format"
	"github.com/quimicinter/billing/internal/providers/email"
	"github.com/quimicinter/billing/internal/providers/pdf"
)

// BuildDocument maps an invoice (with nested customer and item/product
// data) onto the PDF document layout.
func BuildDocument(company string, inv *invoicedomain.Invoice) pdf.Document {
	doc := pdf.Document{
		CompanyName:   company,
		TenantName:    inv.SchemaName,
		ReceiptNumber: receiptOrDraft(inv),
		IssueDate:     inv.IssueDate.Format("02/01/2006"),
		Status:        string(inv.Status),
		CustomerName:  inv.CustomerName(),
		Subtotal:      format.Currency(inv.Subtotal),
		Tax:           format.Currency(inv.TaxAmount),
		Total:         format.Currency(inv.TotalAmount),
	}
	if inv.Customer != nil {
		doc.CustomerRNC = inv.Customer.RNC
		doc.CustomerAddr = inv.Customer.Address
	}
	if inv.AmountPaid > 0 {
		doc.Paid = format.Currency(inv.AmountPaid)
	}
	for _, item := range inv.Items {
		line := pdf.Line{
			Quantity:  item.Quantity,
			UnitPrice: format.Currency(item.UnitPrice),
			Amount:    format.Currency(item.Amount),
		}
		if item.Product != nil {
			line.Description = item.Product.Name
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc
}

// BuildMail maps an invoice onto the notification mail payload.
func BuildMail(company string, inv *invoicedomain.Invoice) email.InvoiceMail {
	return email.InvoiceMail{
		CompanyName:   company,
		CustomerName:  inv.CustomerName(),
		ReceiptNumber: receiptOrDraft(inv),
		IssueDate:     inv.IssueDate.Format("02/01/2006"),
		Total:         format.Currency(inv.TotalAmount),
	}
}

func receiptOrDraft(inv *invoicedomain.Invoice) string {
	if ncf := inv.ReceiptNumber(); ncf != "" {
		return ncf
	}
	return "BORRADOR-" + inv.ID.String()
}
