// Package invoicelist implements the invoice list view-model: in-memory
// filtering, searching, sorting and pagination over a full fetch, plus
// monthly summary statistics. The backend returns the whole tenant's
// invoice set; every refinement happens here.
package invoicelist

import (
	"sort"
	"strings"
	"time"

	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
)

// Category is a mutually exclusive list filter. Selecting one clears any
// active date range and vice versa.
type Category string

const (
	// CategoryNone is the default view: drafts and issued invoices,
	// voided excluded.
	CategoryNone    Category = ""
	CategoryMonth   Category = "month"
	CategoryDraft   Category = "draft"
	CategoryPaid    Category = "paid"
	CategoryPending Category = "pending"
	CategoryVoided  Category = "voided"
	CategoryAll     Category = "all"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryNone, CategoryMonth, CategoryDraft, CategoryPaid,
		CategoryPending, CategoryVoided, CategoryAll:
		return true
	}
	return false
}

// Column identifies a sortable list column.
type Column string

const (
	ColumnNCF           Column = "ncf"
	ColumnCustomer      Column = "customer"
	ColumnIssueDate     Column = "issue_date"
	ColumnSubtotal      Column = "subtotal"
	ColumnTotal         Column = "total"
	ColumnStatus        Column = "status"
	ColumnPaymentStatus Column = "payment_status"
)

// Query is the full view-model state driving one rendering of the list.
type Query struct {
	Category Category   `form:"category" json:"category"`
	From     *time.Time `form:"from" json:"from,omitempty"`
	To       *time.Time `form:"to" json:"to,omitempty"`
	Search   string     `form:"q" json:"q,omitempty"`
	Sort     Column     `form:"sort" json:"sort,omitempty"`
	Desc     bool       `form:"desc" json:"desc,omitempty"`
	Page     int        `form:"page" json:"page"`
}

// WithCategory activates a category filter, clearing any date range and
// resetting to the first page.
func (q Query) WithCategory(c Category) Query {
	q.Category = c
	q.From, q.To = nil, nil
	q.Page = 1
	return q
}

// WithDateRange activates a date-range filter, clearing the category and
// resetting to the first page. Nil bounds leave that side open.
func (q Query) WithDateRange(from, to *time.Time) Query {
	q.From, q.To = from, to
	q.Category = CategoryNone
	q.Page = 1
	return q
}

// WithSearch narrows the list by a search term and resets to the first page.
func (q Query) WithSearch(term string) Query {
	q.Search = term
	q.Page = 1
	return q
}

// WithSort sorts by col ascending; sorting by the current column again
// toggles the direction.
func (q Query) WithSort(col Column) Query {
	if q.Sort == col {
		q.Desc = !q.Desc
	} else {
		q.Sort = col
		q.Desc = false
	}
	return q
}

// filterEqual reports whether two queries select the same subset. Sort and
// page are presentation, not selection.
func filterEqual(a, b Query) bool {
	return a.Category == b.Category &&
		timePtrEqual(a.From, b.From) &&
		timePtrEqual(a.To, b.To) &&
		a.Search == b.Search
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Apply runs the filter → search → sort pipeline over invoices and returns
// a new slice. now anchors the "current month" category.
func Apply(invoices []invoicedomain.Invoice, q Query, now time.Time) []invoicedomain.Invoice {
	out := make([]invoicedomain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if !matches(inv, q, now) {
			continue
		}
		out = append(out, inv)
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		narrowed := out[:0]
		for _, inv := range out {
			if strings.Contains(strings.ToLower(inv.ReceiptNumber()), term) ||
				strings.Contains(strings.ToLower(inv.CustomerName()), term) {
				narrowed = append(narrowed, inv)
			}
		}
		out = narrowed
	}
	sortInvoices(out, q.Sort, q.Desc)
	return out
}

func matches(inv invoicedomain.Invoice, q Query, now time.Time) bool {
	if q.From != nil || q.To != nil {
		if q.From != nil && inv.IssueDate.Before(*q.From) {
			return false
		}
		if q.To != nil && inv.IssueDate.After(*q.To) {
			return false
		}
		return true
	}

	switch q.Category {
	case CategoryAll:
		return true
	case CategoryMonth:
		return inv.Status == invoicedomain.StatusIssued && sameMonth(inv.IssueDate, now)
	case CategoryDraft:
		return inv.Status == invoicedomain.StatusDraft
	case CategoryVoided:
		return inv.Status == invoicedomain.StatusVoided
	case CategoryPaid:
		return inv.Status == invoicedomain.StatusIssued &&
			inv.PaymentStatus == invoicedomain.PaymentPaid
	case CategoryPending:
		// Partial payments still owe money, so they count as pending.
		return inv.Status == invoicedomain.StatusIssued &&
			inv.PaymentStatus != invoicedomain.PaymentPaid
	default:
		return inv.Status == invoicedomain.StatusDraft ||
			inv.Status == invoicedomain.StatusIssued
	}
}

func sameMonth(t, ref time.Time) bool {
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

// sortInvoices sorts ascending with a stable sort, then reverses for
// descending so the toggled direction is the exact reverse ordering,
// ties included.
func sortInvoices(invoices []invoicedomain.Invoice, col Column, desc bool) {
	if col == "" {
		return
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		return less(invoices[i], invoices[j], col)
	})
	if desc {
		for i, j := 0, len(invoices)-1; i < j; i, j = i+1, j-1 {
			invoices[i], invoices[j] = invoices[j], invoices[i]
		}
	}
}

func less(a, b invoicedomain.Invoice, col Column) bool {
	switch col {
	case ColumnNCF:
		return a.ReceiptNumber() < b.ReceiptNumber()
	case ColumnCustomer:
		return a.CustomerName() < b.CustomerName()
	case ColumnIssueDate:
		return a.IssueDate.Before(b.IssueDate)
	case ColumnSubtotal:
		return a.Subtotal < b.Subtotal
	case ColumnTotal:
		return a.TotalAmount < b.TotalAmount
	case ColumnStatus:
		return invoicedomain.StatusRank[a.Status] < invoicedomain.StatusRank[b.Status]
	case ColumnPaymentStatus:
		return invoicedomain.PaymentStatusRank[a.PaymentStatus] < invoicedomain.PaymentStatusRank[b.PaymentStatus]
	default:
		return false
	}
}
