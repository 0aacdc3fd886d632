package invoicelist

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
)

// ProductRevenue ranks a product by its invoiced revenue within the month.
type ProductRevenue struct {
	ProductID snowflake.ID `json:"product_id"`
	Name      string       `json:"name"`
	Revenue   int64        `json:"revenue"`
}

// MonthlyStats summarizes the current calendar month. It is computed from
// the full unfiltered invoice set, independent of any active list filter.
type MonthlyStats struct {
	Month                string                               `json:"month"`
	CountByStatus        map[invoicedomain.Status]int         `json:"count_by_status"`
	TotalByStatus        map[invoicedomain.Status]int64       `json:"total_by_status"`
	CountByPaymentStatus map[invoicedomain.PaymentStatus]int  `json:"count_by_payment_status"`
	AmountPaid           int64                                `json:"amount_paid"`
	AmountOutstanding    int64                                `json:"amount_outstanding"`
	TopProducts          []ProductRevenue                     `json:"top_products"`
}

const topProductLimit = 3

// ComputeStats buckets invoices issued (or drafted) in the calendar month
// of now by status and payment status, and ranks the top products by line
// revenue across every invoice of that month.
func ComputeStats(invoices []invoicedomain.Invoice, now time.Time) MonthlyStats {
	stats := MonthlyStats{
		Month:                now.Format("2006-01"),
		CountByStatus:        map[invoicedomain.Status]int{},
		TotalByStatus:        map[invoicedomain.Status]int64{},
		CountByPaymentStatus: map[invoicedomain.PaymentStatus]int{},
	}

	revenue := map[snowflake.ID]*ProductRevenue{}
	for _, inv := range invoices {
		if !sameMonth(inv.IssueDate, now) {
			continue
		}
		stats.CountByStatus[inv.Status]++
		stats.TotalByStatus[inv.Status] += inv.TotalAmount
		stats.CountByPaymentStatus[inv.PaymentStatus]++
		if inv.Status == invoicedomain.StatusIssued {
			stats.AmountPaid += inv.AmountPaid
			stats.AmountOutstanding += inv.TotalAmount - inv.AmountPaid
		}
		for _, item := range inv.Items {
			entry, ok := revenue[item.ProductID]
			if !ok {
				entry = &ProductRevenue{ProductID: item.ProductID}
				if item.Product != nil {
					entry.Name = item.Product.Name
				}
				revenue[item.ProductID] = entry
			}
			entry.Revenue += item.Amount
		}
	}

	ranked := make([]ProductRevenue, 0, len(revenue))
	for _, entry := range revenue {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > topProductLimit {
		ranked = ranked[:topProductLimit]
	}
	stats.TopProducts = ranked

	return stats
}
