package invoicelist

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/quimicinter/billing/internal/customer/domain"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func inv(id int64, status invoicedomain.Status, payment invoicedomain.PaymentStatus, issued time.Time) invoicedomain.Invoice {
	return invoicedomain.Invoice{
		ID:            snowflake.ID(id),
		Status:        status,
		PaymentStatus: payment,
		IssueDate:     issued,
	}
}

func sample() []invoicedomain.Invoice {
	return []invoicedomain.Invoice{
		inv(1, invoicedomain.StatusDraft, invoicedomain.PaymentPending, now),
		inv(2, invoicedomain.StatusIssued, invoicedomain.PaymentPaid, now),
		inv(3, invoicedomain.StatusIssued, invoicedomain.PaymentPartial, now.AddDate(0, -1, 0)),
		inv(4, invoicedomain.StatusVoided, invoicedomain.PaymentPending, now),
	}
}

func ids(invoices []invoicedomain.Invoice) []int64 {
	out := make([]int64, 0, len(invoices))
	for _, i := range invoices {
		out = append(out, int64(i.ID))
	}
	return out
}

func TestDefaultFilterExcludesVoided(t *testing.T) {
	got := Apply(sample(), Query{}, now)
	assert.ElementsMatch(t, []int64{1, 2, 3}, ids(got))
	for _, i := range got {
		assert.NotEqual(t, invoicedomain.StatusVoided, i.Status)
	}
}

func TestDraftPendingAbsentFromPaidPresentInDefault(t *testing.T) {
	draft := inv(10, invoicedomain.StatusDraft, invoicedomain.PaymentPending, now)
	data := append(sample(), draft)

	paid := Apply(data, Query{Category: CategoryPaid}, now)
	assert.NotContains(t, ids(paid), int64(10))
	assert.Equal(t, []int64{2}, ids(paid))

	def := Apply(data, Query{}, now)
	assert.Contains(t, ids(def), int64(10))
}

func TestCategoryFilters(t *testing.T) {
	data := sample()

	assert.Equal(t, []int64{1}, ids(Apply(data, Query{Category: CategoryDraft}, now)))
	assert.Equal(t, []int64{4}, ids(Apply(data, Query{Category: CategoryVoided}, now)))
	assert.Equal(t, []int64{3}, ids(Apply(data, Query{Category: CategoryPending}, now)))
	assert.Len(t, Apply(data, Query{Category: CategoryAll}, now), 4)
	// month-issued: issued this calendar month only.
	assert.Equal(t, []int64{2}, ids(Apply(data, Query{Category: CategoryMonth}, now)))
}

func TestDateRangeFilter(t *testing.T) {
	from := now.AddDate(0, -1, -1)
	to := now.AddDate(0, 0, -1)
	got := Apply(sample(), Query{From: &from, To: &to}, now)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestCategoryAndDateRangeAreMutuallyExclusive(t *testing.T) {
	from := now.AddDate(0, -2, 0)
	q := Query{Page: 4}.WithDateRange(&from, nil)
	assert.Equal(t, CategoryNone, q.Category)
	assert.Equal(t, 1, q.Page)

	q = q.WithCategory(CategoryPaid)
	assert.Nil(t, q.From)
	assert.Nil(t, q.To)
	assert.Equal(t, CategoryPaid, q.Category)
	assert.Equal(t, 1, q.Page)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	ncf := "B0100000042"
	data := []invoicedomain.Invoice{
		{
			ID:       snowflake.ID(1),
			Status:   invoicedomain.StatusIssued,
			NCF:      &ncf,
			Customer: &customerdomain.Customer{Name: "Industrias Pérez"},
		},
		{
			ID:       snowflake.ID(2),
			Status:   invoicedomain.StatusIssued,
			Customer: &customerdomain.Customer{Name: "Farmacia Central"},
		},
	}

	assert.Equal(t, []int64{1}, ids(Apply(data, Query{Search: "b01000"}, now)))
	assert.Equal(t, []int64{1}, ids(Apply(data, Query{Search: "PÉREZ"}, now)))
	assert.Equal(t, []int64{2}, ids(Apply(data, Query{Search: "central"}, now)))
	assert.Empty(t, Apply(data, Query{Search: "no-match"}, now))
}

func TestSortByStatusUsesRankTable(t *testing.T) {
	data := []invoicedomain.Invoice{
		inv(1, invoicedomain.StatusVoided, invoicedomain.PaymentPending, now),
		inv(2, invoicedomain.StatusDraft, invoicedomain.PaymentPending, now),
		inv(3, invoicedomain.StatusIssued, invoicedomain.PaymentPending, now),
	}

	asc := Apply(data, Query{Category: CategoryAll, Sort: ColumnStatus}, now)
	assert.Equal(t, []int64{2, 3, 1}, ids(asc))
}

func TestToggledSortIsExactReverse(t *testing.T) {
	// Two issued invoices tie on status rank; the descending order must be
	// the exact reverse of ascending, ties included.
	data := []invoicedomain.Invoice{
		inv(1, invoicedomain.StatusIssued, invoicedomain.PaymentPending, now),
		inv(2, invoicedomain.StatusDraft, invoicedomain.PaymentPending, now),
		inv(3, invoicedomain.StatusIssued, invoicedomain.PaymentPending, now),
		inv(4, invoicedomain.StatusVoided, invoicedomain.PaymentPending, now),
	}

	asc := Apply(data, Query{Category: CategoryAll, Sort: ColumnStatus}, now)
	desc := Apply(data, Query{Category: CategoryAll, Sort: ColumnStatus, Desc: true}, now)

	require.Equal(t, []int64{2, 1, 3, 4}, ids(asc))
	reversed := make([]int64, 0, len(asc))
	for i := len(asc) - 1; i >= 0; i-- {
		reversed = append(reversed, int64(asc[i].ID))
	}
	assert.Equal(t, reversed, ids(desc))
}

func TestStableSortPreservesTieOrder(t *testing.T) {
	// All tie on total; input order must survive the sort.
	data := []invoicedomain.Invoice{
		inv(7, invoicedomain.StatusIssued, invoicedomain.PaymentPending, now),
		inv(5, invoicedomain.StatusIssued, invoicedomain.PaymentPending, now),
		inv(9, invoicedomain.StatusIssued, invoicedomain.PaymentPending, now),
	}
	got := Apply(data, Query{Sort: ColumnTotal}, now)
	assert.Equal(t, []int64{7, 5, 9}, ids(got))
}

func TestSortToggleOnSameColumn(t *testing.T) {
	q := Query{}.WithSort(ColumnIssueDate)
	assert.False(t, q.Desc)
	q = q.WithSort(ColumnIssueDate)
	assert.True(t, q.Desc)
	q = q.WithSort(ColumnTotal)
	assert.False(t, q.Desc)
	assert.Equal(t, ColumnTotal, q.Sort)
}
