package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/quimicinter/billing/internal/customer/domain"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	ncf := "B0100000007"
	invoices := []invoicedomain.Invoice{
		{
			ID:            snowflake.ID(1),
			NCF:           &ncf,
			Customer:      &customerdomain.Customer{Name: "Industrias Pérez"},
			IssueDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Status:        invoicedomain.StatusIssued,
			PaymentStatus: invoicedomain.PaymentPartial,
			Subtotal:      100000,
			TaxAmount:     18000,
			TotalAmount:   118000,
			AmountPaid:    50000,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, invoices))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"B0100000007", "Industrias Pérez", "2025-03-10", "issued", "partial",
		"RD$1,000.00", "RD$180.00", "RD$1,180.00", "RD$500.00",
	}, records[1])
}

func TestWriteCSVEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestBuildDocumentFallsBackForDrafts(t *testing.T) {
	inv := &invoicedomain.Invoice{
		ID:        snowflake.ID(42),
		Status:    invoicedomain.StatusDraft,
		IssueDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	doc := BuildDocument("Quimicinter S.A.", inv)
	assert.Equal(t, "BORRADOR-42", doc.ReceiptNumber)
	assert.Equal(t, "Quimicinter S.A.", doc.CompanyName)
	assert.Equal(t, "10/03/2025", doc.IssueDate)
}
