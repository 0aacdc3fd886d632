package domain

import (
	"context"
	"errors"
	"time"
)

type LineItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	// UnitPrice overrides the catalog price when positive.
	UnitPrice int64 `json:"unit_price"`
}

type CreateInvoiceRequest struct {
	CustomerID string          `json:"customer_id"`
	IssueDate  *time.Time      `json:"issue_date"`
	Items      []LineItemInput `json:"items"`
}

type UpdateInvoiceRequest struct {
	CustomerID string          `json:"customer_id"`
	IssueDate  *time.Time      `json:"issue_date"`
	Items      []LineItemInput `json:"items"`
}

type RecordPaymentRequest struct {
	// Amount is in minor currency units.
	Amount int64 `json:"amount"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	// Update replaces draft content. Issued and voided invoices are
	// immutable except for payment status and voiding.
	Update(ctx context.Context, id string, req UpdateInvoiceRequest) (*Invoice, error)
	// Delete removes a draft permanently. Irreversible.
	Delete(ctx context.Context, id string) error
	// Issue transitions draft to issued and allocates the NCF.
	Issue(ctx context.Context, id string) (*Invoice, error)
	Void(ctx context.Context, id string) (*Invoice, error)
	RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (*Invoice, error)
	GetByID(ctx context.Context, id string) (*Invoice, error)
	// ListAll returns every invoice of the active schema with nested
	// customer and item/product data. Filtering happens after retrieval.
	ListAll(ctx context.Context) ([]Invoice, error)
}

var (
	ErrInvalidSchema   = errors.New("invalid_schema")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidItems    = errors.New("invalid_items")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrNotFound        = errors.New("not_found")
	ErrNotDraft        = errors.New("invoice_not_draft")
	ErrNotIssued       = errors.New("invoice_not_issued")
	ErrAlreadyVoided   = errors.New("invoice_already_voided")
)
