// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/quimicinter/billing/internal/customer/domain"
	productdomain "github.com/quimicinter/billing/internal/product/domain"
	"gorm.io/datatypes"
)

// Status represents invoice lifecycle states. A draft may be edited or
// deleted; issuing freezes everything except payment status and voiding.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusIssued Status = "issued"
	StatusVoided Status = "voided"
)

// PaymentStatus tracks how much of an issued invoice has been settled.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// StatusRank orders lifecycle states for sorting: draft < issued < voided.
var StatusRank = map[Status]int{
	StatusDraft:  0,
	StatusIssued: 1,
	StatusVoided: 2,
}

// PaymentStatusRank orders payment states: pending < partial < paid.
var PaymentStatusRank = map[PaymentStatus]int{
	PaymentPending: 0,
	PaymentPartial: 1,
	PaymentPaid:    2,
}

// Invoice represents a fiscal invoice. Amounts are minor currency units.
type Invoice struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	SchemaName string       `gorm:"type:text;not null;index;uniqueIndex:ux_invoices_ncf,priority:1" json:"schema_name"`
	// NCF is the sequential fiscal receipt number the issuing schema
	// assigns. Sequences run per schema, so uniqueness is per schema too.
	NCF           *string                  `gorm:"column:ncf;type:text;uniqueIndex:ux_invoices_ncf,priority:2" json:"ncf,omitempty"`
	CustomerID    snowflake.ID             `gorm:"not null;index" json:"customer_id"`
	Customer      *customerdomain.Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	IssueDate     time.Time                `gorm:"not null" json:"issue_date"`
	Items         []InvoiceItem            `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Subtotal      int64                    `gorm:"not null;default:0" json:"subtotal"`
	TaxAmount     int64                    `gorm:"not null;default:0" json:"tax_amount"`
	TotalAmount   int64                    `gorm:"not null;default:0" json:"total_amount"`
	AmountPaid    int64                    `gorm:"not null;default:0" json:"amount_paid"`
	Status        Status                   `gorm:"type:text;not null;default:'draft'" json:"status"`
	PaymentStatus PaymentStatus            `gorm:"type:text;not null;default:'pending'" json:"payment_status"`
	Metadata      datatypes.JSONMap        `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt     time.Time                `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time                `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem represents a line on an invoice.
type InvoiceItem struct {
	ID        snowflake.ID           `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID           `gorm:"not null;index" json:"invoice_id"`
	ProductID snowflake.ID           `gorm:"not null;index" json:"product_id"`
	Product   *productdomain.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int64                  `gorm:"not null" json:"quantity"`
	UnitPrice int64                  `gorm:"not null" json:"unit_price"`
	Amount    int64                  `gorm:"not null" json:"amount"`
	CreatedAt time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// CustomerName returns the nested customer name, if loaded.
func (i Invoice) CustomerName() string {
	if i.Customer == nil {
		return ""
	}
	return i.Customer.Name
}

// ReceiptNumber returns the NCF or empty for drafts.
func (i Invoice) ReceiptNumber() string {
	if i.NCF == nil {
		return ""
	}
	return *i.NCF
}
