package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	// Save persists header mutations (status, payment, totals).
	Save(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	ReplaceItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, items []InvoiceItem) error
	Delete(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
	// FindByID loads one invoice with nested customer and item/product data.
	FindByID(ctx context.Context, db *gorm.DB, schemaName string, id snowflake.ID) (*Invoice, error)
	// ListAll loads every invoice of a schema with nested data.
	ListAll(ctx context.Context, db *gorm.DB, schemaName string) ([]Invoice, error)
}
