package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, schemaName string, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, schemaName string, filter ListCustomerFilter) ([]*Customer, error)
}
