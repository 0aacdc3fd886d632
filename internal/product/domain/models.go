package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Product struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	SchemaName string            `gorm:"type:text;not null;index" json:"schema_name"`
	Code       string            `gorm:"type:text;not null" json:"code"`
	Name       string            `gorm:"not null" json:"name"`
	// UnitPrice is in minor currency units (centavos).
	UnitPrice int64             `gorm:"not null;default:0" json:"unit_price"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
