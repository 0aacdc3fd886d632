package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Customer struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	SchemaName string            `gorm:"type:text;not null;index" json:"schema_name"`
	Name       string            `gorm:"not null" json:"name"`
	Email      string            `gorm:"type:text" json:"email"`
	RNC        string            `gorm:"column:rnc;type:text" json:"rnc,omitempty"`
	Phone      string            `gorm:"type:text" json:"phone,omitempty"`
	Address    string            `gorm:"type:text" json:"address,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }
