// Package ncf allocates sequential fiscal receipt numbers (NCF), which
// Dominican invoicing law requires to be gapless and monotonic per series.
package ncf

import (
	"context"
	"time"

	"github.com/quimicinter/billing/internal/invoice/format"
	"github.com/quimicinter/billing/pkg/db"
	"gorm.io/gorm"
)

// Sequence is the per-schema counter backing NCF allocation.
type Sequence struct {
	SchemaName string    `gorm:"primaryKey;type:text" json:"schema_name"`
	Series     string    `gorm:"primaryKey;type:text" json:"series"`
	NextValue  int64     `gorm:"not null;default:1" json:"next_value"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Sequence) TableName() string { return "ncf_sequences" }

type Allocator struct {
	series string
}

func NewAllocator(series string) *Allocator {
	if series == "" {
		series = "B01"
	}
	return &Allocator{series: series}
}

// Next allocates the next NCF for a schema inside the caller's transaction.
// The UPDATE takes the row lock, so concurrent issuers serialize on it; the
// counter row is created lazily on first allocation.
func (a *Allocator) Next(ctx context.Context, tx *gorm.DB, schemaName string) (string, error) {
	for {
		res := tx.WithContext(ctx).
			Model(&Sequence{}).
			Where("schema_name = ? AND series = ?", schemaName, a.series).
			Update("next_value", gorm.Expr("next_value + 1"))
		if res.Error != nil {
			return "", res.Error
		}
		if res.RowsAffected > 0 {
			var seq Sequence
			if err := tx.WithContext(ctx).
				Where("schema_name = ? AND series = ?", schemaName, a.series).
				First(&seq).Error; err != nil {
				return "", err
			}
			return format.NCF(a.series, seq.NextValue-1), nil
		}

		err := tx.WithContext(ctx).Create(&Sequence{
			SchemaName: schemaName,
			Series:     a.series,
			NextValue:  2,
		}).Error
		if err == nil {
			return format.NCF(a.series, 1), nil
		}
		if db.IsDuplicateKeyErr(err) {
			// Lost the insert race; the row exists now, take the update path.
			continue
		}
		return "", err
	}
}
