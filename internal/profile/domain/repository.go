package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Upsert inserts the profile or, on (user_id, schema_name) conflict,
	// updates email, full name, role, status and updated_at. created_at is
	// never touched on conflict.
	Upsert(ctx context.Context, db *gorm.DB, profile *Profile) error

	// FindAnyByUser returns one profile for the identity regardless of
	// schema. Which schema's row wins is unspecified; role is consistent
	// across an administrator's replicas, so any row suffices.
	FindAnyByUser(ctx context.Context, db *gorm.DB, userID string) (*Profile, error)

	FindByUserAndSchema(ctx context.Context, db *gorm.DB, userID, schemaName string) (*Profile, error)

	// CountBySchema counts profiles provisioned into a schema.
	CountBySchema(ctx context.Context, db *gorm.DB, schemaName string) (int64, error)
}
